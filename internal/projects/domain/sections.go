package domain

// Section describes one Markdown body field of a project.
type Section struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Emoji string `json:"emoji"`
}

// Sections lists the body fields in display order.
var Sections = []Section{
	{Key: "objective", Title: "Objectif", Emoji: "🎯"},
	{Key: "structure", Title: "Structure attendue", Emoji: "📂"},
	{Key: "features", Title: "Fonctionnalités", Emoji: "⚙️"},
	{Key: "constraints", Title: "Contraintes techniques", Emoji: "🛡️"},
	{Key: "testing", Title: "Mode de test", Emoji: "🧪"},
	{Key: "success_criteria", Title: "Critères de réussite", Emoji: "🎯"},
}

// SectionText returns the Markdown body stored under a section key.
func (p Project) SectionText(key string) string {
	switch key {
	case "objective":
		return p.Objective
	case "structure":
		return p.Structure
	case "features":
		return p.Features
	case "constraints":
		return p.Constraints
	case "testing":
		return p.Testing
	case "success_criteria":
		return p.SuccessCriteria
	}
	return ""
}
