package domain

import "time"

// Project is a single project specification ("cahier des charges"): a title,
// a short description and six Markdown body sections.
// It is storage-agnostic and shared by the repository, service and HTTP layers.
type Project struct {
	ID              string    `json:"id" yaml:"id"`
	Title           string    `json:"title" yaml:"title"`
	Description     string    `json:"description" yaml:"description"`
	Objective       string    `json:"objective" yaml:"objective"`
	Structure       string    `json:"structure" yaml:"structure"`
	Features        string    `json:"features" yaml:"features"`
	Constraints     string    `json:"constraints" yaml:"constraints"`
	Testing         string    `json:"testing" yaml:"testing"`
	SuccessCriteria string    `json:"success_criteria" yaml:"success_criteria"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" yaml:"updated_at"`
}

// Fields are the caller-supplied values of a new project. Identity and
// timestamps are assigned by the store.
type Fields struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Objective       string `json:"objective"`
	Structure       string `json:"structure"`
	Features        string `json:"features"`
	Constraints     string `json:"constraints"`
	Testing         string `json:"testing"`
	SuccessCriteria string `json:"success_criteria"`
}

// Patch is a partial update. A nil field keeps the stored value.
type Patch struct {
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	Objective       *string `json:"objective,omitempty"`
	Structure       *string `json:"structure,omitempty"`
	Features        *string `json:"features,omitempty"`
	Constraints     *string `json:"constraints,omitempty"`
	Testing         *string `json:"testing,omitempty"`
	SuccessCriteria *string `json:"success_criteria,omitempty"`
}

// NewProject builds a project from fields with the given identity and creation time.
func NewProject(id string, f Fields, now time.Time) Project {
	ts := Stamp(now)
	return Project{
		ID:              id,
		Title:           f.Title,
		Description:     f.Description,
		Objective:       f.Objective,
		Structure:       f.Structure,
		Features:        f.Features,
		Constraints:     f.Constraints,
		Testing:         f.Testing,
		SuccessCriteria: f.SuccessCriteria,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}
}

// Apply merges the non-nil patch fields over p. Timestamps are not touched.
func (p *Project) Apply(patch Patch) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.Title, patch.Title)
	set(&p.Description, patch.Description)
	set(&p.Objective, patch.Objective)
	set(&p.Structure, patch.Structure)
	set(&p.Features, patch.Features)
	set(&p.Constraints, patch.Constraints)
	set(&p.Testing, patch.Testing)
	set(&p.SuccessCriteria, patch.SuccessCriteria)
}

// IsEmpty reports whether the patch changes nothing.
func (patch Patch) IsEmpty() bool {
	return patch.Title == nil && patch.Description == nil && patch.Objective == nil &&
		patch.Structure == nil && patch.Features == nil && patch.Constraints == nil &&
		patch.Testing == nil && patch.SuccessCriteria == nil
}

// Stamp normalises a wall-clock time to the precision every backend can store.
func Stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// Touch returns the next updated_at for a record last updated at prev.
// The result is never earlier than now and always strictly after prev.
func Touch(prev, now time.Time) time.Time {
	next := Stamp(now)
	if floor := Stamp(prev).Add(time.Microsecond); next.Before(floor) {
		return floor
	}
	return next
}
