package http

import "github.com/cahier-app/cahier-backend/internal/projects/service"

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc *service.ProjectService
}

func New(svc *service.ProjectService) *Handler {
	return &Handler{svc: svc}
}

type createReq struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Objective       string `json:"objective"`
	Structure       string `json:"structure"`
	Features        string `json:"features"`
	Constraints     string `json:"constraints"`
	Testing         string `json:"testing"`
	SuccessCriteria string `json:"success_criteria"`
}

type updateReq struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Objective       *string `json:"objective"`
	Structure       *string `json:"structure"`
	Features        *string `json:"features"`
	Constraints     *string `json:"constraints"`
	Testing         *string `json:"testing"`
	SuccessCriteria *string `json:"success_criteria"`
}

type renderReq struct {
	Markdown string `json:"markdown"`
}
