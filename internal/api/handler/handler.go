package handler

import (
	"padron-agremiados/internal/repository"
	"padron-agremiados/internal/service"
)

// Handler aggregates every HTTP handler
type Handler struct {
	Agremiado *AgremiadoHandler
	Health    *HealthHandler
}

// NewHandler creates the Handler aggregate
func NewHandler(svc *service.Service, repo *repository.Repository) *Handler {
	return &Handler{
		Agremiado: NewAgremiadoHandler(svc.Agremiado),
		Health:    NewHealthHandler(repo.Agremiado),
	}
}
