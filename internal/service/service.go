package service

import (
	"go.uber.org/zap"

	"padron-agremiados/internal/repository"
	"padron-agremiados/pkg/metrics"
)

// Service aggregates every service
type Service struct {
	Agremiado AgremiadoService
}

// NewService wires the services over repo.
func NewService(repo *repository.Repository, logger *zap.Logger, m *metrics.Metrics) *Service {
	return &Service{
		Agremiado: NewAgremiadoService(repo, logger, m),
	}
}
