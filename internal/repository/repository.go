package repository

import (
	"gorm.io/gorm"

	"padron-agremiados/internal/model"
)

// Repository aggregates every repository
type Repository struct {
	Agremiado AgremiadoRepository
}

// NewRepository builds the GORM-backed aggregate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Agremiado: NewAgremiadoRepo(db),
	}
}

// NewMemoryRepository builds the in-memory aggregate, optionally preloaded.
func NewMemoryRepository(seed ...model.Agremiado) *Repository {
	return &Repository{
		Agremiado: NewMemoryAgremiadoRepo(seed...),
	}
}
