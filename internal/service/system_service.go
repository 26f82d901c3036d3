package service

import (
	"database/sql"

	"github.com/tallyhq/networth-backend/internal/database"
)

// SystemService exposes operational health information.
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService.
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{db: db}
}

// HealthCheck verifies that the database connection is alive.
func (s *SystemService) HealthCheck() error {
	return database.HealthCheck(s.db)
}
