package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/TheWildEye/Evidential/internal/config"
)

type Store struct {
	DB *gorm.DB
}

func NewStore(cfg config.Config) (*Store, error) {
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required")
	}
	gdb, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{DB: gdb}, nil
}

// Migrate creates or updates the schema.
func (s *Store) Migrate() error {
	if s == nil || s.DB == nil {
		return errDBUnavailable
	}
	return s.DB.AutoMigrate(
		&UserModel{},
		&EvidenceModel{},
		&CustodyLogModel{},
		&EvidenceLogSeqModel{},
	)
}
