package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GOlukorede/PhoneStore-REST-API/internal/models"
)

// GORMTokenBlockListRepository is a GORM implementation of TokenBlockListRepository.
type GORMTokenBlockListRepository struct {
	db *gorm.DB
}

// NewGORMTokenBlockListRepository creates a new instance of GORMTokenBlockListRepository.
func NewGORMTokenBlockListRepository(db *gorm.DB) *GORMTokenBlockListRepository {
	return &GORMTokenBlockListRepository{db: db}
}

// Add records a revoked token id.
func (r *GORMTokenBlockListRepository) Add(jti string) error {
	entry := models.TokenBlockListEntry{ID: uuid.New().String(), JTI: jti}
	if err := r.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to blocklist token: %w", err)
	}
	return nil
}

// Contains reports whether a token id has been revoked.
func (r *GORMTokenBlockListRepository) Contains(jti string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.TokenBlockListEntry{}).Where("jti = ?", jti).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check token blocklist: %w", err)
	}
	return count > 0, nil
}
