// Package partsofspeech provides read access to the part-of-speech tag set.
//
// Tags are seeded by database.NewDatabase; this package never writes them.
package partsofspeech

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/lexicon/internal/entities"
)

// Repository handles part-of-speech lookups.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new part-of-speech repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByName looks a tag up by its exact name.
func (r *Repository) GetByName(ctx context.Context, name string) (*entities.PartOfSpeech, error) {
	var pos entities.PartOfSpeech
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&pos).Error
	if err != nil {
		return nil, err
	}
	return &pos, nil
}

// GetByID retrieves a tag by ID.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.PartOfSpeech, error) {
	var pos entities.PartOfSpeech
	err := r.db.WithContext(ctx).First(&pos, id).Error
	if err != nil {
		return nil, err
	}
	return &pos, nil
}

// GetAll returns every tag ordered by name.
func (r *Repository) GetAll(ctx context.Context) ([]entities.PartOfSpeech, error) {
	var all []entities.PartOfSpeech
	err := r.db.WithContext(ctx).Order("name ASC").Find(&all).Error
	return all, err
}
