// Package concepts provides database operations for the concept tree.
//
// # Usage
//
//	repo := concepts.NewRepository(db)
//	children, err := repo.GetChildren(ctx, parentID)
package concepts

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/lexicon/internal/entities"
)

// Repository handles all concept database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new concepts repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a concept. Its part of speech and parent are referenced by id.
func (r *Repository) Create(ctx context.Context, concept *entities.Concept) error {
	return r.db.WithContext(ctx).Omit("PartOfSpeech", "Parent", "WordItems").Create(concept).Error
}

// GetByID retrieves a concept with its part of speech and parent.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Concept, error) {
	var concept entities.Concept
	err := r.db.WithContext(ctx).
		Preload("PartOfSpeech").
		Preload("Parent").
		First(&concept, id).Error
	if err != nil {
		return nil, err
	}
	return &concept, nil
}

// GetParentID returns the parent of a concept, or nil for a root.
func (r *Repository) GetParentID(ctx context.Context, id uint) (*uint, error) {
	var concept entities.Concept
	err := r.db.WithContext(ctx).Select("id", "parent_id").First(&concept, id).Error
	if err != nil {
		return nil, err
	}
	return concept.ParentID, nil
}

// GetChildren returns the direct children of a concept ordered by name.
func (r *Repository) GetChildren(ctx context.Context, parentID uint) ([]entities.Concept, error) {
	var children []entities.Concept
	err := r.db.WithContext(ctx).
		Preload("PartOfSpeech").
		Where("parent_id = ?", parentID).
		Order("name ASC, id ASC").
		Find(&children).Error
	return children, err
}

// GetAll returns every concept in insertion order.
func (r *Repository) GetAll(ctx context.Context) ([]entities.Concept, error) {
	var all []entities.Concept
	err := r.db.WithContext(ctx).
		Preload("PartOfSpeech").
		Order("id ASC").
		Find(&all).Error
	return all, err
}

// FindExisting returns the subset of ids that exist.
func (r *Repository) FindExisting(ctx context.Context, ids []uint) ([]entities.Concept, error) {
	var found []entities.Concept
	if len(ids) == 0 {
		return found, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error
	return found, err
}

// GetWordItemIDs returns ids of words linked to a concept.
func (r *Repository) GetWordItemIDs(ctx context.Context, conceptID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Table("word_item_concepts").
		Where("concept_id = ?", conceptID).
		Order("word_item_id ASC").
		Pluck("word_item_id", &ids).Error
	return ids, err
}
