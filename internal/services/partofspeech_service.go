package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/lexicon/internal/database/partsofspeech"
	"github.com/mrlokans/lexicon/internal/entities"
)

// PartOfSpeechService reads the seeded part-of-speech tags.
type PartOfSpeechService struct {
	repo *partsofspeech.Repository
}

func NewPartOfSpeechService(db *gorm.DB) *PartOfSpeechService {
	return &PartOfSpeechService{repo: partsofspeech.NewRepository(db)}
}

func (s *PartOfSpeechService) List(ctx context.Context) ([]entities.PartOfSpeech, error) {
	return s.repo.GetAll(ctx)
}

// GetByName looks a tag up case-sensitively ("N", not "n").
func (s *PartOfSpeechService) GetByName(ctx context.Context, name string) (*entities.PartOfSpeech, error) {
	pos, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, notFound(err, "part of speech "+name)
	}
	return pos, nil
}

// resolvePartOfSpeech finds a tag by id, or by name when id is zero.
func resolvePartOfSpeech(ctx context.Context, repo *partsofspeech.Repository, id uint, name string) (*entities.PartOfSpeech, error) {
	if id != 0 {
		pos, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, notFound(err, fmt.Sprintf("part of speech %d", id))
		}
		return pos, nil
	}
	if name == "" {
		return nil, validationf("part of speech is required")
	}
	pos, err := repo.GetByName(ctx, name)
	if err != nil {
		return nil, notFound(err, "part of speech "+name)
	}
	return pos, nil
}
