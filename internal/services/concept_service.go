package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/lexicon/internal/database/concepts"
	"github.com/mrlokans/lexicon/internal/database/partsofspeech"
	"github.com/mrlokans/lexicon/internal/entities"
)

// ConceptService manages the concept tree.
type ConceptService struct {
	db       *gorm.DB
	concepts *concepts.Repository
	users    *UserService
	audit    AuditLogger
}

func NewConceptService(db *gorm.DB, users *UserService, audit AuditLogger) *ConceptService {
	return &ConceptService{
		db:       db,
		concepts: concepts.NewRepository(db),
		users:    users,
		audit:    audit,
	}
}

// Add stores a new concept. The part of speech is resolved by id or tag name.
// A parent, set by ParentID or by a stored Parent, must exist and its chain
// must reach a root. A concept that already has an id cannot be added again,
// so it can never become its own ancestor.
func (s *ConceptService) Add(ctx context.Context, concept *entities.Concept) error {
	if concept.ID != 0 {
		return validationf("concept %d is already stored", concept.ID)
	}
	if concept.ParentID == nil && concept.Parent != nil && concept.Parent.ID == 0 {
		return validationf("parent concept %q must be added before it is linked", concept.Parent.Name)
	}

	concept.Name = strings.TrimSpace(concept.Name)
	concept.Note = strings.TrimSpace(concept.Note)
	if err := validateStruct(concept); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := concepts.NewRepository(tx)

		pos, err := resolvePartOfSpeech(ctx, partsofspeech.NewRepository(tx), concept.PartOfSpeechID, concept.PartOfSpeech.Name)
		if err != nil {
			return err
		}
		concept.PartOfSpeechID = pos.ID
		concept.PartOfSpeech = *pos

		if concept.ParentID == nil && concept.Parent != nil && concept.Parent.ID != 0 {
			concept.ParentID = &concept.Parent.ID
		}
		if concept.ParentID != nil {
			if err := s.checkParent(ctx, repo, *concept.ParentID); err != nil {
				return err
			}
		}

		return repo.Create(ctx, concept)
	})
	if err != nil {
		return err
	}

	if s.audit != nil {
		s.audit.LogCreate(s.users.actorID(ctx), "concept", concept.ID, concept.Name)
	}
	return nil
}

// checkParent walks from parentID to the root. Every concept on the way must
// exist, and visiting one twice means the stored tree already has a cycle.
func (s *ConceptService) checkParent(ctx context.Context, repo *concepts.Repository, parentID uint) error {
	seen := map[uint]bool{}
	current := &parentID
	for current != nil {
		if seen[*current] {
			return validationf("concept %d is part of an existing cycle", *current)
		}
		seen[*current] = true

		next, err := repo.GetParentID(ctx, *current)
		if err != nil {
			return notFound(err, fmt.Sprintf("parent concept %d", *current))
		}
		current = next
	}
	return nil
}

func (s *ConceptService) GetByID(ctx context.Context, id uint) (*entities.Concept, error) {
	concept, err := s.concepts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("concept %d", id))
	}
	return concept, nil
}

// Children returns the direct children of a concept ordered by name.
func (s *ConceptService) Children(ctx context.Context, id uint) ([]entities.Concept, error) {
	if _, err := s.concepts.GetByID(ctx, id); err != nil {
		return nil, notFound(err, fmt.Sprintf("concept %d", id))
	}
	return s.concepts.GetChildren(ctx, id)
}

func (s *ConceptService) List(ctx context.Context) ([]entities.Concept, error) {
	return s.concepts.GetAll(ctx)
}

// WordItemIDs returns the ids of words linked to a concept.
func (s *ConceptService) WordItemIDs(ctx context.Context, id uint) ([]uint, error) {
	return s.concepts.GetWordItemIDs(ctx, id)
}
