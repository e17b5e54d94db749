package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/lexicon/internal/database/concepts"
	"github.com/mrlokans/lexicon/internal/database/partsofspeech"
	"github.com/mrlokans/lexicon/internal/database/users"
	"github.com/mrlokans/lexicon/internal/database/words"
	"github.com/mrlokans/lexicon/internal/entities"
)

// WordItemService creates and queries word items. Every write is attributed
// to the principal carried by the request context.
type WordItemService struct {
	db    *gorm.DB
	words *words.Repository
	users *UserService
	audit AuditLogger
}

func NewWordItemService(db *gorm.DB, users *UserService, audit AuditLogger) *WordItemService {
	return &WordItemService{
		db:    db,
		words: words.NewRepository(db),
		users: users,
		audit: audit,
	}
}

// Add stores a word item with its readings, frequencies and concept links in
// one transaction and fills in item.ID.
//
// Pinyins are matched by name and shared with other words; repeated names
// collapse into one. Each WordFreq names its part of speech by id or tag, and a
// tag may appear only once. Concepts are referenced by id and must exist.
// The owner is the user behind the request principal.
func (s *WordItemService) Add(ctx context.Context, item *entities.WordItem) error {
	if item.ID != 0 {
		return validationf("word item %d is already stored", item.ID)
	}

	item.Name = strings.TrimSpace(item.Name)
	for i := range item.Pinyins {
		item.Pinyins[i].Name = strings.TrimSpace(item.Pinyins[i].Name)
	}
	if err := validateStruct(item); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner, err := s.users.currentUser(ctx, users.NewRepository(tx))
		if err != nil {
			return err
		}

		freqs, err := resolveFreqs(ctx, partsofspeech.NewRepository(tx), item.WordFreqs)
		if err != nil {
			return err
		}

		linked, err := resolveConcepts(ctx, concepts.NewRepository(tx), item.Concepts)
		if err != nil {
			return err
		}

		repo := words.NewRepository(tx)
		pinyins, err := repo.FindOrCreatePinyins(ctx, uniquePinyinNames(item.Pinyins))
		if err != nil {
			return fmt.Errorf("failed to store pinyin: %w", err)
		}

		item.UserID = owner.ID
		item.User = *owner
		item.Pinyins = pinyins
		item.WordFreqs = freqs
		item.Concepts = linked

		if err := repo.Create(ctx, item); err != nil {
			return fmt.Errorf("failed to create word item: %w", err)
		}
		return nil
	})
	if err != nil {
		item.ID = 0
		return err
	}

	if s.audit != nil {
		s.audit.LogCreate(item.UserID, "word", item.ID, item.Name)
	}
	return nil
}

func uniquePinyinNames(pinyins []entities.Pinyin) []string {
	seen := make(map[string]bool, len(pinyins))
	names := make([]string, 0, len(pinyins))
	for _, p := range pinyins {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		names = append(names, p.Name)
	}
	return names
}

func resolveFreqs(ctx context.Context, repo *partsofspeech.Repository, in []entities.WordFreq) ([]entities.WordFreq, error) {
	out := make([]entities.WordFreq, 0, len(in))
	seen := make(map[uint]bool, len(in))
	for _, f := range in {
		pos, err := resolvePartOfSpeech(ctx, repo, f.PartOfSpeechID, f.PartOfSpeech.Name)
		if err != nil {
			return nil, err
		}
		if seen[pos.ID] {
			return nil, validationf("part of speech %s listed more than once", pos.Name)
		}
		seen[pos.ID] = true
		out = append(out, entities.WordFreq{
			Freq:           f.Freq,
			PartOfSpeechID: pos.ID,
			PartOfSpeech:   *pos,
		})
	}
	return out, nil
}

func resolveConcepts(ctx context.Context, repo *concepts.Repository, in []entities.Concept) ([]entities.Concept, error) {
	ids := make([]uint, 0, len(in))
	seen := make(map[uint]bool, len(in))
	for _, c := range in {
		if c.ID == 0 {
			return nil, validationf("concept %q must be added before it is linked", c.Name)
		}
		if !seen[c.ID] {
			seen[c.ID] = true
			ids = append(ids, c.ID)
		}
	}

	found, err := repo.FindExisting(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load concepts: %w", err)
	}
	if len(found) != len(ids) {
		have := make(map[uint]bool, len(found))
		for _, c := range found {
			have[c.ID] = true
		}
		for _, id := range ids {
			if !have[id] {
				return nil, fmt.Errorf("%w: concept %d", ErrNotFound, id)
			}
		}
	}
	return found, nil
}

// GetByID returns the item with pinyin, frequencies, concepts and owner loaded.
func (s *WordItemService) GetByID(ctx context.Context, id uint) (*entities.WordItem, error) {
	item, err := s.words.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("word item %d", id))
	}
	return item, nil
}

// FindAllByPinyin returns items with a reading named exactly name.
func (s *WordItemService) FindAllByPinyin(ctx context.Context, name string) ([]entities.WordItem, error) {
	if name == "" {
		return nil, validationf("pinyin is required")
	}
	return s.words.FindAllByPinyin(ctx, name)
}

// FindAllByWordHead returns items whose name starts with head, an exact match first.
func (s *WordItemService) FindAllByWordHead(ctx context.Context, head string) ([]entities.WordItem, error) {
	if head == "" {
		return nil, validationf("word head is required")
	}
	return s.words.FindAllByWordHead(ctx, head)
}

// List returns every stored item in insertion order.
func (s *WordItemService) List(ctx context.Context) ([]entities.WordItem, error) {
	items, _, err := s.words.List(ctx, 0, 0)
	return items, err
}

// ListPage returns one page of items and the total count.
func (s *WordItemService) ListPage(ctx context.Context, limit, offset int) ([]entities.WordItem, int64, error) {
	return s.words.List(ctx, limit, offset)
}

func (s *WordItemService) Count(ctx context.Context) (int64, error) {
	return s.words.Count(ctx)
}

// ListByOwner returns the newest items created by a user.
func (s *WordItemService) ListByOwner(ctx context.Context, userID uint, limit int) ([]entities.WordItem, error) {
	return s.words.GetByOwner(ctx, userID, limit)
}
