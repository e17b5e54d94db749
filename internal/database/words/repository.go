// Package words provides database operations for the WordItem aggregate.
//
// A WordItem owns its frequency records and links to shared pinyin rows and
// concepts through join tables.
//
// # Usage
//
//	repo := words.NewRepository(db)
//	items, err := repo.FindAllByPinyin(ctx, "a")
package words

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/lexicon/internal/entities"
)

// Repository handles all word item database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new words repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// withRelations preloads every relation a caller of the read methods expects.
func (r *Repository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("User").
		Preload("Pinyins", func(db *gorm.DB) *gorm.DB {
			return db.Order("pinyins.name ASC")
		}).
		Preload("WordFreqs", func(db *gorm.DB) *gorm.DB {
			return db.Order("word_freqs.id ASC")
		}).
		Preload("WordFreqs.PartOfSpeech").
		Preload("Concepts", func(db *gorm.DB) *gorm.DB {
			return db.Order("concepts.id ASC")
		})
}

// FindOrCreatePinyins returns one pinyin row per name, inserting missing ones.
// The result follows the order of names.
func (r *Repository) FindOrCreatePinyins(ctx context.Context, names []string) ([]entities.Pinyin, error) {
	pinyins := make([]entities.Pinyin, 0, len(names))
	for _, name := range names {
		var p entities.Pinyin
		err := r.db.WithContext(ctx).
			Where(entities.Pinyin{Name: name}).
			FirstOrCreate(&p).Error
		if err != nil {
			return nil, err
		}
		pinyins = append(pinyins, p)
	}
	return pinyins, nil
}

// Create inserts the item, its frequency records and the join rows for its
// pinyins and concepts. Pinyin, concept and part-of-speech rows must already
// exist; they are referenced, never upserted.
func (r *Repository) Create(ctx context.Context, item *entities.WordItem) error {
	return r.db.WithContext(ctx).
		Omit("User", "Pinyins.*", "Concepts.*", "WordFreqs.PartOfSpeech").
		Create(item).Error
}

// GetByID retrieves a word item with all relations.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.WordItem, error) {
	var item entities.WordItem
	err := r.withRelations(ctx).First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindAllByPinyin returns items that have a pinyin named exactly name.
func (r *Repository) FindAllByPinyin(ctx context.Context, name string) ([]entities.WordItem, error) {
	var items []entities.WordItem

	linked := r.db.Table("word_item_pinyins").
		Select("word_item_pinyins.word_item_id").
		Joins("JOIN pinyins ON pinyins.id = word_item_pinyins.pinyin_id").
		Where("pinyins.name = ?", name)

	err := r.withRelations(ctx).
		Where("word_items.id IN (?)", linked).
		Order("word_items.id ASC").
		Find(&items).Error
	return items, err
}

// FindAllByWordHead returns items whose name starts with head. An item named
// exactly head sorts first, the rest follow by name and then insertion order.
func (r *Repository) FindAllByWordHead(ctx context.Context, head string) ([]entities.WordItem, error) {
	var items []entities.WordItem

	// substr/length count characters, and = is case-sensitive, unlike LIKE
	err := r.withRelations(ctx).
		Where("substr(word_items.name, 1, length(?)) = ?", head, head).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "CASE WHEN word_items.name = ? THEN 0 ELSE 1 END, word_items.name ASC, word_items.id ASC",
			Vars:               []any{head},
			WithoutParentheses: true,
		}}).
		Find(&items).Error
	return items, err
}

// List returns items in insertion order with pagination. A non-positive limit
// returns everything.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]entities.WordItem, int64, error) {
	var items []entities.WordItem
	var total int64

	if err := r.db.WithContext(ctx).Model(&entities.WordItem{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.withRelations(ctx).Order("word_items.id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&items).Error
	return items, total, err
}

// Count returns the number of stored word items.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entities.WordItem{}).Count(&total).Error
	return total, err
}

// GetByOwner returns items created by a user, newest first.
func (r *Repository) GetByOwner(ctx context.Context, userID uint, limit int) ([]entities.WordItem, error) {
	var items []entities.WordItem
	query := r.withRelations(ctx).
		Where("word_items.user_id = ?", userID).
		Order("word_items.id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&items).Error
	return items, err
}
