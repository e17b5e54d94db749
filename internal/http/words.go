package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lexicon/internal/entities"
)

type WordStore interface {
	Add(ctx context.Context, item *entities.WordItem) error
	GetByID(ctx context.Context, id uint) (*entities.WordItem, error)
	FindAllByPinyin(ctx context.Context, name string) ([]entities.WordItem, error)
	FindAllByWordHead(ctx context.Context, head string) ([]entities.WordItem, error)
	ListPage(ctx context.Context, limit, offset int) ([]entities.WordItem, int64, error)
}

type WordsController struct {
	words WordStore
}

func NewWordsController(words WordStore) *WordsController {
	return &WordsController{words: words}
}

// WordFreqRequest names its part of speech by id or by tag.
type WordFreqRequest struct {
	PartOfSpeechID uint   `json:"part_of_speech_id"`
	Tag            string `json:"tag"`
	Freq           int    `json:"freq"`
}

type CreateWordRequest struct {
	Name       string            `json:"name"`
	Pinyins    []string          `json:"pinyins"`
	Freqs      []WordFreqRequest `json:"freqs"`
	ConceptIDs []uint            `json:"concept_ids"`
}

func (r CreateWordRequest) toWordItem() *entities.WordItem {
	item := &entities.WordItem{Name: r.Name}
	for _, p := range r.Pinyins {
		item.Pinyins = append(item.Pinyins, entities.Pinyin{Name: p})
	}
	for _, f := range r.Freqs {
		item.WordFreqs = append(item.WordFreqs, entities.WordFreq{
			Freq:           f.Freq,
			PartOfSpeechID: f.PartOfSpeechID,
			PartOfSpeech:   entities.PartOfSpeech{Name: f.Tag},
		})
	}
	for _, id := range r.ConceptIDs {
		item.Concepts = append(item.Concepts, entities.Concept{ID: id})
	}
	return item
}

// Create handles POST /api/words.
func (wc *WordsController) Create(c *gin.Context) {
	var req CreateWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	item := req.toWordItem()
	if err := wc.words.Add(c.Request.Context(), item); err != nil {
		respondServiceError(c, err, "add word")
		return
	}

	stored, err := wc.words.GetByID(c.Request.Context(), item.ID)
	if err != nil {
		respondServiceError(c, err, "reload word")
		return
	}
	c.JSON(http.StatusCreated, stored)
}

// Get handles GET /api/words/:id.
func (wc *WordsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := wc.words.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "get word")
		return
	}
	c.JSON(http.StatusOK, item)
}

// List handles GET /api/words. With ?pinyin= or ?head= it searches and
// returns every match; otherwise it pages through all words.
func (wc *WordsController) List(c *gin.Context) {
	ctx := c.Request.Context()

	if pinyin, ok := c.GetQuery("pinyin"); ok {
		items, err := wc.words.FindAllByPinyin(ctx, pinyin)
		if err != nil {
			respondServiceError(c, err, "find words by pinyin")
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": items, "total": len(items)})
		return
	}

	if head, ok := c.GetQuery("head"); ok {
		items, err := wc.words.FindAllByWordHead(ctx, head)
		if err != nil {
			respondServiceError(c, err, "find words by head")
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": items, "total": len(items)})
		return
	}

	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}
	items, total, err := wc.words.ListPage(ctx, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list words")
		return
	}
	c.JSON(http.StatusOK, paginated(items, total, limit, offset, len(items)))
}
