package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lexicon/internal/entities"
)

type ConceptStore interface {
	Add(ctx context.Context, concept *entities.Concept) error
	GetByID(ctx context.Context, id uint) (*entities.Concept, error)
	Children(ctx context.Context, id uint) ([]entities.Concept, error)
	List(ctx context.Context) ([]entities.Concept, error)
	WordItemIDs(ctx context.Context, id uint) ([]uint, error)
}

type ConceptsController struct {
	concepts ConceptStore
}

func NewConceptsController(concepts ConceptStore) *ConceptsController {
	return &ConceptsController{concepts: concepts}
}

type CreateConceptRequest struct {
	Name           string `json:"name"`
	Note           string `json:"note"`
	PartOfSpeechID uint   `json:"part_of_speech_id"`
	Tag            string `json:"tag"`
	ParentID       *uint  `json:"parent_id"`
}

// Create handles POST /api/concepts.
func (cc *ConceptsController) Create(c *gin.Context) {
	var req CreateConceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	concept := &entities.Concept{
		Name:           req.Name,
		Note:           req.Note,
		PartOfSpeechID: req.PartOfSpeechID,
		PartOfSpeech:   entities.PartOfSpeech{Name: req.Tag},
		ParentID:       req.ParentID,
	}
	if err := cc.concepts.Add(c.Request.Context(), concept); err != nil {
		respondServiceError(c, err, "add concept")
		return
	}

	stored, err := cc.concepts.GetByID(c.Request.Context(), concept.ID)
	if err != nil {
		respondServiceError(c, err, "reload concept")
		return
	}
	c.JSON(http.StatusCreated, stored)
}

func (cc *ConceptsController) List(c *gin.Context) {
	all, err := cc.concepts.List(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list concepts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": all, "total": len(all)})
}

func (cc *ConceptsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	concept, err := cc.concepts.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "get concept")
		return
	}
	c.JSON(http.StatusOK, concept)
}

func (cc *ConceptsController) Children(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	children, err := cc.concepts.Children(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "list concept children")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": children, "total": len(children)})
}

// Words returns the ids of the words linked to a concept.
func (cc *ConceptsController) Words(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := cc.concepts.GetByID(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "get concept")
		return
	}
	ids, err := cc.concepts.WordItemIDs(c.Request.Context(), id)
	if err != nil {
		respondInternalError(c, err, "list concept words")
		return
	}
	c.JSON(http.StatusOK, gin.H{"word_ids": ids})
}
