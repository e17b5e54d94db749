package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lexicon/internal/entities"
)

type PartOfSpeechLister interface {
	List(ctx context.Context) ([]entities.PartOfSpeech, error)
	GetByName(ctx context.Context, name string) (*entities.PartOfSpeech, error)
}

type PartsOfSpeechController struct {
	pos PartOfSpeechLister
}

func NewPartsOfSpeechController(pos PartOfSpeechLister) *PartsOfSpeechController {
	return &PartsOfSpeechController{pos: pos}
}

func (pc *PartsOfSpeechController) RegisterRoutes(api gin.IRouter) {
	api.GET("/parts-of-speech", pc.List)
	api.GET("/parts-of-speech/:name", pc.Get)
}

func (pc *PartsOfSpeechController) List(c *gin.Context) {
	all, err := pc.pos.List(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list parts of speech")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": all, "total": len(all)})
}

func (pc *PartsOfSpeechController) Get(c *gin.Context) {
	pos, err := pc.pos.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondServiceError(c, err, "get part of speech")
		return
	}
	c.JSON(http.StatusOK, pos)
}
