package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/lexicon/internal/entities"
)

func createConcept(t *testing.T, env *apiEnv, name string, parentID *uint) entities.Concept {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/concepts", CreateConceptRequest{
		Name:     name,
		Note:     name + " note",
		Tag:      "N",
		ParentID: parentID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[entities.Concept](t, w)
}

type conceptList struct {
	Data  []entities.Concept `json:"data"`
	Total int                `json:"total"`
}

func TestConceptsController_CreateAndTree(t *testing.T) {
	env := setupAPI(t, entities.UserRoleEditor)

	root := createConcept(t, env, "animal", nil)
	assert.Equal(t, "N", root.PartOfSpeech.Name)
	assert.Nil(t, root.ParentID)

	bird := createConcept(t, env, "bird", &root.ID)
	createConcept(t, env, "mammal", &root.ID)
	require.NotNil(t, bird.Parent)
	assert.Equal(t, "animal", bird.Parent.Name)

	w := env.do(t, http.MethodGet, "/api/concepts/"+itoa(root.ID)+"/children", nil)
	require.Equal(t, http.StatusOK, w.Code)
	children := decode[conceptList](t, w)
	require.Len(t, children.Data, 2)
	assert.Equal(t, "bird", children.Data[0].Name)
	assert.Equal(t, "mammal", children.Data[1].Name)

	w = env.do(t, http.MethodGet, "/api/concepts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decode[conceptList](t, w).Total)

	w = env.do(t, http.MethodGet, "/api/concepts/"+itoa(bird.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bird", decode[entities.Concept](t, w).Name)
}

func TestConceptsController_CreateErrors(t *testing.T) {
	env := setupAPI(t, entities.UserRoleEditor)
	missing := uint(77)

	tests := []struct {
		name string
		req  CreateConceptRequest
		want int
	}{
		{name: "missing note", req: CreateConceptRequest{Name: "x", Tag: "N"}, want: http.StatusBadRequest},
		{name: "missing name", req: CreateConceptRequest{Note: "x", Tag: "N"}, want: http.StatusBadRequest},
		{name: "unknown part of speech", req: CreateConceptRequest{Name: "x", Note: "x", Tag: "ZZ"}, want: http.StatusNotFound},
		{name: "unknown parent", req: CreateConceptRequest{Name: "x", Note: "x", Tag: "N", ParentID: &missing}, want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/concepts", tt.req)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestConceptsController_NotFound(t *testing.T) {
	env := setupAPI(t, entities.UserRoleEditor)

	for _, path := range []string{"/api/concepts/5", "/api/concepts/5/children", "/api/concepts/5/words"} {
		w := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestConceptsController_Words(t *testing.T) {
	env := setupAPI(t, entities.UserRoleEditor)
	concept := createConcept(t, env, "greeting", nil)

	w := env.do(t, http.MethodPost, "/api/words", CreateWordRequest{
		Name:       "你好",
		Pinyins:    []string{"nihao"},
		ConceptIDs: []uint{concept.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	word := decode[entities.WordItem](t, w)
	require.Len(t, word.Concepts, 1)

	w = env.do(t, http.MethodGet, "/api/concepts/"+itoa(concept.ID)+"/words", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		WordIDs []uint `json:"word_ids"`
	}](t, w)
	assert.Equal(t, []uint{word.ID}, resp.WordIDs)
}

func TestPartsOfSpeechController(t *testing.T) {
	env := setupAPI(t, entities.UserRoleViewer)

	w := env.do(t, http.MethodGet, "/api/parts-of-speech", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Data []entities.PartOfSpeech `json:"data"`
	}](t, w)
	assert.Len(t, list.Data, 32)

	w = env.do(t, http.MethodGet, "/api/parts-of-speech/VN", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "verbal noun", decode[entities.PartOfSpeech](t, w).Note)

	w = env.do(t, http.MethodGet, "/api/parts-of-speech/vn", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
