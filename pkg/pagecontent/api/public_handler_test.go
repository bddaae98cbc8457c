package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/page-content/pkg/pagecontent"
	"github.com/campuskit/page-content/pkg/pagecontent/repo/memory"
)

func setupPublicHandlerTest(t *testing.T) (*PublicHandler, pagecontent.Service) {
	service, err := pagecontent.New(
		pagecontent.WithStore(memory.New()),
	)
	require.NoError(t, err)
	return NewPublicHandler(service), service
}

func TestPublicHandler_ListActiveSections(t *testing.T) {
	handler, service := setupPublicHandlerTest(t)
	router := handler.Routes()
	ctx := context.Background()

	pageID := uuid.New()
	active, _, err := service.CreateEntity(ctx, pagecontent.CreateEntityRequest{
		ParentID: pageID,
		Type:     pagecontent.TypeHero1,
		IsActive: true,
	})
	require.NoError(t, err)
	_, _, err = service.CreateEntity(ctx, pagecontent.CreateEntityRequest{
		ParentID: pageID,
		Type:     pagecontent.TypeContact,
		IsActive: false,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/pages/"+pageID.String()+"/sections", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []SectionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, active.ID.String(), resp[0].ID)

	// The content carries the full default shape; consumers need no nil
	// checks on declared fields.
	title := resp[0].Content["title"].(map[string]any)
	assert.Contains(t, title, "en")
	assert.Contains(t, title, "ar")
}

func TestPublicHandler_ListTypes(t *testing.T) {
	handler, _ := setupPublicHandlerTest(t)
	router := handler.Routes()

	req := httptest.NewRequest(http.MethodGet, "/types", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []TypeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp)
}

func TestPublicHandler_DescribeType(t *testing.T) {
	handler, _ := setupPublicHandlerTest(t)
	router := handler.Routes()

	req := httptest.NewRequest(http.MethodGet, "/types/BLOG/fields", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []FieldResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)

	names := []string{resp[0].Name, resp[1].Name}
	assert.Contains(t, names, "title")
	assert.Contains(t, names, "postsLimit")
}

func TestPublicHandler_DescribeType_Unknown(t *testing.T) {
	handler, _ := setupPublicHandlerTest(t)
	router := handler.Routes()

	req := httptest.NewRequest(http.MethodGet, "/types/BOGUS/fields", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
