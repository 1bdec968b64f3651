package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domain "github.com/supportdesk/backend/internal/domain/support"
	"github.com/supportdesk/backend/internal/infrastructure/policy"
)

type memoryRepo struct {
	records    []*domain.ConversationRecord
	lastFilter domain.ConversationFilter
	err        error
}

func (m *memoryRepo) Append(ctx context.Context, rec *domain.ConversationRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func (m *memoryRepo) FindByID(id string) (*domain.ConversationRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memoryRepo) List(filter domain.ConversationFilter) ([]*domain.ConversationRecord, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

func (m *memoryRepo) CountByCategory() ([]domain.CategoryCount, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []domain.CategoryCount{{Category: domain.CategoryReturnsExchanges, HandledBy: domain.HandledByAI, Count: 2}}, nil
}

func newAPIRouter(repo domain.ConversationRepository, store *policy.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	conv := NewConversationHandler(repo)
	router := gin.New()
	api := router.Group("/api/v1")
	api.GET("/conversations", conv.List)
	api.GET("/conversations/:id", conv.Get)
	api.GET("/stats/categories", conv.CategoryStats)
	api.GET("/policy", NewPolicyHandler(store).Get)
	return router
}

func get(router http.Handler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestConversationHandler_List(t *testing.T) {
	repo := &memoryRepo{records: []*domain.ConversationRecord{
		{ID: "a", Timestamp: time.Now(), Category: domain.CategoryReturnsExchanges, HandledBy: domain.HandledByHuman},
	}}
	router := newAPIRouter(repo, policy.NewStore(domain.DefaultRuleset(), ""))

	w, body := get(router, "/api/v1/conversations?limit=10&category=Returns_Exchanges&handled_by=human_agent")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["code"])
	assert.Len(t, body["data"], 1)
	assert.Equal(t, 10, repo.lastFilter.Limit)
	assert.Equal(t, domain.CategoryReturnsExchanges, repo.lastFilter.Category)
	assert.Equal(t, domain.HandledByHuman, repo.lastFilter.HandledBy)
}

func TestConversationHandler_ListValidation(t *testing.T) {
	router := newAPIRouter(&memoryRepo{}, policy.NewStore(domain.DefaultRuleset(), ""))

	w, _ := get(router, "/api/v1/conversations?limit=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = get(router, "/api/v1/conversations?handled_by=robot")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := get(router, "/api/v1/conversations")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, body["data"])
}

func TestConversationHandler_Get(t *testing.T) {
	repo := &memoryRepo{records: []*domain.ConversationRecord{{ID: "a", Message: "hello"}}}
	router := newAPIRouter(repo, policy.NewStore(domain.DefaultRuleset(), ""))

	w, body := get(router, "/api/v1/conversations/a")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", body["data"].(map[string]interface{})["customer_message"])

	w, _ = get(router, "/api/v1/conversations/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConversationHandler_StorageError(t *testing.T) {
	router := newAPIRouter(&memoryRepo{err: errors.New("database is locked")}, policy.NewStore(domain.DefaultRuleset(), ""))

	for _, path := range []string{"/api/v1/conversations", "/api/v1/conversations/a", "/api/v1/stats/categories"} {
		w, body := get(router, path)
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.Equal(t, "database is locked", body["detail"], path)
	}
}

func TestConversationHandler_CategoryStats(t *testing.T) {
	router := newAPIRouter(&memoryRepo{}, policy.NewStore(domain.DefaultRuleset(), ""))

	w, body := get(router, "/api/v1/stats/categories")
	require.Equal(t, http.StatusOK, w.Code)
	first := body["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Returns_Exchanges", first["category"])
	assert.Equal(t, float64(2), first["count"])
}

func TestPolicyHandler_Get(t *testing.T) {
	router := newAPIRouter(&memoryRepo{}, policy.NewStore(domain.DefaultRuleset(), ""))

	w, body := get(router, "/api/v1/policy")
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "builtin", data["source"])
	p := data["policy"].(map[string]interface{})
	assert.Equal(t, "Other_General", p["default_category"])
	assert.Equal(t, 0.7, p["anger_threshold"])
}
