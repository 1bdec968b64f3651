package mcp

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appSupport "github.com/supportdesk/backend/internal/application/support"
	domain "github.com/supportdesk/backend/internal/domain/support"
	"github.com/supportdesk/backend/internal/infrastructure/policy"
)

type stubRetriever struct{}

func (stubRetriever) Similar(ctx context.Context, query string, k int) ([]domain.RetrievedDocument, error) {
	return []domain.RetrievedDocument{{ID: "d1", Content: "Customer query: refund\nAgent reply: done"}}, nil
}

type stubGenerator struct{}

func (stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "We have started your refund.", nil
}

type memoryRepo struct {
	mu      sync.Mutex
	records []*domain.ConversationRecord
}

func (m *memoryRepo) Append(ctx context.Context, rec *domain.ConversationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *memoryRepo) FindByID(id string) (*domain.ConversationRecord, error) { return nil, nil }

func (m *memoryRepo) List(filter domain.ConversationFilter) ([]*domain.ConversationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.ConversationRecord
	for _, r := range m.records {
		if filter.Category != "" && r.Category != filter.Category {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memoryRepo) CountByCategory() ([]domain.CategoryCount, error) { return nil, nil }

func newTestServer(t *testing.T) (*MCPServer, *memoryRepo) {
	t.Helper()
	repo := &memoryRepo{}
	// 已关闭的 Recorder 同步写入，断言时记录已落地
	recorder := appSupport.NewRecorder(0, appSupport.NamedSink{Name: "memory", Sink: repo})
	require.NoError(t, recorder.Close(context.Background()))

	orchestrator := appSupport.NewOrchestrator(appSupport.Dependencies{
		Rules:     policy.NewStore(domain.DefaultRuleset(), ""),
		Retriever: stubRetriever{},
		Generator: stubGenerator{},
		Recorder:  recorder,
	}, appSupport.Options{})
	return NewServer(orchestrator, repo), repo
}

func TestClassifySupportMessageTool(t *testing.T) {
	s, repo := newTestServer(t)

	_, out, err := s.classifySupportMessageTool(context.Background(), nil, ClassifyInput{Message: "I need a refund"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.CategoryReturnsExchanges), out.Category)
	assert.Equal(t, "refund", out.MatchedKeyword)
	assert.Equal(t, string(domain.HandledByAI), out.HandledBy)

	_, out, err = s.classifySupportMessageTool(context.Background(), nil, ClassifyInput{Message: "I need a refund", AngerLevel: 0.9})
	require.NoError(t, err)
	assert.Equal(t, string(domain.HandledByHuman), out.HandledBy)

	assert.Empty(t, repo.records, "classification does not record")
}

func TestClassifySupportMessageTool_Invalid(t *testing.T) {
	s, _ := newTestServer(t)

	_, _, err := s.classifySupportMessageTool(context.Background(), nil, ClassifyInput{Message: "  "})
	assert.Error(t, err)

	_, _, err = s.classifySupportMessageTool(context.Background(), nil, ClassifyInput{Message: "refund", AngerLevel: 1.5})
	assert.ErrorIs(t, err, domain.ErrInvalidScore)
}

func TestAnswerSupportMessageTool(t *testing.T) {
	s, repo := newTestServer(t)

	_, out, err := s.answerSupportMessageTool(context.Background(), nil, AnswerInput{Message: "I need a refund"})
	require.NoError(t, err)
	assert.Equal(t, "We have started your refund.", out.Response)
	assert.Equal(t, domain.CategoryReturnsExchanges, out.Category)
	assert.Equal(t, domain.ConfidenceHigh, out.Confidence)
	assert.NotEmpty(t, out.ConversationID)
	assert.Len(t, repo.records, 1)

	_, _, err = s.answerSupportMessageTool(context.Background(), nil, AnswerInput{Message: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListRecentConversationsTool(t *testing.T) {
	s, _ := newTestServer(t)
	_, _, err := s.answerSupportMessageTool(context.Background(), nil, AnswerInput{Message: "Where is my package?"})
	require.NoError(t, err)

	_, out, err := s.listRecentConversationsTool(context.Background(), nil, ListConversationsInput{Category: string(domain.CategoryShippingDelivery)})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Count)

	_, out, err = s.listRecentConversationsTool(context.Background(), nil, ListConversationsInput{Category: "Nope"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Count)
	assert.NotNil(t, out.Conversations)
}

func TestServer_Handler(t *testing.T) {
	s, _ := newTestServer(t)
	assert.NotNil(t, s.GetHandler())
}
