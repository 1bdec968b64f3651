package vector

import (
	"context"
	"errors"
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePointsClient struct {
	collections []string
	created     []*qdrant.CreateCollection
	upserts     []*qdrant.UpsertPoints
	queries     []*qdrant.QueryPoints
	hits        []*qdrant.ScoredPoint
	queryErr    error
}

func (f *fakePointsClient) ListCollections(ctx context.Context) ([]string, error) {
	return f.collections, nil
}

func (f *fakePointsClient) CreateCollection(ctx context.Context, req *qdrant.CreateCollection) error {
	f.created = append(f.created, req)
	f.collections = append(f.collections, req.GetCollectionName())
	return nil
}

func (f *fakePointsClient) Upsert(ctx context.Context, req *qdrant.UpsertPoints) (*qdrant.UpdateResult, error) {
	f.upserts = append(f.upserts, req)
	return &qdrant.UpdateResult{}, nil
}

func (f *fakePointsClient) Query(ctx context.Context, req *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error) {
	f.queries = append(f.queries, req)
	return f.hits, f.queryErr
}

func (f *fakePointsClient) Close() error { return nil }

type fakeEmbedder struct {
	err error
}

func (f fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, f.err
}

func TestQdrantStore_Similar(t *testing.T) {
	client := &fakePointsClient{hits: []*qdrant.ScoredPoint{
		{
			Id:    qdrant.NewID("7f1c9a43-7c9e-4a5f-9a57-2f1d7b0c2a11"),
			Score: 0.92,
			Payload: qdrant.NewValueMap(map[string]any{
				"content":  "Customer query: where is my parcel\nAgent reply: tracking link",
				"category": "Shipping_Delivery",
			}),
		},
		{
			Id:      qdrant.NewIDNum(42),
			Score:   0.81,
			Payload: qdrant.NewValueMap(map[string]any{"content": "refund reply"}),
		},
		{
			Id:      qdrant.NewIDNum(43),
			Score:   0.5,
			Payload: qdrant.NewValueMap(map[string]any{"category": "no content"}),
		},
	}}
	store := NewQdrantStore(client, fakeEmbedder{}, "support_interactions")

	docs, err := store.Similar(context.Background(), "where is my package", 3)
	require.NoError(t, err)
	require.Len(t, docs, 2, "points without content are skipped")

	assert.Equal(t, "7f1c9a43-7c9e-4a5f-9a57-2f1d7b0c2a11", docs[0].ID)
	assert.InDelta(t, 0.92, docs[0].Score, 0.0001)
	assert.Equal(t, "Shipping_Delivery", docs[0].Metadata["category"])
	assert.Contains(t, docs[0].Content, "tracking link")
	assert.Equal(t, "42", docs[1].ID)

	require.Len(t, client.queries, 1)
	assert.Equal(t, "support_interactions", client.queries[0].GetCollectionName())
	assert.Equal(t, uint64(3), client.queries[0].GetLimit())
}

func TestQdrantStore_SimilarErrors(t *testing.T) {
	store := NewQdrantStore(&fakePointsClient{}, fakeEmbedder{err: errors.New("embed down")}, "c")
	_, err := store.Similar(context.Background(), "q", 3)
	assert.ErrorContains(t, err, "embed down")

	store = NewQdrantStore(&fakePointsClient{queryErr: errors.New("unavailable")}, fakeEmbedder{}, "c")
	_, err = store.Similar(context.Background(), "q", 3)
	assert.ErrorContains(t, err, "unavailable")

	docs, err := store.Similar(context.Background(), "q", 0)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestQdrantStore_EnsureCollection(t *testing.T) {
	client := &fakePointsClient{collections: []string{"other"}}
	store := NewQdrantStore(client, fakeEmbedder{}, "support_interactions")

	require.NoError(t, store.EnsureCollection(context.Background(), 1536))
	require.Len(t, client.created, 1)
	assert.Equal(t, "support_interactions", client.created[0].GetCollectionName())

	// 已存在时不重复创建
	require.NoError(t, store.EnsureCollection(context.Background(), 1536))
	assert.Len(t, client.created, 1)
}

func TestQdrantStore_UpsertBatches(t *testing.T) {
	client := &fakePointsClient{}
	store := NewQdrantStore(client, fakeEmbedder{}, "support_interactions")

	points := make([]KnowledgePoint, upsertBatchSize+10)
	for i := range points {
		points[i] = KnowledgePoint{
			ID:       "7f1c9a43-7c9e-4a5f-9a57-2f1d7b0c2a11",
			Vector:   []float32{1, 2, 3},
			Content:  "hello",
			Metadata: map[string]string{"source_id": "row-1"},
		}
	}

	require.NoError(t, store.Upsert(context.Background(), points))
	require.Len(t, client.upserts, 2)
	assert.Len(t, client.upserts[0].GetPoints(), upsertBatchSize)
	assert.Len(t, client.upserts[1].GetPoints(), 10)

	payload := client.upserts[0].GetPoints()[0].GetPayload()
	assert.Equal(t, "hello", payload[PayloadContent].GetStringValue())
	assert.Equal(t, "row-1", payload["source_id"].GetStringValue())
}

func TestQdrantStore_Ping(t *testing.T) {
	store := NewQdrantStore(&fakePointsClient{}, fakeEmbedder{}, "c")
	assert.NoError(t, store.Ping(context.Background()))
}
