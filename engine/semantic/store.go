// Package semantic owns all Qdrant vector store operations for the medical
// QA collection: collection lifecycle, batched upserts, and cosine ANN search.
package semantic

import (
	"context"
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/MedAssistAI/medqa-mvp/engine/domain"
)

// HNSW build parameters. Generous construction effort buys query-time recall
// at the cost of a slower one-time index build.
const (
	hnswM           = 32
	hnswEfConstruct = 500
	searchEf        = 128
)

// VectorStore is the sole owner of all Qdrant operations.
type VectorStore struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
	dims        int
}

// New creates a VectorStore connected to Qdrant at the given gRPC address.
func New(addr string, collection string) (*VectorStore, error) {
	if addr == "" {
		return nil, fmt.Errorf("semantic: %w", domain.ErrMissingEndpoint)
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("semantic: dial qdrant %s: %w", addr, err)
	}
	return &VectorStore{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
		dims:        domain.VectorDims,
	}, nil
}

// Close closes the underlying gRPC connection.
func (v *VectorStore) Close() error {
	return v.conn.Close()
}

// Exists reports whether the collection is present.
func (v *VectorStore) Exists(ctx context.Context) (bool, error) {
	list, err := v.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return false, fmt.Errorf("semantic: list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == v.collection {
			return true, nil
		}
	}
	return false, nil
}

// EnsureCollection creates the collection if it doesn't exist. This is the
// operational ingestion path: an existing collection is left untouched.
func (v *VectorStore) EnsureCollection(ctx context.Context) error {
	exists, err := v.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return v.create(ctx)
}

// RecreateCollection drops the collection if present and creates it fresh.
// Destructive: every stored record is lost. Used for deterministic
// re-ingestion; must not run concurrently with searches.
func (v *VectorStore) RecreateCollection(ctx context.Context) error {
	exists, err := v.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		if _, err := v.collections.Delete(ctx, &pb.DeleteCollection{CollectionName: v.collection}); err != nil {
			return fmt.Errorf("semantic: drop collection %s: %w", v.collection, err)
		}
	}
	return v.create(ctx)
}

func (v *VectorStore) create(ctx context.Context) error {
	m := uint64(hnswM)
	efConstruct := uint64(hnswEfConstruct)
	_, err := v.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: v.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(v.dims),
					Distance: pb.Distance_Cosine,
				},
			},
		},
		HnswConfig: &pb.HnswConfigDiff{
			M:           &m,
			EfConstruct: &efConstruct,
		},
	})
	if err != nil {
		return fmt.Errorf("semantic: create collection %s: %w", v.collection, err)
	}
	return nil
}

// Upsert stores QA records in a single waited batch. A record whose vector
// dimension does not match the collection is rejected before anything is
// written. There is no partial-batch rollback: on failure the whole
// ingestion run is retried from scratch.
func (v *VectorStore) Upsert(ctx context.Context, records []domain.QARecord) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]*pb.PointStruct, len(records))
	for i, r := range records {
		if len(r.Vector) != v.dims {
			return fmt.Errorf("semantic: record %d: %w: got %d, want %d",
				r.ID, domain.ErrDimensionMismatch, len(r.Vector), v.dims)
		}
		points[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Num{Num: uint64(r.ID)},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: r.Vector},
				},
			},
			Payload: map[string]*pb.Value{
				"question": {Kind: &pb.Value_StringValue{StringValue: r.Question}},
				"answer":   {Kind: &pb.Value_StringValue{StringValue: r.Answer}},
				"url":      {Kind: &pb.Value_StringValue{StringValue: r.URL}},
				"category": {Kind: &pb.Value_StringValue{StringValue: r.Category}},
			},
		}
	}

	wait := true
	_, err := v.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: v.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("semantic: upsert %d points: %w: %v", len(records), domain.ErrIndexWrite, err)
	}
	return nil
}

// Count returns the exact number of stored records.
func (v *VectorStore) Count(ctx context.Context) (uint64, error) {
	exact := true
	resp, err := v.points.Count(ctx, &pb.CountPoints{
		CollectionName: v.collection,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("semantic: count: %w", mapNotFound(err))
	}
	return resp.GetResult().GetCount(), nil
}

// Search performs cosine k-NN search and returns hits ordered by descending
// similarity, each carrying its stored payload fields. Fewer than k hits are
// returned when the collection holds fewer records.
func (v *VectorStore) Search(ctx context.Context, vector []float32, k int) ([]domain.SearchHit, error) {
	ef := uint64(searchEf)
	resp, err := v.points.Search(ctx, &pb.SearchPoints{
		CollectionName: v.collection,
		Vector:         vector,
		Limit:          uint64(k),
		Params:         &pb.SearchParams{HnswEf: &ef},
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("semantic: search: %w", mapNotFound(err))
	}

	hits := make([]domain.SearchHit, len(resp.GetResult()))
	for i, r := range resp.GetResult() {
		hit := domain.SearchHit{
			ID:    int64(r.GetId().GetNum()),
			Score: r.GetScore(),
		}
		for key, val := range r.GetPayload() {
			s := val.GetStringValue()
			switch key {
			case "question":
				hit.Question = s
			case "answer":
				hit.Answer = s
			case "url":
				hit.URL = s
			case "category":
				hit.Category = s
			}
		}
		hits[i] = hit
	}
	return hits, nil
}

// mapNotFound translates qdrant's missing-collection failure into the domain
// sentinel so callers can distinguish "ingestion never ran" from transport
// errors.
func mapNotFound(err error) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%w: %v", domain.ErrCollectionNotFound, err)
	}
	return err
}
