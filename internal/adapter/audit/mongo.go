// Package audit stores the admin audit trail.
package audit

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	domain "grocery-delivery-service/internal/domain/audit"
	"grocery-delivery-service/internal/domain/common"
)

const collectionName = "audit_log"

type entryDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ActorID   int64              `bson:"actor_id"`
	ActorRole string             `bson:"actor_role"`
	Method    string             `bson:"method"`
	Route     string             `bson:"route"`
	Path      string             `bson:"path"`
	Status    int                `bson:"status"`
	ClientIP  string             `bson:"client_ip"`
	RequestID string             `bson:"request_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d *entryDocument) toEntry() domain.Entry {
	return domain.Entry{
		ID:        d.ID.Hex(),
		ActorID:   d.ActorID,
		ActorRole: d.ActorRole,
		Method:    d.Method,
		Route:     d.Route,
		Path:      d.Path,
		Status:    d.Status,
		ClientIP:  d.ClientIP,
		RequestID: d.RequestID,
		CreatedAt: d.CreatedAt,
	}
}

// MongoStore writes and reads audit entries in a MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
	log  *zap.Logger
}

// NewMongoStore uses the audit collection of db.
func NewMongoStore(db *mongo.Database, log *zap.Logger) *MongoStore {
	return NewMongoStoreWithCollection(db.Collection(collectionName), log)
}

func NewMongoStoreWithCollection(coll *mongo.Collection, log *zap.Logger) *MongoStore {
	return &MongoStore{coll: coll, log: log}
}

// EnsureIndexes creates the indexes used by List.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create audit indexes: %w", err)
	}
	return nil
}

// Record inserts one entry.
func (s *MongoStore) Record(ctx context.Context, e domain.Entry) error {
	doc := entryDocument{
		ActorID:   e.ActorID,
		ActorRole: e.ActorRole,
		Method:    e.Method,
		Route:     e.Route,
		Path:      e.Path,
		Status:    e.Status,
		ClientIP:  e.ClientIP,
		RequestID: e.RequestID,
		CreatedAt: e.CreatedAt.UTC(),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		s.log.Error("failed to record audit entry", zap.String("path", e.Path), zap.Error(err))
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// List returns entries newest first with the total matching count.
func (s *MongoStore) List(ctx context.Context, f domain.Filter) ([]domain.Entry, int64, error) {
	page, limit := common.NormalizePage(f.Page, f.Limit)
	query := buildQuery(f)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(common.Offset(page, limit))).
		SetLimit(limit)

	cur, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}
	var docs []entryDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode audit entries: %w", err)
	}

	total, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	entries := make([]domain.Entry, len(docs))
	for i := range docs {
		entries[i] = docs[i].toEntry()
	}
	return entries, total, nil
}

func buildQuery(f domain.Filter) bson.M {
	query := bson.M{}
	if f.ActorID > 0 {
		query["actor_id"] = f.ActorID
	}
	created := bson.M{}
	if f.From != nil {
		created["$gte"] = f.From.UTC()
	}
	if f.To != nil {
		created["$lte"] = f.To.UTC()
	}
	if len(created) > 0 {
		query["created_at"] = created
	}
	return query
}

// Noop discards entries. Used when no MongoDB is configured.
type Noop struct{}

func (Noop) Record(context.Context, domain.Entry) error { return nil }

func (Noop) List(context.Context, domain.Filter) ([]domain.Entry, int64, error) {
	return []domain.Entry{}, 0, nil
}
