package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/homecare/nursing-api/internal/core/domain"
)

const collectionLifecycleEvents = "service_request_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionLifecycleEvents)}
}

// InsertEvent persists a lifecycle event to the audit collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.LifecycleEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"service_request_id": event.ServiceRequestID,
		"transition":         string(event.Transition),
		"actor_id":           event.ActorID,
		"actor_role":         string(event.ActorRole),
		"state":              string(event.State),
		"occurred_at":        event.OccurredAt.UTC(),
		"recorded_at":        time.Now().UTC(),
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}

// ListByServiceRequest returns the trail oldest first.
func (r *AuditRepository) ListByServiceRequest(ctx context.Context, serviceRequestID string) ([]*domain.LifecycleEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"service_request_id": serviceRequestID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list lifecycle events: %w", err)
	}
	out := make([]*domain.LifecycleEvent, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode lifecycle events: %w", err)
	}
	return out, nil
}

func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "service_request_id", Value: 1}, {Key: "occurred_at", Value: 1}},
	})
	return err
}
