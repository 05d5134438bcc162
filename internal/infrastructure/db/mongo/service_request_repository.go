package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/homecare/nursing-api/internal/core/domain"
	"github.com/homecare/nursing-api/internal/core/ports"
)

const collectionServiceRequests = "service_requests"

// ServiceRequestRepository implements ports.ServiceRequestRepository.
// Every state change is a single FindOneAndUpdate whose filter carries the
// guard, so two concurrent transitions on the same id cannot both apply.
type ServiceRequestRepository struct {
	col *mongo.Collection
}

func NewServiceRequestRepository(db *mongo.Database) *ServiceRequestRepository {
	return &ServiceRequestRepository{col: db.Collection(collectionServiceRequests)}
}

// Create inserts a new service request document.
func (r *ServiceRequestRepository) Create(ctx context.Context, sr *domain.ServiceRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, sr)
	return err
}

func (r *ServiceRequestRepository) FindByID(ctx context.Context, id string) (*domain.ServiceRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var sr domain.ServiceRequest
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&sr)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrServiceRequestNotFound
		}
		return nil, err
	}
	return &sr, nil
}

// ListByParticipant returns the newest requests first.
func (r *ServiceRequestRepository) ListByParticipant(ctx context.Context, role domain.Role, id string) ([]*domain.ServiceRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	field, err := participantField(role)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{field: id}, opts)
	if err != nil {
		return nil, fmt.Errorf("list service requests: %w", err)
	}
	out := make([]*domain.ServiceRequest, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode service requests: %w", err)
	}
	return out, nil
}

// Transition applies m iff the stored document satisfies guard and returns
// the document after the update.
func (r *ServiceRequestRepository) Transition(ctx context.Context, guard domain.Guard, m domain.Mutation) (*domain.ServiceRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var sr domain.ServiceRequest
	err := r.col.FindOneAndUpdate(ctx, guardFilter(guard), mutationUpdate(m), opts).Decode(&sr)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrGuardRejected
		}
		return nil, fmt.Errorf("conditional update: %w", err)
	}
	return &sr, nil
}

// EnsureIndexes creates the participant indexes used by list queries.
func (r *ServiceRequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "nurse_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func participantField(role domain.Role) (string, error) {
	switch role {
	case domain.RoleClient:
		return "client_id", nil
	case domain.RoleNurse:
		return "nurse_id", nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", domain.ErrInvalid, role)
	}
}

func guardFilter(g domain.Guard) bson.M {
	filter := bson.M{"_id": g.ID}
	if g.ClientID != "" {
		filter["client_id"] = g.ClientID
	}
	if g.NurseID != "" {
		filter["nurse_id"] = g.NurseID
	}
	if g.State != "" {
		filter["state"] = string(g.State)
	}
	if g.PaymentCollected != nil {
		filter["payment_collected"] = *g.PaymentCollected
	}
	return filter
}

func mutationUpdate(m domain.Mutation) bson.M {
	set := bson.M{}
	if m.State != "" {
		set["state"] = string(m.State)
	}
	if m.PaymentCollected != nil {
		set["payment_collected"] = *m.PaymentCollected
	}
	if m.PaymentReleased != nil {
		set["payment_released"] = *m.PaymentReleased
	}
	if m.ServiceNotes != nil {
		set["service_notes"] = *m.ServiceNotes
	}
	if m.Report != nil {
		set["report"] = m.Report
	}
	updatedAt := m.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	set["updated_at"] = updatedAt
	return bson.M{"$set": set}
}
