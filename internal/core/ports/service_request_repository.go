package ports

import (
	"context"

	"github.com/homecare/nursing-api/internal/core/domain"
)

// ServiceRequestRepository defines persistence for service requests.
// Mutations are only expressed through Transition.
type ServiceRequestRepository interface {
	Create(ctx context.Context, sr *domain.ServiceRequest) error
	// FindByID returns domain.ErrServiceRequestNotFound when absent.
	FindByID(ctx context.Context, id string) (*domain.ServiceRequest, error)
	// ListByParticipant returns requests where the role's participant field equals id.
	ListByParticipant(ctx context.Context, role domain.Role, id string) ([]*domain.ServiceRequest, error)
	// Transition applies m in a single atomic update iff the stored record
	// satisfies guard, and returns the updated record. It returns
	// ErrGuardRejected when nothing matched.
	Transition(ctx context.Context, guard domain.Guard, m domain.Mutation) (*domain.ServiceRequest, error)
}

// TransactionRepository records payment collections.
type TransactionRepository interface {
	Record(ctx context.Context, tx *domain.Transaction) error
}

// AuditRepository stores the lifecycle audit trail.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.LifecycleEvent) error
	ListByServiceRequest(ctx context.Context, serviceRequestID string) ([]*domain.LifecycleEvent, error)
}

// EventPublisher hands a lifecycle event off for asynchronous recording.
type EventPublisher interface {
	Publish(event domain.LifecycleEvent)
}

// IdempotencyStore remembers which request a client's Idempotency-Key produced.
type IdempotencyStore interface {
	// Claim reserves key for clientID. When the key was already bound it
	// returns the bound service request id and claimed=false.
	Claim(ctx context.Context, clientID, key string) (existingID string, claimed bool, err error)
	Bind(ctx context.Context, clientID, key, serviceRequestID string) error
	Release(ctx context.Context, clientID, key string) error
}
