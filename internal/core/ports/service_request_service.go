package ports

import (
	"context"
	"time"

	"github.com/homecare/nursing-api/internal/core/domain"
)

// CreateServiceRequestInput carries the fields for a new service request.
type CreateServiceRequestInput struct {
	NurseID        string
	PatientIDs     []string
	Details        string
	ScheduledDate  time.Time
	Rate           float64
	IdempotencyKey string
}

// CreateResult wraps a created request; Replayed is true when an
// Idempotency-Key matched an earlier request.
type CreateResult struct {
	ServiceRequest *domain.ServiceRequest
	Replayed       bool
}

// PaymentResult is returned by CollectPayment.
type PaymentResult struct {
	ServiceRequest *domain.ServiceRequest
	Transaction    *domain.Transaction
}

// ReportInput carries a nurse's report.
type ReportInput struct {
	Observations    string
	Recommendations string
}

// LifecycleService drives a service request through its state machine.
type LifecycleService interface {
	Create(ctx context.Context, actor domain.Principal, input CreateServiceRequestInput) (*CreateResult, error)
	Get(ctx context.Context, actor domain.Principal, id string) (*domain.ServiceRequest, error)
	ListMine(ctx context.Context, actor domain.Principal) ([]*domain.ServiceRequest, error)
	History(ctx context.Context, actor domain.Principal, id string) ([]*domain.LifecycleEvent, error)
	// Respond accepts or rejects a pending request; target must be
	// domain.StateAccepted or domain.StateRejected.
	Respond(ctx context.Context, actor domain.Principal, id string, target domain.RequestState) (*domain.ServiceRequest, error)
	CollectPayment(ctx context.Context, actor domain.Principal, id string) (*PaymentResult, error)
	Complete(ctx context.Context, actor domain.Principal, id, serviceNotes string) (*domain.ServiceRequest, error)
	FileReport(ctx context.Context, actor domain.Principal, id string, input ReportInput) (*domain.ServiceRequest, error)
}
