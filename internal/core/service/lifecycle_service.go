package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/homecare/nursing-api/internal/core/access"
	"github.com/homecare/nursing-api/internal/core/domain"
	"github.com/homecare/nursing-api/internal/core/ports"
)

const revertTimeout = 5 * time.Second

// LifecycleDeps groups the collaborators of LifecycleService. Events and
// Idempotency are optional.
type LifecycleDeps struct {
	Requests     ports.ServiceRequestRepository
	Patients     ports.PatientRepository
	Identities   ports.IdentityRepository
	Transactions ports.TransactionRepository
	Audit        ports.AuditRepository
	Events       ports.EventPublisher
	Idempotency  ports.IdempotencyStore
}

// LifecycleService drives service requests from creation to payment release.
// Every state change goes through ServiceRequestRepository.Transition.
type LifecycleService struct {
	deps   LifecycleDeps
	logger zerolog.Logger
	now    func() time.Time
}

func NewLifecycleService(deps LifecycleDeps, logger zerolog.Logger) *LifecycleService {
	return &LifecycleService{deps: deps, logger: logger, now: time.Now}
}

// Create records a new pending request from a client for one of their
// patients. Ownership of every patient is checked here and never again.
func (s *LifecycleService) Create(ctx context.Context, actor domain.Principal, in ports.CreateServiceRequestInput) (res *ports.CreateResult, err error) {
	if actor.Role != domain.RoleClient {
		return nil, domain.ErrForbidden
	}
	patientIDs, err := validateCreate(in)
	if err != nil {
		return nil, err
	}

	useKey := in.IdempotencyKey != "" && s.deps.Idempotency != nil
	if useKey {
		replay, claimed, cerr := s.claimIdempotencyKey(ctx, actor, in.IdempotencyKey)
		if cerr != nil {
			return nil, cerr
		}
		if replay != nil {
			return &ports.CreateResult{ServiceRequest: replay, Replayed: true}, nil
		}
		useKey = claimed
		if claimed {
			defer func() {
				if err == nil {
					return
				}
				if rerr := s.deps.Idempotency.Release(ctx, actor.ID, in.IdempotencyKey); rerr != nil {
					s.logger.Warn().Err(rerr).Str("idempotency_key", in.IdempotencyKey).Msg("failed to release idempotency key")
				}
			}()
		}
	}

	if err := s.checkNurse(ctx, in.NurseID); err != nil {
		return nil, err
	}

	owned, err := s.deps.Patients.OwnedBy(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("create service request: load patients: %w", err)
	}
	if !access.OwnsPatients(actor, patientIDs, owned) {
		return nil, domain.ErrForbidden
	}

	now := s.now().UTC()
	sr := &domain.ServiceRequest{
		ID:            uuid.NewString(),
		ClientID:      actor.ID,
		NurseID:       in.NurseID,
		PatientIDs:    patientIDs,
		Details:       strings.TrimSpace(in.Details),
		ScheduledDate: in.ScheduledDate.UTC(),
		Rate:          in.Rate,
		State:         domain.StatePending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.deps.Requests.Create(ctx, sr); err != nil {
		s.logger.Error().Err(err).Msg("failed to create service request")
		return nil, fmt.Errorf("create service request: %w", err)
	}

	if useKey {
		if berr := s.deps.Idempotency.Bind(ctx, actor.ID, in.IdempotencyKey, sr.ID); berr != nil {
			s.logger.Warn().Err(berr).Str("idempotency_key", in.IdempotencyKey).Msg("failed to bind idempotency key")
		}
	}

	s.logger.Info().
		Str("service_request_id", sr.ID).
		Str("client_id", sr.ClientID).
		Str("nurse_id", sr.NurseID).
		Msg("service request created")
	s.publish(sr, domain.TransitionCreate, actor)

	return &ports.CreateResult{ServiceRequest: sr}, nil
}

// claimIdempotencyKey returns the earlier request when the key was already
// used by this client. Store failures are logged and the create proceeds.
func (s *LifecycleService) claimIdempotencyKey(ctx context.Context, actor domain.Principal, key string) (*domain.ServiceRequest, bool, error) {
	existingID, claimed, err := s.deps.Idempotency.Claim(ctx, actor.ID, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency check failed, creating anyway")
		return nil, false, nil
	}
	if claimed {
		return nil, true, nil
	}
	if existingID == "" {
		return nil, false, domain.ErrIdempotencyInUse
	}

	existing, err := s.deps.Requests.FindByID(ctx, existingID)
	if err != nil {
		return nil, false, fmt.Errorf("idempotent replay: %w", err)
	}
	if existing.ClientID != actor.ID {
		return nil, false, domain.ErrForbidden
	}
	s.logger.Info().Str("idempotency_key", key).Str("service_request_id", existing.ID).Msg("idempotent replay")
	return existing, false, nil
}

func (s *LifecycleService) checkNurse(ctx context.Context, nurseID string) error {
	nurse, err := s.deps.Identities.FindByID(ctx, nurseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: unknown nurse %q", domain.ErrInvalid, nurseID)
		}
		return fmt.Errorf("create service request: load nurse: %w", err)
	}
	if nurse.Role != domain.RoleNurse {
		return fmt.Errorf("%w: %q is not a nurse", domain.ErrInvalid, nurseID)
	}
	return nil
}

func validateCreate(in ports.CreateServiceRequestInput) ([]string, error) {
	if in.NurseID == "" {
		return nil, fmt.Errorf("%w: nurse_id is required", domain.ErrInvalid)
	}
	if in.ScheduledDate.IsZero() {
		return nil, fmt.Errorf("%w: scheduled_date is required", domain.ErrInvalid)
	}
	if in.Rate <= 0 {
		return nil, fmt.Errorf("%w: rate must be greater than 0", domain.ErrInvalid)
	}

	seen := make(map[string]struct{}, len(in.PatientIDs))
	ids := make([]string, 0, len(in.PatientIDs))
	for _, id := range in.PatientIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one patient is required", domain.ErrInvalid)
	}
	return ids, nil
}

// Get returns a request to one of its participants.
func (s *LifecycleService) Get(ctx context.Context, actor domain.Principal, id string) (*domain.ServiceRequest, error) {
	sr, err := s.deps.Requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CanRead(sr, actor); err != nil {
		return nil, err
	}
	return sr, nil
}

// ListMine returns the requests where actor is the client or the nurse,
// depending on its role.
func (s *LifecycleService) ListMine(ctx context.Context, actor domain.Principal) ([]*domain.ServiceRequest, error) {
	if !actor.Role.Valid() || actor.ID == "" {
		return nil, domain.ErrForbidden
	}
	return s.deps.Requests.ListByParticipant(ctx, actor.Role, actor.ID)
}

// History returns the audit trail of a request to one of its participants.
func (s *LifecycleService) History(ctx context.Context, actor domain.Principal, id string) ([]*domain.LifecycleEvent, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.deps.Audit.ListByServiceRequest(ctx, id)
}

// Respond moves a pending request to accepted or rejected. Of two concurrent
// responses only one can match the pending guard; the other gets
// domain.ErrNotPending.
func (s *LifecycleService) Respond(ctx context.Context, actor domain.Principal, id string, target domain.RequestState) (*domain.ServiceRequest, error) {
	var transition domain.Transition
	switch target {
	case domain.StateAccepted:
		transition = domain.TransitionAccept
	case domain.StateRejected:
		transition = domain.TransitionReject
	default:
		return nil, fmt.Errorf("%w: status must be accepted or rejected", domain.ErrInvalid)
	}

	guard := domain.Guard{ID: id, NurseID: actor.ID, State: domain.StatePending}
	m := domain.Mutation{State: target, UpdatedAt: s.now().UTC()}

	return s.transition(ctx, actor, transition, domain.RoleNurse, guard, m, func(sr *domain.ServiceRequest) error {
		if !access.IsAssignedNurse(sr, actor) {
			return domain.ErrForbidden
		}
		return domain.ErrNotPending
	})
}

// CollectPayment flags the payment of an accepted request as collected and
// records the matching Transaction. It succeeds at most once per request.
func (s *LifecycleService) CollectPayment(ctx context.Context, actor domain.Principal, id string) (*ports.PaymentResult, error) {
	notCollected, collected := false, true
	guard := domain.Guard{ID: id, ClientID: actor.ID, State: domain.StateAccepted, PaymentCollected: &notCollected}
	m := domain.Mutation{PaymentCollected: &collected, UpdatedAt: s.now().UTC()}

	sr, err := s.transition(ctx, actor, domain.TransitionCollectPayment, domain.RoleClient, guard, m, func(sr *domain.ServiceRequest) error {
		switch {
		case !access.IsOwningClient(sr, actor):
			return domain.ErrForbidden
		case sr.State != domain.StateAccepted:
			return domain.ErrInvalidTransition
		case sr.PaymentCollected:
			return domain.ErrPaymentCollected
		default:
			return domain.ErrConflict
		}
	})
	if err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		ID:               uuid.NewString(),
		ServiceRequestID: sr.ID,
		ClientID:         sr.ClientID,
		NurseID:          sr.NurseID,
		Amount:           sr.Rate,
		Reference:        transactionReference(),
		CreatedAt:        s.now().UTC(),
	}
	if err := s.deps.Transactions.Record(ctx, tx); err != nil {
		if errors.Is(err, domain.ErrPaymentCollected) {
			// A Transaction for this request already exists, so the flag stays set.
			s.logger.Warn().Str("service_request_id", sr.ID).Msg("transaction already recorded, keeping payment collected")
			return nil, err
		}
		s.revertCollection(ctx, sr)
		return nil, fmt.Errorf("collect payment: record transaction: %w", err)
	}

	s.logger.Info().
		Str("service_request_id", sr.ID).
		Str("transaction_id", tx.ID).
		Float64("amount", tx.Amount).
		Msg("payment collected")

	return &ports.PaymentResult{ServiceRequest: sr, Transaction: tx}, nil
}

// revertCollection clears the collected flag after a failed Transaction
// write so the client can retry. It runs detached from ctx because the
// caller may already be gone.
func (s *LifecycleService) revertCollection(ctx context.Context, sr *domain.ServiceRequest) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), revertTimeout)
	defer cancel()

	collected, cleared := true, false
	guard := domain.Guard{ID: sr.ID, ClientID: sr.ClientID, State: domain.StateAccepted, PaymentCollected: &collected}
	if _, err := s.deps.Requests.Transition(ctx, guard, domain.Mutation{PaymentCollected: &cleared, UpdatedAt: s.now().UTC()}); err != nil {
		s.logger.Error().Err(err).Str("service_request_id", sr.ID).Msg("failed to revert payment collection")
	}
}

// Complete closes an accepted request. Escrow release happens in the same
// update that sets the completed state.
func (s *LifecycleService) Complete(ctx context.Context, actor domain.Principal, id, serviceNotes string) (*domain.ServiceRequest, error) {
	released := true
	notes := strings.TrimSpace(serviceNotes)
	guard := domain.Guard{ID: id, NurseID: actor.ID, State: domain.StateAccepted}
	m := domain.Mutation{
		State:           domain.StateCompleted,
		PaymentReleased: &released,
		ServiceNotes:    &notes,
		UpdatedAt:       s.now().UTC(),
	}

	return s.transition(ctx, actor, domain.TransitionComplete, domain.RoleNurse, guard, m, s.nurseStateDenial(actor))
}

// FileReport attaches the nurse's report to a completed request. Repeated
// calls overwrite the previous report.
func (s *LifecycleService) FileReport(ctx context.Context, actor domain.Principal, id string, in ports.ReportInput) (*domain.ServiceRequest, error) {
	obs, rec := strings.TrimSpace(in.Observations), strings.TrimSpace(in.Recommendations)
	if obs == "" && rec == "" {
		return nil, fmt.Errorf("%w: report needs observations or recommendations", domain.ErrInvalid)
	}

	now := s.now().UTC()
	guard := domain.Guard{ID: id, NurseID: actor.ID, State: domain.StateCompleted}
	m := domain.Mutation{
		Report:    &domain.Report{Observations: obs, Recommendations: rec, FiledAt: now},
		UpdatedAt: now,
	}

	return s.transition(ctx, actor, domain.TransitionFileReport, domain.RoleNurse, guard, m, s.nurseStateDenial(actor))
}

func (s *LifecycleService) nurseStateDenial(actor domain.Principal) func(*domain.ServiceRequest) error {
	return func(sr *domain.ServiceRequest) error {
		if !access.IsAssignedNurse(sr, actor) {
			return domain.ErrForbidden
		}
		return domain.ErrInvalidTransition
	}
}

// transition applies a guarded update. When the guard rejects, the record
// is loaded once and deny decides which error the caller sees.
func (s *LifecycleService) transition(
	ctx context.Context,
	actor domain.Principal,
	t domain.Transition,
	role domain.Role,
	guard domain.Guard,
	m domain.Mutation,
	deny func(*domain.ServiceRequest) error,
) (*domain.ServiceRequest, error) {
	if m.State != "" && !guard.State.CanTransitionTo(m.State) {
		return nil, fmt.Errorf("%s: %w: %s to %s", t, domain.ErrInvalidTransition, guard.State, m.State)
	}
	if actor.Role == role && actor.ID != "" {
		updated, err := s.deps.Requests.Transition(ctx, guard, m)
		if err == nil {
			s.logger.Info().
				Str("service_request_id", updated.ID).
				Str("transition", string(t)).
				Str("state", string(updated.State)).
				Msg("service request transitioned")
			s.publish(updated, t, actor)
			return updated, nil
		}
		if !errors.Is(err, ports.ErrGuardRejected) {
			return nil, fmt.Errorf("%s: %w", t, err)
		}
	}

	current, err := s.deps.Requests.FindByID(ctx, guard.ID)
	if err != nil {
		return nil, err
	}
	denial := deny(current)
	s.logger.Debug().
		Str("service_request_id", guard.ID).
		Str("transition", string(t)).
		Str("state", string(current.State)).
		Err(denial).
		Msg("transition denied")
	return nil, denial
}

func (s *LifecycleService) publish(sr *domain.ServiceRequest, t domain.Transition, actor domain.Principal) {
	if s.deps.Events == nil {
		return
	}
	s.deps.Events.Publish(domain.LifecycleEvent{
		ServiceRequestID: sr.ID,
		Transition:       t,
		ActorID:          actor.ID,
		ActorRole:        actor.Role,
		State:            sr.State,
		OccurredAt:       s.now().UTC(),
	})
}

// transactionReference returns a reference in the format TX-XXXXXXXXXXXX.
func transactionReference() string {
	return "TX-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
