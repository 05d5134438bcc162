package domain

import "time"

// RequestState represents the lifecycle state of a service request.
type RequestState string

const (
	StatePending   RequestState = "pending"
	StateAccepted  RequestState = "accepted"
	StateRejected  RequestState = "rejected"
	StateCompleted RequestState = "completed"
)

// validTransitions defines the allowed state machine edges. Rejected and
// completed are terminal.
var validTransitions = map[RequestState][]RequestState{
	StatePending:  {StateAccepted, StateRejected},
	StateAccepted: {StateCompleted},
}

// CanTransitionTo reports whether moving from s to next is a legal edge.
func (s RequestState) CanTransitionTo(next RequestState) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition names an operation of the lifecycle.
type Transition string

const (
	TransitionCreate         Transition = "create"
	TransitionAccept         Transition = "accept"
	TransitionReject         Transition = "reject"
	TransitionCollectPayment Transition = "collect_payment"
	TransitionComplete       Transition = "complete"
	TransitionFileReport     Transition = "file_report"
)

// Report holds the nurse's observations after a completed engagement.
type Report struct {
	Observations    string    `json:"observations" bson:"observations"`
	Recommendations string    `json:"recommendations" bson:"recommendations"`
	FiledAt         time.Time `json:"filed_at" bson:"filed_at"`
}

// ServiceRequest is the engagement record between a client and a nurse.
// ClientID and NurseID are fixed at creation.
type ServiceRequest struct {
	ID               string       `json:"id" bson:"_id"`
	ClientID         string       `json:"client_id" bson:"client_id"`
	NurseID          string       `json:"nurse_id" bson:"nurse_id"`
	PatientIDs       []string     `json:"patient_ids" bson:"patient_ids"`
	Details          string       `json:"details" bson:"details"`
	ScheduledDate    time.Time    `json:"scheduled_date" bson:"scheduled_date"`
	Rate             float64      `json:"rate" bson:"rate"`
	State            RequestState `json:"state" bson:"state"`
	PaymentCollected bool         `json:"payment_collected" bson:"payment_collected"`
	PaymentReleased  bool         `json:"payment_released" bson:"payment_released"`
	ServiceNotes     string       `json:"service_notes,omitempty" bson:"service_notes,omitempty"`
	Report           *Report      `json:"report,omitempty" bson:"report,omitempty"`
	CreatedAt        time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at" bson:"updated_at"`
}

// Guard is the precondition a conditional update is keyed on. A zero field
// is not checked, except ID which is always required.
type Guard struct {
	ID               string
	ClientID         string
	NurseID          string
	State            RequestState
	PaymentCollected *bool
}

// Mutation is the set of fields a conditional update writes. Nil pointers
// and an empty State leave the stored value untouched.
type Mutation struct {
	State            RequestState
	PaymentCollected *bool
	PaymentReleased  *bool
	ServiceNotes     *string
	Report           *Report
	UpdatedAt        time.Time
}
