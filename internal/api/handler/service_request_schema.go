package handler

import "time"

// --- Request types ---

type createServiceRequestRequest struct {
	NurseID       string    `json:"nurse_id"       validate:"required"`
	PatientIDs    []string  `json:"patient_ids"    validate:"required,min=1,dive,required"`
	Details       string    `json:"details"        validate:"max=4000"`
	ScheduledDate time.Time `json:"scheduled_date" validate:"required"`
	Rate          float64   `json:"rate"           validate:"required,gt=0"`
}

type respondRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

type completeRequest struct {
	ServiceNotes string `json:"service_notes" validate:"max=4000"`
}

type reportRequest struct {
	Observations    string `json:"observations"    validate:"required_without=Recommendations,max=4000"`
	Recommendations string `json:"recommendations" validate:"required_without=Observations,max=4000"`
}

// --- Response types ---
// Kept apart from the domain types so the JSON contract does not follow
// storage changes.

type reportResponse struct {
	Observations    string    `json:"observations"`
	Recommendations string    `json:"recommendations"`
	FiledAt         time.Time `json:"filed_at"`
}

type serviceRequestLinks struct {
	Self    string `json:"self"`
	History string `json:"history"`
}

type serviceRequestResponse struct {
	ID               string              `json:"id"`
	ClientID         string              `json:"client_id"`
	NurseID          string              `json:"nurse_id"`
	PatientIDs       []string            `json:"patient_ids"`
	Details          string              `json:"details"`
	ScheduledDate    time.Time           `json:"scheduled_date"`
	Rate             float64             `json:"rate"`
	State            string              `json:"state"`
	PaymentCollected bool                `json:"payment_collected"`
	PaymentReleased  bool                `json:"payment_released"`
	ServiceNotes     string              `json:"service_notes,omitempty"`
	Report           *reportResponse     `json:"report,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	Links            serviceRequestLinks `json:"_links"`
}

type transactionResponse struct {
	ID               string    `json:"id"`
	ServiceRequestID string    `json:"service_request_id"`
	Amount           float64   `json:"amount"`
	Reference        string    `json:"reference"`
	CreatedAt        time.Time `json:"created_at"`
}

type paymentResponse struct {
	ServiceRequest serviceRequestResponse `json:"service_request"`
	Transaction    transactionResponse    `json:"transaction"`
}

type lifecycleEventResponse struct {
	Transition string    `json:"transition"`
	ActorID    string    `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	State      string    `json:"state"`
	OccurredAt time.Time `json:"occurred_at"`
}
