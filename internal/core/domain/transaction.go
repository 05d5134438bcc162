package domain

import "time"

// Transaction records a payment collection for a service request.
// It is written once and never updated.
type Transaction struct {
	ID               string    `json:"id" bson:"_id"`
	ServiceRequestID string    `json:"service_request_id" bson:"service_request_id"`
	ClientID         string    `json:"client_id" bson:"client_id"`
	NurseID          string    `json:"nurse_id" bson:"nurse_id"`
	Amount           float64   `json:"amount" bson:"amount"`
	Reference        string    `json:"reference" bson:"reference"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
}
