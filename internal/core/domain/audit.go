package domain

import "time"

// LifecycleEvent is one entry of a service request's audit trail.
type LifecycleEvent struct {
	ServiceRequestID string       `json:"service_request_id" bson:"service_request_id"`
	Transition       Transition   `json:"transition" bson:"transition"`
	ActorID          string       `json:"actor_id" bson:"actor_id"`
	ActorRole        Role         `json:"actor_role" bson:"actor_role"`
	State            RequestState `json:"state" bson:"state"`
	OccurredAt       time.Time    `json:"occurred_at" bson:"occurred_at"`
}
