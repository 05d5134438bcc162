package domain

import "time"

// Patient is a person receiving care, owned by exactly one client.
type Patient struct {
	ID        string    `json:"id" bson:"_id"`
	OwnerID   string    `json:"owner_id" bson:"owner_id"`
	Name      string    `json:"name" bson:"name"`
	BirthDate time.Time `json:"birth_date,omitempty" bson:"birth_date,omitempty"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
