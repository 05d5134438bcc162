package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/homecare/nursing-api/internal/core/domain"
)

func TestGuardFilter(t *testing.T) {
	notCollected := false
	f := guardFilter(domain.Guard{
		ID:               "sr1",
		ClientID:         "c1",
		State:            domain.StateAccepted,
		PaymentCollected: &notCollected,
	})

	want := bson.M{"_id": "sr1", "client_id": "c1", "state": "accepted", "payment_collected": false}
	if len(f) != len(want) {
		t.Fatalf("expected %v, got %v", want, f)
	}
	for k, v := range want {
		if f[k] != v {
			t.Errorf("%s: expected %v, got %v", k, v, f[k])
		}
	}
	if _, ok := f["nurse_id"]; ok {
		t.Error("unset guard fields must not be filtered on")
	}
}

func TestMutationUpdate_CompleteReleasesInSameSet(t *testing.T) {
	released := true
	notes := "ok"
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	u := mutationUpdate(domain.Mutation{
		State:           domain.StateCompleted,
		PaymentReleased: &released,
		ServiceNotes:    &notes,
		UpdatedAt:       at,
	})

	set, ok := u["$set"].(bson.M)
	if !ok {
		t.Fatalf("expected $set document, got %v", u)
	}
	if set["state"] != "completed" || set["payment_released"] != true || set["service_notes"] != "ok" {
		t.Errorf("unexpected $set: %v", set)
	}
	if set["updated_at"] != at {
		t.Errorf("unexpected updated_at: %v", set["updated_at"])
	}
	if _, ok := set["client_id"]; ok {
		t.Error("participants must never be written by a transition")
	}
	if len(u) != 1 {
		t.Errorf("expected only $set, got %v", u)
	}
}

func TestMutationUpdate_AlwaysTouchesUpdatedAt(t *testing.T) {
	set := mutationUpdate(domain.Mutation{})["$set"].(bson.M)
	if _, ok := set["updated_at"]; !ok {
		t.Fatal("expected updated_at in empty mutation")
	}
}

func TestParticipantField(t *testing.T) {
	if f, _ := participantField(domain.RoleClient); f != "client_id" {
		t.Errorf("client: got %q", f)
	}
	if f, _ := participantField(domain.RoleNurse); f != "nurse_id" {
		t.Errorf("nurse: got %q", f)
	}
	if _, err := participantField("admin"); err == nil {
		t.Error("expected error for unknown role")
	}
}
