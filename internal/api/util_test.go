package api

import (
	"testing"

	"github.com/Techlemariam/IronForge-sub002/internal/game"
)

func TestMarshalIntoSnakeTimestampsOnSingleDuel(t *testing.T) {
	d := &game.DuelChallenge{
		PublicID:     "8f14e45f-ceea-4a7b-b0d5-1f32e58f92a1",
		ChallengerID: 1,
		DefenderID:   2,
		Status:       game.DuelStatusPending,
		Variant:      game.VariantDistanceRace,
		TargetValue:  10,
	}
	out, err := MarshalIntoSnakeTimestamps(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := out.(map[string]interface{})
	if !ok {
		t.Fatalf("expected an object, got %T", out)
	}
	for _, key := range []string{"CreatedAt", "UpdatedAt", "DeletedAt"} {
		if _, found := m[key]; found {
			t.Fatalf("CamelCase key %q must not leak into responses", key)
		}
	}
	if _, found := m["created_at"]; !found {
		t.Fatalf("expected a created_at key, got keys %v", m)
	}
	if m["public_id"] != d.PublicID {
		t.Fatalf("unexpected public_id %v", m["public_id"])
	}
}
