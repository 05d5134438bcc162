package domain

import "testing"

func TestRequestState_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to RequestState
		want     bool
	}{
		{StatePending, StateAccepted, true},
		{StatePending, StateRejected, true},
		{StatePending, StateCompleted, false},
		{StateAccepted, StateCompleted, true},
		{StateAccepted, StateRejected, false},
		{StateRejected, StateAccepted, false},
		{StateCompleted, StatePending, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}
