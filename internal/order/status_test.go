package order

import (
	"testing"

	"zaiqa-pos/internal/auth"
)

func TestTransitionEdges(t *testing.T) {
	cases := []struct {
		name       string
		current    Status
		requested  Status
		expectOK   bool
		expectCode ErrorCode
	}{
		{name: "pending to preparing", current: StatusPending, requested: StatusPreparing, expectOK: true},
		{name: "preparing to ready", current: StatusPreparing, requested: StatusReady, expectOK: true},
		{name: "ready to completed", current: StatusReady, requested: StatusCompleted, expectOK: true},
		{name: "pending to cancelled", current: StatusPending, requested: StatusCancelled, expectOK: true},
		{name: "preparing to cancelled", current: StatusPreparing, requested: StatusCancelled, expectOK: true},
		{name: "pending skips to ready", current: StatusPending, requested: StatusReady, expectCode: ErrInvalidTransition},
		{name: "ready cannot cancel", current: StatusReady, requested: StatusCancelled, expectCode: ErrInvalidTransition},
		{name: "completed cannot cancel", current: StatusCompleted, requested: StatusCancelled, expectCode: ErrInvalidTransition},
		{name: "cancelled is terminal", current: StatusCancelled, requested: StatusPreparing, expectCode: ErrInvalidTransition},
		{name: "completed is terminal", current: StatusCompleted, requested: StatusPending, expectCode: ErrInvalidTransition},
		{name: "no self transition", current: StatusPending, requested: StatusPending, expectCode: ErrInvalidTransition},
		{name: "unknown status rejected", current: StatusPending, requested: Status("SHIPPED"), expectCode: ErrInvalidTransition},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Transition(tc.current, tc.requested, auth.RoleStaff)
			if tc.expectOK {
				if err != nil {
					t.Fatalf("expected transition to succeed, got %v", err)
				}
				return
			}
			if err == nil || err.Code != tc.expectCode {
				t.Fatalf("expected %s, got %v", tc.expectCode, err)
			}
		})
	}
}

func TestTransitionRoleGate(t *testing.T) {
	err := Transition(StatusPending, StatusPreparing, auth.RoleCustomer)
	if err == nil || err.Code != ErrForbidden {
		t.Fatalf("customer transition should be forbidden, got %v", err)
	}

	for _, role := range []auth.UserRole{auth.RoleAdmin, auth.RoleStaff} {
		if err := Transition(StatusPending, StatusPreparing, role); err != nil {
			t.Fatalf("%s should be allowed to transition, got %v", role, err)
		}
	}
}
