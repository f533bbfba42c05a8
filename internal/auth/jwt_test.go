package auth

import (
	"testing"
	"time"
)

func TestParseBearerToken(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		expected string
	}{
		{name: "standard bearer", header: "Bearer abc.def.ghi", expected: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", expected: "abc"},
		{name: "missing scheme", header: "abc", expected: ""},
		{name: "empty", header: "", expected: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseBearerToken(tc.header); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestSignAndVerifyAccessToken(t *testing.T) {
	secret := "test-secret"
	branchID := int64(7)
	token, err := SignAccessToken(&Claims{UserID: 42, Role: RoleStaff, Email: "staff@example.com", BranchID: &branchID}, secret, time.Minute)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	claims, err := VerifyAccessToken(token, secret)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.UserID != 42 || claims.Role != RoleStaff {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.BranchID == nil || *claims.BranchID != 7 {
		t.Fatalf("expected branch 7, got %v", claims.BranchID)
	}

	if _, err := VerifyAccessToken(token, "wrong-secret"); err == nil {
		t.Fatalf("expected verification to fail with wrong secret")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := SignAccessToken(&Claims{UserID: 1, Role: RoleAdmin}, "s", -time.Minute)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := VerifyAccessToken(token, "s"); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestRoleGate(t *testing.T) {
	if !RoleAdmin.CanTransitionOrders() || !RoleStaff.CanTransitionOrders() {
		t.Fatalf("admin and staff must be allowed to transition orders")
	}
	if RoleCustomer.CanTransitionOrders() {
		t.Fatalf("customers must not transition orders")
	}
}
