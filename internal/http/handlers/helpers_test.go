package handlers

import (
	"testing"

	"zaiqa-pos/internal/auth"
	"zaiqa-pos/internal/middleware"
)

func int64Ptr(v int64) *int64 { return &v }

func TestResolveBranch(t *testing.T) {
	cases := []struct {
		name      string
		tokenID   *int64
		requested int64
		want      int64
		wantErr   bool
	}{
		{"staff uses token branch", int64Ptr(3), 0, 3, false},
		{"staff matching request", int64Ptr(3), 3, 3, false},
		{"staff foreign branch rejected", int64Ptr(3), 4, 0, true},
		{"admin must name a branch", nil, 0, 0, true},
		{"admin any branch", nil, 7, 7, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			authCtx := &middleware.AuthContext{Role: auth.RoleStaff, BranchID: tc.tokenID}
			if tc.tokenID == nil {
				authCtx.Role = auth.RoleAdmin
			}
			got, err := resolveBranch(authCtx, tc.requested)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got branch %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected branch %d, got %d", tc.want, got)
			}
		})
	}
}
