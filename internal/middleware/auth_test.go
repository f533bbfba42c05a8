package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"zaiqa-pos/internal/auth"
)

const testSecret = "test-secret"

func staffToken(t *testing.T, claims *auth.Claims) string {
	t.Helper()
	token, err := auth.SignAccessToken(claims, testSecret, time.Minute)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestStaffAuthPopulatesContext(t *testing.T) {
	branchID := int64(3)
	name := "Ayesha"

	cases := []struct {
		name     string
		claims   *auth.Claims
		wantName string
	}{
		{
			name:     "with display name",
			claims:   &auth.Claims{UserID: 7, Role: auth.RoleStaff, Email: "a@zaiqa.pk", BranchID: &branchID, Name: &name},
			wantName: "Ayesha",
		},
		{
			name:   "without display name",
			claims: &auth.Claims{UserID: 7, Role: auth.RoleStaff, Email: "a@zaiqa.pk", BranchID: &branchID},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got *AuthContext
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = GetAuthContext(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/api/staff/orders/1", nil)
			req.Header.Set("Authorization", "Bearer "+staffToken(t, tc.claims))
			rec := httptest.NewRecorder()
			StaffAuth(testSecret)(next).ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if got == nil {
				t.Fatal("auth context not set")
			}
			if got.UserID != 7 || got.BranchID == nil || *got.BranchID != branchID {
				t.Fatalf("unexpected auth context: %+v", got)
			}
			if got.Name != tc.wantName {
				t.Fatalf("expected name %q, got %q", tc.wantName, got.Name)
			}
		})
	}
}

func TestStaffAuthRejections(t *testing.T) {
	branchID := int64(3)

	cases := []struct {
		name       string
		claims     *auth.Claims
		rawHeader  string
		wantStatus int
	}{
		{name: "missing token", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", rawHeader: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized},
		{
			name:       "customer role",
			claims:     &auth.Claims{UserID: 9, Role: auth.RoleCustomer, BranchID: &branchID},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "staff without branch",
			claims:     &auth.Claims{UserID: 9, Role: auth.RoleStaff},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler should not run")
			})

			req := httptest.NewRequest(http.MethodGet, "/api/staff/orders/1", nil)
			switch {
			case tc.claims != nil:
				req.Header.Set("Authorization", "Bearer "+staffToken(t, tc.claims))
			case tc.rawHeader != "":
				req.Header.Set("Authorization", tc.rawHeader)
			}
			rec := httptest.NewRecorder()
			StaffAuth(testSecret)(next).ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}
