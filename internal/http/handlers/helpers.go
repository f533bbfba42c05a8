package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"zaiqa-pos/internal/middleware"
	"zaiqa-pos/pkg/response"

	"github.com/go-chi/chi/v5"
)

var errMissingParam = errors.New("missing param")

func readPathString(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

func readPathInt64(r *http.Request, key string) (int64, error) {
	value := readPathString(r, key)
	if value == "" {
		return 0, errMissingParam
	}
	var out int64
	_, err := fmt.Sscan(value, &out)
	return out, err
}

func queryInt64(r *http.Request, key string) int64 {
	var out int64
	if _, err := fmt.Sscan(r.URL.Query().Get(key), &out); err != nil {
		return 0
	}
	return out
}

func decodeJSON(r *http.Request, dest any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dest)
}

func badRequest(w http.ResponseWriter, message string) {
	response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", message)
}

func mustAuth(w http.ResponseWriter, r *http.Request) (*middleware.AuthContext, bool) {
	authCtx, ok := middleware.GetAuthContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return nil, false
	}
	return authCtx, true
}

// resolveBranch picks the effective branch for a staff request. Staff
// are pinned to their token's branch; admins may address any branch via
// the request.
func resolveBranch(authCtx *middleware.AuthContext, requested int64) (int64, error) {
	if authCtx.BranchID != nil {
		if requested != 0 && requested != *authCtx.BranchID {
			return 0, errors.New("branch not accessible with this token")
		}
		return *authCtx.BranchID, nil
	}
	if requested == 0 {
		return 0, errors.New("branchId is required")
	}
	return requested, nil
}
