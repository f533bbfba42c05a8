package handlers

import (
	"net/http"
	"strings"

	"zaiqa-pos/internal/report"
	"zaiqa-pos/pkg/response"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type sessionOpenPayload struct {
	BranchID    int64           `json:"branchId"`
	TillID      string          `json:"tillId"`
	OpeningCash decimal.Decimal `json:"openingCash"`
}

func (h *Handler) SessionOpen(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := mustAuth(w, r)
	if !ok {
		return
	}

	var payload sessionOpenPayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	branchID, err := resolveBranch(authCtx, payload.BranchID)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if payload.OpeningCash.IsNegative() {
		badRequest(w, "openingCash cannot be negative")
		return
	}

	session, serr := h.Sessions.Open(r.Context(), branchID, payload.TillID, authCtx.UserID, payload.OpeningCash)
	if serr != nil {
		response.ErrorDetails(w, serr.StatusCode, string(serr.Code), serr.Message, serr.Details)
		return
	}

	h.Logger.Info("pos session opened",
		zap.String("sessionNumber", session.SessionNumber),
		zap.Int64("branchId", session.BranchID),
		zap.Int64("cashierId", authCtx.UserID))
	response.Created(w, session)
}

func (h *Handler) SessionCurrent(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := mustAuth(w, r)
	if !ok {
		return
	}
	branchID, err := resolveBranch(authCtx, queryInt64(r, "branchId"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	tillID := strings.TrimSpace(r.URL.Query().Get("tillId"))
	if tillID == "" {
		tillID = "MAIN"
	}

	session, serr := h.Sessions.CurrentOpen(r.Context(), branchID, tillID)
	if serr != nil {
		response.ErrorDetails(w, serr.StatusCode, string(serr.Code), serr.Message, serr.Details)
		return
	}
	response.Success(w, session)
}

type sessionClosePayload struct {
	CountedCash decimal.Decimal `json:"countedCash"`
}

func (h *Handler) SessionClose(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := mustAuth(w, r)
	if !ok {
		return
	}
	sessionID, err := readPathInt64(r, "sessionId")
	if err != nil {
		badRequest(w, "Invalid session id")
		return
	}

	var payload sessionClosePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	if payload.CountedCash.IsNegative() {
		badRequest(w, "countedCash cannot be negative")
		return
	}

	session, serr := h.Sessions.Close(r.Context(), sessionID, payload.CountedCash)
	if serr != nil {
		response.ErrorDetails(w, serr.StatusCode, string(serr.Code), serr.Message, serr.Details)
		return
	}

	diff := ""
	if session.CashDifference != nil {
		diff = session.CashDifference.StringFixed(2)
	}
	h.Logger.Info("pos session closed",
		zap.String("sessionNumber", session.SessionNumber),
		zap.String("cashDifference", diff),
		zap.Int64("closedBy", authCtx.UserID))

	// Archival is best effort; the session row already holds the
	// reconciliation figures.
	if h.Store != nil {
		url, aerr := h.archiveSessionReport(r, session.ID)
		if aerr != nil {
			h.Logger.Warn("session report archival failed",
				zap.Int64("sessionId", session.ID),
				zap.Error(aerr))
		} else if url != "" {
			response.Success(w, map[string]any{"session": session, "reportUrl": url})
			return
		}
	}
	response.Success(w, map[string]any{"session": session})
}

// SessionReport streams the closing report PDF for a session.
func (h *Handler) SessionReport(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustAuth(w, r); !ok {
		return
	}
	sessionID, err := readPathInt64(r, "sessionId")
	if err != nil {
		badRequest(w, "Invalid session id")
		return
	}

	body, session, aerr := h.renderSessionReport(r, sessionID)
	if aerr != nil {
		response.Error(w, http.StatusInternalServerError, "SESSION_INTERNAL", "Failed to build session report")
		return
	}
	if session == nil {
		response.Error(w, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="session-`+session.SessionNumber+`.pdf"`)
	_, _ = w.Write(body)
}

func (h *Handler) renderSessionReport(r *http.Request, sessionID int64) ([]byte, *reportSession, error) {
	session, serr := h.Sessions.GetByID(r.Context(), sessionID)
	if serr != nil {
		if serr.StatusCode == http.StatusNotFound {
			return nil, nil, nil
		}
		return nil, nil, serr
	}

	branchName := h.lookupBranchName(r, session.BranchID)
	openedBy := h.lookupStaffName(r, session.OpenedBy)

	data := report.FromSession(session, branchName, openedBy, "", h.Config.DefaultCurrency)
	body, err := report.RenderPDF(data)
	if err != nil {
		return nil, nil, err
	}
	return body, &reportSession{ID: session.ID, BranchID: session.BranchID, SessionNumber: session.SessionNumber}, nil
}

type reportSession struct {
	ID            int64
	BranchID      int64
	SessionNumber string
}

func (h *Handler) archiveSessionReport(r *http.Request, sessionID int64) (string, error) {
	body, session, err := h.renderSessionReport(r, sessionID)
	if err != nil || session == nil {
		return "", err
	}
	return h.Store.PutSessionReport(r.Context(), session.BranchID, session.SessionNumber, body)
}

func (h *Handler) lookupBranchName(r *http.Request, branchID int64) string {
	var name string
	if err := h.DB.QueryRow(r.Context(), `select name from branches where id = $1`, branchID).Scan(&name); err != nil {
		return ""
	}
	return name
}

func (h *Handler) lookupStaffName(r *http.Request, userID int64) string {
	var name string
	if err := h.DB.QueryRow(r.Context(), `select name from staff_users where id = $1`, userID).Scan(&name); err != nil {
		return ""
	}
	return name
}
