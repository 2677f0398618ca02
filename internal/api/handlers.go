package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/notify"
	"github.com/splitledger/splitledger/internal/storage"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	store         storage.Store
	jwtManager    *auth.JWTManager
	authenticator *auth.PasswordAuthenticator
	sms           notify.Sender
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// requireMember loads the caller's active membership in the group, writing
// the appropriate error response when absent.
func (h *Handlers) requireMember(w http.ResponseWriter, r *http.Request, groupID, userID string) (*models.Membership, bool) {
	membership, err := h.store.GetMembership(r.Context(), groupID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusForbidden, "not a member of this group")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if !membership.IsActive {
		writeError(w, http.StatusForbidden, "not a member of this group")
		return nil, false
	}
	return membership, true
}
