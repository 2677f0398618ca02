package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitledger/splitledger/internal/middleware"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type addMemberRequest struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// --- CreateGroup ---

func (h *Handlers) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   middleware.GetUserID(r.Context()),
	}
	if err := h.store.CreateGroup(r.Context(), group); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, group)
}

// --- ListGroups ---

func (h *Handlers) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.store.ListGroupsByUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"groups": groups,
		"total":  len(groups),
	})
}

// --- GetGroup ---

func (h *Handlers) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if _, ok := h.requireMember(w, r, groupID, middleware.GetUserID(r.Context())); !ok {
		return
	}

	group, err := h.store.GetGroup(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "group not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, group)
}

// --- AddMember ---

func (h *Handlers) AddMember(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	membership, ok := h.requireMember(w, r, groupID, middleware.GetUserID(r.Context()))
	if !ok {
		return
	}
	if !membership.IsAdmin() {
		writeError(w, http.StatusForbidden, "only group admins can add members")
		return
	}

	var req addMemberRequest
	if !decodeBody(w, r, &req) {
		return
	}

	// Accept either a user ID or an email lookup.
	userID := req.UserID
	if userID == "" && req.Email != "" {
		user, err := h.store.GetUserByEmail(r.Context(), req.Email)
		if err != nil {
			writeError(w, http.StatusNotFound, "no user with that email")
			return
		}
		userID = user.ID
	}
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id or email is required")
		return
	}
	if _, err := h.store.GetUserByID(r.Context(), userID); err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleMember
	}
	if role != models.RoleAdmin && role != models.RoleMember {
		writeError(w, http.StatusBadRequest, "role must be admin or member")
		return
	}

	if err := h.store.AddMember(r.Context(), groupID, userID, role); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"group_id": groupID,
		"user_id":  userID,
		"role":     role,
	})
}

// --- RemoveMember ---

func (h *Handlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	targetID := chi.URLParam(r, "userID")
	callerID := middleware.GetUserID(r.Context())

	membership, ok := h.requireMember(w, r, groupID, callerID)
	if !ok {
		return
	}
	// Members may leave on their own; removing others takes admin.
	if targetID != callerID && !membership.IsAdmin() {
		writeError(w, http.StatusForbidden, "only group admins can remove members")
		return
	}

	if err := h.store.RemoveMember(r.Context(), groupID, targetID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "membership not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
