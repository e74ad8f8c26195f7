package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"delivermail/internal/audit"
	"delivermail/internal/auth"
	"delivermail/internal/models"
	"delivermail/internal/store"
)

func AdminListUsers(st store.Storage, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := st.ListUsers()
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		respondJSON(w, http.StatusOK, users)
	}
}

// AdminUpdateUser changes a target account's isActive flag or role. Only
// those two fields are admin-writable; everything else stays self-service.
func AdminUpdateUser(st store.Storage, jr *audit.Journal, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r)
		if !ok {
			respondError(w, http.StatusBadRequest, "invalid id")
			return
		}
		var req struct {
			IsActive *bool   `json:"isActive"`
			Role     *string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Role != nil && *req.Role != models.RoleUser && *req.Role != models.RoleAdmin {
			respondError(w, http.StatusBadRequest, "invalid role")
			return
		}

		u, err := st.UserByID(id)
		if err != nil {
			respondStoreErr(w, err, "User not found")
			return
		}
		changes := map[string]any{}
		if req.IsActive != nil {
			u.IsActive = *req.IsActive
			changes["isActive"] = *req.IsActive
		}
		if req.Role != nil {
			u.Role = *req.Role
			changes["role"] = *req.Role
		}
		if err := st.SaveUser(u); err != nil {
			respondStoreErr(w, err, "User not found")
			return
		}

		actor := auth.Subject(r.Context())
		jr.Record(&actor, "admin_update_user", map[string]any{"targetUserId": id, "changes": changes})
		respondJSON(w, http.StatusOK, u)
	}
}

func AdminSystemLogs(jr *audit.Journal, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := store.SystemLogFilter{
			Action:    q.Get("action"),
			StartDate: parseDate(q.Get("startDate")),
			EndDate:   parseDate(q.Get("endDate")),
		}
		if s := q.Get("userId"); s != "" {
			if id, err := strconv.ParseUint(s, 10, 64); err == nil {
				f.UserID = uint(id)
			}
		}
		logs, err := jr.Query(f)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		respondJSON(w, http.StatusOK, logs)
	}
}
