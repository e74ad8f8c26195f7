package handlers

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"delivermail/internal/audit"
	"delivermail/internal/auth"
	"delivermail/internal/store"
)

func UpdateProfile(st store.Storage, jr *audit.Journal, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			FullName *string `json:"fullName"`
			Email    *string `json:"email"`
			Username *string `json:"username"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		u, err := st.UserByID(auth.Subject(r.Context()))
		if err != nil {
			respondStoreErr(w, err, "User not found")
			return
		}

		changed := map[string]any{}
		if req.FullName != nil && strings.TrimSpace(*req.FullName) != "" {
			u.FullName = strings.TrimSpace(*req.FullName)
			changed["fullName"] = u.FullName
		}
		if req.Email != nil {
			email := strings.TrimSpace(strings.ToLower(*req.Email))
			if _, err := mail.ParseAddress(email); err != nil {
				respondError(w, http.StatusBadRequest, "invalid email address")
				return
			}
			if other, err := st.UserByEmail(email); err == nil && other.ID != u.ID {
				respondError(w, http.StatusBadRequest, "Email already registered")
				return
			}
			u.Email = email
			changed["email"] = email
		}
		if req.Username != nil {
			username := strings.TrimSpace(*req.Username)
			if username == "" {
				respondError(w, http.StatusBadRequest, "username cannot be empty")
				return
			}
			if other, err := st.UserByUsername(username); err == nil && other.ID != u.ID {
				respondError(w, http.StatusBadRequest, "Username already taken")
				return
			}
			u.Username = username
			changed["username"] = username
		}

		if err := st.SaveUser(u); err != nil {
			respondStoreErr(w, err, "User not found")
			return
		}
		jr.Record(&u.ID, "update_profile", map[string]any{"changes": changed})
		respondJSON(w, http.StatusOK, u)
	}
}

func ChangePassword(st store.Storage, jr *audit.Journal, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CurrentPassword string `json:"currentPassword"`
			NewPassword     string `json:"newPassword"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		u, err := st.UserByID(auth.Subject(r.Context()))
		if err != nil {
			respondStoreErr(w, err, "User not found")
			return
		}
		if err := auth.CheckPassword(u.PasswordHash, req.CurrentPassword); err != nil {
			respondError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
			return
		}
		if err := auth.ValidatePassword(req.NewPassword); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		u.PasswordHash = hash
		if err := st.SaveUser(u); err != nil {
			respondStoreErr(w, err, "User not found")
			return
		}
		jr.Record(&u.ID, "update_password", nil)
		w.WriteHeader(http.StatusNoContent)
	}
}
