package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"delivermail/internal/audit"
	"delivermail/internal/auth"
	"delivermail/internal/models"
	"delivermail/internal/store"
)

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

func Register(st store.Storage, jr *audit.Journal, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		req.FullName = strings.TrimSpace(req.FullName)
		if req.Username == "" || req.Email == "" || req.Password == "" || req.FullName == "" {
			respondError(w, http.StatusBadRequest, "username, email, password, and fullName are required")
			return
		}
		if _, err := mail.ParseAddress(req.Email); err != nil {
			respondError(w, http.StatusBadRequest, "invalid email address")
			return
		}
		if err := auth.ValidatePassword(req.Password); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if _, err := st.UserByEmail(req.Email); err == nil {
			respondError(w, http.StatusBadRequest, "Email already registered")
			return
		}
		if _, err := st.UserByUsername(req.Username); err == nil {
			respondError(w, http.StatusBadRequest, "Username already taken")
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		u := models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			FullName:     req.FullName,
			Role:         models.RoleUser,
			Plan:         models.PlanFree,
			IsActive:     true,
		}
		if err := st.CreateUser(&u); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				respondError(w, http.StatusBadRequest, "username or email already taken")
				return
			}
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}

		tok, err := establishSession(st, &u)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		jr.Record(&u.ID, "register", map[string]any{"username": u.Username})
		respondJSON(w, http.StatusCreated, map[string]any{"user": u, "token": tok})
	}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(st store.Storage, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		u, err := st.UserByEmail(strings.TrimSpace(strings.ToLower(req.Email)))
		if err != nil {
			respondError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
			return
		}
		if err := auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
			respondError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
			return
		}
		tok, err := establishSession(st, u)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"user": u, "token": tok})
	}
}

func establishSession(st store.Storage, u *models.User) (string, error) {
	jti := uuid.NewString()
	sess := models.Session{JTI: jti, UserID: u.ID, ExpiresAt: time.Now().Add(auth.TokenTTL())}
	if err := st.CreateSession(&sess); err != nil {
		return "", err
	}
	return auth.Sign(u.ID, u.Role, u.Plan, jti)
}

func Logout(st store.Storage, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := auth.FromContext(r.Context())
		if id.SessionJTI != "" {
			if sess, err := st.SessionByJTI(id.SessionJTI); err == nil {
				now := time.Now()
				sess.RevokedAt = &now
				if err := st.SaveSession(sess); err != nil {
					lg.Warnw("session revoke failed", "jti", sess.JTI, "error", err)
				}
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func Me(st store.Storage, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := st.UserByID(auth.Subject(r.Context()))
		if err != nil {
			respondStoreErr(w, err, "User not found")
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}
