package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"delivermail/internal/policy"
	"delivermail/internal/store"
)

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

// Authenticate resolves the caller to an identity via either an X-API-Key
// header or a Bearer token backed by a server-side session row. It only
// authenticates; deactivated accounts still pass and are denied by the
// policy check in RequireAction.
func Authenticate(st store.Storage, lg *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key := r.Header.Get("X-API-Key"); key != "" {
				id, ok := apiKeyIdentity(st, lg, key)
				if !ok {
					deny(w, http.StatusUnauthorized, "invalid API key")
					return
				}
				next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
				return
			}

			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				deny(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			claims, err := Verify(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				deny(w, http.StatusUnauthorized, "invalid token")
				return
			}
			sess, err := st.SessionByJTI(claims.JWTID)
			if err != nil {
				deny(w, http.StatusUnauthorized, "session not found")
				return
			}
			if sess.RevokedAt != nil || time.Now().After(sess.ExpiresAt) {
				deny(w, http.StatusUnauthorized, "session expired or revoked")
				return
			}
			u, err := st.UserByID(sess.UserID)
			if err != nil {
				deny(w, http.StatusUnauthorized, "unknown account")
				return
			}
			id := policy.Identity{UserID: u.ID, Role: u.Role, Plan: u.Plan, IsActive: u.IsActive, SessionJTI: sess.JTI}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func apiKeyIdentity(st store.Storage, lg *zap.SugaredLogger, key string) (policy.Identity, bool) {
	k, err := st.APIKeyBySecret(key)
	if err != nil || !k.IsActive {
		return policy.Identity{}, false
	}
	u, err := st.UserByID(k.UserID)
	if err != nil {
		return policy.Identity{}, false
	}
	now := time.Now()
	k.LastUsed = &now
	if err := st.SaveAPIKey(k); err != nil {
		lg.Warnw("api key last_used update failed", "key_id", k.ID, "error", err)
	}
	keyID := k.ID
	return policy.Identity{
		UserID:   u.ID,
		Role:     u.Role,
		Plan:     u.Plan,
		IsActive: u.IsActive,
		APIKeyID: &keyID,
		Scopes:   k.Scopes,
	}, true
}

// RequireAction gates a route group on the authorization policy.
func RequireAction(a policy.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := FromContext(r.Context())
			if id.UserID == 0 {
				deny(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !policy.Allow(id, a) {
				deny(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
