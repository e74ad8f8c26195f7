package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"delivermail/internal/audit"
	"delivermail/internal/auth"
	"delivermail/internal/models"
	"delivermail/internal/store"
)

var validScopes = map[string]bool{
	models.ScopeSend:      true,
	models.ScopeTemplates: true,
	models.ScopeLogs:      true,
}

// generateKey returns a new secret: "dk_" plus 32 random bytes in hex.
func generateKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "dk_" + hex.EncodeToString(b), nil
}

// maskKey hides the secret body, keeping the prefix and last four characters.
func maskKey(key string) string {
	if len(key) <= 11 {
		return key
	}
	return key[:7] + strings.Repeat("*", 8) + key[len(key)-4:]
}

func ListAPIKeys(st store.Storage, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keys, err := st.ListAPIKeys(auth.Subject(r.Context()))
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		// the cleartext secret is shown once, at creation
		for i := range keys {
			keys[i].Key = maskKey(keys[i].Key)
		}
		respondJSON(w, http.StatusOK, keys)
	}
}

func CreateAPIKey(st store.Storage, jr *audit.Journal, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name   string   `json:"name"`
			Scopes []string `json:"scopes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			respondError(w, http.StatusBadRequest, "name is required")
			return
		}
		for _, s := range req.Scopes {
			if !validScopes[s] {
				respondError(w, http.StatusBadRequest, "invalid scope: "+s)
				return
			}
		}

		secret, err := generateKey()
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		uid := auth.Subject(r.Context())
		k := models.APIKey{
			UserID:   uid,
			Name:     req.Name,
			Key:      secret,
			Scopes:   models.StringSlice(req.Scopes),
			IsActive: true,
		}
		if err := st.CreateAPIKey(&k); err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		jr.Record(&uid, "create_api_key", map[string]any{"keyId": k.ID, "name": k.Name})
		respondJSON(w, http.StatusCreated, k)
	}
}

func DeleteAPIKey(st store.Storage, jr *audit.Journal, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r)
		if !ok {
			respondError(w, http.StatusBadRequest, "invalid id")
			return
		}
		uid := auth.Subject(r.Context())
		if err := st.DeleteAPIKey(id, uid); err != nil {
			respondStoreErr(w, err, "API key not found")
			return
		}
		jr.Record(&uid, "delete_api_key", map[string]any{"keyId": id})
		w.WriteHeader(http.StatusNoContent)
	}
}
