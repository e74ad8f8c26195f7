package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"delivermail/internal/audit"
	"delivermail/internal/auth"
	"delivermail/internal/models"
	"delivermail/internal/store"
)

func parseID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func ListTemplates(st store.Storage, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, err := st.ListTemplates(auth.Subject(r.Context()))
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		respondJSON(w, http.StatusOK, ts)
	}
}

func GetTemplate(st store.Storage, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r)
		if !ok {
			respondError(w, http.StatusBadRequest, "invalid id")
			return
		}
		t, err := st.TemplateByID(id, auth.Subject(r.Context()))
		if err != nil {
			respondStoreErr(w, err, "Template not found")
			return
		}
		respondJSON(w, http.StatusOK, t)
	}
}

func CreateTemplate(st store.Storage, jr *audit.Journal, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name    string `json:"name"`
			Subject string `json:"subject"`
			Body    string `json:"body"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" || req.Subject == "" || req.Body == "" {
			respondError(w, http.StatusBadRequest, "name, subject, and body are required")
			return
		}
		uid := auth.Subject(r.Context())
		t := models.EmailTemplate{UserID: uid, Name: req.Name, Subject: req.Subject, Body: req.Body, IsActive: true}
		if err := st.CreateTemplate(&t); err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		jr.Record(&uid, "create_template", map[string]any{"templateId": t.ID, "name": t.Name})
		respondJSON(w, http.StatusCreated, t)
	}
}

func UpdateTemplate(st store.Storage, jr *audit.Journal, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r)
		if !ok {
			respondError(w, http.StatusBadRequest, "invalid id")
			return
		}
		var req struct {
			Name     *string `json:"name"`
			Subject  *string `json:"subject"`
			Body     *string `json:"body"`
			IsActive *bool   `json:"is_active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		uid := auth.Subject(r.Context())
		t, err := st.TemplateByID(id, uid)
		if err != nil {
			respondStoreErr(w, err, "Template not found")
			return
		}
		if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
			t.Name = strings.TrimSpace(*req.Name)
		}
		if req.Subject != nil {
			t.Subject = *req.Subject
		}
		if req.Body != nil {
			t.Body = *req.Body
		}
		if req.IsActive != nil {
			t.IsActive = *req.IsActive
		}
		if err := st.SaveTemplate(t); err != nil {
			respondStoreErr(w, err, "Template not found")
			return
		}
		jr.Record(&uid, "update_template", map[string]any{"templateId": id})
		respondJSON(w, http.StatusOK, t)
	}
}

func DeleteTemplate(st store.Storage, jr *audit.Journal, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r)
		if !ok {
			respondError(w, http.StatusBadRequest, "invalid id")
			return
		}
		uid := auth.Subject(r.Context())
		if err := st.DeleteTemplate(id, uid); err != nil {
			respondStoreErr(w, err, "Template not found")
			return
		}
		jr.Record(&uid, "delete_template", map[string]any{"templateId": id})
		w.WriteHeader(http.StatusNoContent)
	}
}
