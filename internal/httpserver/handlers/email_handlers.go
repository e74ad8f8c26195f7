package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/mail"
	"time"

	"go.uber.org/zap"

	"delivermail/internal/audit"
	"delivermail/internal/auth"
	"delivermail/internal/mailer"
	"delivermail/internal/models"
	"delivermail/internal/store"
)

type sendEmailReq struct {
	To         string `json:"to"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	TemplateID *uint  `json:"templateId,omitempty"`
}

// SendEmail dispatches one message synchronously and records the attempt. A
// dispatch failure is encoded into the log row's status, never surfaced as a
// request error: the 201 means "accepted and recorded", not "delivered".
func SendEmail(st store.Storage, m mailer.Mailer, jr *audit.Journal, from string, timeout time.Duration, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendEmailReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.To == "" || req.Subject == "" || req.Body == "" {
			respondError(w, http.StatusBadRequest, "to, subject, and body are required")
			return
		}
		if _, err := mail.ParseAddress(req.To); err != nil {
			respondError(w, http.StatusBadRequest, "invalid recipient address")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		status := models.StatusDelivered
		if err := m.Send(ctx, mailer.Message{From: from, To: req.To, Subject: req.Subject, Body: req.Body}); err != nil {
			lg.Errorw("email dispatch failed", "to", req.To, "error", err)
			status = models.StatusFailed
		}

		id := auth.FromContext(r.Context())
		entry := models.EmailLog{
			UserID:     id.UserID,
			To:         req.To,
			Subject:    req.Subject,
			Body:       req.Body,
			Status:     status,
			TemplateID: req.TemplateID,
			APIKeyID:   id.APIKeyID,
			SentAt:     time.Now(),
		}
		if err := st.CreateEmailLog(&entry); err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		jr.Record(&id.UserID, "send_email", map[string]any{"to": req.To, "status": status})
		respondJSON(w, http.StatusCreated, entry)
	}
}

func ListEmailLogs(st store.Storage, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := store.EmailLogFilter{
			Status:    q.Get("status"),
			Email:     q.Get("email"),
			StartDate: parseDate(q.Get("startDate")),
			EndDate:   parseDate(q.Get("endDate")),
		}
		logs, err := st.ListEmailLogs(auth.Subject(r.Context()), f)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		respondJSON(w, http.StatusOK, logs)
	}
}

// parseDate accepts RFC 3339 or a bare date; a zero time means no bound.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}
