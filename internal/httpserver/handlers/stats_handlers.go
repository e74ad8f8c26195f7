package handlers

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"delivermail/internal/auth"
	"delivermail/internal/models"
	"delivermail/internal/store"
)

func rate(part, total int) string {
	if total == 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", float64(part)/float64(total)*100)
}

func countByStatus(logs []models.EmailLog, status string) int {
	n := 0
	for _, l := range logs {
		if l.Status == status {
			n++
		}
	}
	return n
}

func DashboardStats(st store.Storage, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs, err := st.ListEmailLogs(auth.Subject(r.Context()), store.EmailLogFilter{})
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"emailsSent":   len(logs),
			"deliveryRate": rate(countByStatus(logs, models.StatusDelivered), len(logs)),
			"bounceRate":   rate(countByStatus(logs, models.StatusBounced), len(logs)),
			"apiCalls":     len(logs),
		})
	}
}

func AdminStats(st store.Storage, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := st.ListUsers()
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		logs, err := st.ListEmailLogs(0, store.EmailLogFilter{})
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		active := 0
		for _, u := range users {
			if u.IsActive {
				active++
			}
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"totalUsers":  len(users),
			"activeUsers": active,
			"totalEmails": len(logs),
			"successRate": rate(countByStatus(logs, models.StatusDelivered), len(logs)),
			"bounceRate":  rate(countByStatus(logs, models.StatusBounced), len(logs)),
		})
	}
}
