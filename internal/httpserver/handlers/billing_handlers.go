package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"delivermail/internal/audit"
	"delivermail/internal/auth"
	"delivermail/internal/billing"
	"delivermail/internal/models"
	"delivermail/internal/store"
)

func CreateSubscription(svc *billing.Service, jr *audit.Journal, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlanName string `json:"planName"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		uid := auth.Subject(r.Context())
		sub, err := svc.Create(uid, req.PlanName)
		if err != nil {
			if errors.Is(err, billing.ErrUnknownPlan) {
				respondError(w, http.StatusBadRequest, "unknown plan")
				return
			}
			respondStoreErr(w, err, "User not found")
			return
		}
		jr.Record(&uid, "create_subscription", map[string]any{"plan": req.PlanName, "subscriptionId": sub.ID})
		respondJSON(w, http.StatusOK, map[string]any{
			"subscriptionId": sub.ExternalID,
			"clientSecret":   fmt.Sprintf("pi_mock_%d_secret_mock", time.Now().UnixMilli()),
			"success":        true,
			"message":        fmt.Sprintf("Successfully subscribed to %s plan - Mock Integration", req.PlanName),
		})
	}
}

func GetSubscription(svc *billing.Service, st store.Storage, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.Subject(r.Context())
		sub, err := svc.Current(uid)
		if err == nil {
			respondJSON(w, http.StatusOK, sub)
			return
		}
		if !errors.Is(err, billing.ErrNoSubscription) {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		u, uerr := st.UserByID(uid)
		if uerr != nil {
			respondStoreErr(w, uerr, "User not found")
			return
		}
		if u.Plan != models.PlanFree {
			respondError(w, http.StatusNotFound, "No subscription found")
			return
		}
		// free-plan accounts get a synthetic placeholder term
		now := time.Now()
		respondJSON(w, http.StatusOK, models.Subscription{
			UserID:             uid,
			ExternalID:         fmt.Sprintf("sub_free_%d", uid),
			Status:             models.SubActive,
			CurrentPeriodStart: now,
			CurrentPeriodEnd:   now.Add(billing.Period),
			CancelAtPeriodEnd:  false,
		})
	}
}

func CancelSubscription(svc *billing.Service, jr *audit.Journal, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.Subject(r.Context())
		sub, changed, err := svc.Cancel(uid)
		if err != nil {
			if errors.Is(err, billing.ErrNoSubscription) {
				respondError(w, http.StatusNotFound, "No subscription found")
				return
			}
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if changed {
			jr.Record(&uid, "cancel_subscription", map[string]any{"subscriptionId": sub.ID})
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Subscription will be canceled at the end of the current billing period",
		})
	}
}

func ListInvoices(svc *billing.Service, st store.Storage, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := st.UserByID(auth.Subject(r.Context()))
		if err != nil {
			respondStoreErr(w, err, "User not found")
			return
		}
		respondJSON(w, http.StatusOK, svc.Invoices(u))
	}
}
