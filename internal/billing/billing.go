// Package billing is the mock subscription engine. It models the
// none -> active -> canceling -> canceled lifecycle with fixed 30-day
// periods and no payment gateway behind it.
package billing

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"delivermail/internal/models"
	"delivermail/internal/store"
)

var (
	ErrUnknownPlan    = errors.New("unknown plan")
	ErrNoSubscription = errors.New("no subscription found")
)

// Period is the mock billing cycle: exactly 30 days from the creation instant.
const Period = 30 * 24 * time.Hour

// Prices in whole dollars per month, used by the mock invoice list.
var planPrices = map[string]int{
	models.PlanPro:        29,
	models.PlanEnterprise: 99,
}

type Service struct {
	st store.Storage
	lg *zap.SugaredLogger
}

func NewService(st store.Storage, lg *zap.SugaredLogger) *Service {
	return &Service{st: st, lg: lg}
}

// Create starts a new active subscription and sets the account plan. An
// existing non-canceled subscription is superseded (marked canceled
// immediately) so that at most one non-canceled subscription exists per
// account.
func (s *Service) Create(userID uint, planName string) (*models.Subscription, error) {
	if _, ok := planPrices[planName]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlan, planName)
	}
	u, err := s.st.UserByID(userID)
	if err != nil {
		return nil, err
	}

	if prev, err := s.st.CurrentSubscription(userID); err == nil {
		prev.Status = models.SubCanceled
		if err := s.st.SaveSubscription(prev); err != nil {
			return nil, fmt.Errorf("supersede subscription: %w", err)
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	sub := models.Subscription{
		UserID:             userID,
		ExternalID:         fmt.Sprintf("sub_mock_%d_%d", userID, now.UnixMilli()),
		Status:             models.SubActive,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.Add(Period),
		CancelAtPeriodEnd:  false,
	}
	if err := s.st.CreateSubscription(&sub); err != nil {
		return nil, err
	}

	customerRef := fmt.Sprintf("cus_mock_%d_%d", userID, now.UnixMilli())
	u.Plan = planName
	u.StripeCustomerID = &customerRef
	u.StripeSubscriptionID = &sub.ExternalID
	if err := s.st.SaveUser(u); err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}
	return &sub, nil
}

// Current returns the account's non-canceled subscription, lazily expiring
// it first. There is no scheduler: a canceling subscription whose period has
// ended is downgraded here, at read time.
func (s *Service) Current(userID uint) (*models.Subscription, error) {
	sub, err := s.st.CurrentSubscription(userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoSubscription
	}
	if err != nil {
		return nil, err
	}
	if sub.CancelAtPeriodEnd && time.Now().After(sub.CurrentPeriodEnd) {
		if err := s.expire(sub); err != nil {
			return nil, err
		}
		return nil, ErrNoSubscription
	}
	return sub, nil
}

func (s *Service) expire(sub *models.Subscription) error {
	sub.Status = models.SubCanceled
	if err := s.st.SaveSubscription(sub); err != nil {
		return err
	}
	u, err := s.st.UserByID(sub.UserID)
	if err != nil {
		return err
	}
	u.Plan = models.PlanFree
	if err := s.st.SaveUser(u); err != nil {
		return err
	}
	s.lg.Infow("subscription expired", "user_id", sub.UserID, "subscription_id", sub.ID)
	return nil
}

// Cancel marks the subscription to end at the period boundary. The plan does
// not change until the period actually ends. Canceling an already-canceling
// subscription is a no-op; changed reports whether a transition happened.
func (s *Service) Cancel(userID uint) (sub *models.Subscription, changed bool, err error) {
	sub, err = s.Current(userID)
	if err != nil {
		return nil, false, err
	}
	if sub.Status == models.SubCanceling {
		return sub, false, nil
	}
	sub.Status = models.SubCanceling
	sub.CancelAtPeriodEnd = true
	if err := s.st.SaveSubscription(sub); err != nil {
		return nil, false, err
	}
	return sub, true, nil
}

// Invoice is a mock line in the billing history.
type Invoice struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Amount      int       `json:"amount"`
	Status      string    `json:"status"`
	PlanName    string    `json:"plan_name"`
	DownloadURL string    `json:"download_url"`
}

// Invoices fabricates the two most recent monthly invoices for paid plans.
// Free-plan accounts get an empty list.
func (s *Service) Invoices(u *models.User) []Invoice {
	price, ok := planPrices[u.Plan]
	if !ok {
		return []Invoice{}
	}
	now := time.Now()
	return []Invoice{
		{ID: "in_mock_001", Date: now.Add(-Period), Amount: price, Status: "paid", PlanName: u.Plan, DownloadURL: "#"},
		{ID: "in_mock_002", Date: now.Add(-2 * Period), Amount: price, Status: "paid", PlanName: u.Plan, DownloadURL: "#"},
	}
}
