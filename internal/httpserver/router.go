package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"delivermail/internal/audit"
	"delivermail/internal/auth"
	"delivermail/internal/billing"
	"delivermail/internal/httpserver/handlers"
	"delivermail/internal/mailer"
	"delivermail/internal/policy"
	"delivermail/internal/store"
)

// Options carries the mail-dispatch settings the send handler needs.
type Options struct {
	FromEmail   string
	SendTimeout time.Duration
}

func NewRouter(st store.Storage, m mailer.Mailer, opts Options, lg *zap.SugaredLogger) http.Handler {
	jr := audit.NewJournal(st, lg)
	bs := billing.NewService(st, lg)
	authLimit := newIPLimiter(rate.Every(time.Minute/10), 10)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)

	r.Group(func(public chi.Router) {
		public.Use(authLimit.middleware)
		public.Post("/api/register", handlers.Register(st, jr, lg))
		public.Post("/api/login", handlers.Login(st, lg))
	})

	r.Group(func(protected chi.Router) {
		protected.Use(auth.Authenticate(st, lg))

		protected.Post("/api/logout", handlers.Logout(st, lg))
		protected.Get("/api/user", handlers.Me(st, lg))

		protected.Group(func(profile chi.Router) {
			profile.Use(auth.RequireAction(policy.ActionManageProfile))
			profile.Put("/api/user/profile", handlers.UpdateProfile(st, jr, lg))
			profile.Post("/api/user/password", handlers.ChangePassword(st, jr, lg))
		})

		protected.Group(func(tpl chi.Router) {
			tpl.Use(auth.RequireAction(policy.ActionManageTemplates))
			tpl.Get("/api/templates", handlers.ListTemplates(st, lg))
			tpl.Post("/api/templates", handlers.CreateTemplate(st, jr, lg))
			tpl.Get("/api/templates/{id}", handlers.GetTemplate(st, lg))
			tpl.Put("/api/templates/{id}", handlers.UpdateTemplate(st, jr, lg))
			tpl.Delete("/api/templates/{id}", handlers.DeleteTemplate(st, jr, lg))
		})

		protected.With(auth.RequireAction(policy.ActionSendEmail)).
			Post("/api/send-email", handlers.SendEmail(st, m, jr, opts.FromEmail, opts.SendTimeout, lg))
		protected.With(auth.RequireAction(policy.ActionViewLogs)).
			Get("/api/logs", handlers.ListEmailLogs(st, lg))

		protected.Group(func(keys chi.Router) {
			keys.Use(auth.RequireAction(policy.ActionManageAPIKeys))
			keys.Get("/api/api-keys", handlers.ListAPIKeys(st, lg))
			keys.Post("/api/api-keys", handlers.CreateAPIKey(st, jr, lg))
			keys.Delete("/api/api-keys/{id}", handlers.DeleteAPIKey(st, jr, lg))
		})

		protected.With(auth.RequireAction(policy.ActionViewStats)).
			Get("/api/dashboard/stats", handlers.DashboardStats(st, lg))

		protected.Group(func(assistant chi.Router) {
			assistant.Use(auth.RequireAction(policy.ActionUseAssistant))
			assistant.Post("/api/ai/query", handlers.AiQuery(st, lg))
			assistant.Post("/api/ai/rate/{id}", handlers.RateAiQuery(st, lg))
		})

		protected.Group(func(bill chi.Router) {
			bill.Use(auth.RequireAction(policy.ActionManageBilling))
			bill.Post("/api/create-subscription", handlers.CreateSubscription(bs, jr, lg))
			bill.Get("/api/billing/subscription", handlers.GetSubscription(bs, st, lg))
			bill.Post("/api/billing/cancel-subscription", handlers.CancelSubscription(bs, jr, lg))
			bill.Get("/api/billing/invoices", handlers.ListInvoices(bs, st, lg))
		})

		protected.Group(func(admin chi.Router) {
			admin.Use(auth.RequireAction(policy.ActionAdminUsers))
			admin.Get("/api/admin/users", handlers.AdminListUsers(st, lg))
			admin.Put("/api/admin/users/{id}", handlers.AdminUpdateUser(st, jr, lg))
		})
		protected.With(auth.RequireAction(policy.ActionAdminSystemLogs)).
			Get("/api/admin/system-logs", handlers.AdminSystemLogs(jr, lg))
		protected.With(auth.RequireAction(policy.ActionAdminStats)).
			Get("/api/admin/stats", handlers.AdminStats(st, lg))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}
