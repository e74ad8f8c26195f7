package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"delivermail/internal/auth"
	"delivermail/internal/mailer"
	"delivermail/internal/models"
	"delivermail/internal/store"
)

type testEnv struct {
	t      *testing.T
	st     *store.Memory
	mail   *mailer.Dev
	router http.Handler
	seq    int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Setenv("JWT_SECRET", "test-secret")
	st := store.NewMemory()
	dm := mailer.NewDev()
	r := NewRouter(st, dm, Options{FromEmail: "noreply@test.local", SendTimeout: time.Second}, zap.NewNop().Sugar())
	return &testEnv{t: t, st: st, mail: dm, router: r}
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	e.seq++
	req.RemoteAddr = fmt.Sprintf("10.0.%d.%d:4000", e.seq/250, e.seq%250+1)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doKey(method, path, key string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-API-Key", key)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func (e *testEnv) register(username, email string) string {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/register", "", map[string]string{
		"username": username, "email": email, "password": "Passw0rdOk", "fullName": username,
	})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	body := decode[map[string]any](e.t, w)
	return body["token"].(string)
}

func (e *testEnv) registerAdmin(username, email string) string {
	e.t.Helper()
	hash, err := auth.HashPassword("Passw0rdOk")
	require.NoError(e.t, err)
	u := &models.User{
		Username: username, Email: email, PasswordHash: hash,
		FullName: username, Role: models.RoleAdmin, Plan: models.PlanFree, IsActive: true,
	}
	require.NoError(e.t, e.st.CreateUser(u))
	w := e.do(http.MethodPost, "/api/login", "", map[string]string{"email": email, "password": "Passw0rdOk"})
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
	return decode[map[string]any](e.t, w)["token"].(string)
}

func (e *testEnv) auditEntries(action string) []models.SystemLog {
	e.t.Helper()
	logs, err := e.st.ListSystemLogs(store.SystemLogFilter{Action: action})
	require.NoError(e.t, err)
	return logs
}

func TestRegister(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "Passw0rdOk", "fullName": "Alice",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode[map[string]any](t, w)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, "free", user["plan"])
	assert.Equal(t, true, user["is_active"])

	// duplicate email is a validation error
	w = e.do(http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice2", "email": "alice@example.com", "password": "Passw0rdOk", "fullName": "Alice",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// weak password rejected before any mutation
	w = e.do(http.MethodPost, "/api/register", "", map[string]string{
		"username": "bob", "email": "bob@example.com", "password": "allsmall", "fullName": "Bob",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	e := newTestEnv(t)
	e.register("alice", "alice@example.com")

	w := e.do(http.MethodPost, "/api/login", "", map[string]string{"email": "alice@example.com", "password": "Passw0rdOk"})
	require.Equal(t, http.StatusOK, w.Code)
	tok := decode[map[string]any](t, w)["token"].(string)

	w = e.do(http.MethodGet, "/api/user", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", decode[map[string]any](t, w)["username"])

	w = e.do(http.MethodPost, "/api/login", "", map[string]string{"email": "alice@example.com", "password": "WrongPass1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// unknown email reads exactly like a wrong password
	w2 := e.do(http.MethodPost, "/api/login", "", map[string]string{"email": "nobody@example.com", "password": "Passw0rdOk"})
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
	assert.Equal(t, w.Body.String(), w2.Body.String())
}

func TestLogoutRevokesSession(t *testing.T) {
	e := newTestEnv(t)
	tok := e.register("alice", "alice@example.com")

	w := e.do(http.MethodPost, "/api/logout", tok, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = e.do(http.MethodGet, "/api/user", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnauthenticated(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(http.MethodGet, "/api/templates", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = e.do(http.MethodGet, "/api/templates", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTemplateCRUD(t *testing.T) {
	e := newTestEnv(t)
	tok := e.register("alice", "alice@example.com")

	w := e.do(http.MethodPost, "/api/templates", tok, map[string]string{
		"name": "welcome", "subject": "Hello", "body": "<p>Hi</p>",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	tpl := decode[models.EmailTemplate](t, w)
	assert.True(t, tpl.IsActive)
	assert.Len(t, e.auditEntries("create_template"), 1)

	w = e.do(http.MethodPut, fmt.Sprintf("/api/templates/%d", tpl.ID), tok, map[string]string{"subject": "Hey"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hey", decode[models.EmailTemplate](t, w).Subject)
	assert.Len(t, e.auditEntries("update_template"), 1)

	w = e.do(http.MethodDelete, fmt.Sprintf("/api/templates/%d", tpl.ID), tok, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, e.auditEntries("delete_template"), 1)

	w = e.do(http.MethodGet, fmt.Sprintf("/api/templates/%d", tpl.ID), tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// missing fields rejected
	w = e.do(http.MethodPost, "/api/templates", tok, map[string]string{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTemplateTenantIsolation(t *testing.T) {
	e := newTestEnv(t)
	tokA := e.register("alice", "alice@example.com")
	tokB := e.register("bob", "bob@example.com")

	w := e.do(http.MethodPost, "/api/templates", tokA, map[string]string{
		"name": "private", "subject": "s", "body": "b",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	tpl := decode[models.EmailTemplate](t, w)

	// another tenant sees 404, not 403
	w = e.do(http.MethodGet, fmt.Sprintf("/api/templates/%d", tpl.ID), tokB, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = e.do(http.MethodDelete, fmt.Sprintf("/api/templates/%d", tpl.ID), tokB, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(http.MethodGet, "/api/templates", tokB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.EmailTemplate](t, w))
}

func TestSendEmail(t *testing.T) {
	e := newTestEnv(t)
	tok := e.register("alice", "alice@example.com")

	w := e.do(http.MethodPost, "/api/send-email", tok, map[string]string{
		"to": "x@y.com", "subject": "s", "body": "b",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	entry := decode[models.EmailLog](t, w)
	assert.Equal(t, models.StatusDelivered, entry.Status)
	assert.WithinDuration(t, time.Now(), entry.SentAt, time.Minute)
	assert.Len(t, e.mail.Sent(), 1)

	// dispatch failure is recorded, not surfaced: still 201
	e.mail.Err = fmt.Errorf("connection refused")
	w = e.do(http.MethodPost, "/api/send-email", tok, map[string]string{
		"to": "x@y.com", "subject": "s", "body": "b",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.StatusFailed, decode[models.EmailLog](t, w).Status)

	logs, err := e.st.ListEmailLogs(0, store.EmailLogFilter{})
	require.NoError(t, err)
	assert.Len(t, logs, 2, "exactly one log row per attempt")
	assert.Len(t, e.auditEntries("send_email"), 2)

	// malformed recipient fails before dispatch
	w = e.do(http.MethodPost, "/api/send-email", tok, map[string]string{
		"to": "not-an-address", "subject": "s", "body": "b",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEmailLogQuery(t *testing.T) {
	e := newTestEnv(t)
	tokA := e.register("alice", "alice@example.com")
	tokB := e.register("bob", "bob@example.com")

	for _, to := range []string{"one@y.com", "two@z.org"} {
		w := e.do(http.MethodPost, "/api/send-email", tokA, map[string]string{"to": to, "subject": "s", "body": "b"})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w := e.do(http.MethodPost, "/api/send-email", tokB, map[string]string{"to": "one@y.com", "subject": "s", "body": "b"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(http.MethodGet, "/api/logs?email=y.com", tokA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	logs := decode[[]models.EmailLog](t, w)
	require.Len(t, logs, 1, "filters never cross tenants")
	assert.Equal(t, "one@y.com", logs[0].To)

	w = e.do(http.MethodGet, "/api/logs?status=delivered", tokB, nil)
	assert.Len(t, decode[[]models.EmailLog](t, w), 1)
}

func TestDeactivatedUserDeniedAtAuthorization(t *testing.T) {
	e := newTestEnv(t)
	userTok := e.register("alice", "alice@example.com")
	adminTok := e.registerAdmin("root", "root@example.com")

	u, err := e.st.UserByEmail("alice@example.com")
	require.NoError(t, err)
	w := e.do(http.MethodPut, fmt.Sprintf("/api/admin/users/%d", u.ID), adminTok, map[string]any{"isActive": false})
	require.Equal(t, http.StatusOK, w.Code)

	// the session still resolves to an identity...
	w = e.do(http.MethodGet, "/api/user", userTok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	// ...but the policy denies every gated action
	w = e.do(http.MethodGet, "/api/templates", userTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = e.do(http.MethodPost, "/api/send-email", userTok, map[string]string{"to": "x@y.com", "subject": "s", "body": "b"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminEndpoints(t *testing.T) {
	e := newTestEnv(t)
	userTok := e.register("alice", "alice@example.com")
	adminTok := e.registerAdmin("root", "root@example.com")

	w := e.do(http.MethodGet, "/api/admin/users", userTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = e.do(http.MethodGet, "/api/admin/system-logs", userTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = e.do(http.MethodGet, "/api/admin/stats", userTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(http.MethodGet, "/api/admin/users", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.User](t, w), 2)

	u, _ := e.st.UserByEmail("alice@example.com")
	w = e.do(http.MethodPut, fmt.Sprintf("/api/admin/users/%d", u.ID), adminTok, map[string]any{"role": "admin"})
	require.Equal(t, http.StatusOK, w.Code)
	entries := e.auditEntries("admin_update_user")
	require.Len(t, entries, 1)
	admin, _ := e.st.UserByEmail("root@example.com")
	require.NotNil(t, entries[0].UserID)
	assert.Equal(t, admin.ID, *entries[0].UserID)

	w = e.do(http.MethodPut, "/api/admin/users/9999", adminTok, map[string]any{"isActive": false})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(http.MethodPut, fmt.Sprintf("/api/admin/users/%d", u.ID), adminTok, map[string]any{"role": "superuser"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIKeyLifecycle(t *testing.T) {
	e := newTestEnv(t)
	tok := e.register("alice", "alice@example.com")

	w := e.do(http.MethodPost, "/api/api-keys", tok, map[string]any{
		"name": "ci", "scopes": []string{"send"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[models.APIKey](t, w)
	assert.Regexp(t, "^dk_[0-9a-f]{64}$", created.Key, "cleartext secret is shown at creation")
	assert.Len(t, e.auditEntries("create_api_key"), 1)

	w = e.do(http.MethodGet, "/api/api-keys", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]models.APIKey](t, w)
	require.Len(t, list, 1)
	assert.NotEqual(t, created.Key, list[0].Key, "list responses mask the secret")
	assert.Contains(t, list[0].Key, "*")

	// key with the send scope can dispatch
	w = e.doKey(http.MethodPost, "/api/send-email", created.Key, map[string]string{
		"to": "x@y.com", "subject": "s", "body": "b",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	entry := decode[models.EmailLog](t, w)
	require.NotNil(t, entry.APIKeyID)
	assert.Equal(t, created.ID, *entry.APIKeyID)

	// but not read logs
	w = e.doKey(http.MethodGet, "/api/logs", created.Key, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// the gate stamps last_used
	k, err := e.st.APIKeyByID(created.ID, entry.UserID)
	require.NoError(t, err)
	assert.NotNil(t, k.LastUsed)

	// deletion is immediate revocation
	w = e.do(http.MethodDelete, fmt.Sprintf("/api/api-keys/%d", created.ID), tok, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = e.doKey(http.MethodPost, "/api/send-email", created.Key, map[string]string{
		"to": "x@y.com", "subject": "s", "body": "b",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(http.MethodPost, "/api/api-keys", tok, map[string]any{"name": "bad", "scopes": []string{"everything"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBillingFlow(t *testing.T) {
	e := newTestEnv(t)
	tok := e.register("alice", "alice@example.com")

	// free accounts get a synthetic placeholder term
	w := e.do(http.MethodGet, "/api/billing/subscription", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	placeholder := decode[models.Subscription](t, w)
	assert.Contains(t, placeholder.ExternalID, "sub_free_")

	w = e.do(http.MethodPost, "/api/create-subscription", tok, map[string]string{"planName": "pro"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, e.auditEntries("create_subscription"), 1)

	u, _ := e.st.UserByEmail("alice@example.com")
	assert.Equal(t, models.PlanPro, u.Plan)

	w = e.do(http.MethodGet, "/api/billing/subscription", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	sub := decode[models.Subscription](t, w)
	assert.Equal(t, models.SubActive, sub.Status)
	assert.False(t, sub.CancelAtPeriodEnd)

	w = e.do(http.MethodGet, "/api/billing/invoices", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	invoices := decode[[]map[string]any](t, w)
	require.Len(t, invoices, 2)
	assert.Equal(t, float64(29), invoices[0]["amount"])

	w = e.do(http.MethodPost, "/api/billing/cancel-subscription", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = e.do(http.MethodGet, "/api/billing/subscription", tok, nil)
	sub = decode[models.Subscription](t, w)
	assert.Equal(t, models.SubCanceling, sub.Status)
	assert.True(t, sub.CancelAtPeriodEnd)
	u, _ = e.st.UserByEmail("alice@example.com")
	assert.Equal(t, models.PlanPro, u.Plan, "plan holds until the period ends")

	// repeat cancel is idempotent and journals nothing new
	w = e.do(http.MethodPost, "/api/billing/cancel-subscription", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, e.auditEntries("cancel_subscription"), 1)

	w = e.do(http.MethodPost, "/api/create-subscription", tok, map[string]string{"planName": "gold"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelWithoutSubscription(t *testing.T) {
	e := newTestEnv(t)
	tok := e.register("alice", "alice@example.com")
	w := e.do(http.MethodPost, "/api/billing/cancel-subscription", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardStats(t *testing.T) {
	e := newTestEnv(t)
	tok := e.register("alice", "alice@example.com")

	w := e.do(http.MethodGet, "/api/dashboard/stats", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[map[string]any](t, w)
	assert.Equal(t, float64(0), stats["emailsSent"])
	assert.Equal(t, "0", stats["deliveryRate"])

	for i := 0; i < 2; i++ {
		w = e.do(http.MethodPost, "/api/send-email", tok, map[string]string{"to": "x@y.com", "subject": "s", "body": "b"})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	e.mail.Err = fmt.Errorf("boom")
	w = e.do(http.MethodPost, "/api/send-email", tok, map[string]string{"to": "x@y.com", "subject": "s", "body": "b"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(http.MethodGet, "/api/dashboard/stats", tok, nil)
	stats = decode[map[string]any](t, w)
	assert.Equal(t, float64(3), stats["emailsSent"])
	assert.Equal(t, "66.7", stats["deliveryRate"])
}

func TestProfileAndPassword(t *testing.T) {
	e := newTestEnv(t)
	tok := e.register("alice", "alice@example.com")
	e.register("bob", "bob@example.com")

	w := e.do(http.MethodPut, "/api/user/profile", tok, map[string]string{"fullName": "Alice Liddell"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alice Liddell", decode[models.User](t, w).FullName)
	assert.Len(t, e.auditEntries("update_profile"), 1)

	// uniqueness re-checked against everyone but self
	w = e.do(http.MethodPut, "/api/user/profile", tok, map[string]string{"email": "bob@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = e.do(http.MethodPut, "/api/user/profile", tok, map[string]string{"email": "alice@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodPost, "/api/user/password", tok, map[string]string{
		"currentPassword": "WrongPass1", "newPassword": "NewPassw0rd",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = e.do(http.MethodPost, "/api/user/password", tok, map[string]string{
		"currentPassword": "Passw0rdOk", "newPassword": "weak",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = e.do(http.MethodPost, "/api/user/password", tok, map[string]string{
		"currentPassword": "Passw0rdOk", "newPassword": "NewPassw0rd",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, e.auditEntries("update_password"), 1)

	w = e.do(http.MethodPost, "/api/login", "", map[string]string{"email": "alice@example.com", "password": "NewPassw0rd"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAiAssistant(t *testing.T) {
	e := newTestEnv(t)
	tok := e.register("alice", "alice@example.com")
	tokB := e.register("bob", "bob@example.com")

	w := e.do(http.MethodPost, "/api/ai/query", tok, map[string]string{"query": "How do I use the API?"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Contains(t, body["response"], "REST API")
	queryID := uint(body["queryId"].(float64))

	w = e.do(http.MethodPost, fmt.Sprintf("/api/ai/rate/%d", queryID), tok, map[string]int{"rating": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// another tenant cannot rate the query
	w = e.do(http.MethodPost, fmt.Sprintf("/api/ai/rate/%d", queryID), tokB, map[string]int{"rating": 5})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(http.MethodPost, fmt.Sprintf("/api/ai/rate/%d", queryID), tok, map[string]int{"rating": 5})
	require.Equal(t, http.StatusOK, w.Code)
	rated := decode[models.AiQuery](t, w)
	require.NotNil(t, rated.Rating)
	assert.Equal(t, 5, *rated.Rating)
}

func TestSystemLogQueryFilters(t *testing.T) {
	e := newTestEnv(t)
	tok := e.register("alice", "alice@example.com")
	adminTok := e.registerAdmin("root", "root@example.com")

	w := e.do(http.MethodPost, "/api/templates", tok, map[string]string{"name": "n", "subject": "s", "body": "b"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = e.do(http.MethodPost, "/api/send-email", tok, map[string]string{"to": "x@y.com", "subject": "s", "body": "b"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(http.MethodGet, "/api/admin/system-logs?action=template", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	logs := decode[[]models.SystemLog](t, w)
	require.Len(t, logs, 1)
	assert.Equal(t, "create_template", logs[0].Action)

	u, _ := e.st.UserByEmail("alice@example.com")
	w = e.do(http.MethodGet, fmt.Sprintf("/api/admin/system-logs?userId=%d", u.ID), adminTok, nil)
	logs = decode[[]models.SystemLog](t, w)
	assert.Len(t, logs, 3, "register, create_template, send_email")
}
