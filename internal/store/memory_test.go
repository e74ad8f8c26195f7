package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delivermail/internal/models"
)

func newUser(t *testing.T, m *Memory, username, email string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username, Email: email, PasswordHash: "x",
		FullName: username, Role: models.RoleUser, Plan: models.PlanFree, IsActive: true,
	}
	require.NoError(t, m.CreateUser(u))
	return u
}

func TestMemoryUserUniqueness(t *testing.T) {
	m := NewMemory()
	newUser(t, m, "alice", "alice@example.com")

	dup := &models.User{Username: "alice2", Email: "alice@example.com"}
	assert.ErrorIs(t, m.CreateUser(dup), ErrDuplicate)

	dup = &models.User{Username: "alice", Email: "other@example.com"}
	assert.ErrorIs(t, m.CreateUser(dup), ErrDuplicate)

	b := newUser(t, m, "bob", "bob@example.com")
	b.Email = "alice@example.com"
	assert.ErrorIs(t, m.SaveUser(b), ErrDuplicate)
}

func TestMemoryTemplateOwnership(t *testing.T) {
	m := NewMemory()
	a := newUser(t, m, "a", "a@example.com")
	b := newUser(t, m, "b", "b@example.com")

	tpl := &models.EmailTemplate{UserID: a.ID, Name: "welcome", Subject: "hi", Body: "<p>hi</p>", IsActive: true}
	require.NoError(t, m.CreateTemplate(tpl))

	// another account's lookup is indistinguishable from a missing row
	_, err := m.TemplateByID(tpl.ID, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.TemplateByID(999, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, m.DeleteTemplate(tpl.ID, b.ID), ErrNotFound)

	got, err := m.TemplateByID(tpl.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "welcome", got.Name)

	listB, err := m.ListTemplates(b.ID)
	require.NoError(t, err)
	assert.Empty(t, listB)

	require.NoError(t, m.DeleteTemplate(tpl.ID, a.ID))
	_, err = m.TemplateByID(tpl.ID, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryEmailLogFilters(t *testing.T) {
	m := NewMemory()
	a := newUser(t, m, "a", "a@example.com")
	b := newUser(t, m, "b", "b@example.com")

	old := time.Now().Add(-48 * time.Hour)
	logs := []models.EmailLog{
		{UserID: a.ID, To: "x@y.com", Subject: "s", Body: "b", Status: models.StatusDelivered, SentAt: time.Now()},
		{UserID: a.ID, To: "z@q.org", Subject: "s", Body: "b", Status: models.StatusFailed, SentAt: time.Now()},
		{UserID: a.ID, To: "w@y.com", Subject: "s", Body: "b", Status: models.StatusDelivered, SentAt: old},
		{UserID: b.ID, To: "x@y.com", Subject: "s", Body: "b", Status: models.StatusDelivered, SentAt: time.Now()},
	}
	for i := range logs {
		require.NoError(t, m.CreateEmailLog(&logs[i]))
	}

	got, err := m.ListEmailLogs(a.ID, EmailLogFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 3)
	for _, l := range got {
		assert.Equal(t, a.ID, l.UserID)
	}

	got, _ = m.ListEmailLogs(a.ID, EmailLogFilter{Status: models.StatusFailed})
	assert.Len(t, got, 1)

	got, _ = m.ListEmailLogs(a.ID, EmailLogFilter{Email: "y.com"})
	assert.Len(t, got, 2)

	got, _ = m.ListEmailLogs(a.ID, EmailLogFilter{StartDate: time.Now().Add(-time.Hour)})
	assert.Len(t, got, 2)

	// userID 0 is the admin view across accounts
	got, _ = m.ListEmailLogs(0, EmailLogFilter{})
	assert.Len(t, got, 4)
}

func TestMemorySystemLogFilters(t *testing.T) {
	m := NewMemory()
	a := newUser(t, m, "a", "a@example.com")

	for _, action := range []string{"create_template", "delete_template", "send_email"} {
		require.NoError(t, m.CreateSystemLog(&models.SystemLog{UserID: &a.ID, Action: action}))
	}
	require.NoError(t, m.CreateSystemLog(&models.SystemLog{Action: "system_boot"}))

	got, err := m.ListSystemLogs(SystemLogFilter{Action: "template"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, _ = m.ListSystemLogs(SystemLogFilter{UserID: a.ID})
	assert.Len(t, got, 3)

	got, _ = m.ListSystemLogs(SystemLogFilter{})
	assert.Len(t, got, 4)
	// newest first
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreatedAt.After(got[i-1].CreatedAt))
	}
}

func TestMemoryCurrentSubscription(t *testing.T) {
	m := NewMemory()
	a := newUser(t, m, "a", "a@example.com")

	_, err := m.CurrentSubscription(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	s1 := &models.Subscription{UserID: a.ID, ExternalID: "sub_1", Status: models.SubCanceled}
	require.NoError(t, m.CreateSubscription(s1))
	_, err = m.CurrentSubscription(a.ID)
	assert.ErrorIs(t, err, ErrNotFound, "canceled rows are not current")

	s2 := &models.Subscription{UserID: a.ID, ExternalID: "sub_2", Status: models.SubActive}
	require.NoError(t, m.CreateSubscription(s2))
	got, err := m.CurrentSubscription(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "sub_2", got.ExternalID)
}

func TestMemoryAPIKeys(t *testing.T) {
	m := NewMemory()
	a := newUser(t, m, "a", "a@example.com")
	b := newUser(t, m, "b", "b@example.com")

	k := &models.APIKey{UserID: a.ID, Name: "ci", Key: "dk_abc", Scopes: models.StringSlice{models.ScopeSend}, IsActive: true}
	require.NoError(t, m.CreateAPIKey(k))

	dup := &models.APIKey{UserID: b.ID, Name: "x", Key: "dk_abc"}
	assert.ErrorIs(t, m.CreateAPIKey(dup), ErrDuplicate)

	got, err := m.APIKeyBySecret("dk_abc")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.UserID)

	_, err = m.APIKeyByID(k.ID, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.DeleteAPIKey(k.ID, b.ID), ErrNotFound)
	require.NoError(t, m.DeleteAPIKey(k.ID, a.ID))
	_, err = m.APIKeyBySecret("dk_abc")
	assert.ErrorIs(t, err, ErrNotFound)
}
