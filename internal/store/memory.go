package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"delivermail/internal/models"
)

// Memory is a map-backed Storage used by tests and local runs. Each
// collection keeps its own counter; nothing depends on IDs being unique
// across entity kinds.
type Memory struct {
	mu sync.RWMutex

	users         map[uint]models.User
	templates     map[uint]models.EmailTemplate
	emailLogs     map[uint]models.EmailLog
	apiKeys       map[uint]models.APIKey
	systemLogs    map[uint]models.SystemLog
	aiQueries     map[uint]models.AiQuery
	subscriptions map[uint]models.Subscription
	sessions      map[string]models.Session

	nextUser, nextTemplate, nextEmailLog, nextAPIKey uint
	nextSystemLog, nextAiQuery, nextSubscription     uint
}

func NewMemory() *Memory {
	return &Memory{
		users:         make(map[uint]models.User),
		templates:     make(map[uint]models.EmailTemplate),
		emailLogs:     make(map[uint]models.EmailLog),
		apiKeys:       make(map[uint]models.APIKey),
		systemLogs:    make(map[uint]models.SystemLog),
		aiQueries:     make(map[uint]models.AiQuery),
		subscriptions: make(map[uint]models.Subscription),
		sessions:      make(map[string]models.Session),
	}
}

// Users

func (m *Memory) CreateUser(u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return ErrDuplicate
		}
	}
	m.nextUser++
	u.ID = m.nextUser
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) UserByID(id uint) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) UserByEmail(email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) UserByUsername(username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) SaveUser(u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return ErrNotFound
	}
	for _, other := range m.users {
		if other.ID != u.ID && (other.Email == u.Email || other.Username == u.Username) {
			return ErrDuplicate
		}
	}
	u.UpdatedAt = time.Now()
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) ListUsers() ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Templates

func (m *Memory) CreateTemplate(t *models.EmailTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextTemplate++
	t.ID = m.nextTemplate
	now := time.Now()
	t.CreatedAt, t.UpdatedAt = now, now
	m.templates[t.ID] = *t
	return nil
}

func (m *Memory) TemplateByID(id, userID uint) (*models.EmailTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.templates[id]
	if !ok || t.UserID != userID {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (m *Memory) ListTemplates(userID uint) ([]models.EmailTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.EmailTemplate
	for _, t := range m.templates {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) SaveTemplate(t *models.EmailTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.templates[t.ID]
	if !ok || existing.UserID != t.UserID {
		return ErrNotFound
	}
	t.UpdatedAt = time.Now()
	m.templates[t.ID] = *t
	return nil
}

func (m *Memory) DeleteTemplate(id, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[id]
	if !ok || t.UserID != userID {
		return ErrNotFound
	}
	delete(m.templates, id)
	return nil
}

// Email logs

func (m *Memory) CreateEmailLog(l *models.EmailLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextEmailLog++
	l.ID = m.nextEmailLog
	if l.SentAt.IsZero() {
		l.SentAt = time.Now()
	}
	m.emailLogs[l.ID] = *l
	return nil
}

func (m *Memory) ListEmailLogs(userID uint, f EmailLogFilter) ([]models.EmailLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.EmailLog
	for _, l := range m.emailLogs {
		if userID != 0 && l.UserID != userID {
			continue
		}
		if !matchEmailLog(l, f) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	return out, nil
}

func matchEmailLog(l models.EmailLog, f EmailLogFilter) bool {
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if f.Email != "" && !strings.Contains(l.To, f.Email) {
		return false
	}
	if !f.StartDate.IsZero() && l.SentAt.Before(f.StartDate) {
		return false
	}
	if !f.EndDate.IsZero() && l.SentAt.After(f.EndDate) {
		return false
	}
	return true
}

// API keys

func (m *Memory) CreateAPIKey(k *models.APIKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.apiKeys {
		if existing.Key == k.Key {
			return ErrDuplicate
		}
	}
	m.nextAPIKey++
	k.ID = m.nextAPIKey
	k.CreatedAt = time.Now()
	m.apiKeys[k.ID] = *k
	return nil
}

func (m *Memory) APIKeyByID(id, userID uint) (*models.APIKey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	k, ok := m.apiKeys[id]
	if !ok || k.UserID != userID {
		return nil, ErrNotFound
	}
	return &k, nil
}

func (m *Memory) APIKeyBySecret(key string) (*models.APIKey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, k := range m.apiKeys {
		if k.Key == key {
			k := k
			return &k, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListAPIKeys(userID uint) ([]models.APIKey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.APIKey
	for _, k := range m.apiKeys {
		if k.UserID == userID {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) SaveAPIKey(k *models.APIKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.apiKeys[k.ID]; !ok {
		return ErrNotFound
	}
	m.apiKeys[k.ID] = *k
	return nil
}

func (m *Memory) DeleteAPIKey(id, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, ok := m.apiKeys[id]
	if !ok || k.UserID != userID {
		return ErrNotFound
	}
	delete(m.apiKeys, id)
	return nil
}

// System logs

func (m *Memory) CreateSystemLog(l *models.SystemLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSystemLog++
	l.ID = m.nextSystemLog
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	m.systemLogs[l.ID] = *l
	return nil
}

func (m *Memory) ListSystemLogs(f SystemLogFilter) ([]models.SystemLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.SystemLog
	for _, l := range m.systemLogs {
		if f.UserID != 0 && (l.UserID == nil || *l.UserID != f.UserID) {
			continue
		}
		if f.Action != "" && !strings.Contains(l.Action, f.Action) {
			continue
		}
		if !f.StartDate.IsZero() && l.CreatedAt.Before(f.StartDate) {
			continue
		}
		if !f.EndDate.IsZero() && l.CreatedAt.After(f.EndDate) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// AI queries

func (m *Memory) CreateAiQuery(q *models.AiQuery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextAiQuery++
	q.ID = m.nextAiQuery
	q.CreatedAt = time.Now()
	m.aiQueries[q.ID] = *q
	return nil
}

func (m *Memory) AiQueryByID(id uint) (*models.AiQuery, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.aiQueries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &q, nil
}

func (m *Memory) SaveAiQuery(q *models.AiQuery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.aiQueries[q.ID]; !ok {
		return ErrNotFound
	}
	m.aiQueries[q.ID] = *q
	return nil
}

// Subscriptions

func (m *Memory) CreateSubscription(s *models.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSubscription++
	s.ID = m.nextSubscription
	now := time.Now()
	s.CreatedAt, s.UpdatedAt = now, now
	m.subscriptions[s.ID] = *s
	return nil
}

func (m *Memory) CurrentSubscription(userID uint) (*models.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var cur *models.Subscription
	for _, s := range m.subscriptions {
		if s.UserID != userID || s.Status == models.SubCanceled {
			continue
		}
		s := s
		if cur == nil || s.CreatedAt.After(cur.CreatedAt) {
			cur = &s
		}
	}
	if cur == nil {
		return nil, ErrNotFound
	}
	return cur, nil
}

func (m *Memory) SaveSubscription(s *models.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subscriptions[s.ID]; !ok {
		return ErrNotFound
	}
	s.UpdatedAt = time.Now()
	m.subscriptions[s.ID] = *s
	return nil
}

// Sessions

func (m *Memory) CreateSession(s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	m.sessions[s.JTI] = *s
	return nil
}

func (m *Memory) SessionByJTI(jti string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[jti]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *Memory) SaveSession(s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.JTI]; !ok {
		return ErrNotFound
	}
	m.sessions[s.JTI] = *s
	return nil
}
