package store

import (
	"errors"
	"time"

	"delivermail/internal/models"
)

// ErrNotFound covers both a missing row and a row owned by another account.
// Callers must not be able to tell the two apart.
var ErrNotFound = errors.New("not found")

// ErrDuplicate reports a unique-constraint violation (username, email, key).
var ErrDuplicate = errors.New("duplicate value")

// EmailLogFilter narrows ListEmailLogs. Zero values mean "no constraint".
type EmailLogFilter struct {
	Status    string
	Email     string // substring match on the recipient address
	StartDate time.Time
	EndDate   time.Time
}

// SystemLogFilter narrows ListSystemLogs. Zero values mean "no constraint".
type SystemLogFilter struct {
	UserID    uint
	Action    string // substring match on the action tag
	StartDate time.Time
	EndDate   time.Time
}

// Storage is the persistence capability behind every handler. Two
// implementations exist: a map-backed one for tests and a GORM/Postgres one
// for production. Callers never branch on which backend is active.
type Storage interface {
	// Users
	CreateUser(u *models.User) error
	UserByID(id uint) (*models.User, error)
	UserByEmail(email string) (*models.User, error)
	UserByUsername(username string) (*models.User, error)
	SaveUser(u *models.User) error
	ListUsers() ([]models.User, error)

	// Email templates (owner-scoped)
	CreateTemplate(t *models.EmailTemplate) error
	TemplateByID(id, userID uint) (*models.EmailTemplate, error)
	ListTemplates(userID uint) ([]models.EmailTemplate, error)
	SaveTemplate(t *models.EmailTemplate) error
	DeleteTemplate(id, userID uint) error

	// Email logs (immutable; userID 0 lists across all accounts)
	CreateEmailLog(l *models.EmailLog) error
	ListEmailLogs(userID uint, f EmailLogFilter) ([]models.EmailLog, error)

	// API keys (owner-scoped except lookup by secret)
	CreateAPIKey(k *models.APIKey) error
	APIKeyByID(id, userID uint) (*models.APIKey, error)
	APIKeyBySecret(key string) (*models.APIKey, error)
	ListAPIKeys(userID uint) ([]models.APIKey, error)
	SaveAPIKey(k *models.APIKey) error
	DeleteAPIKey(id, userID uint) error

	// System logs (append-only)
	CreateSystemLog(l *models.SystemLog) error
	ListSystemLogs(f SystemLogFilter) ([]models.SystemLog, error)

	// AI queries
	CreateAiQuery(q *models.AiQuery) error
	AiQueryByID(id uint) (*models.AiQuery, error)
	SaveAiQuery(q *models.AiQuery) error

	// Subscriptions
	CreateSubscription(s *models.Subscription) error
	CurrentSubscription(userID uint) (*models.Subscription, error)
	SaveSubscription(s *models.Subscription) error

	// Sessions
	CreateSession(s *models.Session) error
	SessionByJTI(jti string) (*models.Session, error)
	SaveSession(s *models.Session) error
}
