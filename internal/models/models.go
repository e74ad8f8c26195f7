package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	PlanFree       = "free"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// Email log statuses.
const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
	StatusBounced   = "bounced"
)

// Subscription statuses.
const (
	SubActive    = "active"
	SubCanceling = "canceling"
	SubCanceled  = "canceled"
)

// API key scopes.
const (
	ScopeSend      = "send"
	ScopeTemplates = "templates"
	ScopeLogs      = "logs"
)

type User struct {
	ID                   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username             string    `gorm:"uniqueIndex;not null" json:"username"`
	Email                string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash         string    `gorm:"not null" json:"-"`
	FullName             string    `gorm:"not null" json:"full_name"`
	Role                 string    `gorm:"not null;default:user;size:16" json:"role"`
	Plan                 string    `gorm:"not null;default:free;size:16" json:"plan"`
	IsActive             bool      `gorm:"not null;default:true" json:"is_active"`
	StripeCustomerID     *string   `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID *string   `json:"stripe_subscription_id,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type EmailTemplate struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Name      string    `gorm:"not null" json:"name"`
	Subject   string    `gorm:"not null" json:"subject"`
	Body      string    `gorm:"not null" json:"body"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EmailLog records one send attempt. Rows are immutable after creation.
type EmailLog struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	To         string    `gorm:"not null" json:"to"`
	Subject    string    `gorm:"not null" json:"subject"`
	Body       string    `gorm:"not null" json:"body"`
	Status     string    `gorm:"not null;size:16" json:"status"`
	TemplateID *uint     `json:"template_id,omitempty"`
	APIKeyID   *uint     `json:"api_key_id,omitempty"`
	SentAt     time.Time `json:"sent_at"`
}

type APIKey struct {
	ID        uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint        `gorm:"index;not null" json:"user_id"`
	Name      string      `gorm:"not null" json:"name"`
	Key       string      `gorm:"uniqueIndex;not null" json:"key"`
	Scopes    StringSlice `gorm:"type:jsonb;default:'[]'::jsonb" json:"scopes"`
	IsActive  bool        `gorm:"not null;default:true" json:"is_active"`
	LastUsed  *time.Time  `json:"last_used,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

func (k APIKey) HasScope(scope string) bool {
	for _, s := range k.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// SystemLog is the append-only audit journal. Rows are never updated or deleted.
type SystemLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	Action    string    `gorm:"not null;index" json:"action"`
	Endpoint  *string   `json:"endpoint,omitempty"`
	Details   JSONB     `gorm:"type:jsonb;default:'{}'::jsonb" json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

type AiQuery struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	Query     string    `gorm:"not null" json:"query"`
	Response  string    `gorm:"not null" json:"response"`
	Rating    *int      `json:"rating,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Subscription is the mock billing record for one paid term.
type Subscription struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID             uint      `gorm:"index;not null" json:"user_id"`
	ExternalID         string    `gorm:"uniqueIndex;not null" json:"stripe_subscription_id"`
	Status             string    `gorm:"not null;size:16" json:"status"`
	CurrentPeriodStart time.Time `gorm:"not null" json:"current_period_start"`
	CurrentPeriodEnd   time.Time `gorm:"not null" json:"current_period_end"`
	CancelAtPeriodEnd  bool      `gorm:"not null;default:false" json:"cancel_at_period_end"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type Session struct {
	JTI       string     `gorm:"primaryKey;size:64" json:"jti"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
