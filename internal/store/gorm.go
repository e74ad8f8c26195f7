package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"delivermail/internal/models"
)

// Gorm is the production Storage backed by Postgres.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// AutoMigrate creates or updates the schema for every entity kind.
func (g *Gorm) AutoMigrate() error {
	return g.db.AutoMigrate(
		&models.User{},
		&models.EmailTemplate{},
		&models.EmailLog{},
		&models.APIKey{},
		&models.SystemLog{},
		&models.AiQuery{},
		&models.Subscription{},
		&models.Session{},
	)
}

func wrapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

// Users

func (g *Gorm) CreateUser(u *models.User) error {
	return wrapErr(g.db.Create(u).Error)
}

func (g *Gorm) UserByID(id uint) (*models.User, error) {
	var u models.User
	if err := g.db.First(&u, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &u, nil
}

func (g *Gorm) UserByEmail(email string) (*models.User, error) {
	var u models.User
	if err := g.db.First(&u, "email = ?", email).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &u, nil
}

func (g *Gorm) UserByUsername(username string) (*models.User, error) {
	var u models.User
	if err := g.db.First(&u, "username = ?", username).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &u, nil
}

func (g *Gorm) SaveUser(u *models.User) error {
	u.UpdatedAt = time.Now()
	return wrapErr(g.db.Save(u).Error)
}

func (g *Gorm) ListUsers() ([]models.User, error) {
	var users []models.User
	err := g.db.Order("created_at desc").Find(&users).Error
	return users, wrapErr(err)
}

// Templates

func (g *Gorm) CreateTemplate(t *models.EmailTemplate) error {
	return wrapErr(g.db.Create(t).Error)
}

func (g *Gorm) TemplateByID(id, userID uint) (*models.EmailTemplate, error) {
	var t models.EmailTemplate
	if err := g.db.First(&t, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &t, nil
}

func (g *Gorm) ListTemplates(userID uint) ([]models.EmailTemplate, error) {
	var ts []models.EmailTemplate
	err := g.db.Where("user_id = ?", userID).Order("created_at desc").Find(&ts).Error
	return ts, wrapErr(err)
}

func (g *Gorm) SaveTemplate(t *models.EmailTemplate) error {
	t.UpdatedAt = time.Now()
	return wrapErr(g.db.Save(t).Error)
}

func (g *Gorm) DeleteTemplate(id, userID uint) error {
	res := g.db.Delete(&models.EmailTemplate{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Email logs

func (g *Gorm) CreateEmailLog(l *models.EmailLog) error {
	if l.SentAt.IsZero() {
		l.SentAt = time.Now()
	}
	return wrapErr(g.db.Create(l).Error)
}

func (g *Gorm) ListEmailLogs(userID uint, f EmailLogFilter) ([]models.EmailLog, error) {
	q := g.db.Model(&models.EmailLog{})
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Email != "" {
		q = q.Where(`"to" LIKE ?`, "%"+f.Email+"%")
	}
	if !f.StartDate.IsZero() {
		q = q.Where("sent_at >= ?", f.StartDate)
	}
	if !f.EndDate.IsZero() {
		q = q.Where("sent_at <= ?", f.EndDate)
	}
	var logs []models.EmailLog
	err := q.Order("sent_at desc").Find(&logs).Error
	return logs, wrapErr(err)
}

// API keys

func (g *Gorm) CreateAPIKey(k *models.APIKey) error {
	return wrapErr(g.db.Create(k).Error)
}

func (g *Gorm) APIKeyByID(id, userID uint) (*models.APIKey, error) {
	var k models.APIKey
	if err := g.db.First(&k, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &k, nil
}

func (g *Gorm) APIKeyBySecret(key string) (*models.APIKey, error) {
	var k models.APIKey
	if err := g.db.First(&k, "key = ?", key).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &k, nil
}

func (g *Gorm) ListAPIKeys(userID uint) ([]models.APIKey, error) {
	var ks []models.APIKey
	err := g.db.Where("user_id = ?", userID).Order("created_at desc").Find(&ks).Error
	return ks, wrapErr(err)
}

func (g *Gorm) SaveAPIKey(k *models.APIKey) error {
	return wrapErr(g.db.Save(k).Error)
}

func (g *Gorm) DeleteAPIKey(id, userID uint) error {
	res := g.db.Delete(&models.APIKey{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// System logs

func (g *Gorm) CreateSystemLog(l *models.SystemLog) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	return wrapErr(g.db.Create(l).Error)
}

func (g *Gorm) ListSystemLogs(f SystemLogFilter) ([]models.SystemLog, error) {
	q := g.db.Model(&models.SystemLog{})
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Action != "" {
		q = q.Where("action LIKE ?", "%"+f.Action+"%")
	}
	if !f.StartDate.IsZero() {
		q = q.Where("created_at >= ?", f.StartDate)
	}
	if !f.EndDate.IsZero() {
		q = q.Where("created_at <= ?", f.EndDate)
	}
	var logs []models.SystemLog
	err := q.Order("created_at desc").Find(&logs).Error
	return logs, wrapErr(err)
}

// AI queries

func (g *Gorm) CreateAiQuery(q *models.AiQuery) error {
	return wrapErr(g.db.Create(q).Error)
}

func (g *Gorm) AiQueryByID(id uint) (*models.AiQuery, error) {
	var q models.AiQuery
	if err := g.db.First(&q, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &q, nil
}

func (g *Gorm) SaveAiQuery(q *models.AiQuery) error {
	return wrapErr(g.db.Save(q).Error)
}

// Subscriptions

func (g *Gorm) CreateSubscription(s *models.Subscription) error {
	return wrapErr(g.db.Create(s).Error)
}

func (g *Gorm) CurrentSubscription(userID uint) (*models.Subscription, error) {
	var s models.Subscription
	err := g.db.Where("user_id = ? AND status <> ?", userID, models.SubCanceled).
		Order("created_at desc").First(&s).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return &s, nil
}

func (g *Gorm) SaveSubscription(s *models.Subscription) error {
	s.UpdatedAt = time.Now()
	return wrapErr(g.db.Save(s).Error)
}

// Sessions

func (g *Gorm) CreateSession(s *models.Session) error {
	return wrapErr(g.db.Create(s).Error)
}

func (g *Gorm) SessionByJTI(jti string) (*models.Session, error) {
	var s models.Session
	if err := g.db.First(&s, "jti = ?", jti).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &s, nil
}

func (g *Gorm) SaveSession(s *models.Session) error {
	return wrapErr(g.db.Save(s).Error)
}
