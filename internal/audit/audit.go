// Package audit is the append-only journal of mutating actions. Writes are
// best effort: a failed journal entry never fails the primary operation, it
// is only reported through the operational log.
package audit

import (
	"go.uber.org/zap"

	"delivermail/internal/models"
	"delivermail/internal/store"
)

type Journal struct {
	st store.Storage
	lg *zap.SugaredLogger
}

func NewJournal(st store.Storage, lg *zap.SugaredLogger) *Journal {
	return &Journal{st: st, lg: lg}
}

// Record appends one entry. actorID is nil for system-initiated actions.
func (j *Journal) Record(actorID *uint, action string, details map[string]any) {
	entry := models.SystemLog{
		UserID:  actorID,
		Action:  action,
		Details: models.NewJSONB(details),
	}
	if err := j.st.CreateSystemLog(&entry); err != nil {
		j.lg.Errorw("audit write failed", "action", action, "error", err)
	}
}

// RecordEndpoint is Record with the originating endpoint attached.
func (j *Journal) RecordEndpoint(actorID *uint, action, endpoint string, details map[string]any) {
	entry := models.SystemLog{
		UserID:   actorID,
		Action:   action,
		Endpoint: &endpoint,
		Details:  models.NewJSONB(details),
	}
	if err := j.st.CreateSystemLog(&entry); err != nil {
		j.lg.Errorw("audit write failed", "action", action, "error", err)
	}
}

// Query returns entries matching the filter, newest first.
func (j *Journal) Query(f store.SystemLogFilter) ([]models.SystemLog, error) {
	return j.st.ListSystemLogs(f)
}
