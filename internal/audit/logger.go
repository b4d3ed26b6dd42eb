package audit

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Logger stores events in the audit_logs table.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Write(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.AuditLog{
		Actor:     ev.Actor,
		Action:    ev.Action,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		RequestID: ev.RequestID,
		Metadata:  metaJSON,
	}

	return l.db.WithContext(ctx).Create(&row).Error
}

// LogSink writes events to the application log when no audit database
// is configured.
type LogSink struct {
	log *logrus.Logger
}

func NewLogSink(log *logrus.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Write(_ context.Context, ev Event) error {
	fields := logrus.Fields{
		"audit":      true,
		"actor":      ev.Actor,
		"action":     ev.Action,
		"entity":     ev.Entity,
		"request_id": ev.RequestID,
	}
	if ev.EntityID != nil {
		fields["entity_id"] = *ev.EntityID
	}
	if ev.Metadata != nil {
		fields["metadata"] = ev.Metadata
	}
	s.log.WithFields(fields).Info(ev.Action)
	return nil
}
