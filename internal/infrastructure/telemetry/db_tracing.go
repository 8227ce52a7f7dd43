package telemetry

import (
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const startedAtKey = "telemetry:started_at"

// DBTracing instruments a gorm handle with otelgorm spans and flags slow
// statements on the active span.
type DBTracing struct {
	// DBName is reported as db.name on every span
	DBName string
	// FullSQL keeps bound query variables in db.statement
	FullSQL bool
	// SlowQuery marks statements slower than this; zero disables the check
	SlowQuery time.Duration
	// Provider overrides the global tracer provider
	Provider trace.TracerProvider

	logger *zap.Logger
}

// NewDBTracing returns a DBTracing with a 200ms slow-query threshold
func NewDBTracing(dbName string, fullSQL bool, logger *zap.Logger) *DBTracing {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBTracing{DBName: dbName, FullSQL: fullSQL, SlowQuery: 200 * time.Millisecond, logger: logger}
}

// Register installs the timing callbacks and the otelgorm plugin on db.
// The callbacks go in first so they run while the otelgorm span is open.
func (t *DBTracing) Register(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		op     string
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, h := range hooks {
		if err := h.before("telemetry:before_"+h.op, t.before); err != nil {
			return err
		}
		if err := h.after("telemetry:after_"+h.op, t.after); err != nil {
			return err
		}
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(t.DBName)}
	if !t.FullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if t.Provider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(t.Provider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	t.logger.Info("Database tracing enabled",
		zap.String("db_name", t.DBName),
		zap.Bool("full_sql", t.FullSQL),
		zap.Duration("slow_query", t.SlowQuery),
	)
	return nil
}

func (t *DBTracing) before(db *gorm.DB) {
	db.InstanceSet(startedAtKey, time.Now())
}

func (t *DBTracing) after(db *gorm.DB) {
	if db.Statement == nil || db.Statement.Context == nil {
		return
	}
	span := trace.SpanFromContext(db.Statement.Context)
	if !span.IsRecording() {
		return
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
	}
	if t.SlowQuery <= 0 {
		return
	}
	v, ok := db.InstanceGet(startedAtKey)
	if !ok {
		return
	}
	started, ok := v.(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(started); elapsed > t.SlowQuery {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.duration_ms", elapsed.Milliseconds()),
		)
	}
}
