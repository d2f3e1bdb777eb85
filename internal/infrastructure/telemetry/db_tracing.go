package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database query tracing
type DBTracingConfig struct {
	Enabled bool
	// LogFullSQL includes bound query variables in spans. Keep off outside
	// development, spans may end up in shared trace storage.
	LogFullSQL      bool
	SlowQueryThresh time.Duration
	DBSystem        string
}

// DefaultDBTracingConfig returns the secure defaults: tracing off, query
// variables stripped, 200ms slow query threshold.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:         false,
		LogFullSQL:      false,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}
}

// DBTracingPlugin instruments GORM with otelgorm spans and annotates them
// with row counts, table names, errors, and slow query events.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a database tracing plugin
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{
		config: cfg,
		logger: logger,
	}
}

// RegisterOtelGorm installs otelgorm plus the annotation callbacks on the
// given GORM instance. A no-op when tracing is disabled.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(p.config.DBSystem),
	}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := p.registerCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

// registerCallbacks hooks every GORM operation: the before callback stamps
// the start time, the after callback annotates the otelgorm span.
func (p *DBTracingPlugin) registerCallbacks(db *gorm.DB) error {
	var firstErr error
	reg := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	reg(db.Callback().Create().Before("gorm:create").Register("query_timing:before_create", stampQueryStart))
	reg(db.Callback().Query().Before("gorm:query").Register("query_timing:before_query", stampQueryStart))
	reg(db.Callback().Update().Before("gorm:update").Register("query_timing:before_update", stampQueryStart))
	reg(db.Callback().Delete().Before("gorm:delete").Register("query_timing:before_delete", stampQueryStart))
	reg(db.Callback().Row().Before("gorm:row").Register("query_timing:before_row", stampQueryStart))
	reg(db.Callback().Raw().Before("gorm:raw").Register("query_timing:before_raw", stampQueryStart))

	reg(db.Callback().Create().After("gorm:create").Register("query_timing:after_create", p.annotateSpan))
	reg(db.Callback().Query().After("gorm:query").Register("query_timing:after_query", p.annotateSpan))
	reg(db.Callback().Update().After("gorm:update").Register("query_timing:after_update", p.annotateSpan))
	reg(db.Callback().Delete().After("gorm:delete").Register("query_timing:after_delete", p.annotateSpan))
	reg(db.Callback().Row().After("gorm:row").Register("query_timing:after_row", p.annotateSpan))
	reg(db.Callback().Raw().After("gorm:raw").Register("query_timing:after_raw", p.annotateSpan))

	return firstErr
}

// annotateSpan runs after each operation and enriches the active span
func (p *DBTracingPlugin) annotateSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	// not-found is an expected outcome, not a span error
	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if startTime, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		elapsed := time.Since(startTime)
		if elapsed > p.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
			))
		}
	}
}

func stampQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

type contextKey string

const queryStartTimeKey contextKey = "query_start_time"

// WithQueryStartTime returns a context carrying the query start time, as
// the before callbacks set it
func WithQueryStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, queryStartTimeKey, time.Now())
}
