package testdoubles

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
)

// Log levels as recorded by ContextualLoggerSpy.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// ContextualLoggerSpy captures logging calls for testing.
// It implements both cqrs.ContextualLogger and cqrs.Logger, records of the basic methods have Contextual unset.
type ContextualLoggerSpy struct {
	records []SpyLogRecord
	mu      sync.Mutex
}

// SpyLogRecord represents a recorded log call.
type SpyLogRecord struct {
	Level   string
	Message string
	Args       []any
	Context    context.Context
	Contextual bool
}

// Arg returns the value following key in the record's key/value args.
func (r SpyLogRecord) Arg(key string) (any, bool) {
	for i := 0; i+1 < len(r.Args); i += 2 {
		if k, ok := r.Args[i].(string); ok && k == key {
			return r.Args[i+1], true
		}
	}

	return nil, false
}

// NewContextualLoggerSpy creates a new ContextualLoggerSpy instance.
func NewContextualLoggerSpy() *ContextualLoggerSpy {
	return &ContextualLoggerSpy{}
}

func (s *ContextualLoggerSpy) record(ctx context.Context, contextual bool, level, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpyLogRecord{
		Level:      level,
		Message:    msg,
		Args:       args,
		Context:    ctx,
		Contextual: contextual,
	})
}

// DebugContext implements cqrs.ContextualLogger.
func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, true, LevelDebug, msg, args)
}

// InfoContext implements cqrs.ContextualLogger.
func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, true, LevelInfo, msg, args)
}

// WarnContext implements cqrs.ContextualLogger.
func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, true, LevelWarn, msg, args)
}

// ErrorContext implements cqrs.ContextualLogger.
func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, true, LevelError, msg, args)
}

// Debug implements cqrs.Logger.
func (s *ContextualLoggerSpy) Debug(msg string, args ...any) {
	s.record(context.Background(), false, LevelDebug, msg, args)
}

// Info implements cqrs.Logger.
func (s *ContextualLoggerSpy) Info(msg string, args ...any) {
	s.record(context.Background(), false, LevelInfo, msg, args)
}

// Warn implements cqrs.Logger.
func (s *ContextualLoggerSpy) Warn(msg string, args ...any) {
	s.record(context.Background(), false, LevelWarn, msg, args)
}

// Error implements cqrs.Logger.
func (s *ContextualLoggerSpy) Error(msg string, args ...any) {
	s.record(context.Background(), false, LevelError, msg, args)
}

// Reset clears all recorded log calls.
func (s *ContextualLoggerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = s.records[:0]
}

// GetRecords returns a copy of all log records of the given level.
func (s *ContextualLoggerSpy) GetRecords(level string) []SpyLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []SpyLogRecord
	for _, record := range s.records {
		if record.Level == level {
			records = append(records, record)
		}
	}

	return records
}

// GetTotalRecordCount returns the total number of log records across all levels.
func (s *ContextualLoggerSpy) GetTotalRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// HasLog checks if a log with the given level and message exists.
func (s *ContextualLoggerSpy) HasLog(level, message string) bool {
	return s.HasLogForMessage(level, message).Assert()
}

// LogRecordMatcher provides a fluent interface for checking log records.
type LogRecordMatcher struct {
	found  bool
	record SpyLogRecord
}

// HasLogForMessage starts a fluent chain to check the first log record with the given level and message.
func (s *ContextualLoggerSpy) HasLogForMessage(level, message string) *LogRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.Level == level && record.Message == message {
			return &LogRecordMatcher{found: true, record: record}
		}
	}

	return &LogRecordMatcher{found: false}
}

// WithArg checks if the record carries the key with the given value.
func (m *LogRecordMatcher) WithArg(key string, value any) *LogRecordMatcher {
	if !m.found {
		return m
	}

	if got, ok := m.record.Arg(key); !ok || got != value {
		m.found = false
	}

	return m
}

// ViaContextualLogger checks if the record was logged through a ...Context method.
func (m *LogRecordMatcher) ViaContextualLogger() *LogRecordMatcher {
	if m.found && !m.record.Contextual {
		m.found = false
	}

	return m
}

// Assert returns true if all conditions in the fluent chain were met.
func (m *LogRecordMatcher) Assert() bool {
	return m.found
}

// Compile-time checks.
var (
	_ cqrs.ContextualLogger = (*ContextualLoggerSpy)(nil)
	_ cqrs.Logger           = (*ContextualLoggerSpy)(nil)
)
