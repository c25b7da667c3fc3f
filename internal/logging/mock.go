package logging

import "sync"

// LogEntry captures a single logged message for inspection in tests.
type LogEntry struct {
	Level   string
	Message string
	Fields  []Field
}

// MockLogger is a Logger implementation that records entries instead of
// emitting them. It is intended for tests only. Loggers derived with
// WithField/WithFields/WithError record into the same sink as their parent.
type MockLogger struct {
	sink   *mockSink
	fields []Field
}

type mockSink struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewMockLogger creates an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{sink: &mockSink{}}
}

func (m *MockLogger) record(level, msg string, fields []Field) {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	all := append(append([]Field{}, m.fields...), fields...)
	m.sink.entries = append(m.sink.entries, LogEntry{Level: level, Message: msg, Fields: all})
}

func (m *MockLogger) Debug(msg string, fields ...Field) { m.record("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...Field)  { m.record("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...Field)  { m.record("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...Field) { m.record("error", msg, fields) }
func (m *MockLogger) Fatal(msg string, fields ...Field) { m.record("fatal", msg, fields) }

func (m *MockLogger) WithError(err error) Logger {
	return m.WithField("error", err)
}

func (m *MockLogger) WithField(key string, value interface{}) Logger {
	return &MockLogger{sink: m.sink, fields: append(append([]Field{}, m.fields...), Field{Key: key, Value: value})}
}

func (m *MockLogger) WithFields(fields ...Field) Logger {
	return &MockLogger{sink: m.sink, fields: append(append([]Field{}, m.fields...), fields...)}
}

// Entries returns a copy of all recorded entries.
func (m *MockLogger) Entries() []LogEntry {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	return append([]LogEntry{}, m.sink.entries...)
}

// HasEntry reports whether a message was logged at the given level.
func (m *MockLogger) HasEntry(level, message string) bool {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	for _, e := range m.sink.entries {
		if e.Level == level && e.Message == message {
			return true
		}
	}
	return false
}
