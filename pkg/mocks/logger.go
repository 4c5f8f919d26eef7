package mocks

import (
	"fmt"
	"strings"
	"sync"

	"github.com/user/socialimages/pkg/ports"
)

// LogEntry is one recorded log call. Msg is the untranslated format.
type LogEntry struct {
	Level     ports.LogLevel
	Component string
	Msg       string
	Args      []interface{}
}

// Text returns the formatted message.
func (e LogEntry) Text() string {
	return fmt.Sprintf(e.Msg, e.Args...)
}

type logStore struct {
	mu      sync.Mutex
	entries []LogEntry
}

// Logger is a mock implementation of ports.Logger that records every call.
// Loggers returned by WithComponent share the parent's record.
type Logger struct {
	store     *logStore
	component string
}

// NewLogger creates a new recording Logger.
func NewLogger() *Logger {
	return &Logger{store: &logStore{}}
}

func (m *Logger) log(level ports.LogLevel, msg string, args []interface{}) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.entries = append(m.store.entries, LogEntry{Level: level, Component: m.component, Msg: msg, Args: args})
}

func (m *Logger) Debug(msg string, args ...interface{}) { m.log(ports.LevelDebug, msg, args) }
func (m *Logger) Info(msg string, args ...interface{})  { m.log(ports.LevelInfo, msg, args) }
func (m *Logger) Warn(msg string, args ...interface{})  { m.log(ports.LevelWarn, msg, args) }
func (m *Logger) Error(msg string, args ...interface{}) { m.log(ports.LevelError, msg, args) }

func (m *Logger) WithComponent(component string) ports.Logger {
	return &Logger{store: m.store, component: component}
}

// Entries returns a copy of the recorded calls.
func (m *Logger) Entries() []LogEntry {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return append([]LogEntry(nil), m.store.entries...)
}

// Find returns the recorded calls at level whose format starts with prefix.
func (m *Logger) Find(level ports.LogLevel, prefix string) []LogEntry {
	var found []LogEntry
	for _, e := range m.Entries() {
		if e.Level == level && strings.HasPrefix(e.Msg, prefix) {
			found = append(found, e)
		}
	}
	return found
}

var _ ports.Logger = (*Logger)(nil)
