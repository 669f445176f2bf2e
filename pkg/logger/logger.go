package logger

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/order-sheet-sync/internal/domain/constants"
	"github.com/yourusername/order-sheet-sync/internal/domain/entity"
	"github.com/yourusername/order-sheet-sync/internal/domain/repository"
)

// Log darajalari
const (
	LevelError = 0
	LevelWarn  = 1
	LevelInfo  = 2
	LevelDebug = 3
)

var levelNames = map[int]string{
	LevelError: "ERROR",
	LevelWarn:  "WARN",
	LevelInfo:  "INFO",
	LevelDebug: "DEBUG",
}

// Logger leveled logger with a rolling in-memory buffer. When a store is
// attached, every entry is also persisted (best effort, never fatal).
type Logger struct {
	mu      sync.Mutex
	level   int
	out     *log.Logger
	entries []entity.LogEntry
	store   repository.StateStore
}

// New yangi logger yaratish
func New(level int) *Logger {
	if level < LevelError || level > LevelDebug {
		level = LevelInfo
	}
	return &Logger{
		level: level,
		out:   log.New(os.Stderr, "", log.LstdFlags),
	}
}

// AttachStore enables durable log persistence and restores the saved level.
func (l *Logger) AttachStore(ctx context.Context, store repository.StateStore) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.store = store
	if level, ok, err := store.LoadLogLevel(ctx); err == nil && ok {
		if level >= LevelError && level <= LevelDebug {
			l.level = level
		}
	}
}

// SetLevel darajani o'zgartirish (store ga ham yoziladi)
func (l *Logger) SetLevel(level int) {
	if level < LevelError || level > LevelDebug {
		return
	}
	l.mu.Lock()
	store := l.store
	l.level = level
	l.mu.Unlock()
	if store != nil {
		_ = store.SaveLogLevel(context.Background(), level)
	}
}

// Level returns the current threshold.
func (l *Logger) Level() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.logf(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.logf(LevelError, format, args...) }

func (l *Logger) logf(level int, format string, args ...interface{}) {
	l.mu.Lock()
	if level > l.level {
		l.mu.Unlock()
		return
	}

	msg := fmt.Sprintf(format, args...)
	entry := entity.LogEntry{
		ID:      uuid.New().String(),
		Time:    time.Now(),
		Level:   levelNames[level],
		Message: msg,
	}

	l.entries = append(l.entries, entry)
	// Oxirgi 100 ta yozuvni saqlaymiz
	if len(l.entries) > constants.MaxLogEntries {
		l.entries = l.entries[len(l.entries)-constants.MaxLogEntries:]
	}
	store := l.store
	out := l.out
	l.mu.Unlock()

	out.Printf("[%s] %s", entry.Level, msg)
	if store != nil {
		_ = store.AppendLog(context.Background(), entry)
	}
}

// Logs returns a copy of the rolling buffer, oldest first.
func (l *Logger) Logs() []entity.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]entity.LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// ClearLogs bufferni tozalash
func (l *Logger) ClearLogs() {
	l.mu.Lock()
	store := l.store
	l.entries = nil
	l.mu.Unlock()
	if store != nil {
		_ = store.ClearLogs(context.Background())
	}
}

// Package-level default, main va kichik joylar uchun.
var (
	defaultLogger = New(LevelInfo)

	// InfoLogger and ErrorLogger expose plain *log.Logger handles for
	// call sites that want Printf/Println directly.
	InfoLogger  *log.Logger
	ErrorLogger *log.Logger
)

// Init standart loggerni tayyorlash
func Init() {
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
}

// Default returns the shared logger instance.
func Default() *Logger { return defaultLogger }

func Debug(format string, args ...interface{}) { defaultLogger.Debugf(format, args...) }
func Info(format string, args ...interface{})  { defaultLogger.Infof(format, args...) }
func Warn(format string, args ...interface{})  { defaultLogger.Warnf(format, args...) }
func Error(format string, args ...interface{}) { defaultLogger.Errorf(format, args...) }
