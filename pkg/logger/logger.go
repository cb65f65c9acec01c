package logger

import (
	"fmt"
	"io"
	"strings"

	glog "github.com/google/logger"
)

const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	level int
	inner *glog.Logger
}

// NewLogger returns a leveled logger writing to stdout/stderr. Messages below
// level are dropped.
func NewLogger(level int) *defaultLogger {
	return &defaultLogger{
		level: level,
		inner: glog.Init("lotterypool", true, false, io.Discard),
	}
}

// ParseLevel converts a config value into a level. Unknown values fall back
// to INFO.
func ParseLevel(s string) int {
	switch strings.ToLower(s) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARNING
	case "error":
		return ERROR
	case "silence":
		return SILENCE
	default:
		return INFO
	}
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	if l.level <= DEBUG {
		l.inner.InfoDepth(1, "[DEBUG] "+fmt.Sprintf(msg, a...))
	}
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	if l.level <= INFO {
		l.inner.InfoDepth(1, fmt.Sprintf(msg, a...))
	}
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	if l.level <= WARNING {
		l.inner.WarningDepth(1, fmt.Sprintf(msg, a...))
	}
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	if l.level <= ERROR {
		l.inner.ErrorDepth(1, fmt.Sprintf(msg, a...))
	}
}
