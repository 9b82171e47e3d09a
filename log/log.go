// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package log is a small leveled-logging facade: a Logger interface,
// level filtering, and a Helper that call sites use directly.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Level is a closed logging severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is the minimal interface every backend implements.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// stdLogger writes to a standard library *log.Logger.
type stdLogger struct {
	l *log.Logger
}

// NewStdLogger returns a Logger backed by the standard library, writing
// to w.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{l: log.New(w, "", log.LstdFlags)}
}

func (s *stdLogger) Log(level Level, keyvals ...interface{}) error {
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "MISSING_VALUE")
	}
	msg := fmt.Sprintf("[%s]", level)
	for i := 0; i < len(keyvals); i += 2 {
		msg += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
	}
	s.l.Println(msg)
	return nil
}

// filter wraps a Logger, dropping records below a minimum level.
type filter struct {
	next Logger
	min  Level
}

// FilterOption configures a filter.
type FilterOption func(*filter)

// FilterLevel sets the minimum level a filtered Logger will pass through.
func FilterLevel(lvl Level) FilterOption {
	return func(f *filter) { f.min = lvl }
}

// NewFilter returns a Logger that drops records under the configured
// minimum level before delegating to next.
func NewFilter(next Logger, opts ...FilterOption) Logger {
	f := &filter{next: next, min: LevelInfo}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filter) Log(level Level, keyvals ...interface{}) error {
	if level < f.min {
		return nil
	}
	return f.next.Log(level, keyvals...)
}

// Helper is the ergonomic wrapper call sites hold onto.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger in a Helper.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) log(level Level, keyvals ...interface{}) {
	if h == nil || h.logger == nil {
		return
	}
	_ = h.logger.Log(level, keyvals...)
}

// Debug logs a debug-level record.
func (h *Helper) Debug(keyvals ...interface{}) { h.log(LevelDebug, keyvals...) }

// Info logs an info-level record.
func (h *Helper) Info(keyvals ...interface{}) { h.log(LevelInfo, keyvals...) }

// Warn logs a warn-level record.
func (h *Helper) Warn(keyvals ...interface{}) { h.log(LevelWarn, keyvals...) }

// Error logs an error-level record.
func (h *Helper) Error(keyvals ...interface{}) { h.log(LevelError, keyvals...) }

// Default returns a Helper writing to stderr, filtered to info and above.
func Default() *Helper {
	return NewHelper(NewFilter(NewStdLogger(os.Stderr), FilterLevel(LevelInfo)))
}
