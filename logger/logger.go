/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package logger provides the structured logging facade used across this
// module, backed by logrus the way the host library backs its own logger
// package with a pluggable driver.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// FuncLog is a function type that returns a Logger instance, used for
// dependency injection the same way the host library threads a FuncLog
// through server configuration instead of a concrete *Logger.
type FuncLog func() Logger

// Logger is the narrow structured-logging surface the core and its
// collaborators depend on.
type Logger interface {
	SetLevel(lvl Level)
	GetLevel() Level

	WithField(key string, val interface{}) Logger

	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type logger struct {
	e *logrus.Entry
}

// New returns a Logger writing to stderr in text format, matching the
// host library's default formatter choice for non-service invocations.
func New() Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)

	return &logger{e: logrus.NewEntry(l)}
}

func (o *logger) SetLevel(lvl Level) {
	o.e.Logger.SetLevel(lvl.logrus())
}

func (o *logger) GetLevel() Level {
	return Level(o.e.Logger.GetLevel())
}

func (o *logger) WithField(key string, val interface{}) Logger {
	return &logger{e: o.e.WithField(key, val)}
}

func (o *logger) Debugf(format string, args ...interface{}) {
	o.e.Debugf(format, args...)
}

func (o *logger) Infof(format string, args ...interface{}) {
	o.e.Infof(format, args...)
}

func (o *logger) Warnf(format string, args ...interface{}) {
	o.e.Warnf(format, args...)
}

func (o *logger) Errorf(format string, args ...interface{}) {
	o.e.Errorf(format, args...)
}

// Default is a nop-safe default FuncLog used when a host does not supply
// its own logger, mirroring the host library's "defLog" parameter pattern.
func Default() FuncLog {
	l := New()
	return func() Logger {
		return l
	}
}
