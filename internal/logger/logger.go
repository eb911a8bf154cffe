/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package logger provides the process-level logger. Compile diagnostics and
// script output from the render engine both end up here.
package logger

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	output  io.Writer = os.Stderr
	logger            = log.New(output, "", 0)
	verbose bool
)

// SetOutput configures the logger output destination.
// Use io.Discard to silence all logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	logger = log.New(output, "", 0)
}

// SetVerbose enables Debug output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// Error logs an error message.
func Error(format string, args ...any) {
	printf("error: "+format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	printf("warning: "+format, args...)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	printf(format, args...)
}

// Debug logs a message only when verbose output is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	v := verbose
	mu.RUnlock()
	if v {
		printf("debug: "+format, args...)
	}
}

func printf(format string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Printf(format, args...)
}
