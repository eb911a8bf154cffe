/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package render evaluates compiled programs in an embedded JavaScript
// engine and returns the markup they produce.
package render

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"

	"bennypowers.dev/tsxpack/internal/logger"
)

var (
	// ErrNoResult indicates the program completed with undefined or null.
	ErrNoResult = errors.New("program produced no result")

	// ErrNotString indicates the program completed with a non-string value.
	ErrNotString = errors.New("program result is not a string")

	// ErrTimeout indicates the program ran longer than the engine allows.
	ErrTimeout = errors.New("program timed out")
)

// ScriptError reports an uncaught exception thrown by the program.
type ScriptError struct {
	Message string
	Stack   string
}

func (e *ScriptError) Error() string {
	return "uncaught: " + e.Message
}

// Options configures an Engine.
type Options struct {
	// Name labels the program in stack traces.
	Name string

	// Timeout interrupts programs that run longer. Zero disables it.
	Timeout time.Duration
}

// Engine evaluates programs. Every Render call gets a fresh runtime,
// so an Engine may be shared between goroutines.
type Engine struct {
	name    string
	timeout time.Duration
}

// New creates an Engine.
func New(opts Options) *Engine {
	name := opts.Name
	if name == "" {
		name = "program.js"
	}
	return &Engine{name: name, timeout: opts.Timeout}
}

// Render evaluates program and returns its completion value, which must
// be a string.
func (e *Engine) Render(program string) (string, error) {
	vm := goja.New()
	if err := installHost(vm); err != nil {
		return "", err
	}

	if e.timeout > 0 {
		timer := time.AfterFunc(e.timeout, func() {
			vm.Interrupt(ErrTimeout)
		})
		defer timer.Stop()
	}

	value, err := vm.RunScript(e.name, program)
	if err != nil {
		return "", scriptError(err)
	}

	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return "", ErrNoResult
	}
	out, ok := value.Export().(string)
	if !ok {
		return "", fmt.Errorf("%w: got %s", ErrNotString, value.ExportType())
	}
	return out, nil
}

// installHost defines the host object and a console that forward to the
// process logger.
func installHost(vm *goja.Runtime) error {
	host := vm.NewObject()
	if err := host.Set("log", func(msg string) {
		logger.Info("%s", msg)
	}); err != nil {
		return err
	}
	if err := vm.Set("host", host); err != nil {
		return err
	}

	console := vm.NewObject()
	methods := map[string]func(string, ...any){
		"log":   logger.Info,
		"info":  logger.Info,
		"debug": logger.Debug,
		"warn":  logger.Warn,
		"error": logger.Error,
	}
	for name, logf := range methods {
		if err := console.Set(name, forward(logf)); err != nil {
			return err
		}
	}
	return vm.Set("console", console)
}

func forward(logf func(string, ...any)) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		logf("%s", strings.Join(parts, " "))
		return goja.Undefined()
	}
}

func scriptError(err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if v, ok := interrupted.Value().(error); ok {
			return v
		}
		return ErrTimeout
	}

	var exception *goja.Exception
	if errors.As(err, &exception) {
		msg := exception.Error()
		if v := exception.Value(); v != nil {
			msg = v.String()
		}
		return &ScriptError{Message: msg, Stack: exception.String()}
	}

	return &ScriptError{Message: err.Error()}
}
