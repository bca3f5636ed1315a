package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/elimu/core"
)

// RollbarLogger prints to a std logger and reports to Rollbar once enabled.
type RollbarLogger struct {
	std   *log.Logger
	debug bool
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(false)
	return &RollbarLogger{std: std, debug: conf.Debug}
}

// Enable turns Rollbar reporting on or off; it is off until enabled, and never on without a token.
func (l *RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled && rollbar.Token() != "")
}

// Wait blocks until queued Rollbar items are sent.
func (l *RollbarLogger) Wait() {
	rollbar.Wait()
}

// expected fmt: msg | error, map[string]interface{} (extras)
func (l *RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	for _, arg := range args {
		switch arg.(type) {
		case error, map[string]interface{}:
			newArgs = append(newArgs, arg)
		default:
			newArgs = append(newArgs, map[string]interface{}{"arg": arg})
		}
	}
	return newArgs
}

func (l *RollbarLogger) print(level, msg string, args []interface{}) {
	l.std.Printf("%s: %s", level, msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

// Debug entries are only printed in debug mode and never reported.
func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	if l.debug {
		l.print("DEBUG", msg, args)
	}
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.print("INFO", msg, args)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.print("WARN", msg, args)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.print("ERROR", msg, args)
}

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	rollbar.Wait()
	l.print("FATAL", msg, args)
	l.std.Fatal(msg)
}
