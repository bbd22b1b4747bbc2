// Package logger configures the process-wide logrus logger.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Options control logger setup.
type Options struct {
	// Verbose enables debug output.
	Verbose bool
	// HideTime drops the timestamp prefix.
	HideTime bool
	// ShowCaller adds file:line of the log call.
	ShowCaller bool
	// Out defaults to stderr.
	Out io.Writer
}

// Init applies options to the standard logrus logger.
func Init(opts Options) {
	configure(logrus.StandardLogger(), opts)
}

// New returns a separate logger configured with opts.
func New(opts Options) *logrus.Logger {
	l := logrus.New()
	configure(l, opts)
	return l
}

func configure(l *logrus.Logger, opts Options) {
	if opts.Verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	l.SetOutput(out)
	l.SetReportCaller(opts.ShowCaller)
	l.SetFormatter(&Formatter{HideTime: opts.HideTime})
}
