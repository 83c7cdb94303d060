package logger

import (
	"strings"

	"github.com/leodido/featcheck"
)

// Reporter turns featcheck progress notices into log entries: one entry
// per finished check, at info, warn or error level by severity.
type Reporter struct {
	log     *Logger
	pending string
}

// NewReporter returns a featcheck.Reporter writing to log.
func NewReporter(log *Logger) *Reporter {
	return &Reporter{log: log}
}

func (r *Reporter) Start(msg string) {
	r.pending = msg
	r.log.WithFields(map[string]any{"check": r.check()}).Debug("check started")
}

func (r *Reporter) End(msg string, sev featcheck.Severity) {
	entry := r.log.WithFields(map[string]any{"check": r.check(), "result": msg})
	r.pending = ""

	switch sev {
	case featcheck.SeverityWarn:
		entry.Warn("check skipped")
	case featcheck.SeverityError:
		entry.Error(nil, "check failed")
	default:
		entry.Info("check finished")
	}
}

// check strips the "Checking for" prefix so the field holds the subject.
func (r *Reporter) check() string {
	return strings.TrimSpace(strings.TrimPrefix(r.pending, "Checking for"))
}
