// Package journal carries forward reposurgeon's logit/croak/respond
// three-way split (see reposurgeon.go's Control type) onto a real
// structured-logging library instead of a hand-rolled io.Writer.
package journal

import (
	"github.com/sirupsen/logrus"
	"github.com/timofonic-git/cvs2git/internal/xerr"
)

// Config mirrors the handful of run flags reposurgeon keeps on its
// Control struct (flagOptions, logmask): how chatty to be, and whether
// a warning should be escalated into an abort the way croak does when
// the "relax" flag is unset.
type Config struct {
	Level        logrus.Level
	EscalateWarn bool // reposurgeon's inverse of the "relax" flag
}

// DefaultConfig matches reposurgeon's default logmask, which enables
// warnings but not the chattier bits.
func DefaultConfig() Config {
	return Config{Level: logrus.WarnLevel}
}

// Journal is passed explicitly into the constructors that need it,
// per the "no package-level Context object" design note: nothing here
// is a global.
type Journal struct {
	entry    *logrus.Entry
	escalate bool
}

// New builds a Journal. fileID, when non-empty, is attached to every
// entry so interleaved per-file diagnostics stay attributable.
func New(cfg Config, fileID string) *Journal {
	l := logrus.New()
	l.SetLevel(cfg.Level)
	entry := logrus.NewEntry(l)
	if fileID != "" {
		entry = entry.WithField("file", fileID)
	}
	return &Journal{entry: entry, escalate: cfg.EscalateWarn}
}

// Info stands in for reposurgeon's logit(). It is recorded only when
// the configured Level is InfoLevel or chattier; DefaultConfig's
// WarnLevel suppresses it.
func (j *Journal) Info(msg string, args ...interface{}) {
	j.entry.Infof(msg, args...)
}

// Debug stands in for reposurgeon's respond(): detail suppressed by
// default, useful when narrating what a pass is doing.
func (j *Journal) Debug(msg string, args ...interface{}) {
	j.entry.Debugf(msg, args...)
}

// Warn records a spec.md §7 Warning (e.g. an overwritten pairings
// entry) and continues, unless the journal was configured to
// escalate warnings into a fatal abort — reposurgeon's croak() without
// "relax" set.
func (j *Journal) Warn(msg string, args ...interface{}) {
	j.entry.Warnf(msg, args...)
	if j.escalate {
		xerr.Throw(xerr.ClassFatal, msg, args...)
	}
}

// Fatal records a spec.md §7 Fatal invariant violation and aborts the
// file being processed via xerr.Throw.
func (j *Journal) Fatal(msg string, args ...interface{}) {
	j.entry.Errorf(msg, args...)
	xerr.Throw(xerr.ClassFatal, msg, args...)
}

// Policy records a spec.md §7 User-policy fatal error and aborts.
func (j *Journal) Policy(msg string, args ...interface{}) {
	j.entry.Errorf(msg, args...)
	xerr.Throw(xerr.ClassPolicy, msg, args...)
}
