package summary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariel-frischer/autorelease/internal/conventional"
	"github.com/qiniu/x/log"
)

// Enricher produces the optional summary for a release. A nil Completer
// disables enrichment.
type Enricher struct {
	completer Completer
	timeout   time.Duration
}

// NewEnricher wraps completer. Timeouts outside (0, MaxTimeout] are clamped
// to MaxTimeout.
func NewEnricher(completer Completer, timeout time.Duration) *Enricher {
	if timeout <= 0 || timeout > MaxTimeout {
		timeout = MaxTimeout
	}
	return &Enricher{completer: completer, timeout: timeout}
}

// Enabled reports whether a summary will be attempted.
func (e *Enricher) Enabled() bool {
	return e != nil && e.completer != nil
}

// ErrDisabled is returned by Generate when no Completer is configured.
var ErrDisabled = errors.New("enrichment disabled, no API key configured")

// ErrEmptyReply is returned by Generate when the service answers with no text.
var ErrEmptyReply = errors.New("service returned an empty reply")

// Generate makes exactly one request and returns the sanitized summary.
// It never retries and never logs.
func (e *Enricher) Generate(ctx context.Context, version string, commits []conventional.Commit) (string, error) {
	if !e.Enabled() {
		return "", ErrDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	reply, err := e.completer.Complete(ctx, systemPrompt, BuildUserPrompt(version, commits))
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	if summary := sanitize(reply); summary != "" {
		return summary, nil
	}
	return "", ErrEmptyReply
}

// Summarize is Generate with failures logged and reported as ok=false.
func (e *Enricher) Summarize(ctx context.Context, version string, commits []conventional.Commit) (summary string, ok bool) {
	summary, err := e.Generate(ctx, version, commits)
	if err != nil {
		LogSkipped(log.Warnf, err)
		return "", false
	}
	return summary, true
}

// LogSkipped reports why no summary was produced. A disabled enricher is
// only worth a debug line.
func LogSkipped(warnf func(format string, args ...any), err error) {
	if errors.Is(err, ErrDisabled) {
		log.Debugf("summary: %v", err)
		return
	}
	warnf("summary: skipped, %v", err)
}
