package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrNoExternalID is returned when a guild id cannot be mapped to a
	// remote identifier, so nothing can be written
	ErrNoExternalID = errors.New("guild has no external id")

	ErrUnknownGuild   = errors.New("unknown guild")
	ErrUnknownSection = errors.New("unknown settings section")
	ErrSaveInProgress = errors.New("save already in progress")
)

// SourceFailure is one failed write to a remote settings source
type SourceFailure struct {
	Source string
	Err    error
}

func (f SourceFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Source, f.Err)
}

func (f SourceFailure) Unwrap() error {
	return f.Err
}

// AggregateError lists every source write that failed during one persist.
// Sources not listed were written successfully and are not rolled back.
type AggregateError struct {
	GuildID string
	errs    *multierror.Error
}

// newAggregateError wraps the collected failures of one persist; it returns
// nil when nothing failed.
func newAggregateError(guildID string, errs *multierror.Error) *AggregateError {
	if errs.ErrorOrNil() == nil {
		return nil
	}
	errs.ErrorFormat = formatFailures
	return &AggregateError{GuildID: guildID, errs: errs}
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("failed to persist settings for guild %s: %s", e.GuildID, e.errs.Error())
}

// Unwrap exposes the individual failures to errors.Is and errors.As
func (e *AggregateError) Unwrap() []error {
	return e.errs.WrappedErrors()
}

// Failures returns the failed writes in registry order
func (e *AggregateError) Failures() []SourceFailure {
	var failures []SourceFailure
	for _, err := range e.errs.WrappedErrors() {
		var failure SourceFailure
		if errors.As(err, &failure) {
			failures = append(failures, failure)
		}
	}
	return failures
}

// Sources returns the names of the failed sources in registry order
func (e *AggregateError) Sources() []string {
	failures := e.Failures()
	names := make([]string, len(failures))
	for i, failure := range failures {
		names[i] = failure.Source
	}
	return names
}

func formatFailures(errs []error) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return fmt.Sprintf("%d source(s) failed: %s", len(errs), strings.Join(parts, "; "))
}
