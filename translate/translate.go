// Package translate implements batch translation of XLIFF trans-units
// through an AI backend, including the retry protocol: failed batches are
// retried a bounded number of times, responses with the wrong item count
// trigger batch-size bisection, and units that cannot be translated even
// alone are quarantined instead of failing the run.
package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// ---------------------------------------------------------------------------
// Data model
// ---------------------------------------------------------------------------

// Unit is a single translatable string extracted from a document.
type Unit struct {
	// ID is the trans-unit identifier, unique within a document.
	ID string
	// Source is the original text.
	Source string
}

// Result maps unit ids to translated strings. It grows as batches succeed;
// quarantined units are absent.
type Result map[string]string

// Backend performs one translation call for an ordered batch of units.
// The returned map must contain exactly the ids of the batch. A response
// that splits into the wrong number of items is reported as
// *ShapeMismatchError; any other failure as *BackendError.
type Backend interface {
	TranslateBatch(ctx context.Context, batch []Unit, sourceLang, targetLang, appContext string) (map[string]string, error)
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Options controls the engine behavior.
type Options struct {
	// SourceLang is the source language code (e.g. "en").
	SourceLang string
	// TargetLang is the target language code (e.g. "de").
	TargetLang string
	// AppContext is a free-form context blob threaded unchanged through
	// every backend call.
	AppContext string
	// BatchSize is the initial number of units per backend call. Default: 10.
	// The effective size only ever shrinks within one run.
	BatchSize int
	// MaxRetries is the attempt budget per batch. Default: 3.
	MaxRetries int
	// RetryDelay is the fixed wait between attempts. Default: 2s.
	RetryDelay time.Duration
	// Logger receives engine diagnostics. Nil discards them.
	Logger *logrus.Entry
	// OnProgress is called after each batch is translated and after each
	// quarantined unit, with the number of resolved units and the total.
	OnProgress func(done, total int)
}

func (o *Options) effectiveBatchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return 10
}

func (o *Options) effectiveMaxRetries() int {
	if o.MaxRetries > 0 {
		return o.MaxRetries
	}
	return 3
}

func (o *Options) effectiveRetryDelay() time.Duration {
	if o.RetryDelay > 0 {
		return o.RetryDelay
	}
	return 2 * time.Second
}

func (o *Options) log() *logrus.Entry {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func (o *Options) progress(done, total int) {
	if o.OnProgress != nil {
		o.OnProgress(done, total)
	}
}

// ---------------------------------------------------------------------------
// Engine
// ---------------------------------------------------------------------------

// TranslateAll translates units front-to-back in batches.
//
// Batches start at the configured size. A shape mismatch halves the size
// (floor, minimum 1) and retries the front of the queue without consuming
// the attempt budget; the reduction is sticky for the remainder of the run.
// Any other failure is retried up to the attempt budget with a fixed delay.
// When the budget is exhausted at size 1 the offending unit is logged and
// quarantined (dropped from the result) and the run continues; at a larger
// size the error propagates.
//
// The returned result's key set is a subset of the input ids. An empty
// input is an error, not a no-op.
func TranslateAll(ctx context.Context, backend Backend, units []Unit, opts Options) (Result, error) {
	if len(units) == 0 {
		return nil, ErrNoUnits
	}

	log := opts.log()
	size := opts.effectiveBatchSize()
	budget := opts.effectiveMaxRetries()
	delay := opts.effectiveRetryDelay()

	result := make(Result, len(units))
	pending := units
	total := len(units)
	attempts := 0
	quarantined := 0
	batchNum := 0

	for len(pending) > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		n := size
		if n > len(pending) {
			n = len(pending)
		}
		batch := pending[:n]
		batchNum++
		log.WithField("batch", batchNum).Infof("translating batch of %d strings", n)

		translated, err := backend.TranslateBatch(ctx, batch, opts.SourceLang, opts.TargetLang, opts.AppContext)
		if err == nil {
			if err := mergeBatch(result, batch, translated); err != nil {
				return nil, err
			}
			pending = pending[n:]
			attempts = 0
			log.Infof("translated %d/%d strings", total-len(pending), total)
			opts.progress(total-len(pending), total)
			continue
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var shape *ShapeMismatchError
		if errors.As(err, &shape) && size > 1 {
			half := size / 2
			log.Warnf("translation count mismatch, reducing batch size from %d to %d", size, half)
			size = half
			attempts = 0
			continue
		}

		attempts++
		if attempts < budget {
			log.Warnf("attempt %d/%d failed (%v), retrying in %v", attempts, budget, err, delay)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			continue
		}

		if size == 1 {
			u := batch[0]
			log.Errorf("failed to translate unit %q after %d attempts, skipping", u.ID, attempts)
			log.Errorf("problematic text: %q", u.Source)
			pending = pending[1:]
			attempts = 0
			quarantined++
			opts.progress(total-len(pending), total)
			continue
		}

		return nil, fmt.Errorf("batch of %d units failed after %d attempts: %w", n, attempts, err)
	}

	if quarantined > 0 {
		log.Warnf("%d unit(s) quarantined and left untranslated", quarantined)
	}
	return result, nil
}

// mergeBatch folds a successful backend response into the result map,
// rejecting responses that introduce foreign ids or drop requested ones.
func mergeBatch(result Result, batch []Unit, translated map[string]string) error {
	if len(translated) != len(batch) {
		return fmt.Errorf("backend returned %d translations for a batch of %d", len(translated), len(batch))
	}
	for _, u := range batch {
		text, ok := translated[u.ID]
		if !ok {
			return fmt.Errorf("backend response missing unit %q", u.ID)
		}
		result[u.ID] = text
	}
	return nil
}
