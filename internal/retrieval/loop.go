package retrieval

import (
	"context"
	"iter"

	"tululu/internal/domain"

	"github.com/avast/retry-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var ErrRetriesExhausted = errors.New("retries exhausted")

// errStopped ends the run when the consumer stops iterating
var errStopped = errors.New("consumer stopped")

// Loop walks an inclusive range of book ids one at a time.
type Loop struct {
	source domain.Source
	policy RetryPolicy
	log    zerolog.Logger
}

func NewLoop(source domain.Source, policy RetryPolicy, log zerolog.Logger) *Loop {
	return &Loop{
		source: source,
		policy: policy,
		log:    log,
	}
}

// Run returns the outcomes for start..end in order. Every id ends in exactly one
// Success, NotFound or FatalFailure, preceded by one TransientFailure per failed
// attempt while the connection is down.
//
// The error is only set on the last element of the sequence: the context was
// canceled or the retry policy gave up. The outcome next to it carries just the id.
func (l *Loop) Run(ctx context.Context, start, end int) iter.Seq2[domain.Outcome, error] {
	return func(yield func(domain.Outcome, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		for id := start; id <= end; id++ {
			outcome, err := l.attempt(ctx, cancel, id, yield)
			if errors.Is(err, errStopped) {
				return
			}

			if !yield(outcome, err) || err != nil {
				return
			}
		}
	}
}

// attempt retrieves id, retrying transport failures with a fixed backoff.
func (l *Loop) attempt(ctx context.Context, cancel context.CancelFunc, id int, yield func(domain.Outcome, error) bool) (domain.Outcome, error) {
	var (
		record   domain.BookRecord
		lastErr  error
		attempts int
		stopped  bool
	)

	err := retry.Do(func() error {
		if err := ctx.Err(); err != nil {
			return retry.Unrecoverable(err)
		}

		attempts++
		record, lastErr = l.source.Retrieve(ctx, id)
		if lastErr == nil {
			return nil
		}

		if domain.KindOf(lastErr) == domain.FailureTransport {
			return lastErr
		}

		return retry.Unrecoverable(lastErr)
	},
		retry.Context(ctx),
		retry.Attempts(l.policy.attempts()),
		retry.Delay(l.policy.Backoff),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			if stopped {
				return
			}

			l.log.Debug().Int("id", id).Uint("attempt", n+1).Dur("backoff", l.policy.Backoff).Msg("connection lost, waiting before retry")

			if !yield(domain.TransientFailure(id, int(n)+1, err), nil) {
				stopped = true
				cancel()
			}
		}),
	)

	if stopped {
		return domain.Outcome{}, errStopped
	}

	if err == nil {
		outcome := domain.Success(record)
		outcome.ID = id
		outcome.Attempt = attempts
		return outcome, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.Outcome{ID: id, Attempt: attempts}, ctxErr
	}

	switch domain.KindOf(lastErr) {
	case domain.FailureRedirect:
		outcome := domain.NotFound(id, lastErr)
		outcome.Attempt = attempts
		return outcome, nil

	case domain.FailureTransport:
		return domain.Outcome{ID: id, Attempt: attempts}, errors.Wrapf(ErrRetriesExhausted, "book %d after %d attempts: %v", id, attempts, lastErr)

	default:
		outcome := domain.FatalFailure(id, lastErr)
		outcome.Attempt = attempts
		return outcome, nil
	}
}
