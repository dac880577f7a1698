// Package poll implements the one bounded-retry wait loop shared by every
// asynchronous collaborator: generation vendors and the host render queue.
package poll

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"resolve-ai-agent/internal/domain"
	"resolve-ai-agent/internal/domain/model"
	"resolve-ai-agent/internal/infra/metrics"
)

// StatusFunc checks the current status of an asynchronous job.
type StatusFunc func(ctx context.Context) (model.JobStatus, error)

// SleepFunc is the wait between polls. Tests inject a no-op.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Options struct {
	Interval    time.Duration // wait between status checks
	MaxWait     time.Duration // total budget before TimeoutError
	LogInterval time.Duration // elapsed time between progress observations
	Vendor      string        // metrics/log label, optional
	Logger      *zerolog.Logger
	Sleep       SleepFunc // nil uses a context-aware real sleep
}

func (o *Options) normalize() {
	if o.Interval <= 0 {
		o.Interval = time.Second
	}
	if o.MaxWait <= 0 {
		o.MaxWait = 10 * time.Minute
	}
	if o.LogInterval <= 0 {
		o.LogInterval = 10 * time.Second
	}
	if o.Sleep == nil {
		o.Sleep = sleepCtx
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// UntilComplete repeatedly invokes check until a terminal status or the
// wait budget runs out. Succeeded returns the result URL immediately;
// Failed returns ErrRemoteFailure with the vendor's reason. Elapsed time
// is accounted as attempts x Interval, so the loop is deterministic under
// an injected no-op sleep. A timeout does not cancel the remote job.
func UntilComplete(ctx context.Context, handle model.JobHandle, check StatusFunc, opts Options) (string, error) {
	opts.normalize()

	maxAttempts := int(opts.MaxWait / opts.Interval)
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var (
		elapsed      time.Duration
		lastLog      time.Duration
		lastProgress = model.ProgressUnknown
	)

	for attempt := 1; ; attempt++ {
		if opts.Vendor != "" {
			metrics.JobPolled(opts.Vendor)
		}
		st, err := check(ctx)
		if err != nil {
			return "", err
		}

		switch st.State {
		case model.JobSucceeded:
			opts.Logger.Info().Str("handle", handle.String()).Dur("elapsed", elapsed).Msg("job complete")
			return st.ResultURL, nil
		case model.JobFailed:
			return "", fmt.Errorf("%w: %s", domain.ErrRemoteFailure, st.Reason)
		}

		if attempt >= maxAttempts {
			return "", &domain.TimeoutError{Handle: handle.String(), Elapsed: elapsed + opts.Interval}
		}

		if err := opts.Sleep(ctx, opts.Interval); err != nil {
			return "", err
		}
		elapsed += opts.Interval

		progressed := st.Progress != model.ProgressUnknown && st.Progress != lastProgress
		if progressed || elapsed-lastLog >= opts.LogInterval {
			ev := opts.Logger.Info().Str("handle", handle.String()).Dur("elapsed", elapsed)
			if st.Progress != model.ProgressUnknown {
				ev = ev.Int("progress", st.Progress)
			}
			ev.Msg("still processing")
			lastLog = elapsed
			lastProgress = st.Progress
		}
	}
}
