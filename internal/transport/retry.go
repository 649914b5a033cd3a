package transport

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v4"

	"github.com/namastexlabs/automagik-telemetry/internal/logging"
)

// Send delivers the request with bounded exponential backoff: up to
// MaxRetries attempts, waiting BackoffBase*2^n between attempt n and n+1.
// Terminal failures (4xx, unless RetryClientErrors is set) abort
// immediately; the returned error is the last attempt's failure.
func (s *Sender) Send(ctx context.Context, req Request) error {
	body, encoding, err := s.prepare(req.Body)
	if err != nil {
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.opts.BackoffBase
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxElapsedTime = 0

	attempt := 0
	operation := func() error {
		attempt++
		sendErr := s.send(ctx, req, body, encoding)
		if sendErr == nil {
			s.log.Debug("payload delivered",
				logging.Signal(req.Signal),
				logging.Endpoint(req.URL),
				logging.Bytes(len(body)),
				logging.Attempt(attempt),
			)
			return nil
		}

		s.log.Debug("delivery attempt failed",
			logging.Signal(req.Signal),
			logging.Endpoint(req.URL),
			logging.Attempt(attempt),
			logging.Error(sendErr),
		)

		var statusErr *StatusError
		if errors.As(sendErr, &statusErr) && !statusErr.Retryable() && !s.opts.RetryClientErrors {
			return backoff.Permanent(sendErr)
		}
		return sendErr
	}

	retries := uint64(s.opts.MaxRetries - 1)
	err = backoff.Retry(operation, backoff.WithMaxRetries(backoff.WithContext(policy, ctx), retries))
	if err != nil {
		s.log.Warn("delivery failed",
			logging.Signal(req.Signal),
			logging.Endpoint(req.URL),
			logging.Attempt(attempt),
			logging.Error(err),
		)
	}
	return err
}
