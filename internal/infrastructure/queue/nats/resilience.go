package nats

import (
	"errors"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/document-analysis/internal/core/domain"
	"github.com/kirillkom/document-analysis/internal/infrastructure/resilience"
)

func classifyNATSError(err error) resilience.Outcome {
	switch {
	case err == nil, resilience.IsContextDone(err):
		return resilience.Outcome{}
	case resilience.IsCircuitOpen(err), isTransient(err):
		return resilience.Outcome{Retryable: true, RecordFailure: true}
	default:
		return resilience.Outcome{RecordFailure: true}
	}
}

func isTransient(err error) bool {
	return errors.Is(err, nats.ErrNoServers) ||
		errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, nats.ErrConnectionClosed) ||
		errors.Is(err, nats.ErrDisconnected) ||
		errors.Is(err, nats.ErrReconnectBufExceeded)
}

func wrapTemporaryIfNeeded(err error) error {
	if err == nil || domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if classifyNATSError(err).Retryable {
		return domain.WrapError(domain.ErrTemporary, publishOperation, err)
	}
	return err
}
