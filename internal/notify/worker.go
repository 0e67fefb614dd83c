package notify

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

var errCircuitOpen = errors.New("circuit_open")

func (n *Notifier) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-n.done:
			return
		case j := <-n.dispatchCh:
			metricNotifyQueueLen.Set(int64(len(n.dispatchCh)))
			n.processJob(ctx, j)
		}
	}
}

func (n *Notifier) processJob(ctx context.Context, j job) {
	adapter := n.adapters[j.Target.Platform]
	if adapter == nil {
		metricNotifyDroppedTotal.Add(1)
		return
	}

	if err := n.beforeSend(j.key(), n.now()); err != nil {
		metricNotifyCircuitOpenTotal.Add(1)
		n.retryOrDrop(j, err)
		return
	}

	err := adapter.Send(ctx, j.Target.Endpoint, j.Target.Secret, j.Message)
	if err != nil {
		metricNotifyFailedTotal.Add(1)
		n.afterFailure(j.key(), n.now())
		n.retryOrDrop(j, err)
		return
	}
	metricNotifySentTotal.Add(1)
	n.afterSuccess(j.key())
}

func (n *Notifier) retryOrDrop(j job, err error) bool {
	if j.Attempt >= n.cfg.RetryMax {
		metricNotifyRetryDroppedTotal.Add(1)
		log.Warn().Err(err).
			Str("table_id", j.TableID).
			Str("platform", j.Target.Platform).
			Str("kind", j.Kind).
			Int("attempts", j.Attempt+1).
			Msg("notification dropped")
		return false
	}
	j.Attempt++
	metricNotifyRetryTotal.Add(1)
	delay := n.cfg.RetryBase * time.Duration(1<<(j.Attempt-1))
	n.retryQ.Enqueue(j, delay)
	return true
}

func (n *Notifier) beforeSend(key string, now time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	state := n.breakerByKey[key]
	if !state.openUntil.IsZero() && now.Before(state.openUntil) {
		return errCircuitOpen
	}
	return nil
}

func (n *Notifier) afterFailure(key string, now time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	state := n.breakerByKey[key]
	state.consecutiveFailures++
	if state.consecutiveFailures >= n.cfg.FailureThreshold {
		state.openUntil = now.Add(n.cfg.CircuitOpenDuration)
		state.consecutiveFailures = 0
	}
	n.breakerByKey[key] = state
}

func (n *Notifier) afterSuccess(key string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.breakerByKey[key] = breakerState{}
}
