package notify

import "time"

type retryQueue struct {
	out  chan<- job
	done <-chan struct{}
}

func newRetryQueue(out chan<- job, done <-chan struct{}) *retryQueue {
	return &retryQueue{out: out, done: done}
}

func (q *retryQueue) Enqueue(j job, delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	time.AfterFunc(delay, func() {
		select {
		case <-q.done:
		case q.out <- j:
			metricNotifyQueueLen.Set(int64(len(q.out)))
		}
	})
}
