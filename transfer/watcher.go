package transfer

import (
	"sync"
	"time"
)

// WithdrawRequester makes withdraw requests. It is implemented by Client.
type WithdrawRequester interface {
	Withdraw(req WithdrawRequest) (WithdrawResponse, error)
}

// DefaultWatchInterval is the polling interval a Watcher uses when none is
// set.
const DefaultWatchInterval = 5 * time.Second

// Watcher repeats a withdraw request on an interval, delivering the anchor's
// responses as they arrive. Anchors answer a repeated request for a
// withdrawal they are still reviewing with the current KYC status, so
// watching a request follows the review through to its outcome.
type Watcher struct {
	Requester    WithdrawRequester
	Interval     time.Duration
	ErrorHandler func(error)
}

// Watch re-requests the withdrawal on the watcher's interval, sending each
// response the anchor returns to the responses channel returned. Watch can
// be stopped by calling the cancel function returned. Responses are
// delivered until cancel is called. Deciding which response is final is the
// caller's responsibility.
func (w *Watcher) Watch(req WithdrawRequest) (responses <-chan WithdrawResponse, cancel func()) {
	// responsesCh is the channel the anchor's responses will be written to.
	responsesCh := make(chan WithdrawResponse)

	// cancelCh will be used to signal the watcher to stop.
	cancelCh := make(chan struct{})

	// Start a poller that will write responses and stop when signaled to
	// cancel.
	go func() {
		defer close(responsesCh)
		w.watch(req, responsesCh, cancelCh)
	}()

	cancelOnce := sync.Once{}
	cancel = func() {
		cancelOnce.Do(func() {
			close(cancelCh)
		})
	}
	return responsesCh, cancel
}

func (w *Watcher) watch(req WithdrawRequest, responses chan<- WithdrawResponse, cancel <-chan struct{}) {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		resp, err := w.Requester.Withdraw(req)
		if err != nil {
			if w.ErrorHandler != nil {
				w.ErrorHandler(err)
			}
		} else {
			select {
			case <-cancel:
				return
			case responses <- resp:
			}
		}
		select {
		case <-cancel:
			return
		case <-ticker.C:
		}
	}
}
