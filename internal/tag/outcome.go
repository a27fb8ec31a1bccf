package tag

import "sync"

// Outcome receives the result of an invocation.
type Outcome interface {
	Success()
	Failure()
}

// Once wraps two callbacks so that exactly the first reported result is
// delivered; later reports are dropped.
type Once struct {
	once      sync.Once
	onSuccess func()
	onFailure func()
}

var _ Outcome = (*Once)(nil)

// NewOnce returns an Outcome calling onSuccess or onFailure at most once in
// total.
func NewOnce(onSuccess, onFailure func()) *Once {
	return &Once{onSuccess: onSuccess, onFailure: onFailure}
}

// Success reports success unless a result was already reported.
func (o *Once) Success() {
	o.once.Do(o.onSuccess)
}

// Failure reports failure unless a result was already reported.
func (o *Once) Failure() {
	o.once.Do(o.onFailure)
}

// Channel returns an Outcome that sends true on success or false on failure
// to the returned buffered channel.
func Channel() (*Once, <-chan bool) {
	ch := make(chan bool, 1)
	return NewOnce(func() { ch <- true }, func() { ch <- false }), ch
}
