// Package qu provides empty struct signalling channels for trigger and quit
// plumbing, with close-safe operations so double shutdown paths do not panic.
package qu

// C is your basic empty struct signalling channel.
type C chan struct{}

// T creates an unbuffered chan struct{} for trigger and quit signalling
// (momentary and breaker switches).
func T() C {
	return make(C)
}

// Ts creates a buffered chan struct{} for signalling without blocking,
// generally one is the size of buffer to be used.
func Ts(n int) C {
	return make(C, n)
}

// Q closes the channel, which makes it emit a nil every time it is selected.
// Closing a closed channel is a no-op.
func (c C) Q() {
	if !c.IsClosed() {
		close(c)
	}
}

// Signal sends struct{}{} on the channel which functions as a momentary
// switch, useful in pairs for stop/start.
func (c C) Signal() {
	if !c.IsClosed() {
		c <- struct{}{}
	}
}

// Wait should be placed with a `<-` in a select case in addition to the
// channel variable name.
func (c C) Wait() <-chan struct{} {
	return c
}

// IsClosed tests whether the channel has been closed, so a close or signal
// on it can be avoided rather than panic.
func (c C) IsClosed() bool {
	if c == nil {
		return true
	}
	select {
	case <-c:
		return true
	default:
	}
	return false
}
