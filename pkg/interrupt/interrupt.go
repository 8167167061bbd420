// Package interrupt runs registered shutdown handlers when the process
// receives an interrupt signal or a programmatic shutdown request.
package interrupt

import (
	"os"
	"os/signal"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/nostrtools/simulatr/pkg/qu"
	"github.com/nostrtools/simulatr/pkg/slog"
)

var log, _ = slog.New(os.Stderr)

var (
	requested atomic.Bool

	// ch receives SIGINT (Ctrl+C) signals.
	ch chan os.Signal

	// ShutdownRequestChan can receive programmatic shutdown requests.
	ShutdownRequestChan = qu.T()

	// HandlersDone is closed after all handlers have run.
	HandlersDone = qu.T()

	mx       sync.Mutex
	handlers []func()
)

func listener() {
	select {
	case sig := <-ch:
		log.D.Ln("received interrupt signal", sig)
	case <-ShutdownRequestChan.Wait():
		log.W.Ln("received shutdown request, shutting down...")
	}
	requested.Store(true)
	mx.Lock()
	defer mx.Unlock()
	// run handlers in LIFO order
	for i := len(handlers) - 1; i >= 0; i-- {
		handlers[i]()
	}
	log.D.Ln("interrupt handlers finished")
	HandlersDone.Q()
}

// AddHandler adds a handler to call when a SIGINT (Ctrl+C) or shutdown
// request is received. The first call starts the signal listener.
func AddHandler(handler func()) {
	mx.Lock()
	defer mx.Unlock()
	if ch == nil {
		ch = make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt)
		go listener()
	}
	handlers = append(handlers, handler)
}

// Request programmatically requests a shutdown, once.
func Request() {
	if requested.Swap(true) {
		log.D.Ln("shutdown requested again")
		return
	}
	ShutdownRequestChan.Q()
}

// Requested returns true if an interrupt has been requested.
func Requested() bool {
	return requested.Load()
}

// GoroutineDump returns the current goroutine stacks, to show what is going
// on in case of a hung shutdown.
func GoroutineDump() string {
	buf := make([]byte, 1<<18)
	n := runtime.Stack(buf, true)
	return string(buf[:n])
}
