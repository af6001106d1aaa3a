package util

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"

	"github.com/jwilges/drover/pkg/errors"
)

// HandleFatalError prints the user-facing representation of err and exits
// with a non-zero status.
func HandleFatalError(err error) {
	log.Debugf("Fatal error: %+v", err)
	fmt.Fprintln(os.Stderr, errors.GetPrintableMessage(err))
	os.Exit(1)
}

// HandlePanic recovers from panics so that they're logged rather than dumped
// as a raw stack to the user.
func HandlePanic() {
	if r := recover(); r != nil {
		log.Errorf("Unexpected error: %v\n%s", r, debug.Stack())
		os.Exit(1)
	}
}

// progressInterval is how often the ProgressPrinter emits a dot.
const progressInterval = 2 * time.Second

// ProgressPrinter prints a message followed by a periodic sequence of dots
// while a long-running operation (such as an archive upload) is in flight.
type ProgressPrinter struct {
	out     io.Writer
	message string
	clock   clockwork.Clock
	stop    chan struct{}
	stopped chan struct{}
}

// NewProgressPrinter creates a ProgressPrinter that writes to out.
func NewProgressPrinter(out io.Writer, message string) *ProgressPrinter {
	return &ProgressPrinter{
		out:     out,
		message: message,
		clock:   clockwork.NewRealClock(),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Run prints the message and emits dots until Stop is called. It is meant to
// be run in its own goroutine.
func (pp *ProgressPrinter) Run() {
	defer close(pp.stopped)
	fmt.Fprint(pp.out, pp.message)

	ticker := pp.clock.NewTicker(progressInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.Chan():
			fmt.Fprint(pp.out, ".")
		case <-pp.stop:
			fmt.Fprintln(pp.out)
			return
		}
	}
}

// Stop terminates the printer and waits for its final newline.
func (pp *ProgressPrinter) Stop() {
	close(pp.stop)
	<-pp.stopped
}
