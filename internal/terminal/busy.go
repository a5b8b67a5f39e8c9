package terminal

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Busy shows an animated status line until Stop is called. Assembly blocks
// on network calls, so the CLI runs it for the duration of a query.
type Busy struct {
	out      io.Writer
	message  string
	interval time.Duration

	stopOnce sync.Once
	done     chan struct{}
	finished chan struct{}
}

// StartBusy begins drawing message to out.
func StartBusy(out io.Writer, message string) *Busy {
	b := &Busy{
		out:      out,
		message:  message,
		interval: 100 * time.Millisecond,
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Busy) run() {
	defer close(b.finished)

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		fmt.Fprintf(b.out, "\r%s %s", spinnerFrames[i%len(spinnerFrames)], mutedStyle.Render(b.message))
		select {
		case <-b.done:
			// Clear the status line.
			fmt.Fprintf(b.out, "\r\033[K")
			return
		case <-ticker.C:
		}
	}
}

// Stop erases the status line. It is safe to call more than once.
func (b *Busy) Stop() {
	b.stopOnce.Do(func() { close(b.done) })
	<-b.finished
}
