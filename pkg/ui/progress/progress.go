// Package progress shows a one-line spinner while a task runs.
package progress

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"openai_helper/pkg/ui/styles"

	"charm.land/bubbles/v2/spinner"
	"github.com/charmbracelet/x/ansi"
)

// Indicator animates a spinner on w. A nil writer disables output.
type Indicator struct {
	writer io.Writer
	frames []string
	fps    time.Duration
}

// New creates an indicator using the MiniDot spinner frames.
func New(w io.Writer) *Indicator {
	return &Indicator{
		writer: w,
		frames: spinner.MiniDot.Frames,
		fps:    spinner.MiniDot.FPS,
	}
}

// Run executes fn while animating title. The spinner line is cleared
// before Run returns, so callers can print the result right away.
func (ind *Indicator) Run(ctx context.Context, title string, fn func(context.Context) error) error {
	if ind == nil || ind.writer == nil {
		return fn(ctx)
	}

	var mu sync.Mutex
	stop := make(chan struct{})
	done := make(chan struct{})
	idx := 0

	draw := func() {
		mu.Lock()
		defer mu.Unlock()
		frame := styles.SpinnerStyle.Render(ind.frames[idx%len(ind.frames)])
		_, _ = fmt.Fprintf(ind.writer, "\r%s%s %s", ansi.EraseEntireLine, frame, title)
	}

	draw()
	go func() {
		defer close(done)
		ticker := time.NewTicker(ind.fps)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				mu.Lock()
				idx++
				mu.Unlock()
				draw()
			}
		}
	}()

	err := fn(ctx)

	close(stop)
	<-done
	_, _ = fmt.Fprint(ind.writer, "\r"+ansi.EraseEntireLine)

	return err
}
