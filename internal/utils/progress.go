package utils

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// Progress wraps a single mpb bar. A disabled Progress accepts every call
// and draws nothing.
type Progress struct {
	container *mpb.Progress
	bar       *mpb.Bar
	out       io.Writer

	mu    sync.Mutex
	label string
}

const labelWidth = 24

// NewProgress creates a bar for total steps written to stderr. The bar is
// only drawn when enabled and stderr is a terminal.
func NewProgress(total int, enabled bool) *Progress {
	return newProgress(os.Stderr, total, enabled && isTerminal(os.Stderr))
}

func newProgress(out io.Writer, total int, enabled bool) *Progress {
	p := &Progress{out: out}
	if !enabled || total <= 0 {
		return p
	}

	fmt.Fprintln(out)

	p.container = mpb.New(
		mpb.WithOutput(out),
		mpb.WithWidth(64),
		mpb.WithRefreshRate(100*time.Millisecond),
	)

	p.bar = p.container.New(int64(total),
		mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
		mpb.PrependDecorators(
			decor.Any(func(decor.Statistics) string {
				return p.currentLabel()
			}, decor.WC{W: labelWidth, C: decor.DindentRight}),
			decor.CountersNoUnit("%d/%d", decor.WC{C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
		),
	)

	return p
}

// Enabled reports whether the bar is drawn
func (p *Progress) Enabled() bool {
	return p.bar != nil
}

// Update moves the bar to current and shows label beside it
func (p *Progress) Update(current int, label string) {
	if p.bar == nil {
		return
	}

	p.mu.Lock()
	p.label = label
	p.mu.Unlock()

	p.bar.SetCurrent(int64(current))
}

// Finish waits for the bar to render its final state
func (p *Progress) Finish() {
	if p.container == nil {
		return
	}

	if !p.bar.Completed() {
		p.bar.Abort(false)
	}
	p.container.Wait()
	fmt.Fprintln(p.out)
}

func (p *Progress) currentLabel() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.label) > labelWidth {
		return ".." + p.label[len(p.label)-labelWidth+2:]
	}
	return p.label
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
