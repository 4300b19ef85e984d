package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// ProgressReporter reports progress of the detail fetch of one
// licence model. Implementations must be safe for concurrent use.
type ProgressReporter interface {
	Start(label string, total int)
	Increment()
	Finish()
}

// TextProgress draws a single-line text bar, redrawn in place.
type TextProgress struct {
	mu      sync.Mutex
	label   string
	total   int
	current int
	started time.Time
	writer  io.Writer
}

// NewTextProgress returns a progress bar that draws on w.
func NewTextProgress(w io.Writer) *TextProgress {
	return &TextProgress{writer: w}
}

func (p *TextProgress) Start(label string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.label = label
	p.total = total
	p.current = 0
	p.started = time.Now()
	p.render()
}

func (p *TextProgress) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current < p.total {
		p.current++
	}
	p.render()
}

func (p *TextProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = p.total
	p.render()
	fmt.Fprintln(p.writer)
}

func (p *TextProgress) render() {
	if p.total == 0 {
		return
	}
	percent := float64(p.current) / float64(p.total) * 100
	barWidth := 30
	filled := int(float64(barWidth) * percent / 100)
	bar := strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled)
	elapsed := time.Since(p.started).Seconds()
	rate := 0.0
	if elapsed > 0 {
		rate = float64(p.current) / elapsed
	}
	fmt.Fprintf(p.writer, "\r%s [%s] %3.0f%% (%d/%d) %.1f/s",
		p.label, bar, percent, p.current, p.total, rate)
}

// NopProgress ignores all progress updates.
type NopProgress struct{}

func (NopProgress) Start(string, int) {}
func (NopProgress) Increment()        {}
func (NopProgress) Finish()           {}
