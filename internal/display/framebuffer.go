package display

import (
	"strings"
	"sync"
)

// Character cell size of the 8x8 font.
const (
	cellW = 8
	cellH = 8
	cols  = Width / cellW
	rows  = Height / cellH
)

// Framebuffer is a Driver that rasterizes onto an 8x8 character grid instead
// of pixels. It backs the node when no physical panel is attached and lets
// the ops server show what the panel would display.
type Framebuffer struct {
	mu      sync.Mutex
	back    [rows][cols]byte
	front   string
	flushes int
}

// NewFramebuffer returns a blank framebuffer.
func NewFramebuffer() *Framebuffer {
	fb := &Framebuffer{}
	fb.Clear()
	fb.front = fb.render()
	return fb
}

func (f *Framebuffer) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for r := range f.back {
		for c := range f.back[r] {
			f.back[r][c] = ' '
		}
	}
}

// Rect draws an outline whose corners are snapped to character cells.
func (f *Framebuffer) Rect(x, y, w, h int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c0, r0 := clamp(x/cellW, cols), clamp(y/cellH, rows)
	c1, r1 := clamp((x+w-1)/cellW, cols), clamp((y+h-1)/cellH, rows)
	for c := c0; c <= c1; c++ {
		f.back[r0][c] = '-'
		f.back[r1][c] = '-'
	}
	for r := r0; r <= r1; r++ {
		f.back[r][c0] = '|'
		f.back[r][c1] = '|'
	}
	f.back[r0][c0], f.back[r0][c1] = '+', '+'
	f.back[r1][c0], f.back[r1][c1] = '+', '+'
}

// DrawString writes s starting at the cell containing (x, y), clipped at the
// right edge.
func (f *Framebuffer) DrawString(s string, x, y int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r := clamp(y/cellH, rows)
	c := x / cellW
	for i := 0; i < len(s) && c+i < cols; i++ {
		if c+i >= 0 {
			f.back[r][c+i] = s[i]
		}
	}
}

func (f *Framebuffer) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.front = f.render()
	f.flushes++
	return nil
}

// Frame returns the last flushed frame, one line per character row.
func (f *Framebuffer) Frame() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.front
}

// Flushes returns how many frames were pushed.
func (f *Framebuffer) Flushes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flushes
}

func (f *Framebuffer) render() string {
	var b strings.Builder
	for r := range f.back {
		b.Write(f.back[r][:])
		b.WriteByte('\n')
	}
	return b.String()
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
