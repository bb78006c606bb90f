// Package display renders the current risk on the node's 128x64 panel.
package display

import (
	"fmt"
	"log/slog"
)

// Panel geometry in pixels.
const (
	Width  = 128
	Height = 64
)

// Driver is the pixel-level display collaborator. Drawing calls only touch
// the local buffer; Flush pushes it to the panel.
type Driver interface {
	Clear()
	Rect(x, y, w, h int)
	DrawString(s string, x, y int)
	Flush() error
}

// Notifier draws the risk label and the current river level. It keeps no
// state of its own.
type Notifier struct {
	driver Driver
	logger *slog.Logger
}

// NewNotifier creates a Notifier over driver.
func NewNotifier(driver Driver, logger *slog.Logger) *Notifier {
	return &Notifier{driver: driver, logger: logger}
}

// Render replaces the panel contents with label and level. Panel write
// failures are logged and otherwise ignored.
func (n *Notifier) Render(label string, level float64) {
	n.driver.Clear()
	n.driver.Rect(3, 3, 122, 58)
	n.driver.DrawString(label, 40, 20)
	n.driver.DrawString("NIVEL: ", 10, 40)
	n.driver.DrawString(fmt.Sprintf("%.2f", level), 60, 40)
	if err := n.driver.Flush(); err != nil {
		n.logger.Warn("display flush failed", "error", err)
	}
}
