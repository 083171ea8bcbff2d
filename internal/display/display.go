// Package display draws a single self-updating status line for long-running
// foreground commands.
package display

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Status represents what the reminder watcher is doing.
type Status int

const (
	StatusIdle Status = iota
	StatusWatching
	StatusQuietHours
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusWatching:
		return "Watching"
	case StatusQuietHours:
		return "Quiet hours"
	case StatusStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// State holds the current display state.
type State struct {
	Sweeps    int
	Sent      int
	LastSweep time.Time
	Status    Status
	StartTime time.Time
}

// Display manages the terminal status line.
type Display struct {
	mu       sync.Mutex
	writeMu  sync.Mutex // serializes writes from the loop and PrintAbove
	writer   io.Writer
	state    State
	ticker   *time.Ticker
	done     chan struct{}
	wg       sync.WaitGroup // Ensures goroutine exits before Stop() returns
	active   bool
	lastLine string
}

// New creates a new Display writing to the given writer.
func New(w io.Writer) *Display {
	return &Display{
		writer: w,
		done:   make(chan struct{}),
	}
}

// Start begins the display update loop.
func (d *Display) Start() {
	d.mu.Lock()
	if d.active {
		d.mu.Unlock()
		return
	}
	d.active = true
	d.state.StartTime = time.Now()
	d.ticker = time.NewTicker(time.Second)
	d.wg.Add(1)
	d.mu.Unlock()

	go d.updateLoop()
}

// Stop halts the display update loop and clears the status line.
// Blocks until the update goroutine has exited.
func (d *Display) Stop() {
	d.mu.Lock()
	if !d.active {
		d.mu.Unlock()
		return
	}
	d.active = false
	d.state.Status = StatusStopped
	d.mu.Unlock()

	d.ticker.Stop()
	close(d.done)
	d.wg.Wait()
	d.clearLine()
}

// RecordSweep counts a finished sweep and the reminders it sent.
func (d *Display) RecordSweep(at time.Time, sent int, inWindow bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Sweeps++
	d.state.Sent += sent
	d.state.LastSweep = at
	if inWindow {
		d.state.Status = StatusWatching
	} else {
		d.state.Status = StatusQuietHours
	}
}

// UpdateStatus updates the watcher status.
func (d *Display) UpdateStatus(status Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Status = status
}

// Snapshot returns a copy of the current state.
func (d *Display) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// updateLoop periodically renders the status line.
func (d *Display) updateLoop() {
	defer d.wg.Done()
	d.render()
	for {
		select {
		case <-d.ticker.C:
			d.render()
		case <-d.done:
			return
		}
	}
}

// render draws the current status line.
func (d *Display) render() {
	d.mu.Lock()
	state := d.state
	lastLine := d.lastLine
	d.mu.Unlock()

	elapsed := time.Since(state.StartTime)
	line := d.formatLine(state, elapsed)

	// Only update if changed (reduces flicker)
	if line == lastLine {
		return
	}

	d.mu.Lock()
	d.lastLine = line
	d.mu.Unlock()

	d.write("\r\033[K" + line)
}

func (d *Display) write(s string) {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	io.WriteString(d.writer, s)
}

// formatLine creates the status line string.
func (d *Display) formatLine(state State, elapsed time.Duration) string {
	last := "never"
	if !state.LastSweep.IsZero() {
		last = state.LastSweep.Local().Format("15:04:05")
	}

	return fmt.Sprintf("Reminders sent: %d │ Sweeps: %d │ Last: %s │ ⏱ %s │ %s",
		state.Sent,
		state.Sweeps,
		last,
		formatDuration(elapsed),
		state.Status)
}

// clearLine clears the status line.
func (d *Display) clearLine() {
	d.write("\r\033[K")
}

// PrintAbove prints a message above the status line.
func (d *Display) PrintAbove(format string, args ...interface{}) {
	d.mu.Lock()
	d.lastLine = ""
	d.mu.Unlock()

	d.write("\r\033[K" + fmt.Sprintf(format, args...) + "\n")
	d.render()
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
