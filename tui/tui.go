// Package tui implements the diagnostic dashboard named in spec §6's
// "diagnostic mode": pipeline throughput counters, live IDA/SBD
// reassembly slot occupancy, and the most recent ACARS lines. Adapted
// from the teacher's gocui aircraft table (main.go layout/update/quit).
package tui

import (
	"fmt"
	"time"

	"github.com/jroimartin/gocui"
)

// Stats is the snapshot of pipeline counters the dashboard renders each
// tick. The caller is responsible for accumulating these from the ida
// package's Pipeline.
type Stats struct {
	Frames     int64
	Bursts     int64
	CRCOK      int64
	ACARS      int64
	IDASlots   int
	SBDSlots   int
	RecentText []string // most recent ACARS text lines, newest last
}

// Dashboard owns the gocui terminal UI and a pull function supplying the
// latest Stats on every refresh tick.
type Dashboard struct {
	g      *gocui.Gui
	pull   func() Stats
	period time.Duration
}

// NewDashboard builds a Dashboard that calls pull once per period to
// refresh its view.
func NewDashboard(pull func() Stats, period time.Duration) (*Dashboard, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{g: g, pull: pull, period: period}
	g.SetManagerFunc(d.layout)
	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		g.Close()
		return nil, err
	}
	return d, nil
}

// Run starts the refresh loop and blocks until the user quits (Ctrl-C) or
// the gocui main loop errors. Close releases terminal state; callers
// should defer it immediately after a successful NewDashboard.
func (d *Dashboard) Run() error {
	go func() {
		for ; ; <-time.Tick(d.period) {
			d.g.Update(d.update)
		}
	}()

	if err := d.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

func (d *Dashboard) Close() {
	d.g.Close()
}

func (d *Dashboard) layout(g *gocui.Gui) error {
	const maxX = 90
	_, maxY := g.Size()

	if v, err := g.SetView("status", 0, 0, maxX-2, 3); err == nil || err == gocui.ErrUnknownView {
		v.Title = " STATUS "
		fmt.Fprintln(v, " frames: --  bursts: --  crc-ok: --  acars: --")
	}
	if v, err := g.SetView("slots", 0, 4, maxX-2, 6); err == nil || err == gocui.ErrUnknownView {
		v.Title = " SLOTS "
	}
	if v, err := g.SetView("acars", 0, 7, maxX-2, maxY-1); err == nil || err == gocui.ErrUnknownView {
		v.Title = " RECENT ACARS "
	}
	return nil
}

func (d *Dashboard) update(g *gocui.Gui) error {
	s := d.pull()

	if v, err := g.View("status"); err == nil {
		v.Clear()
		fmt.Fprintf(v, " frames: %-8d bursts: %-8d crc-ok: %-8d acars: %-8d  %s\n",
			s.Frames, s.Bursts, s.CRCOK, s.ACARS, time.Now().Format("15:04:05"))
	}

	if v, err := g.View("slots"); err == nil {
		v.Clear()
		fmt.Fprintf(v, " ida slots: %2d/16   sbd slots: %2d/8\n", s.IDASlots, s.SBDSlots)
	}

	if v, err := g.View("acars"); err == nil {
		v.Clear()
		for _, line := range s.RecentText {
			fmt.Fprintln(v, line)
		}
	}

	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
