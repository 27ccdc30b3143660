// seehuhn.de/go/slicer - a slicer for resin 3D printers
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package tui shows the progress of a slicing run in the terminal.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"seehuhn.de/go/slicer"
)

// Styles
var (
	accentFg  = lipgloss.Color("#7C3AED")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	errorFg   = lipgloss.Color("#EF4444")

	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	errStyle   = lipgloss.NewStyle().Foreground(errorFg)
	boxStyle   = lipgloss.NewStyle().Padding(1, 2)
)

const maxBarWidth = 60

// Result is the outcome of a run.
type Result struct {
	Summary *slicer.Summary
	Err     error
}

type snapshotMsg slicer.Snapshot

type resultMsg Result

// Model is the bubbletea model for the progress display.
// It quits once the result of the run has arrived.
type Model struct {
	title  string
	detail string

	snapshots <-chan slicer.Snapshot
	results   <-chan Result
	cancel    func()

	bar        progress.Model
	snap       slicer.Snapshot
	result     *Result
	cancelling bool
}

// New returns a model which displays the snapshots received from
// progress until a result arrives on done. Pressing q, esc or ctrl+c
// calls cancel; the model keeps running until the result arrives.
func New(title, detail string, snapshots <-chan slicer.Snapshot, done <-chan Result, cancel func()) Model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40
	return Model{
		title:     title,
		detail:    detail,
		snapshots: snapshots,
		results:   done,
		cancel:    cancel,
		bar:       bar,
	}
}

// Run displays the model until the run is finished and returns the
// result of the run.
func Run(m Model) (Result, error) {
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return Result{}, err
	}
	fm := final.(Model)
	if fm.result == nil {
		// the program was interrupted before the run finished
		return Result{}, tea.ErrProgramKilled
	}
	return *fm.result, nil
}

func waitForSnapshot(ch <-chan slicer.Snapshot) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg(s)
	}
}

func waitForResult(ch <-chan Result) tea.Cmd {
	return func() tea.Msg {
		return resultMsg(<-ch)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.snapshots), waitForResult(m.results))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = max(min(msg.Width-8, maxBarWidth), 10)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.cancelling && m.cancel != nil {
				m.cancel()
			}
			m.cancelling = true
		}
	case snapshotMsg:
		s := slicer.Snapshot(msg)
		if s.Completed >= m.snap.Completed {
			m.snap = s
		}
		return m, waitForSnapshot(m.snapshots)
	case resultMsg:
		r := Result(msg)
		m.result = &r
		if r.Summary != nil {
			m.snap.Completed = r.Summary.Layers
			m.snap.Total = r.Summary.Planned
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	if m.detail != "" {
		b.WriteString(" " + dimStyle.Render(m.detail))
	}
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(m.snap.Fraction()))
	b.WriteString("\n\n")

	status := fmt.Sprintf("layer %d of %d", m.snap.Completed, m.snap.Total)
	if m.snap.Elapsed > 0 {
		status += "  ·  elapsed " + formatDuration(m.snap.Elapsed)
	}
	if m.snap.RemainingKnown && m.result == nil {
		status += "  ·  remaining " + formatDuration(m.snap.Remaining)
	}
	b.WriteString(dimStyle.Render(status))

	switch {
	case m.result != nil && m.result.Err != nil:
		b.WriteString("\n" + errStyle.Render("error: "+m.result.Err.Error()))
	case m.result != nil:
		b.WriteString("\ndone")
	case m.cancelling:
		b.WriteString("\ncancelling ...")
	}
	return boxStyle.Render(b.String()) + "\n"
}

// formatDuration writes d as minutes and seconds, like "2m 05s".
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	mins := int(d / time.Minute)
	secs := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%dm %02ds", mins, secs)
}
