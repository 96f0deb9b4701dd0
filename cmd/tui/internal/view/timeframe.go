package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

// Timeframe is a preset or custom range of payment dates.
type Timeframe int

const (
	TimeframeThisMonth Timeframe = iota
	TimeframeLastMonth
	TimeframeLastQuarter
	TimeframeThisYear
	TimeframeAll
	TimeframeCustom
)

var timeframeLabels = [...]string{
	TimeframeThisMonth:   "This Month",
	TimeframeLastMonth:   "Last Month",
	TimeframeLastQuarter: "Last 3 Months",
	TimeframeThisYear:    "This Year",
	TimeframeAll:         "All Time",
	TimeframeCustom:      "Custom Range",
}

func (t Timeframe) String() string {
	if t < 0 || int(t) >= len(timeframeLabels) {
		return "Unknown"
	}

	return timeframeLabels[t]
}

// Range resolves a preset against now. All and Custom resolve to an open
// range (both bounds zero).
func (t Timeframe) Range(now time.Time) (start, end time.Time) {
	today := ledger.Day(now)
	firstOfMonth := today.AddDate(0, 0, 1-today.Day())

	switch t {
	case TimeframeThisMonth:
		return firstOfMonth, today
	case TimeframeLastMonth:
		return firstOfMonth.AddDate(0, -1, 0), firstOfMonth.AddDate(0, 0, -1)
	case TimeframeLastQuarter:
		return firstOfMonth.AddDate(0, -2, 0), today
	case TimeframeThisYear:
		return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), today
	}

	return time.Time{}, time.Time{}
}

// TimeframeSelectedMsg carries the chosen range. Zero bounds are open.
type TimeframeSelectedMsg struct {
	Label string
	Start time.Time
	End   time.Time
}

type timeframeState int

const (
	timeframeStateSelect timeframeState = iota
	timeframeStateCustom
)

// TimeframePicker lets the user choose a preset or type a custom range.
type TimeframePicker struct {
	state    timeframeState
	selected Timeframe
	now      func() time.Time

	startInput textinput.Model
	endInput   textinput.Model
	focusIndex int

	err error
}

func NewTimeframePicker() TimeframePicker {
	return TimeframePicker{
		state:      timeframeStateSelect,
		selected:   TimeframeAll,
		now:        time.Now,
		startInput: dateInput("From: "),
		endInput:   dateInput("To:   "),
	}
}

func dateInput(prompt string) textinput.Model {
	in := textinput.New()
	in.Placeholder = "YYYY-MM-DD"
	in.CharLimit = 10
	in.Width = 12
	in.Prompt = prompt

	return in
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.state == timeframeStateCustom {
			return m.updateInputs(msg)
		}

		return m, nil
	}

	if m.state == timeframeStateCustom {
		return m.updateCustom(key)
	}

	switch key.String() {
	case "up", "k":
		if m.selected > TimeframeThisMonth {
			m.selected--
		}
	case "down", "j":
		if m.selected < TimeframeCustom {
			m.selected++
		}
	case "enter":
		if m.selected == TimeframeCustom {
			m.state = timeframeStateCustom
			m.focusIndex = 0
			m.startInput.Focus()

			return m, textinput.Blink
		}

		start, end := m.selected.Range(m.now())
		sel := TimeframeSelectedMsg{Label: m.selected.String(), Start: start, End: end}

		return m, func() tea.Msg { return sel }
	}

	return m, nil
}

func (m TimeframePicker) updateCustom(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = 1 - m.focusIndex
		m.startInput.Blur()
		m.endInput.Blur()

		if m.focusIndex == 0 {
			m.startInput.Focus()
		} else {
			m.endInput.Focus()
		}

		return m, textinput.Blink

	case "enter":
		sel, err := customRange(m.startInput.Value(), m.endInput.Value())
		if err != nil {
			m.err = err
			return m, nil
		}

		m.err = nil

		return m, func() tea.Msg { return sel }

	case "esc":
		m.state = timeframeStateSelect
		m.err = nil

		return m, nil
	}

	return m.updateInputs(msg)
}

// customRange parses a typed range. Either side may be left blank to leave it open.
func customRange(from, to string) (TimeframeSelectedMsg, error) {
	var sel TimeframeSelectedMsg

	for _, f := range []struct {
		in   string
		out  *time.Time
		name string
	}{
		{from, &sel.Start, "start"},
		{to, &sel.End, "end"},
	} {
		s := strings.TrimSpace(f.in)
		if s == "" {
			continue
		}

		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return sel, fmt.Errorf("invalid %s date (YYYY-MM-DD)", f.name)
		}

		*f.out = t
	}

	if !sel.Start.IsZero() && !sel.End.IsZero() && sel.End.Before(sel.Start) {
		return sel, fmt.Errorf("end date is before start date")
	}

	sel.Label = FormatDate(sel.Start) + " to " + FormatDate(sel.End)

	return sel, nil
}

func (m TimeframePicker) updateInputs(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	var startCmd, endCmd tea.Cmd

	m.startInput, startCmd = m.startInput.Update(msg)
	m.endInput, endCmd = m.endInput.Update(msg)

	return m, tea.Batch(startCmd, endCmd)
}

func (m TimeframePicker) View() string {
	var sb strings.Builder

	if m.state == timeframeStateCustom {
		sb.WriteString("Enter a date range (leave a side blank to keep it open):\n\n")
		sb.WriteString(m.startInput.View() + "\n")
		sb.WriteString(m.endInput.View() + "\n\n")
		sb.WriteString(faintStyle.Render("enter confirm • tab switch • esc back"))
	} else {
		sb.WriteString("Select timeframe:\n\n")

		for tf := TimeframeThisMonth; tf <= TimeframeCustom; tf++ {
			if tf == m.selected {
				sb.WriteString(activeStyle("> "+tf.String()) + "\n")
				continue
			}

			sb.WriteString("  " + tf.String() + "\n")
		}

		sb.WriteString("\n" + faintStyle.Render("enter select • esc back"))
	}

	if m.err != nil {
		sb.WriteString("\n\n" + errorStyle.Render("Error: "+m.err.Error()))
	}

	return sb.String()
}

// IsSelecting reports whether the picker is on the preset list rather than
// the custom inputs, so esc belongs to the parent view.
func (m TimeframePicker) IsSelecting() bool {
	return m.state == timeframeStateSelect
}

func (m *TimeframePicker) Reset() {
	m.state = timeframeStateSelect
	m.selected = TimeframeAll
	m.err = nil
	m.startInput.SetValue("")
	m.endInput.SetValue("")
	m.startInput.Blur()
	m.endInput.Blur()
}
