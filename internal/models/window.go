package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Window is an inclusive range of calendar days.
type Window struct {
	Start time.Time
	End   time.Time
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// Day trunca a medianoche UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: Day(start), End: Day(end)}
	if w.End.Before(w.Start) {
		return Window{}, errors.New("window end before start")
	}
	return w, nil
}

func ParseWindow(start, end string) (Window, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Window{}, fmt.Errorf("bad start date %q: %w", start, err)
	}
	e, err := ParseDate(end)
	if err != nil {
		return Window{}, fmt.Errorf("bad end date %q: %w", end, err)
	}
	return NewWindow(s, e)
}

// Days is the number of calendar days covered, both ends included.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// Previous returns the window of equal length ending the day before Start.
func (w Window) Previous() Window {
	end := w.Start.AddDate(0, 0, -1)
	return Window{Start: end.AddDate(0, 0, -(w.Days() - 1)), End: end}
}

func (w Window) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

func (w Window) StartDate() string { return w.Start.Format(DateLayout) }
func (w Window) EndDate() string   { return w.End.Format(DateLayout) }

func (w Window) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}{w.StartDate(), w.EndDate()})
}
