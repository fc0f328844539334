package timeline

import (
	"iter"
	"slices"
	"time"

	"github.com/dmitrijs2005/postapp/internal/client/models"
)

// LineKind tells a display which style to apply.
type LineKind int

const (
	DayHeader LineKind = iota
	PostHeader
	PostText
)

type Line struct {
	Kind LineKind
	Text string
}

// Render yields display lines for posts, which arrive newest first. The
// input is walked in reverse and a day header is emitted whenever the day
// label changes. Posts are not re-sorted, so unsorted input may split a day
// into several groups. Undated posts do not affect day grouping.
func Render(posts []models.Post, loc *time.Location) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		currentDay := ""
		for _, p := range slices.Backward(posts) {
			if p.Undated {
				if !yield(Line{Kind: PostHeader, Text: p.Author + "@??? <" + p.ID + ">:"}) {
					return
				}
				if !yield(Line{Kind: PostText, Text: p.Text}) {
					return
				}
				continue
			}

			st := Format(p.Timestamp, loc)
			if st.Day != currentDay {
				currentDay = st.Day
				if !yield(Line{Kind: DayHeader, Text: "=== " + st.Day + " ==="}) {
					return
				}
			}
			if !yield(Line{Kind: PostHeader, Text: p.Author + "@" + st.Time + " <" + p.ID + ">:"}) {
				return
			}
			if !yield(Line{Kind: PostText, Text: p.Text}) {
				return
			}
		}
	}
}

// Entry is one post with its formatted time.
type Entry struct {
	Author string
	Time   string
	ID     string
	Text   string
}

// Day is a run of consecutive posts sharing a day label. Label is empty
// for a run of undated posts.
type Day struct {
	Label   string
	Entries []Entry
}

// Group returns the same layout as Render as structured data, for HTML and
// feed views.
func Group(posts []models.Post, loc *time.Location) []Day {
	var days []Day
	for _, p := range slices.Backward(posts) {
		label, at := "", "???"
		if !p.Undated {
			st := Format(p.Timestamp, loc)
			label, at = st.Day, st.Time
		}

		// Undated posts join whatever group is open.
		if len(days) == 0 || (!p.Undated && days[len(days)-1].Label != label) {
			days = append(days, Day{Label: label})
		}
		last := &days[len(days)-1]
		last.Entries = append(last.Entries, Entry{Author: p.Author, Time: at, ID: p.ID, Text: p.Text})
	}
	return days
}
