package invite

import (
	"strings"

	"golang.org/x/text/unicode/bidi"
)

func hasRTL(s string) bool {
	for _, r := range s {
		p, _ := bidi.LookupRune(r)
		if c := p.Class(); c == bidi.R || c == bidi.AL {
			return true
		}
	}
	return false
}

// Visual reorders one line from logical to display order for a renderer that
// only draws left to right. A line with right-to-left letters is laid out with a
// right-to-left base direction; other lines are returned unchanged.
func Visual(line string) string {
	if !hasRTL(line) {
		return line
	}

	var p bidi.Paragraph
	if _, err := p.SetString(line, bidi.DefaultDirection(bidi.RightToLeft)); err != nil {
		return line
	}
	o, err := p.Order()
	if err != nil {
		return line
	}

	// Runs come back in logical order.
	var b strings.Builder
	b.Grow(len(line))
	for i := o.NumRuns() - 1; i >= 0; i-- {
		run := o.Run(i)
		if run.Direction() == bidi.RightToLeft {
			b.WriteString(bidi.ReverseString(run.String()))
			continue
		}
		b.WriteString(run.String())
	}
	return b.String()
}
