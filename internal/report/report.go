// Package report summarises guest answers per status and exports the
// approved list as a spreadsheet-friendly CSV.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"eventInvite/internal/model"
)

const (
	CSVFileName    = "approved_guests.csv"
	CSVContentType = "text/csv; charset=utf-8"

	bom = "\uFEFF"
)

var csvHeader = []string{"#", "שם פרטי", "שם משפחה", "טלפון", "בוגרים", "ילדים", `סה"כ`, "צמחוני", "טבעוני", "גלאט", "אלרגיות", "הערות"}

// Titles of the three report views.
var Titles = map[model.GuestStatus]string{
	model.StatusApproved: "אישרו הגעה",
	model.StatusRejected: "לא מגיעים",
	model.StatusPending:  "טרם ענו",
}

func ParseStatus(s string) (model.GuestStatus, error) {
	switch st := model.GuestStatus(s); st {
	case model.StatusApproved, model.StatusRejected, model.StatusPending:
		return st, nil
	}
	return "", fmt.Errorf("unknown report status %q", s)
}

// Matches reports whether g belongs in the report for status. Guests with
// no status count as pending.
func Matches(g model.InvitedGuest, status model.GuestStatus) bool {
	st := g.Status
	if st == "" {
		st = model.StatusPending
	}
	return st == status
}

func Filter(guests []model.InvitedGuest, status model.GuestStatus) []model.InvitedGuest {
	out := make([]model.InvitedGuest, 0, len(guests))
	for _, g := range guests {
		if Matches(g, status) {
			out = append(out, g)
		}
	}
	return out
}

type Totals struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Total    int `json:"total"`
	Veg      int `json:"veg"`
	Vegan    int `json:"vegan"`
	Glatt    int `json:"glatt"`
	Allergy  int `json:"allergy"`
}

func Sum(guests []model.InvitedGuest) Totals {
	var t Totals
	for _, g := range guests {
		t.Adults += g.Adults
		t.Children += g.Children
		t.Veg += g.VegAdults + g.VegChildren
		t.Vegan += g.VeganAdults + g.VeganChildren
		t.Glatt += g.GlattAdults + g.GlattChildren
		t.Allergy += g.AllergyAdults + g.AllergyChildren
	}
	t.Total = t.Adults + t.Children
	return t
}

type Report struct {
	Status model.GuestStatus    `json:"status"`
	Title  string               `json:"title"`
	Guests []model.InvitedGuest `json:"guests"`
	Totals Totals               `json:"totals"`
}

func Build(guests []model.InvitedGuest, status model.GuestStatus) Report {
	matched := Filter(guests, status)
	return Report{Status: status, Title: Titles[status], Guests: matched, Totals: Sum(matched)}
}

// Note is what the notes column shows for a guest.
func Note(g model.InvitedGuest) string {
	if g.AllergyNote != "" {
		return g.AllergyNote
	}
	if g.AllergyAdults+g.AllergyChildren > 0 {
		return "אלרגיה"
	}
	return "-"
}

// field quotes values that would otherwise break the row apart.
func field(s string) string {
	if strings.ContainsAny(s, ",\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

func row(cells ...any) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		switch v := c.(type) {
		case int:
			parts[i] = strconv.Itoa(v)
		case string:
			parts[i] = field(v)
		}
	}
	return strings.Join(parts, ",")
}

// ApprovedCSV renders the approved guests with a totals row. The leading BOM
// makes spreadsheet apps read the Hebrew text as UTF-8.
func ApprovedCSV(guests []model.InvitedGuest) []byte {
	approved := Filter(guests, model.StatusApproved)

	lines := make([]string, 0, len(approved)+2)
	lines = append(lines, strings.Join(csvHeader, ","))
	for i, g := range approved {
		lines = append(lines, row(
			i+1, g.FirstName, g.LastName, g.Phone,
			g.Adults, g.Children, g.Adults+g.Children,
			g.VegAdults+g.VegChildren, g.VeganAdults+g.VeganChildren, g.GlattAdults+g.GlattChildren,
			g.AllergyAdults+g.AllergyChildren, Note(g),
		))
	}

	t := Sum(approved)
	lines = append(lines, row("", `סה"כ`, "", "", t.Adults, t.Children, t.Total, t.Veg, t.Vegan, t.Glatt, t.Allergy, ""))

	return []byte(bom + strings.Join(lines, "\n"))
}
