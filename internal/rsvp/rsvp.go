// Package rsvp holds the headcount rules shared by the public guest page and the
// organizer's headcount step.
package rsvp

import (
	"errors"
	"strings"

	"eventInvite/internal/model"
)

const (
	MealVegetarian = "vegetarian"
	MealVegan      = "vegan"
	MealGlatt      = "glatt"
)

// MealCategories in display order with their Hebrew labels.
var MealCategories = []struct {
	Key   string
	Label string
}{
	{MealVegetarian, "צמחוני"},
	{MealVegan, "טבעוני"},
	{MealGlatt, "גלאט"},
}

var (
	ErrAttendanceRequired   = errors.New("אנא בחר/י האם את/ה מגיע/ה.")
	ErrNoParticipants       = errors.New("יש להזין לפחות משתתף אחד.")
	ErrNegativeCount        = errors.New("מספר אורחים לא יכול להיות שלילי")
	ErrNoGuests             = errors.New("יש להזין לפחות אורח אחד")
	ErrSpecialExceedsGuests = errors.New("סך המנות המיוחדות חורג ממספר האורחים.")
	ErrAllergyDescription   = errors.New("יש להזין סוג אלרגיה עבור כל אלרגיה שמצויינת.")
)

// Answer is what a guest submits through the public link.
type Answer struct {
	Attending    *bool
	Adults       int
	Children     int
	SpecialMeals model.SpecialMeals
	Allergies    []model.Allergy
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// fits reports whether the special meals and allergies stay within the
// declared adults and children. Counts must already be non-negative; each one
// is compared against the room left, so huge values cannot wrap the sum.
func fits(meals model.SpecialMeals, allergies []model.Allergy, adults, children int) bool {
	leftA, leftC := adults, children
	take := func(a, c int) bool {
		if a > leftA || c > leftC {
			return false
		}
		leftA -= a
		leftC -= c
		return true
	}
	for _, c := range MealCategories {
		if m := meals[c.Key]; !take(m.Adults, m.Children) {
			return false
		}
	}
	for _, a := range allergies {
		if !take(a.Adults, a.Children) {
			return false
		}
	}
	return true
}

func normalize(meals model.SpecialMeals, allergies []model.Allergy) (model.SpecialMeals, []model.Allergy) {
	nm := make(model.SpecialMeals, len(MealCategories))
	for _, c := range MealCategories {
		m := meals[c.Key]
		nm[c.Key] = model.Headcount{Adults: clamp(m.Adults), Children: clamp(m.Children)}
	}
	na := make([]model.Allergy, 0, len(allergies))
	for _, a := range allergies {
		na = append(na, model.Allergy{Description: a.Description, Adults: clamp(a.Adults), Children: clamp(a.Children)})
	}
	return nm, na
}

// AllergyNote joins the non-empty allergy descriptions.
func AllergyNote(allergies []model.Allergy) string {
	var parts []string
	for _, a := range allergies {
		if d := strings.TrimSpace(a.Description); d != "" {
			parts = append(parts, d)
		}
	}
	return strings.Join(parts, "; ")
}

// Resolve validates a guest answer and derives the columns to store.
// Declining zeroes every count.
func Resolve(a Answer) (model.GuestResponse, error) {
	if a.Attending == nil {
		return model.GuestResponse{}, ErrAttendanceRequired
	}

	if !*a.Attending {
		return model.GuestResponse{Status: model.StatusRejected}, nil
	}

	adults, children := clamp(a.Adults), clamp(a.Children)
	if adults == 0 && children == 0 {
		return model.GuestResponse{}, ErrNoParticipants
	}

	meals, allergies := normalize(a.SpecialMeals, a.Allergies)
	if !fits(meals, allergies, adults, children) {
		return model.GuestResponse{}, ErrSpecialExceedsGuests
	}

	resp := model.GuestResponse{
		Status:        model.StatusApproved,
		Adults:        adults,
		Children:      children,
		VegAdults:     meals[MealVegetarian].Adults,
		VegChildren:   meals[MealVegetarian].Children,
		VeganAdults:   meals[MealVegan].Adults,
		VeganChildren: meals[MealVegan].Children,
		GlattAdults:   meals[MealGlatt].Adults,
		GlattChildren: meals[MealGlatt].Children,
	}
	for _, al := range allergies {
		resp.AllergyAdults += al.Adults
		resp.AllergyChildren += al.Children
	}
	if len(allergies) > 0 {
		note := AllergyNote(allergies)
		resp.AllergyNote = &note
	}
	return resp, nil
}

// ValidateHeadcount applies the organizer-side rules and returns the meals and
// allergies to store. Unlike guest answers, negative headcounts are rejected
// rather than clamped; negative meal or allergy counts are stored as zero.
func ValidateHeadcount(adults, children int, meals model.SpecialMeals, allergies []model.Allergy) (model.SpecialMeals, []model.Allergy, error) {
	if adults < 0 || children < 0 {
		return nil, nil, ErrNegativeCount
	}
	if adults == 0 && children == 0 {
		return nil, nil, ErrNoGuests
	}

	meals, allergies = normalize(meals, allergies)
	if !fits(meals, allergies, adults, children) {
		return nil, nil, ErrSpecialExceedsGuests
	}

	for _, a := range allergies {
		if (a.Adults > 0 || a.Children > 0) && strings.TrimSpace(a.Description) == "" {
			return nil, nil, ErrAllergyDescription
		}
	}
	return meals, allergies, nil
}
