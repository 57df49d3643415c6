package deadline

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	DropOneMemberTopicsType    = "drop_one_member_topics"
	DropOutstandingReviewsType = "drop_outstanding_reviews"
	CompareFilesType           = "compare_files_with_simicheck"
	MetareviewType             = "metareview"

	teammateReviewLabel = "teammate review"

	typoMinRatio = 0.85
)

// Category selects what a deadline task does.
// The set of variants is closed: DropOneMemberTopics, DropOutstandingReviews, CompareFiles and Reminder.
type Category interface {
	String() string
	isCategory()
}

// DropOneMemberTopics removes topic sign-ups of single-member teams.
type DropOneMemberTopics struct{}

// DropOutstandingReviews removes review maps that have no response yet.
type DropOutstandingReviews struct{}

// CompareFiles runs the plagiarism comparison.
type CompareFiles struct{}

// Reminder emails participants about the deadline named Name.
type Reminder struct {
	Name string
}

func (DropOneMemberTopics) String() string    { return DropOneMemberTopicsType }
func (DropOutstandingReviews) String() string { return DropOutstandingReviewsType }
func (CompareFiles) String() string           { return CompareFilesType }
func (r Reminder) String() string             { return r.Name }

func (DropOneMemberTopics) isCategory()    {}
func (DropOutstandingReviews) isCategory() {}
func (CompareFiles) isCategory()           {}
func (Reminder) isCategory()               {}

// Label is the human readable deadline name used in emails.
func (r Reminder) Label() string {
	if r.Name == MetareviewType {
		return teammateReviewLabel
	}
	return r.Name
}

// ParseCategory maps a deadline type to its Category; unknown types are reminders.
func ParseCategory(deadlineType string) Category {
	switch deadlineType {
	case DropOneMemberTopicsType:
		return DropOneMemberTopics{}
	case DropOutstandingReviewsType:
		return DropOutstandingReviews{}
	case CompareFilesType:
		return CompareFiles{}
	default:
		return Reminder{Name: deadlineType}
	}
}

// SuggestCategory returns the action type deadlineType most likely misspells.
// It reports false for action types themselves and for types that resemble none.
func SuggestCategory(deadlineType string) (string, bool) {
	if _, ok := ParseCategory(deadlineType).(Reminder); !ok {
		return "", false
	}
	typ := strings.Split(strings.ToLower(strings.TrimSpace(deadlineType)), "")

	var (
		best      string
		bestRatio float64
	)
	for _, known := range []string{DropOneMemberTopicsType, DropOutstandingReviewsType, CompareFilesType} {
		ratio := difflib.NewMatcher(typ, strings.Split(known, "")).Ratio()
		if ratio > bestRatio {
			best, bestRatio = known, ratio
		}
	}
	return best, bestRatio >= typoMinRatio
}
