package deadline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		typ       string
		want      Category
		wantLabel string
	}{
		{typ: "drop_one_member_topics", want: DropOneMemberTopics{}},
		{typ: "drop_outstanding_reviews", want: DropOutstandingReviews{}},
		{typ: "compare_files_with_simicheck", want: CompareFiles{}},
		{typ: "submission", want: Reminder{Name: "submission"}, wantLabel: "submission"},
		{typ: "review", want: Reminder{Name: "review"}, wantLabel: "review"},
		{typ: "metareview", want: Reminder{Name: "metareview"}, wantLabel: "teammate review"},
		{typ: "Drop_One_Member_Topics", want: Reminder{Name: "Drop_One_Member_Topics"}, wantLabel: "Drop_One_Member_Topics"},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			got := ParseCategory(tt.typ)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.typ, got.String())
			if rem, ok := got.(Reminder); ok {
				assert.Equal(t, tt.wantLabel, rem.Label())
			}
		})
	}
}

func TestSuggestCategory(t *testing.T) {
	tests := []struct {
		typ    string
		want   string
		wantOk bool
	}{
		{typ: "drop_outstanding_review", want: DropOutstandingReviewsType, wantOk: true},
		{typ: "Drop_One_Member_Topics", want: DropOneMemberTopicsType, wantOk: true},
		{typ: "compare_file_with_simicheck", want: CompareFilesType, wantOk: true},
		{typ: "drop_outstanding_reviews"},
		{typ: "submission"},
		{typ: "metareview"},
		{typ: ""},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			got, ok := SuggestCategory(tt.typ)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestTask_Validate(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr string
	}{
		{name: "valid", task: Task{AssignmentID: 1, DeadlineType: "submission", DueAt: "2024-01-01"}},
		{name: "no due date", task: Task{AssignmentID: 1, DeadlineType: "compare_files_with_simicheck"}},
		{name: "no assignment", task: Task{DeadlineType: "submission"}, wantErr: "assignment_id"},
		{name: "blank type", task: Task{AssignmentID: 1, DeadlineType: "  "}, wantErr: "deadline_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
