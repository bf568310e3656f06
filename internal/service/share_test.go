package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeShareEmails(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		input    string
		want     []string
	}{
		{
			name:     "empty everything",
			existing: nil,
			input:    "",
			want:     []string{},
		},
		{
			name:     "single email",
			existing: nil,
			input:    "a@x.com",
			want:     []string{"a@x.com"},
		},
		{
			name:     "merge and sort",
			existing: []string{"c@x.com", "a@x.com"},
			input:    "b@x.com",
			want:     []string{"a@x.com", "b@x.com", "c@x.com"},
		},
		{
			name:     "exact duplicates collapse",
			existing: []string{"a@x.com"},
			input:    "a@x.com, b@x.com, b@x.com",
			want:     []string{"a@x.com", "b@x.com"},
		},
		{
			name:     "prefix of another address is kept",
			existing: []string{"ann@x.com"},
			input:    "ann@x.comm",
			want:     []string{"ann@x.com", "ann@x.comm"},
		},
		{
			name:     "trims entries and drops blanks",
			existing: nil,
			input:    "  a@x.com , ,   b@x.com,",
			want:     []string{"a@x.com", "b@x.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeShareEmails(tt.existing, tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeShareEmailsDoesNotMutateExisting(t *testing.T) {
	existing := []string{"c@x.com", "a@x.com"}
	_ = MergeShareEmails(existing, "b@x.com")
	assert.Equal(t, []string{"c@x.com", "a@x.com"}, existing)
}

func TestRemoveShareEmail(t *testing.T) {
	assert.Equal(t, []string{"b@x.com"}, RemoveShareEmail([]string{"a@x.com", "b@x.com"}, "a@x.com"))
	assert.Equal(t, []string{"a@x.com"}, RemoveShareEmail([]string{"a@x.com"}, "missing@x.com"))
	assert.Equal(t, []string{}, RemoveShareEmail(nil, "a@x.com"))
}
