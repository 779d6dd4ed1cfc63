package domain

import (
	"reflect"
	"testing"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantText    string
		wantContext string
		wantTags    []string
	}{
		{"plain", "project without a context", "project without a context", "", nil},
		{"context", "project with a @context", "project with a @context", "@context", nil},
		{"tags", "project with +some +tags", "project with +some +tags", "", []string{"+some", "+tags"}},
		{"context and tags", "fix +bug in @api-v2 +urgent", "fix +bug in @api-v2 +urgent", "@api-v2", []string{"+bug", "+urgent"}},
		{"commas", "write,docs, @home", "write docs @home", "@home", nil},
		{"trimmed", "  spaced  ", "spaced", "", nil},
		{"line breaks", "line one\nline two\r\n\t+tag", "line one line two +tag", "", []string{"+tag"}},
		{"underscore", "@my_ctx +a_b", "@my_ctx +a_b", "@my_ctx", []string{"+a_b"}},
		// Two contexts are ambiguous and leave the context unset.
		{"two contexts", "pair @home @work", "pair @home @work", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseName(tt.raw)
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if got.Context != tt.wantContext {
				t.Errorf("Context = %q, want %q", got.Context, tt.wantContext)
			}
			if !reflect.DeepEqual(got.Tags, tt.wantTags) {
				t.Errorf("Tags = %#v, want %#v", got.Tags, tt.wantTags)
			}
		})
	}
}
