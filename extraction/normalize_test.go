package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text untouched",
			in:   "Rs. 100.00 debited",
			want: "Rs. 100.00 debited",
		},
		{
			name: "tags stripped",
			in:   "<html><body><p>Rs. 100.00</p> <b>debited</b></body></html>",
			want: "Rs. 100.00 debited",
		},
		{
			name: "style block removed with content",
			in:   "<style>.amount { color: red; }</style>Rs. 100.00 debited",
			want: "Rs. 100.00 debited",
		},
		{
			name: "script block removed with content",
			in:   "<script type=\"text/javascript\">var amount = 999;</script>Rs. 100.00 debited",
			want: "Rs. 100.00 debited",
		},
		{
			name: "whitespace collapsed and trimmed",
			in:   "  Rs.   100.00\n\n\tdebited  ",
			want: "Rs. 100.00 debited",
		},
		{
			name: "mixed markup",
			in:   "<div>\n<style>p{margin:0}</style>\n<p>Rs. 1,500.00   debited from a/c **1234</p>\n</div>",
			want: "Rs. 1,500.00 debited from a/c **1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}

func TestParseDate_NumericShapes(t *testing.T) {
	fallback := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		raw  string
		want time.Time
	}{
		{"12-05-2024", time.Date(2024, time.May, 12, 0, 0, 0, 0, time.UTC)},
		{"12/05/2024", time.Date(2024, time.May, 12, 0, 0, 0, 0, time.UTC)},
		{"08-02-26", time.Date(2026, time.February, 8, 0, 0, 0, 0, time.UTC)},
		{"1-9-24", time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseDate(tt.raw, "", fallback), "raw %q", tt.raw)
	}
}

func TestParseDate_GenericLayouts(t *testing.T) {
	fallback := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

	got := parseDate("15 Jan 2024", "", fallback)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), got)

	got = parseDate("2024-03-09", "", fallback)
	assert.Equal(t, time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDate_LayoutHintFirst(t *testing.T) {
	fallback := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

	got := parseDate("2024.05.12", "2006.01.02", fallback)
	assert.Equal(t, time.Date(2024, time.May, 12, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDate_Fallback(t *testing.T) {
	fallback := time.Date(2031, time.July, 4, 12, 30, 0, 0, time.UTC)

	assert.Equal(t, fallback, parseDate("not a date", "", fallback))
	assert.Equal(t, fallback, parseDate("", "", fallback))
	// month out of range falls through the numeric tier and the layouts
	assert.Equal(t, fallback, parseDate("12-25-2024", "", fallback))
}
