package utils

import (
	"testing"
	"time"
)

func TestParseContestDate(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		desc    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			desc:  "unix seconds",
			input: "1750000000",
			want:  time.Unix(1750000000, 0),
		},
		{
			desc:  "unix milliseconds",
			input: "1750000000000",
			want:  time.UnixMilli(1750000000000),
		},
		{
			desc:  "iso date",
			input: "2025-07-01",
			want:  time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			desc:  "day first with year",
			input: "1/7/2025",
			want:  time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			desc:  "day first two digit year",
			input: "1/7/25",
			want:  time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			desc:  "day first without year stays in current year when upcoming",
			input: "1/7",
			want:  time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			desc:  "day first without year rolls past dates to next year",
			input: "1/2",
			want:  time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			desc:  "dots as separators",
			input: "1.7.2025",
			want:  time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			desc:    "overflow date rejected",
			input:   "30/2/2025",
			wantErr: true,
		},
		{
			desc:    "empty input",
			input:   "   ",
			wantErr: true,
		},
		{
			desc:    "garbage",
			input:   "next tuesday",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := ParseContestDate(tt.input, now)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		desc  string
		input string
		want  string
	}{
		{"mass mention defused", "hi @everyone", "hi (at)everyone"},
		{"user mention defused", "<@123456>", "(at)123456>"},
		{"markdown stripped", "**bold** and ~~gone~~", "bold and gone"},
		{"whitespace trimmed", "  x100 z-40  ", "x100 z-40"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := SanitizeString(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncateForDiscord(t *testing.T) {
	if got := TruncateForDiscord("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := TruncateForDiscord("abcdefghij", 8); got != "abcde..." {
		t.Errorf("got %q", got)
	}
}
