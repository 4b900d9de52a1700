package contract

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzParseMetricList fuzzes metric list parsing with arbitrary input.
func FuzzParseMetricList(f *testing.F) {
	for _, seed := range []string{"", "spend", "spend,leads", " , ,", "spend,,spend", "%new_conversion,cac_total"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		seen := make(map[string]bool)
		for _, m := range ParseMetricList(s) {
			if m == "" || m != strings.TrimSpace(m) || strings.Contains(m, ",") {
				t.Fatalf("bad metric %q from %q", m, s)
			}
			if seen[m] {
				t.Fatalf("duplicate metric %q from %q", m, s)
			}
			seen[m] = true
		}
	})
}

// FuzzTruncateText checks truncation never exceeds the requested width.
func FuzzTruncateText(f *testing.F) {
	f.Add("advancedlifeclinic.com", 10)
	f.Add("", 0)
	f.Add("clínica", 4)

	f.Fuzz(func(t *testing.T, text string, width int) {
		out := TruncateText(text, width)
		if width > 3 && utf8.RuneCountInString(out) > width && utf8.RuneCountInString(text) > width {
			t.Fatalf("truncated %q to %q over width %d", text, out, width)
		}
	})
}
