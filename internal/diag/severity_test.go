package diag

import (
	"encoding/json"
	"testing"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		s    Severity
		want string
	}{
		{SeverityError, "error"},
		{SeverityWarning, "warning"},
		{SeverityInfo, "info"},
		{SeverityStyle, "style"},
		{Severity(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.s.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSeverity_JSONRoundTrip(t *testing.T) {
	for _, s := range []Severity{SeverityError, SeverityWarning, SeverityInfo, SeverityStyle} {
		t.Run(s.String(), func(t *testing.T) {
			data, err := json.Marshal(s)
			if err != nil {
				t.Fatalf("Marshal error: %v", err)
			}
			var got Severity
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal error: %v", err)
			}
			if got != s {
				t.Errorf("round trip = %v, want %v", got, s)
			}
		})
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input   string
		want    Severity
		wantErr bool
	}{
		{"error", SeverityError, false},
		{"warning", SeverityWarning, false},
		{"warn", SeverityWarning, false},
		{"info", SeverityInfo, false},
		{"style", SeverityStyle, false},
		{"ERROR", SeverityError, false}, // Case insensitive
		{"fatal", SeverityError, true},
		{"", SeverityError, true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseSeverity(tc.input)
			if (err != nil) != tc.wantErr {
				t.Errorf("ParseSeverity(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
				return
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("ParseSeverity(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestSeverity_IsAtLeast(t *testing.T) {
	tests := []struct {
		s         Severity
		threshold Severity
		want      bool
	}{
		{SeverityError, SeverityStyle, true},
		{SeverityError, SeverityError, true},
		{SeverityWarning, SeverityWarning, true},
		{SeverityStyle, SeverityWarning, false},
		{SeverityInfo, SeverityError, false},
		{SeverityStyle, SeverityStyle, true},
	}

	for _, tc := range tests {
		if got := tc.s.IsAtLeast(tc.threshold); got != tc.want {
			t.Errorf("%v.IsAtLeast(%v) = %v, want %v", tc.s, tc.threshold, got, tc.want)
		}
	}
}
