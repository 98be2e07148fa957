package sqlcheck

import (
	"testing"

	"github.com/driftsql/driftsql/pkg/template"
)

func TestScanValue(t *testing.T) {
	tests := []struct {
		name            string
		value           any
		expectInjection bool
	}{
		// Clean values
		{"clean id", "12345", false},
		{"clean email", "user@example.com", false},
		{"clean date", "2024-01-15", false},
		{"clean search term", "laptop computers", false},
		{"legitimate apostrophe", "O'Brien", false},
		{"empty string", "", false},
		{"JSON value", `{"key": "value", "enabled": true}`, false},
		{"URL", "https://example.com/path?query=value&other=123", false},

		// Non-strings never carry payloads
		{"integer", 100, false},
		{"float", 99.95, false},
		{"bool", true, false},
		{"nil", nil, false},

		// Injection patterns
		{"classic quote injection", "' OR '1'='1", true},
		{"drop table", "'; DROP TABLE users--", true},
		{"union select", "1 UNION SELECT * FROM passwords", true},
		{"comment injection", "admin'--", true},
		{"stacked queries", "admin'; DELETE FROM logs; --", true},
		{"time-based blind", "1' AND SLEEP(5)--", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ScanValue("p", tt.value)

			if !tt.expectInjection {
				if f != nil {
					t.Errorf("clean value %v flagged: fingerprint=%q", tt.value, f.Fingerprint)
				}
				return
			}

			if f == nil {
				t.Fatalf("expected finding for %v, got nil", tt.value)
			}
			if f.ParamName != "p" {
				t.Errorf("expected ParamName=p, got %q", f.ParamName)
			}
			if f.Fingerprint == "" {
				t.Error("expected non-empty fingerprint")
			}
			if f.Value != tt.value {
				t.Errorf("expected Value=%v, got %v", tt.value, f.Value)
			}
		})
	}
}

func TestScanParameters(t *testing.T) {
	params := []template.BoundParameter{
		{Name: "@p0_id", Value: "12345"},
		{Name: "@p1_search", Value: "'; DROP TABLE users--"},
		{Name: "@p2_limit", Value: 100},
		{Name: "@p3_password", Value: "' OR '1'='1"},
	}

	findings := ScanParameters(params)

	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}
	if findings[0].ParamName != "@p1_search" {
		t.Errorf("expected first finding for @p1_search, got %q", findings[0].ParamName)
	}
	if findings[1].ParamName != "@p3_password" {
		t.Errorf("expected second finding for @p3_password, got %q", findings[1].ParamName)
	}
}

func TestScanParametersAllClean(t *testing.T) {
	params := []template.BoundParameter{
		{Name: "@p0_id", Value: "12345"},
		{Name: "@p1_limit", Value: 100},
		{Name: "@p2_null", Value: nil},
	}

	if findings := ScanParameters(params); len(findings) != 0 {
		t.Errorf("expected no findings, got %d", len(findings))
	}
}
