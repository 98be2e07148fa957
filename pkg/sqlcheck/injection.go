package sqlcheck

import (
	libinjection "github.com/corazawaf/libinjection-go"

	"github.com/driftsql/driftsql/pkg/template"
)

// Finding describes one bound parameter whose value matched a SQL-injection
// pattern.
type Finding struct {
	ParamName   string // generated bound-parameter name
	Fingerprint string // libinjection fingerprint of the detected pattern
	Value       any
}

// ScanValue checks a single parameter value. Only strings are scanned —
// numbers, booleans and other types cannot carry injection payloads.
// Returns nil when the value is clean.
func ScanValue(paramName string, value any) *Finding {
	text, ok := value.(string)
	if !ok {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(text)
	if !isSQLi {
		return nil
	}
	return &Finding{
		ParamName:   paramName,
		Fingerprint: string(fingerprint),
		Value:       value,
	}
}

// ScanParameters checks every bound parameter, returning one finding per
// dirty value. An empty result means all parameters are clean.
func ScanParameters(params []template.BoundParameter) []*Finding {
	var findings []*Finding
	for _, p := range params {
		if f := ScanValue(p.Name, p.Value); f != nil {
			findings = append(findings, f)
		}
	}
	return findings
}
