package tools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/secagent/secagent/internal/schema"
)

func TestAssessRisk(t *testing.T) {
	cases := []struct {
		systems  int
		exposure bool
		score    int
		severity string
	}{
		{5, false, 15, SeverityLow},
		{10, true, 55, SeverityHigh},
		{11, false, 20, SeverityLow},
		{50, true, 60, SeverityHigh},
		{500, false, 30, SeverityMedium},
		{1000, true, 70, SeverityHigh},
		{1001, false, 40, SeverityMedium},
		{5000, true, 80, SeverityCritical},
	}
	for _, c := range cases {
		got := AssessRisk(c.systems, c.exposure)
		if got.Score != c.score || got.Severity != c.severity {
			t.Errorf("AssessRisk(%d, %v) = %+v, want score=%d severity=%s",
				c.systems, c.exposure, got, c.score, c.severity)
		}
	}
}

func TestRiskTool_Output(t *testing.T) {
	tool := NewRiskTool()
	tool.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	out, err := tool.Execute(context.Background(), Args{
		"threat_name":      schema.String("SQL Injection"),
		"affected_systems": schema.Int(50),
		"data_exposure":    schema.Bool(true),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"Risk Assessment for: SQL Injection\n",
		"Severity: HIGH\n",
		"Risk Score: 60/100\n",
		"Affected Systems: 50\n",
		"Data Exposure: Yes\n",
		"Assessment Date: 2026-01-02T03:04:05Z\n",
		"Recommendation: Urgent attention needed.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCVERemediation(t *testing.T) {
	out, err := NewCVERemediationTool().Execute(context.Background(), Args{
		"cve_id":  schema.String("CVE-2024-1234"),
		"product": schema.String("OpenSSH"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "CVE Remediation Guidance\nCVE ID: CVE-2024-1234\nAffected Product: OpenSSH\n") {
		t.Errorf("unexpected header:\n%s", out)
	}
	if !strings.HasSuffix(out, "https://nvd.nist.gov/vuln/detail/CVE-2024-1234 for official details.") {
		t.Errorf("unexpected footer:\n%s", out)
	}
}

func TestChecklist(t *testing.T) {
	tool := NewChecklistTool()
	out, err := tool.Execute(context.Background(), Args{"topic": schema.String("web_app")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "Security Hardening Checklist: WEB_APP\n\n1. Implement input validation and sanitization\n") {
		t.Errorf("unexpected checklist:\n%s", out)
	}
	if !strings.Contains(out, "10. Regular security testing and code reviews\n") {
		t.Errorf("expected ten items:\n%s", out)
	}

	// Unknown topics fall back to the network list.
	out, _ = tool.Execute(context.Background(), Args{"topic": schema.String("iot")})
	if !strings.Contains(out, "1. Implement network segmentation") {
		t.Errorf("expected network fallback:\n%s", out)
	}
}
