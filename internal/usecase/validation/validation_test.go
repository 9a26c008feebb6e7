package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var now = time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)

const goodMICR = "⑆123456789⑆ 00123456789 ⑈000501"

func goodInput() Input {
	return Input{
		ChequeNumber:   "000501",
		PayeeName:      "Acme Supplies Ltd",
		DeclaredAmount: decimal.NewFromInt(25000),
		OCRAmount:      decimal.NewFromInt(25000),
		IssueDate:      now.AddDate(0, 0, -3),
		MICRCode:       goodMICR,
		Now:            now,
	}
}

func TestRun_AllChecksPass(t *testing.T) {
	res := Run(goodInput(), DefaultConfig())
	if !res.Passed {
		t.Fatalf("Passed = false, reason = %q", res.FailureReason)
	}
	if !res.FieldsPresent || !res.DateValid || !res.MICRReadable || !res.AmountMatch {
		t.Fatalf("sub-checks: %+v", res)
	}
	if res.FailureReason != "" {
		t.Fatalf("FailureReason = %q, want empty", res.FailureReason)
	}
}

func TestRun_IsDeterministic(t *testing.T) {
	in := goodInput()
	first := Run(in, DefaultConfig())
	for i := 0; i < 5; i++ {
		if got := Run(in, DefaultConfig()); got != first {
			t.Fatalf("replay %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestRun_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Input)
		reason string
	}{
		{"missing payee", func(in *Input) { in.PayeeName = "" }, "required fields missing"},
		{"zero amount", func(in *Input) { in.DeclaredAmount = decimal.Zero; in.OCRAmount = decimal.Zero }, "required fields missing"},
		{"post-dated", func(in *Input) { in.IssueDate = now.AddDate(0, 0, 7) }, "post-dated"},
		{"stale", func(in *Input) { in.IssueDate = now.AddDate(-1, 0, 0) }, "stale"},
		{"bad micr", func(in *Input) { in.MICRCode = "12-34" }, "micr:"},
		{"ocr mismatch", func(in *Input) { in.OCRAmount = decimal.NewFromInt(2500) }, "does not match"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := goodInput()
			tc.mutate(&in)
			res := Run(in, DefaultConfig())
			if res.Passed {
				t.Fatalf("Passed = true, want failure")
			}
			if !strings.Contains(res.FailureReason, tc.reason) {
				t.Fatalf("FailureReason = %q, want it to contain %q", res.FailureReason, tc.reason)
			}
		})
	}
}

func TestRun_ConcatenatesAllFailingChecks(t *testing.T) {
	in := goodInput()
	in.MICRCode = "garbage"
	in.OCRAmount = decimal.NewFromInt(1)
	res := Run(in, DefaultConfig())
	if res.Passed {
		t.Fatal("Passed = true, want failure")
	}
	if !strings.Contains(res.FailureReason, "micr:") || !strings.Contains(res.FailureReason, "does not match") {
		t.Fatalf("FailureReason = %q, want both failing checks listed", res.FailureReason)
	}
	if !strings.Contains(res.FailureReason, "; ") {
		t.Fatalf("FailureReason = %q, want '; ' separator", res.FailureReason)
	}
}

func TestParseMICR(t *testing.T) {
	m, err := ParseMICR(goodMICR)
	if err != nil {
		t.Fatalf("ParseMICR: %v", err)
	}
	if m.Routing != "123456789" || m.Account != "00123456789" || m.ChequeNumber != "000501" {
		t.Fatalf("unexpected parse: %+v", m)
	}

	bad := []string{
		"",
		"123456789",                       // only one group
		"12345678 00123456789 000501",     // routing not 9 digits
		"123456789 12345 000501",          // account too short
		"123456789 00123456789 001",       // serial too short
	}
	for _, raw := range bad {
		if _, err := ParseMICR(raw); err == nil {
			t.Errorf("ParseMICR(%q) = nil error, want failure", raw)
		}
	}
}
