package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// This stage is a deterministic, side-effect-free classifier over the fields
// the vision collaborator extracted. It never touches the database, so any
// outcome can be reproduced by replaying the literal field set.

type Config struct {
	// FutureGrace allows slightly post-dated cheques (clock skew, same-day
	// deposits across timezones).
	FutureGrace time.Duration
	// StaleAfter is the legal presentment window counted from the issue date.
	StaleAfter time.Duration
}

func DefaultConfig() Config {
	return Config{
		FutureGrace: 24 * time.Hour,
		StaleAfter:  180 * 24 * time.Hour,
	}
}

type Input struct {
	ChequeNumber   string
	PayeeName      string
	DeclaredAmount decimal.Decimal
	OCRAmount      decimal.Decimal
	IssueDate      time.Time
	MICRCode       string
	// Now is injected so replays are deterministic.
	Now time.Time
}

type Result struct {
	FieldsPresent bool
	DateValid     bool
	MICRReadable  bool
	AmountMatch   bool
	Passed        bool
	FailureReason string
}

// MICR holds the decoded code line: routing, account and cheque serial.
type MICR struct {
	Routing      string
	Account      string
	ChequeNumber string
}

// micrSymbols are the E-13B delimiters that bracket the digit groups.
var micrSymbols = regexp.MustCompile(`[⑆⑇⑈⑉:;\-\s]+`)

// ParseMICR decodes a MICR code line into its digit groups: a 9-digit routing
// number, a 6-12 digit account number and a cheque serial of at least 4 digits.
func ParseMICR(raw string) (MICR, error) {
	groups := splitDigits(micrSymbols.ReplaceAllString(raw, " "))
	if len(groups) < 3 {
		return MICR{}, fmt.Errorf("micr: want 3 digit groups, got %d", len(groups))
	}
	m := MICR{Routing: groups[0], Account: groups[1], ChequeNumber: groups[2]}
	if len(m.Routing) != 9 {
		return MICR{}, fmt.Errorf("micr: routing number %q is not 9 digits", m.Routing)
	}
	if len(m.Account) < 6 || len(m.Account) > 12 {
		return MICR{}, fmt.Errorf("micr: account number %q out of range", m.Account)
	}
	if len(m.ChequeNumber) < 4 {
		return MICR{}, fmt.Errorf("micr: cheque serial %q too short", m.ChequeNumber)
	}
	return m, nil
}

func splitDigits(s string) []string {
	var groups []string
	var cur strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			cur.WriteRune(r)
			continue
		}
		if cur.Len() > 0 {
			groups = append(groups, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		groups = append(groups, cur.String())
	}
	return groups
}

// Run executes all sub-checks; Passed is true only when every one passes.
// FailureReason concatenates the failing checks in the order they ran.
func Run(in Input, cfg Config) Result {
	var res Result
	var reasons []string

	res.FieldsPresent = in.ChequeNumber != "" && in.PayeeName != "" &&
		!in.IssueDate.IsZero() && in.DeclaredAmount.IsPositive()
	if !res.FieldsPresent {
		reasons = append(reasons, "required fields missing or amount not positive")
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	switch {
	case in.IssueDate.IsZero():
		reasons = append(reasons, "issue date missing")
	case in.IssueDate.After(now.Add(cfg.FutureGrace)):
		reasons = append(reasons, "cheque is post-dated beyond grace period")
	case in.IssueDate.Before(now.Add(-cfg.StaleAfter)):
		reasons = append(reasons, "cheque is stale (outside presentment window)")
	default:
		res.DateValid = true
	}

	if _, err := ParseMICR(in.MICRCode); err != nil {
		reasons = append(reasons, err.Error())
	} else {
		res.MICRReadable = true
	}

	res.AmountMatch = in.OCRAmount.Equal(in.DeclaredAmount)
	if !res.AmountMatch {
		reasons = append(reasons, fmt.Sprintf("OCR amount %s does not match declared %s",
			in.OCRAmount.StringFixed(2), in.DeclaredAmount.StringFixed(2)))
	}

	res.Passed = res.FieldsPresent && res.DateValid && res.MICRReadable && res.AmountMatch
	if !res.Passed {
		res.FailureReason = strings.Join(reasons, "; ")
	}
	return res
}
