package verification

import (
	"fmt"

	domain "chequemate-backend/internal/domain/verification"
)

// riskRule is one entry of the declarative factor table: a predicate over the
// computed features plus the severity and description it contributes when it
// fires. The table replaces ad-hoc if/else accumulation so each rule can be
// tested on its own and thresholds stay in Config.
type riskRule struct {
	name string
	eval func(f Features, cfg Config) (fired bool, sev domain.Severity, desc string)
}

var riskRules = []riskRule{
	{
		name: "unusual_amount",
		eval: func(f Features, cfg Config) (bool, domain.Severity, string) {
			if f.AmountZscore <= cfg.ZScoreTrigger {
				return false, "", ""
			}
			sev := domain.SeverityMedium
			if f.AmountZscore > cfg.ZScoreHigh {
				sev = domain.SeverityHigh
			}
			return true, sev, fmt.Sprintf("amount is %.1f standard deviations above the account average", f.AmountZscore)
		},
	},
	{
		name: "exceeds_max",
		eval: func(f Features, cfg Config) (bool, domain.Severity, string) {
			if !f.ExceedsMax {
				return false, "", ""
			}
			return true, domain.SeverityMedium, "amount exceeds the historical maximum transaction"
		},
	},
	{
		name: "high_balance_ratio",
		eval: func(f Features, cfg Config) (bool, domain.Severity, string) {
			if f.AmountToBalanceRatio <= cfg.BalanceRatioTrigger {
				return false, "", ""
			}
			return true, domain.SeverityHigh, fmt.Sprintf("cheque is %.0f%% of the account balance", f.AmountToBalanceRatio*100)
		},
	},
	{
		name: "new_payee",
		eval: func(f Features, cfg Config) (bool, domain.Severity, string) {
			if !f.IsNewPayee {
				return false, "", ""
			}
			sev := domain.SeverityLow
			if f.AmountToMaxRatio > cfg.MaxRatioHighNewPayee {
				sev = domain.SeverityHigh
			}
			return true, sev, "payment to a payee with no history on this account"
		},
	},
	{
		name: "unusual_time",
		eval: func(f Features, cfg Config) (bool, domain.Severity, string) {
			if !f.IsUnusualTime {
				return false, "", ""
			}
			return true, domain.SeverityMedium, fmt.Sprintf("processed outside usual activity hours (%02d:00)", f.HourOfDay)
		},
	},
	{
		name: "weekend_issue",
		eval: func(f Features, cfg Config) (bool, domain.Severity, string) {
			if !f.IsWeekend {
				return false, "", ""
			}
			return true, domain.SeverityLow, "processed on a weekend"
		},
	},
	{
		name: "high_velocity",
		eval: func(f Features, cfg Config) (bool, domain.Severity, string) {
			if f.Velocity24h <= cfg.Velocity24hTrigger {
				return false, "", ""
			}
			return true, domain.SeverityMedium, fmt.Sprintf("%d cheques presented in the trailing 24 hours", f.Velocity24h)
		},
	},
	{
		name: "dormant_account",
		eval: func(f Features, cfg Config) (bool, domain.Severity, string) {
			if !f.IsDormant {
				return false, "", ""
			}
			return true, domain.SeverityHigh, fmt.Sprintf("account was dormant for %d days before this cheque", f.DaysSinceLastTxn)
		},
	},
	{
		name: "signature_mismatch",
		eval: func(f Features, cfg Config) (bool, domain.Severity, string) {
			if f.SignatureScore >= cfg.WeakSignature {
				return false, "", ""
			}
			sev := domain.SeverityMedium
			if f.SignatureScore < cfg.HardSignatureFloor {
				sev = domain.SeverityHigh
			}
			return true, sev, fmt.Sprintf("low signature verification confidence (%.0f%%)", f.SignatureScore)
		},
	},
	{
		name: "high_bounce_rate",
		eval: func(f Features, cfg Config) (bool, domain.Severity, string) {
			if f.BounceRate <= cfg.BounceRateTrigger {
				return false, "", ""
			}
			return true, domain.SeverityMedium, fmt.Sprintf("account has a %.1f%% cheque bounce rate", f.BounceRate*100)
		},
	},
}

// evaluateRules walks the table in order and appends every factor that fires,
// then adds the safe factors for clearly-normal indicators so a reviewer sees
// positives as well as negatives.
func evaluateRules(f Features, cfg Config) domain.RiskFactorList {
	var out domain.RiskFactorList
	for _, r := range riskRules {
		if fired, sev, desc := r.eval(f, cfg); fired {
			out = append(out, domain.RiskFactor{Factor: r.name, Severity: sev, Description: desc})
		}
	}

	if f.SignatureScore >= cfg.StrongSignature {
		out = append(out, domain.RiskFactor{
			Factor:      "signature_strong_match",
			Severity:    domain.SeveritySafe,
			Description: fmt.Sprintf("signature matches the reference with %.0f%% confidence", f.SignatureScore),
		})
	}
	if f.ProfileFound && f.AmountZscore < 1 && f.AmountZscore > -1 && f.AmountToMaxRatio < 0.8 {
		out = append(out, domain.RiskFactor{
			Factor:      "amount_in_range",
			Severity:    domain.SeveritySafe,
			Description: "amount is well within the account's historical range",
		})
	}
	return out
}
