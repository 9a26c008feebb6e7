package verification

import (
	"fmt"
	"strings"

	domain "chequemate-backend/internal/domain/verification"
)

// ScreeningHits carries the central-clearing escalation into the composite
// score. Hits bias the score and can force the risk floor; they never reject
// a cheque on their own.
type ScreeningHits struct {
	Blacklist   bool
	Duplicate   bool
	StopPayment bool
}

func (h ScreeningHits) any() bool { return h.Blacklist || h.Duplicate || h.StopPayment }

// Assessment is the pure output of the engine for one cheque.
type Assessment struct {
	Features   Features
	Factors    domain.RiskFactorList
	Score      float64 // composite fraud risk, always within [0,100]
	RiskLevel  domain.RiskLevel
	Decision   domain.Decision
	Confidence float64
	Reasoning  string
	// InsufficientFunds is set when the amount exceeds the drawer balance;
	// the caller records the bounce.
	InsufficientFunds bool
}

// Evaluate combines the triggered factor weights with the raw signature term
// and screening escalation, clamps to [0,100], buckets, and maps the
// automated decision. It is deterministic: equal inputs give equal output.
func Evaluate(in FeatureInput, hits ScreeningHits, cfg Config) Assessment {
	f := ComputeFeatures(in, cfg)
	factors := evaluateRules(f, cfg)

	score := (100 - f.SignatureScore) * cfg.SignatureWeight
	for _, fac := range factors {
		score += cfg.severityWeight(fac.Severity)
	}
	if hits.Blacklist {
		score += cfg.BlacklistEscalation
	}
	if hits.StopPayment {
		score += cfg.StopPaymentEscalation
	}
	if hits.Duplicate {
		score += cfg.DuplicateEscalation
	}
	score = clamp(score, 0, 100)

	level := cfg.Bucket(score)
	if hits.Blacklist {
		// A blacklist match always escalates to at least high.
		level = level.AtLeast(domain.RiskHigh)
	}

	a := Assessment{
		Features:   f,
		Factors:    factors,
		Score:      score,
		RiskLevel:  level,
		Confidence: score / 100,
	}

	a.InsufficientFunds = in.Amount > in.Balance
	a.Decision = decide(a, hits, cfg)
	a.Reasoning = reasoning(a, hits)
	return a
}

func decide(a Assessment, hits ScreeningHits, cfg Config) domain.Decision {
	switch {
	case a.Features.SignatureScore < cfg.HardSignatureFloor:
		return domain.DecisionReject
	case a.InsufficientFunds:
		return domain.DecisionReject
	case a.RiskLevel == domain.RiskLow:
		if hits.any() {
			// Screening hits keep the cheque in front of a human even when
			// the behavioral picture is clean.
			return domain.DecisionFlagForReview
		}
		return domain.DecisionApprove
	default:
		// medium, high and critical all go to review.
		return domain.DecisionFlagForReview
	}
}

func reasoning(a Assessment, hits ScreeningHits) string {
	var parts []string
	if hits.Blacklist {
		parts = append(parts, "drawer matched an active blacklist entry")
	}
	if hits.Duplicate {
		parts = append(parts, "cheque number was already presented for this account")
	}
	if hits.StopPayment {
		parts = append(parts, "stop payment is set on the referenced leaf")
	}
	for _, f := range a.Factors {
		if f.Severity != domain.SeveritySafe {
			parts = append(parts, f.Description)
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "no anomalies detected; cheque appears normal")
	}
	if a.InsufficientFunds {
		parts = append(parts, "amount exceeds the drawer account balance")
	}
	return fmt.Sprintf("risk %.1f (%s): %s", a.Score, a.RiskLevel, strings.Join(parts, "; "))
}

// FlagPriority maps the assessment onto a review-queue priority.
func FlagPriority(level domain.RiskLevel) domain.Priority {
	switch level {
	case domain.RiskCritical:
		return domain.PriorityUrgent
	case domain.RiskHigh:
		return domain.PriorityHigh
	case domain.RiskMedium:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
