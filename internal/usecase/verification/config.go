package verification

import domain "chequemate-backend/internal/domain/verification"

// Config is the canonical threshold table for the scoring engine. Every
// boundary that gates an automated decision lives here, not in the rules.
type Config struct {
	// Risk-level buckets: score < MediumScore is low, [MediumScore,HighScore)
	// medium, [HighScore,CriticalScore) high, >= CriticalScore critical.
	MediumScore   float64
	HighScore     float64
	CriticalScore float64

	// HardSignatureFloor forces an outright reject regardless of behavior.
	// WeakSignature triggers the signature_mismatch factor; StrongSignature
	// earns a safe factor.
	HardSignatureFloor float64
	WeakSignature      float64
	StrongSignature    float64

	ZScoreTrigger        float64 // unusual_amount fires above this
	ZScoreHigh           float64 // ...and escalates to high severity above this
	MaxRatioHighNewPayee float64 // new_payee severity is high past this amount/max ratio
	BalanceRatioTrigger  float64 // high_balance_ratio fires above this
	Velocity24hTrigger   int     // high_velocity fires strictly above this count
	DormantDays          int     // dormant_account fires past this inactivity
	BounceRateTrigger    float64 // high_bounce_rate fires above this
	NightEndHour         int     // hours < this are night
	NightStartHour       int     // hours > this are night

	// Composite weights.
	WeightLow       float64
	WeightMedium    float64
	WeightHigh      float64
	SignatureWeight float64 // applied to (100 - signatureScore)

	// Screening escalation added to the composite score.
	BlacklistEscalation   float64
	StopPaymentEscalation float64
	DuplicateEscalation   float64

	// DegradedSignatureScore substitutes when the signature service is down.
	DegradedSignatureScore float64

	Epsilon float64
}

func DefaultConfig() Config {
	return Config{
		MediumScore:   30,
		HighScore:     50,
		CriticalScore: 70,

		HardSignatureFloor: 50,
		WeakSignature:      70,
		StrongSignature:    90,

		ZScoreTrigger:        2,
		ZScoreHigh:           3,
		MaxRatioHighNewPayee: 1.5,
		BalanceRatioTrigger:  0.8,
		Velocity24hTrigger:   3,
		DormantDays:          90,
		BounceRateTrigger:    0.1,
		NightEndHour:         6,
		NightStartHour:       21,

		WeightLow:       10,
		WeightMedium:    20,
		WeightHigh:      35,
		SignatureWeight: 0.5,

		BlacklistEscalation:   50,
		StopPaymentEscalation: 40,
		DuplicateEscalation:   30,

		DegradedSignatureScore: 85,

		Epsilon: 1e-9,
	}
}

func (c Config) severityWeight(s domain.Severity) float64 {
	switch s {
	case domain.SeverityHigh:
		return c.WeightHigh
	case domain.SeverityMedium:
		return c.WeightMedium
	case domain.SeverityLow:
		return c.WeightLow
	default:
		return 0
	}
}

// Bucket maps a composite score onto its risk level.
func (c Config) Bucket(score float64) domain.RiskLevel {
	switch {
	case score >= c.CriticalScore:
		return domain.RiskCritical
	case score >= c.HighScore:
		return domain.RiskHigh
	case score >= c.MediumScore:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}
