package verification

import (
	"math"
	"time"

	"chequemate-backend/internal/domain/account"
)

// FeatureInput gathers everything the feature pipeline needs. Profile may be
// nil for brand-new accounts; features fall back to neutral defaults then.
type FeatureInput struct {
	Amount         float64
	Balance        float64
	PayeeName      string
	At             time.Time // cheque issue timestamp; calendar features key off it so re-runs agree
	Profile        *account.CustomerBehaviorProfile
	Velocity24h    int // trailing-window counts, excluding the current cheque
	Velocity7d     int
	SignatureScore float64
}

// Features are pure and deterministic given their input.
type Features struct {
	AmountZscore         float64
	AmountToMaxRatio     float64
	AmountToBalanceRatio float64
	ExceedsMax           bool
	IsNewPayee           bool
	Velocity24h          int // includes the current cheque
	Velocity7d           int
	DaysSinceLastTxn     int
	IsDormant            bool
	HourOfDay            int
	IsUnusualTime        bool
	IsWeekend            bool
	BounceRate           float64
	SignatureScore       float64
	ProfileFound         bool
}

func ComputeFeatures(in FeatureInput, cfg Config) Features {
	f := Features{
		Velocity24h:    in.Velocity24h + 1, // the cheque being scored counts
		Velocity7d:     in.Velocity7d + 1,
		HourOfDay:      in.At.Hour(),
		SignatureScore: in.SignatureScore,
	}

	p := in.Profile
	if p != nil {
		f.ProfileFound = true
		avg, _ := p.AvgTransactionAmt.Float64()
		std, _ := p.StddevTransactionAmt.Float64()
		maxAmt, _ := p.MaxTransactionAmt.Float64()
		f.AmountZscore = (in.Amount - avg) / math.Max(std, cfg.Epsilon)
		f.AmountToMaxRatio = in.Amount / math.Max(maxAmt, cfg.Epsilon)
		f.ExceedsMax = in.Amount > maxAmt
		f.BounceRate = p.BounceRate
	} else {
		// No history yet: neutral amount features, but an unknown payee.
		f.AmountZscore = 0
		f.AmountToMaxRatio = 1
	}

	f.AmountToBalanceRatio = in.Amount / math.Max(in.Balance, cfg.Epsilon)

	f.IsNewPayee = true
	if p != nil {
		for _, payee := range p.RegularPayees {
			if payee == in.PayeeName {
				f.IsNewPayee = false
				break
			}
		}
	}

	if p != nil && p.LastActivityAt != nil {
		f.DaysSinceLastTxn = int(in.At.Sub(*p.LastActivityAt).Hours() / 24)
		f.IsDormant = f.DaysSinceLastTxn > cfg.DormantDays
	}

	f.IsWeekend = in.At.Weekday() == time.Saturday || in.At.Weekday() == time.Sunday
	f.IsUnusualTime = unusualHour(f.HourOfDay, p, cfg)

	return f
}

// unusualHour prefers the profile's observed hours; absent a profile it falls
// back to the night window.
func unusualHour(hour int, p *account.CustomerBehaviorProfile, cfg Config) bool {
	if p != nil && len(p.UsualHours) > 0 {
		for _, h := range p.UsualHours {
			if h == hour {
				return false
			}
		}
		return true
	}
	return hour < cfg.NightEndHour || hour > cfg.NightStartHour
}
