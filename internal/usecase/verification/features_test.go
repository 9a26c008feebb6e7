package verification

import (
	"testing"
	"time"

	"chequemate-backend/internal/domain/account"

	"github.com/shopspring/decimal"
)

func TestComputeFeatures_NoProfileDefaults(t *testing.T) {
	f := ComputeFeatures(FeatureInput{
		Amount:         500,
		Balance:        2000,
		PayeeName:      "Anyone",
		At:             wednesdayMorning,
		SignatureScore: 90,
	}, DefaultConfig())

	if f.ProfileFound {
		t.Fatal("ProfileFound should be false without a profile")
	}
	if f.AmountZscore != 0 || f.AmountToMaxRatio != 1 {
		t.Fatalf("neutral defaults expected, got zscore=%v maxRatio=%v", f.AmountZscore, f.AmountToMaxRatio)
	}
	if !f.IsNewPayee {
		t.Fatal("every payee is new without history")
	}
	if f.IsDormant {
		t.Fatal("dormancy needs a last-activity timestamp")
	}
}

func TestComputeFeatures_VelocityIncludesCurrentCheque(t *testing.T) {
	f := ComputeFeatures(FeatureInput{At: wednesdayMorning, Velocity24h: 3, Velocity7d: 8}, DefaultConfig())
	if f.Velocity24h != 4 || f.Velocity7d != 9 {
		t.Fatalf("velocity = (%d, %d), want (4, 9)", f.Velocity24h, f.Velocity7d)
	}
}

func TestComputeFeatures_ZscoreAndMax(t *testing.T) {
	p := &account.CustomerBehaviorProfile{
		AvgTransactionAmt:    decimal.NewFromInt(1000),
		StddevTransactionAmt: decimal.NewFromInt(500),
		MaxTransactionAmt:    decimal.NewFromInt(5000),
	}
	f := ComputeFeatures(FeatureInput{Amount: 6000, Balance: 10000, At: wednesdayMorning, Profile: p}, DefaultConfig())

	if f.AmountZscore != 10 {
		t.Fatalf("zscore = %v, want 10", f.AmountZscore)
	}
	if !f.ExceedsMax {
		t.Fatal("6000 exceeds max 5000")
	}
	if f.AmountToMaxRatio != 1.2 {
		t.Fatalf("max ratio = %v, want 1.2", f.AmountToMaxRatio)
	}
}

func TestUnusualHour_ProfilePreferredOverNightWindow(t *testing.T) {
	cfg := DefaultConfig()
	p := &account.CustomerBehaviorProfile{UsualHours: account.IntList{22, 23}}

	// 22:00 is night by the fallback window but usual for this account.
	if unusualHour(22, p, cfg) {
		t.Fatal("hour present in the profile must not be unusual")
	}
	// 10:00 is daytime but this account never transacts then.
	if !unusualHour(10, p, cfg) {
		t.Fatal("hour absent from the profile must be unusual")
	}

	// Fallback window applies when there is no profile.
	if !unusualHour(2, nil, cfg) || !unusualHour(23, nil, cfg) {
		t.Fatal("night hours must be unusual without a profile")
	}
	if unusualHour(12, nil, cfg) {
		t.Fatal("midday must not be unusual without a profile")
	}
}

func TestComputeFeatures_Weekend(t *testing.T) {
	sat := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	if f := ComputeFeatures(FeatureInput{At: sat}, DefaultConfig()); !f.IsWeekend {
		t.Fatal("Saturday is a weekend")
	}
	if f := ComputeFeatures(FeatureInput{At: wednesdayMorning}, DefaultConfig()); f.IsWeekend {
		t.Fatal("Wednesday is not a weekend")
	}
}

func TestComputeFeatures_Dormancy(t *testing.T) {
	last := wednesdayMorning.Add(-91 * 24 * time.Hour)
	p := &account.CustomerBehaviorProfile{LastActivityAt: &last}
	f := ComputeFeatures(FeatureInput{At: wednesdayMorning, Profile: p}, DefaultConfig())
	if !f.IsDormant || f.DaysSinceLastTxn != 91 {
		t.Fatalf("dormant=%v days=%d, want dormant after 91 days", f.IsDormant, f.DaysSinceLastTxn)
	}

	recent := wednesdayMorning.Add(-89 * 24 * time.Hour)
	p.LastActivityAt = &recent
	if f := ComputeFeatures(FeatureInput{At: wednesdayMorning, Profile: p}, DefaultConfig()); f.IsDormant {
		t.Fatal("89 days is not dormant")
	}
}
