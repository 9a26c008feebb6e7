package verification

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// rank orders risk levels so screening escalation can force a floor.
var rank = map[RiskLevel]int{RiskLow: 0, RiskMedium: 1, RiskHigh: 2, RiskCritical: 3}

// AtLeast returns the higher of the two levels.
func (r RiskLevel) AtLeast(floor RiskLevel) RiskLevel {
	if rank[r] < rank[floor] {
		return floor
	}
	return r
}

type Decision string

const (
	DecisionApprove       Decision = "approve"
	DecisionReject        Decision = "reject"
	DecisionFlagForReview Decision = "flag_for_review"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
	// SeveritySafe marks explainability factors for clearly-normal indicators;
	// they carry no score weight.
	SeveritySafe Severity = "safe"
)

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type FlagStatus string

const (
	FlagPending  FlagStatus = "pending"
	FlagRejected FlagStatus = "rejected"
	FlagResolved FlagStatus = "resolved"
)

var (
	ErrNotFound       = errors.New("deep verification not found")
	ErrFlagNotFound   = errors.New("fraud flag not found")
	ErrFlagNotPending = errors.New("fraud flag is not pending")
)

// RiskFactor is one triggered rule with its severity and explanation.
type RiskFactor struct {
	Factor      string   `json:"factor"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

type RiskFactorList []RiskFactor

func (l RiskFactorList) Value() (driver.Value, error) { return json.Marshal(l) }
func (l *RiskFactorList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, l)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported column type for risk factor list")
	}
}

// DeepVerification holds the drawer-bank risk assessment. At most one row
// exists per cheque (unique index on cheque_id); re-running verification
// updates the row in place.
type DeepVerification struct {
	ID             uint64 `gorm:"primaryKey;column:id" json:"-"`
	VerificationID string `gorm:"size:32;index" json:"verification_id"`
	ChequeID       uint64 `gorm:"uniqueIndex:ux_verifications_cheque" json:"-"`

	SignatureScore float64 `gorm:"type:decimal(6,2)" json:"signature_score"`
	SignatureMatch bool    `json:"signature_match"`
	BehaviorScore  float64 `gorm:"type:decimal(6,2)" json:"behavior_score"`

	UnusualAmount bool `json:"unusual_amount"`
	NewPayee      bool `json:"new_payee"`
	UnusualTime   bool `json:"unusual_time"`
	HighVelocity  bool `json:"high_velocity"`
	Dormant       bool `json:"dormant"`

	Velocity24h   int            `json:"velocity_24h"`
	BehaviorFlags RiskFactorList `gorm:"type:text" json:"behavior_flags"`

	FraudRiskScore float64   `gorm:"type:decimal(6,2)" json:"fraud_risk_score"`
	RiskLevel      RiskLevel `gorm:"size:16" json:"risk_level"`
	ModelAvailable bool      `json:"model_available"`

	AutoDecision   Decision `gorm:"size:24" json:"auto_decision"`
	AutoConfidence float64  `gorm:"type:decimal(6,4)" json:"auto_confidence"`
	Reasoning      string   `gorm:"type:text" json:"reasoning"`
	FinalDecision  Decision `gorm:"size:24" json:"final_decision,omitempty"`

	RunCount  int       `gorm:"default:1" json:"run_count"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DeepVerification) TableName() string { return "deep_verifications" }

// FraudFlag queues a cheque for human disposition. Assignment is persisted
// state with its own lifecycle, not console-local memory.
type FraudFlag struct {
	ID            uint64     `gorm:"primaryKey;column:id" json:"-"`
	FlagID        string     `gorm:"size:32;uniqueIndex:ux_flags_flag_id" json:"flag_id"`
	ChequeID      uint64     `gorm:"index" json:"-"`
	Priority      Priority   `gorm:"size:16" json:"priority"`
	PriorityRank  int        `gorm:"index:idx_flags_queue" json:"-"`
	Status        FlagStatus `gorm:"size:16;default:'pending';index:idx_flags_queue" json:"status"`
	AssignedTo    string     `gorm:"size:32" json:"assigned_to,omitempty"`
	ReviewerNotes string     `gorm:"type:text" json:"reviewer_notes,omitempty"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FraudFlag) TableName() string { return "fraud_flags" }

// PriorityRankOf maps priority to an ascending sort key (urgent first).
func PriorityRankOf(p Priority) int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

type SettlementStatus string

const (
	SettlementPending   SettlementStatus = "pending"
	SettlementCompleted SettlementStatus = "completed"
	SettlementFailed    SettlementStatus = "failed"
)

// Settlement records the debit/credit legs of an approved cheque. Its status
// is independent of the cheque status.
type Settlement struct {
	ID              uint64           `gorm:"primaryKey;column:id" json:"-"`
	SettlementID    string           `gorm:"size:32;uniqueIndex:ux_settlements_id" json:"settlement_id"`
	ChequeID        uint64           `gorm:"index" json:"-"`
	DebitAccountID  uint64           `json:"-"`
	CreditAccountID *uint64          `json:"-"`
	Amount          decimal.Decimal  `gorm:"type:decimal(18,2)" json:"amount"`
	Status          SettlementStatus `gorm:"size:16;default:'pending'" json:"status"`
	FailureReason   string           `gorm:"size:255" json:"failure_reason,omitempty"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Settlement) TableName() string { return "settlements" }

// BounceRecord captures an insufficient-funds rejection and its shortfall.
type BounceRecord struct {
	ID        uint64          `gorm:"primaryKey;column:id" json:"-"`
	ChequeID  uint64          `gorm:"index" json:"-"`
	AccountID uint64          `gorm:"index" json:"-"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	Shortfall decimal.Decimal `gorm:"type:decimal(18,2)" json:"shortfall"`
	Reason    string          `gorm:"size:255" json:"reason"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (BounceRecord) TableName() string { return "bounce_records" }
