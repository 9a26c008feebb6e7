package clearing

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Disposition string

const (
	DispositionPending   Disposition = "pending"
	DispositionForwarded Disposition = "forwarded"
	DispositionResponded Disposition = "responded"
)

var ErrNotFound = errors.New("clearing record not found")

// InitialValidationResult is written once per cheque by the presenting bank
// and never mutated afterwards.
type InitialValidationResult struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"-"`
	ChequeID      uint64          `gorm:"uniqueIndex:ux_validations_cheque" json:"-"`
	FieldsPresent bool            `json:"fields_present"`
	DateValid     bool            `json:"date_valid"`
	MICRReadable  bool            `json:"micr_readable"`
	AmountMatch   bool            `json:"amount_match"`
	OCRAmount     decimal.Decimal `gorm:"type:decimal(18,2)" json:"ocr_amount"`
	Passed        bool            `json:"passed"`
	FailureReason string          `gorm:"type:text" json:"failure_reason,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (InitialValidationResult) TableName() string { return "initial_validation_results" }

// ClearingRecord tracks the central-clearing leg of a cheque: screening hits
// and the inter-bank routing. Same-bank deposits leave the routing fields nil.
type ClearingRecord struct {
	ID             uint64      `gorm:"primaryKey;column:id" json:"-"`
	ChequeID       uint64      `gorm:"uniqueIndex:ux_clearing_cheque" json:"-"`
	FromBankID     *uint64     `json:"-"`
	ToBankID       *uint64     `json:"-"`
	BlacklistHit   bool        `json:"blacklist_hit"`
	DuplicateHit   bool        `json:"duplicate_hit"`
	StopPaymentHit bool        `json:"stop_payment_hit"`
	Disposition    Disposition `gorm:"size:16;default:'pending'" json:"disposition"`
	ResponseStatus string      `gorm:"size:32" json:"response_status,omitempty"`
	ReceivedAt     *time.Time  `json:"received_at,omitempty"`
	ForwardedAt    *time.Time  `json:"forwarded_at,omitempty"`
	RespondedAt    *time.Time  `json:"responded_at,omitempty"`
	// Stale marks "forwarded but never responded" records found by the
	// background detector; it is a data-quality signal, not a timeout.
	Stale     bool      `gorm:"default:false" json:"stale"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ClearingRecord) TableName() string { return "clearing_records" }

// AnyHit reports whether screening found cause to escalate risk.
func (r *ClearingRecord) AnyHit() bool {
	return r.BlacklistHit || r.DuplicateHit || r.StopPaymentHit
}

type Repository interface {
	CreateValidationResult(ctx context.Context, v *InitialValidationResult) error
	GetValidationByChequeID(ctx context.Context, chequeID uint64) (*InitialValidationResult, error)

	CreateRecord(ctx context.Context, r *ClearingRecord) error
	GetRecordByChequeID(ctx context.Context, chequeID uint64) (*ClearingRecord, error)
	SaveRecord(ctx context.Context, r *ClearingRecord) error

	// MarkStaleForwardedBefore flags records still forwarded at cutoff and
	// returns how many were flagged.
	MarkStaleForwardedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
