package cheque

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Status string

const (
	StatusReceived         Status = "received"
	StatusValidated        Status = "validated"
	StatusValidationFailed Status = "validation_failed"
	StatusClearing         Status = "clearing"
	StatusAtDrawerBank     Status = "at_drawer_bank"
	StatusApproved         Status = "approved"
	StatusRejected         Status = "rejected"
	StatusFlagged          Status = "flagged"
)

var (
	ErrNotFound          = errors.New("cheque not found")
	ErrInvalidTransition = errors.New("invalid cheque state transition")
	ErrLeafNotFound      = errors.New("cheque leaf not found")
	ErrLeafAlreadyUsed   = errors.New("cheque leaf already consumed")
)

// transitions is the single source of truth for the lifecycle graph.
// clearing→approved/rejected/flagged exists only for the same-bank shortcut,
// where deep verification runs inline instead of after an inter-bank handoff.
var transitions = map[Status][]Status{
	StatusReceived:     {StatusValidated, StatusValidationFailed},
	StatusValidated:    {StatusClearing},
	StatusClearing:     {StatusAtDrawerBank, StatusApproved, StatusRejected, StatusFlagged},
	StatusAtDrawerBank: {StatusApproved, StatusRejected, StatusFlagged},
	StatusFlagged:      {StatusApproved, StatusRejected},
}

// CanTransition reports whether from→to is a legal lifecycle edge.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func Terminal(s Status) bool { return len(transitions[s]) == 0 }

type LeafStatus string

const (
	LeafUnused    LeafStatus = "unused"
	LeafUsed      LeafStatus = "used"
	LeafCancelled LeafStatus = "cancelled"
	LeafStopped   LeafStatus = "stopped"
	LeafLost      LeafStatus = "lost"
)

// ChequeBook owns a contiguous serial range of leaves.
type ChequeBook struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"-"`
	BookID      string    `gorm:"size:32;uniqueIndex:ux_books_book_id" json:"book_id"`
	AccountID   uint64    `gorm:"index" json:"-"`
	SerialStart int       `json:"serial_start"`
	SerialEnd   int       `json:"serial_end"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ChequeBook) TableName() string { return "cheque_books" }

// ChequeLeaf is one physical cheque form. It moves unused→used exactly once,
// when the Cheque referencing it is created.
type ChequeLeaf struct {
	ID           uint64     `gorm:"primaryKey;column:id" json:"-"`
	ChequeBookID uint64     `gorm:"uniqueIndex:ux_leaves_book_number" json:"-"`
	ChequeNumber string     `gorm:"size:32;uniqueIndex:ux_leaves_book_number" json:"cheque_number"`
	Status       LeafStatus `gorm:"size:16;default:'unused'" json:"status"`
	StopPayment  bool       `gorm:"default:false" json:"stop_payment"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ChequeLeaf) TableName() string { return "cheque_leaves" }

// Cheque is the central entity of the clearing pipeline. Status moves only
// through the transition graph above, always via a guarded conditional update.
type Cheque struct {
	ID           uint64 `gorm:"primaryKey;column:id" json:"-"`
	ChequeID     string `gorm:"size:32;uniqueIndex:ux_cheques_cheque_id" json:"cheque_id"`
	// ChequeNumber is indexed but deliberately not unique: re-issued numbers
	// across books can coincide; duplicates are a screening rule.
	ChequeNumber        string          `gorm:"size:32;index:idx_cheques_number" json:"cheque_number"`
	LeafID              uint64          `gorm:"index" json:"-"`
	DrawerAccountID     uint64          `gorm:"index" json:"-"`
	DrawerBankID        uint64          `json:"-"`
	PresentingAccountID *uint64         `json:"-"`
	PresentingBankID    *uint64         `json:"-"`
	PayeeName           string          `gorm:"size:128" json:"payee_name"`
	Amount              decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	// OCRAmount is the vision-extracted amount kept for the initial
	// validation cross-check against the declared amount.
	OCRAmount           decimal.Decimal `gorm:"type:decimal(18,2)" json:"ocr_amount"`
	IssueDate           time.Time       `json:"issue_date"`
	MICRCode            string          `gorm:"size:64" json:"micr_code"`
	SameBank            bool            `gorm:"default:false" json:"same_bank"`
	Status              Status          `gorm:"size:24;default:'received';index" json:"status"`
	// StatusVersion increments with every transition; the guarded update
	// checks it so concurrent consoles cannot race on the same cheque.
	StatusVersion   int            `gorm:"default:0" json:"-"`
	StatusUpdatedAt time.Time      `json:"status_updated_at"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Cheque) TableName() string { return "cheques" }
