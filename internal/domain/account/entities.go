package account

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Status string

const (
	StatusActive Status = "active"
	StatusFrozen Status = "frozen"
	StatusClosed Status = "closed"
)

var (
	ErrNotFound            = errors.New("account not found")
	ErrNotActive           = errors.New("account is not active")
	ErrInsufficientBalance = errors.New("insufficient account balance")
)

// Account belongs to exactly one bank. Rows are never deleted, only
// status-transitioned (active/frozen/closed).
type Account struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"-"`
	AccountID     string          `gorm:"size:32;uniqueIndex:ux_accounts_account_id" json:"account_id"`
	BankID        uint64          `gorm:"index" json:"-"`
	AccountNumber string          `gorm:"size:32;uniqueIndex:ux_accounts_number" json:"account_number"`
	HolderName    string          `gorm:"size:128" json:"holder_name"`
	NationalID    string          `gorm:"size:32;index" json:"national_id"`
	Balance       decimal.Decimal `gorm:"type:decimal(18,2)" json:"balance"`
	Status        Status          `gorm:"size:16;default:'active'" json:"status"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Account) TableName() string { return "accounts" }

// StringList / IntList are JSON-encoded text columns (regular payees, usual hours).

type StringList []string

func (l StringList) Value() (driver.Value, error) { return json.Marshal(l) }
func (l *StringList) Scan(src any) error          { return scanJSON(src, l) }

type IntList []int

func (l IntList) Value() (driver.Value, error) { return json.Marshal(l) }
func (l *IntList) Scan(src any) error          { return scanJSON(src, l) }

func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("unsupported column type for JSON list")
	}
}

// CustomerBehaviorProfile holds rolling statistics per account, maintained by
// a separate aggregation process. The scoring engine only reads it.
type CustomerBehaviorProfile struct {
	ID                   uint64          `gorm:"primaryKey;column:id" json:"-"`
	AccountID            uint64          `gorm:"uniqueIndex:ux_profiles_account" json:"-"`
	AvgTransactionAmt    decimal.Decimal `gorm:"type:decimal(18,2)" json:"avg_transaction_amt"`
	MaxTransactionAmt    decimal.Decimal `gorm:"type:decimal(18,2)" json:"max_transaction_amt"`
	MinTransactionAmt    decimal.Decimal `gorm:"type:decimal(18,2)" json:"min_transaction_amt"`
	StddevTransactionAmt decimal.Decimal `gorm:"type:decimal(18,2)" json:"stddev_transaction_amt"`
	TransactionCount     int             `json:"transaction_count"`
	BounceRate           float64         `gorm:"type:decimal(6,4)" json:"bounce_rate"`
	UniquePayeeCount     int             `json:"unique_payee_count"`
	RegularPayees        StringList      `gorm:"type:text" json:"regular_payees"`
	UsualHours           IntList         `gorm:"type:text" json:"usual_hours"`
	UsualDays            IntList         `gorm:"type:text" json:"usual_days"`
	LastActivityAt       *time.Time      `json:"last_activity_at"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CustomerBehaviorProfile) TableName() string { return "customer_behavior_profiles" }

// Transaction is the velocity source: trailing 24h/7d counts for an account.
type Transaction struct {
	ID        uint64          `gorm:"primaryKey;column:id" json:"-"`
	AccountID uint64          `gorm:"index:idx_txns_account_created" json:"-"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	PayeeName string          `gorm:"size:128" json:"payee_name"`
	CreatedAt time.Time       `gorm:"autoCreateTime;index:idx_txns_account_created" json:"created_at"`
}

func (Transaction) TableName() string { return "transactions" }

type BlacklistEntryType string

const (
	BlacklistAccount BlacklistEntryType = "account"
	BlacklistCheque  BlacklistEntryType = "cheque"
	BlacklistPerson  BlacklistEntryType = "person"
)

type BlacklistEntry struct {
	ID        uint64             `gorm:"primaryKey;column:id" json:"-"`
	EntryType BlacklistEntryType `gorm:"size:16" json:"entry_type"`
	// MatchKey is the account number, cheque number or national id the entry matches on.
	MatchKey string `gorm:"size:64;index" json:"match_key"`
	Reason   string `gorm:"type:text" json:"reason"`
	// No default tag: gorm would skip the zero value on insert and revive a
	// deactivated entry as active. The registry sets Active explicitly.
	Active    bool      `json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (BlacklistEntry) TableName() string { return "blacklist_entries" }
