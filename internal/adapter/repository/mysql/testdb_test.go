package mysql

import (
	"testing"

	accountDomain "chequemate-backend/internal/domain/account"
	"chequemate-backend/internal/domain/bank"
	chequeDomain "chequemate-backend/internal/domain/cheque"
	clearingDomain "chequemate-backend/internal/domain/clearing"
	verifDomain "chequemate-backend/internal/domain/verification"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB with the full schema. The domain
// models migrate as-is: the schema avoids ENUM columns, and the sqlite driver
// ignores row-locking clauses.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&bank.Bank{},
		&accountDomain.Account{},
		&accountDomain.CustomerBehaviorProfile{},
		&accountDomain.Transaction{},
		&accountDomain.BlacklistEntry{},
		&chequeDomain.ChequeBook{},
		&chequeDomain.ChequeLeaf{},
		&chequeDomain.Cheque{},
		&clearingDomain.InitialValidationResult{},
		&clearingDomain.ClearingRecord{},
		&verifDomain.DeepVerification{},
		&verifDomain.FraudFlag{},
		&verifDomain.Settlement{},
		&verifDomain.BounceRecord{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
