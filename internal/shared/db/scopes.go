package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ForUpdate adds a SELECT ... FOR UPDATE row lock. SQLite has no row locks
// (a write transaction already serializes the database), so the clause is
// omitted there.
func ForUpdate() func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if tx.Dialector != nil && tx.Dialector.Name() == "sqlite" {
			return tx
		}
		return tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
}
