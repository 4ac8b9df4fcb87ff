package access

import "gorm.io/gorm"

type scopeMode uint8

const (
	scopeAll scopeMode = iota
	scopeNone
	scopeOwner
)

// Scope restricts which rows of a resource are visible to a request.
type Scope struct {
	mode    scopeMode
	ownerID uint
}

func AllRows() Scope { return Scope{mode: scopeAll} }

func NoRows() Scope { return Scope{mode: scopeNone} }

// OnlyRow limits the scope to the row whose key equals id.
func OnlyRow(id uint) Scope { return Scope{mode: scopeOwner, ownerID: id} }

// Empty reports whether the scope can never match a row.
func (s Scope) Empty() bool { return s.mode == scopeNone }

// Row returns the single visible row key, if the scope is row-limited.
func (s Scope) Row() (uint, bool) {
	return s.ownerID, s.mode == scopeOwner
}

// Allows reports whether the row keyed by id is visible.
func (s Scope) Allows(id uint) bool {
	switch s.mode {
	case scopeAll:
		return true
	case scopeOwner:
		return s.ownerID == id
	}
	return false
}

// ForScope returns a GORM scope that applies s to column.
func ForScope(s Scope, column string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch s.mode {
		case scopeNone:
			return db.Where("1 = 0")
		case scopeOwner:
			return db.Where(column+" = ?", s.ownerID)
		}
		return db
	}
}
