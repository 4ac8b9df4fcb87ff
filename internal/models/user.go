package models

import (
	"strings"
	"time"
)

var (
	Salutations = []string{"mr", "mrs", "miss", "dr", "prof"}
	Genders     = []string{"male", "female", "other"}
)

// User is an account record. Username is the natural key for profiles,
// ID for the user resource.
type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Username    string     `gorm:"size:150;not null;uniqueIndex" json:"username" validate:"required,max=150,username"`
	Password    string     `gorm:"size:128;not null;default:''" json:"-"`
	FirstName   string     `gorm:"size:150;not null;default:''" json:"first_name" validate:"max=150"`
	LastName    string     `gorm:"size:150;not null;default:''" json:"last_name" validate:"max=150"`
	Name        string     `gorm:"size:255;not null;default:''" json:"name" validate:"max=255"`
	Email       string     `gorm:"size:254;not null;default:''" json:"email" validate:"omitempty,email,max=254"`
	Avatar      *string    `gorm:"size:255" json:"avatar" validate:"omitempty,max=255"`
	Bio         string     `gorm:"size:500;not null;default:''" json:"bio" validate:"max=500"`
	Salutation  string     `gorm:"size:10;not null;default:''" json:"salutation" validate:"omitempty,oneof=mr mrs miss dr prof"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth"`
	Gender      string     `gorm:"size:10;not null;default:''" json:"gender" validate:"omitempty,oneof=male female other"`
	PhoneHome   *string    `gorm:"size:12" json:"phone_home" validate:"omitempty,max=12,phone"`
	PhoneWork   *string    `gorm:"size:12" json:"phone_work" validate:"omitempty,max=12,phone"`
	Mobile      *string    `gorm:"size:12" json:"mobile" validate:"omitempty,max=12,phone"`
	DateJoined  time.Time  `gorm:"not null;index" json:"date_joined"`
	Addresses   []Address  `gorm:"many2many:user_addresses;" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName returns the stored name, falling back to "first last".
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// AddressIDs returns the ids of the attached addresses in attachment order.
func (u *User) AddressIDs() []uint {
	ids := make([]uint, len(u.Addresses))
	for i, a := range u.Addresses {
		ids[i] = a.ID
	}
	return ids
}
