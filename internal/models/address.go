package models

// Address is a postal address. It has no owner column: users reference
// addresses through the user_addresses join table.
type Address struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Address1 string `gorm:"size:255;not null" json:"address1" validate:"required,max=255"`
	Address2 string `gorm:"size:255;not null;default:''" json:"address2" validate:"max=255"`
	Area     string `gorm:"size:255;not null;default:''" json:"area" validate:"max=255"`
	City     string `gorm:"size:255;not null" json:"city" validate:"required,max=255"`
	County   string `gorm:"size:255;not null;default:''" json:"county" validate:"max=255"`
	Postcode string `gorm:"size:255;not null;default:''" json:"postcode" validate:"max=255"`
	Country  string `gorm:"size:2;not null" json:"country" validate:"required,country"`
}

func (Address) TableName() string {
	return "addresses"
}
