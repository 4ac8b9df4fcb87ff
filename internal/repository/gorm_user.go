package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/access"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userAddress is a row of the user/address join table.
type userAddress struct {
	UserID    uint `gorm:"primaryKey"`
	AddressID uint `gorm:"primaryKey"`
}

func (userAddress) TableName() string {
	return "user_addresses"
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) scoped(ctx context.Context, scope access.Scope) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.User{}).Scopes(access.ForScope(scope, "id"))
}

func withAddresses(db *gorm.DB) *gorm.DB {
	return db.Preload("Addresses", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("addresses.id")
	})
}

func (r *GormUserRepository) List(ctx context.Context, q Query) ([]models.User, int64, error) {
	if q.Scope.Empty() {
		return []models.User{}, 0, nil
	}

	var total int64
	if err := r.scoped(ctx, q.Scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	var users []models.User
	query := withAddresses(r.scoped(ctx, q.Scope)).Order("date_joined DESC").Order("id DESC")
	if err := paginate(query, q).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (r *GormUserRepository) Get(ctx context.Context, scope access.Scope, id uint) (*models.User, error) {
	if scope.Empty() {
		return nil, ErrNotFound
	}
	var u models.User
	if err := withAddresses(r.scoped(ctx, scope)).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *GormUserRepository) GetByUsername(ctx context.Context, scope access.Scope, username string) (*models.User, error) {
	if scope.Empty() {
		return nil, ErrNotFound
	}
	var u models.User
	if err := withAddresses(r.scoped(ctx, scope)).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *GormUserRepository) Create(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(u).Error; err != nil {
			return translate(err)
		}
		return linkAddresses(tx, u.ID, u.AddressIDs())
	})
}

func (r *GormUserRepository) Update(ctx context.Context, u *models.User, replaceAddresses bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(u).Select("*").Omit("id", "username", "date_joined", clause.Associations).Updates(u)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if !replaceAddresses {
			return nil
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&userAddress{}).Error; err != nil {
			return fmt.Errorf("unlink addresses: %w", err)
		}
		return linkAddresses(tx, u.ID, u.AddressIDs())
	})
}

func (r *GormUserRepository) Delete(ctx context.Context, scope access.Scope, id uint) (bool, error) {
	if scope.Empty() {
		return false, nil
	}
	res := r.db.WithContext(ctx).Scopes(access.ForScope(scope, "id")).Delete(&models.User{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete user: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func linkAddresses(tx *gorm.DB, userID uint, addressIDs []uint) error {
	if len(addressIDs) == 0 {
		return nil
	}
	rows := make([]userAddress, len(addressIDs))
	for i, id := range addressIDs {
		rows[i] = userAddress{UserID: userID, AddressID: id}
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("link addresses: %w", err)
	}
	return nil
}

func paginate(db *gorm.DB, q Query) *gorm.DB {
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	if q.Offset > 0 {
		db = db.Offset(q.Offset)
	}
	return db
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return fmt.Errorf("db error: %w", err)
}
