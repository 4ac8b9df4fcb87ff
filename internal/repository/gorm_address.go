package repository

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/access"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/models"
	"gorm.io/gorm"
)

type GormAddressRepository struct {
	db *gorm.DB
}

func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

func (r *GormAddressRepository) scoped(ctx context.Context, scope access.Scope) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Address{}).Scopes(access.ForScope(scope, "id"))
}

func (r *GormAddressRepository) List(ctx context.Context, q Query) ([]models.Address, int64, error) {
	if q.Scope.Empty() {
		return []models.Address{}, 0, nil
	}

	var total int64
	if err := r.scoped(ctx, q.Scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count addresses: %w", err)
	}

	var addresses []models.Address
	if err := paginate(r.scoped(ctx, q.Scope).Order("id DESC"), q).Find(&addresses).Error; err != nil {
		return nil, 0, fmt.Errorf("list addresses: %w", err)
	}
	return addresses, total, nil
}

func (r *GormAddressRepository) Get(ctx context.Context, scope access.Scope, id uint) (*models.Address, error) {
	if scope.Empty() {
		return nil, ErrNotFound
	}
	var a models.Address
	if err := r.scoped(ctx, scope).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *GormAddressRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Address, error) {
	if len(ids) == 0 {
		return []models.Address{}, nil
	}
	var addresses []models.Address
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("find addresses: %w", err)
	}
	return addresses, nil
}

func (r *GormAddressRepository) Create(ctx context.Context, a *models.Address) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *GormAddressRepository) Update(ctx context.Context, a *models.Address) error {
	res := r.db.WithContext(ctx).Model(a).Select("*").Omit("id").Updates(a)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormAddressRepository) Delete(ctx context.Context, scope access.Scope, id uint) (bool, error) {
	if scope.Empty() {
		return false, nil
	}
	res := r.db.WithContext(ctx).Scopes(access.ForScope(scope, "id")).Delete(&models.Address{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete address: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
