package repository

import (
	"gorm.io/gorm"
)

// GormLookupRepository is a GORM implementation of LookupRepository for any
// reference table whose rows have a name column.
type GormLookupRepository[T any] struct {
	db *gorm.DB
}

func NewLookupRepository[T any](db *gorm.DB) LookupRepository[T] {
	return &GormLookupRepository[T]{db: db}
}

func (r *GormLookupRepository[T]) Create(item *T) error {
	return r.db.Create(item).Error
}

func (r *GormLookupRepository[T]) FindByID(id uint64) (*T, error) {
	var item T
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormLookupRepository[T]) FindByIDs(ids []uint64) ([]T, error) {
	var items []T
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormLookupRepository[T]) List() ([]T, error) {
	var items []T
	if err := r.db.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormLookupRepository[T]) Update(item *T) error {
	return r.db.Save(item).Error
}

func (r *GormLookupRepository[T]) Delete(id uint64) error {
	var item T
	return r.db.Delete(&item, id).Error
}
