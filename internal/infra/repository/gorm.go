package repository

import (
	"errors"

	"gorm.io/gorm"
)

// findFirst returns the first row by primary key, or nil when q matches
// nothing.
func findFirst[T any](q *gorm.DB) (*T, error) {
	var out T
	err := q.First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// getByID translates a missing row into the caller's NotFound error.
func getByID[T any](q *gorm.DB, id uint, notFound func(uint) error) (*T, error) {
	var out T
	err := q.First(&out, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func deleteByID[T any](q *gorm.DB, id uint, notFound func(uint) error) error {
	res := q.Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(id)
	}
	return nil
}
