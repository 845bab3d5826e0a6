package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// recordStore is the create/read/update/delete/filter surface shared by the
// plain back-office tables. pk is the primary key column; nameColumn, when
// set, enables substring filtering in FindAll.
type recordStore[T any] struct {
	db         *gorm.DB
	pk         string
	nameColumn string
}

func newRecordStore[T any](db *gorm.DB, pk, nameColumn string) recordStore[T] {
	return recordStore[T]{db: db, pk: pk, nameColumn: nameColumn}
}

func (s recordStore[T]) Create(ctx context.Context, rec *T) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

// CreateMany inserts every record in one transaction.
func (s recordStore[T]) CreateMany(ctx context.Context, recs []T) error {
	if len(recs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&recs).Error
	})
}

func (s recordStore[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var rec T
	if err := s.db.WithContext(ctx).First(&rec, s.pk+" = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindAll lists records ordered by primary key, optionally keeping only those
// whose name contains substr.
func (s recordStore[T]) FindAll(ctx context.Context, substr string) ([]T, error) {
	var recs []T
	q := s.db.WithContext(ctx).Order(s.pk + " ASC")
	if substr != "" && s.nameColumn != "" {
		q = q.Where(s.nameColumn+" LIKE ?", "%"+substr+"%")
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// Update writes only the given columns and returns gorm.ErrRecordNotFound
// when no row has that id.
func (s recordStore[T]) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	return updateFields[T](s.db.WithContext(ctx), s.pk, id, fields)
}

func (s recordStore[T]) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Where(s.pk+" = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func updateFields[T any](db *gorm.DB, pk string, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		var n int64
		if err := db.Model(new(T)).Where(pk+" = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}
	res := db.Model(new(T)).Where(pk+" = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// forUpdate adds a row lock on dialects that support SELECT ... FOR UPDATE.
// SQLite serializes writers at the database level instead.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
