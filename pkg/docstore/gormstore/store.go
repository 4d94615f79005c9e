// Package gormstore implements docstore.Store on top of a SQL database through
// gorm. Each collection maps to a table of the same name; identifiers are
// UUID strings generated on create.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/storyboard-backend/pkg/db"
	"github.com/angelmondragon/storyboard-backend/pkg/docstore"
)

// seqColumn keeps insertion order on postgres, which has no stable rowid.
// It is never mapped onto T.
const seqColumn = "docstore_seq"

type Store[T any] struct {
	db      *gorm.DB
	coll    docstore.Collection[T]
	orderBy string
}

var _ docstore.Store[struct{ ID string }] = (*Store[struct{ ID string }])(nil)

func New[T any](conn *gorm.DB, coll docstore.Collection[T]) (*Store[T], error) {
	if conn == nil {
		return nil, errors.New("gorm connection required")
	}
	if coll.Name == "" || coll.ID == nil {
		return nil, errors.New("collection name and id accessor required")
	}
	return &Store[T]{db: conn, coll: coll, orderBy: insertionOrder(conn)}, nil
}

// insertionOrder names the column that reflects insert order for the
// connection's dialect. Unknown dialects list in whatever order they return.
func insertionOrder(conn *gorm.DB) string {
	if conn.Dialector == nil {
		return ""
	}
	switch conn.Dialector.Name() {
	case "sqlite":
		return "rowid"
	case "postgres":
		return seqColumn
	}
	return ""
}

func (s *Store[T]) table(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table(s.coll.Name)
}

// Migrate creates or updates the backing table and its indexes.
func (s *Store[T]) Migrate(ctx context.Context) error {
	if err := s.table(ctx).AutoMigrate(new(T)); err != nil {
		return fmt.Errorf("migrate %s: %w", s.coll.Name, err)
	}
	if s.orderBy == seqColumn {
		err := s.db.WithContext(ctx).Exec(
			"ALTER TABLE ? ADD COLUMN IF NOT EXISTS ? BIGSERIAL",
			clause.Table{Name: s.coll.Name}, clause.Column{Name: seqColumn},
		).Error
		if err != nil {
			return fmt.Errorf("migrate %s: sequence column: %w", s.coll.Name, err)
		}
	}
	return nil
}

func (s *Store[T]) Create(ctx context.Context, record *T) (*T, error) {
	if record == nil {
		return nil, errors.New("record required")
	}
	row := *record
	id := s.coll.ID(&row)
	if *id == "" {
		*id = uuid.NewString()
	}

	if err := s.table(ctx).Create(&row).Error; err != nil {
		return nil, s.translate("insert", err)
	}

	created, err := s.GetOne(ctx, docstore.ByID(*id))
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("%s %s missing after insert", s.coll.Name, *id)
	}
	return created, nil
}

func (s *Store[T]) List(ctx context.Context, filter docstore.Filter, limit int) ([]T, error) {
	rows := make([]T, 0)
	err := s.where(ctx, filter).
		Limit(docstore.EffectiveLimit(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, s.translate("list", err)
	}
	return rows, nil
}

func (s *Store[T]) GetOne(ctx context.Context, filter docstore.Filter) (*T, error) {
	rows := make([]T, 0, 1)
	if err := s.where(ctx, filter).Limit(1).Find(&rows).Error; err != nil {
		return nil, s.translate("get", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *Store[T]) Update(ctx context.Context, filter docstore.Filter, patch docstore.Patch) (*T, error) {
	existing, err := s.GetOne(ctx, filter)
	if err != nil || existing == nil {
		return nil, err
	}
	id := *s.coll.ID(existing)

	fields := docstore.WithoutID(patch)
	if len(fields) == 0 {
		return existing, nil
	}

	err = s.db.WithContext(ctx).
		Model(new(T)).
		Table(s.coll.Name).
		Where(docstore.FieldID+" = ?", id).
		Updates(map[string]any(fields)).Error
	if err != nil {
		return nil, s.translate("update", err)
	}
	return s.GetOne(ctx, docstore.ByID(id))
}

func (s *Store[T]) Delete(ctx context.Context, filter docstore.Filter) (bool, error) {
	existing, err := s.GetOne(ctx, filter)
	if err != nil || existing == nil {
		return false, err
	}

	res := s.table(ctx).Where(docstore.FieldID+" = ?", *s.coll.ID(existing)).Delete(new(T))
	if res.Error != nil {
		return false, s.translate("delete", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *Store[T]) where(ctx context.Context, filter docstore.Filter) *gorm.DB {
	q := s.table(ctx)
	if len(filter) > 0 {
		q = q.Where(map[string]any(filter))
	}
	if s.orderBy != "" {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: s.orderBy, Raw: true}})
	}
	return q
}

func (s *Store[T]) translate(op string, err error) error {
	if db.IsUniqueViolation(err, "") {
		return fmt.Errorf("%s %s: %w: %v", op, s.coll.Name, docstore.ErrDuplicate, err)
	}
	return fmt.Errorf("%s %s: %w", op, s.coll.Name, err)
}
