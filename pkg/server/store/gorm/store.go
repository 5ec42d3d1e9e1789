package gorm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/store"
)

// Store implements store.Store on top of GORM.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// NewStore creates a new Store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction wraps operations in a database transaction.
func (s *Store) Transaction(ctx context.Context, fn func(store.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) query(ctx context.Context, paths []string) *gorm.DB {
	q := s.db.WithContext(ctx)
	for _, path := range paths {
		q = q.Preload(path)
	}
	return q
}

func (s *Store) Find(ctx context.Context, dst interface{}, id uint, paths ...string) error {
	return translate(s.query(ctx, paths).First(dst, id).Error)
}

func (s *Store) FindBy(ctx context.Context, dst interface{}, column string, value interface{}, paths ...string) error {
	return translate(s.query(ctx, paths).Where(eq(column, value)).First(dst).Error)
}

func (s *Store) FindAll(ctx context.Context, dst interface{}, ids []uint, paths ...string) error {
	return translate(s.query(ctx, paths).Where("id IN ?", ids).Order("id").Find(dst).Error)
}

func (s *Store) List(ctx context.Context, dst interface{}, paths ...string) error {
	return translate(s.query(ctx, paths).Order("id").Find(dst).Error)
}

func (s *Store) ListBy(ctx context.Context, dst interface{}, column string, value interface{}, paths ...string) error {
	return translate(s.query(ctx, paths).Where(eq(column, value)).Order("id").Find(dst).Error)
}

func (s *Store) Count(ctx context.Context, m interface{}, column string, value interface{}) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(m).Where(eq(column, value)).Count(&n).Error
	return n, translate(err)
}

func (s *Store) Insert(ctx context.Context, value interface{}) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(value).Error)
}

func (s *Store) Update(ctx context.Context, m interface{}, id uint, values map[string]interface{}) error {
	result := s.db.WithContext(ctx).Model(m).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, m interface{}, id uint) error {
	result := s.db.WithContext(ctx).Delete(m, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Link(ctx context.Context, rel store.Relation, ownerID uint, memberIDs []uint) error {
	db := s.db.WithContext(ctx)
	for _, memberID := range memberIDs {
		err := db.Exec(
			"INSERT INTO ? (?, ?) VALUES (?, ?) ON CONFLICT DO NOTHING",
			clause.Table{Name: rel.Table},
			clause.Column{Name: rel.OwnerColumn},
			clause.Column{Name: rel.MemberColumn},
			ownerID,
			memberID,
		).Error
		if err != nil {
			return fmt.Errorf("failed to link %s %d to %d: %w", rel.Table, ownerID, memberID, translate(err))
		}
	}
	return nil
}

func (s *Store) Unlink(ctx context.Context, rel store.Relation, ownerID uint, memberIDs []uint) error {
	db := s.db.WithContext(ctx)
	if memberIDs == nil {
		err := db.Exec(
			"DELETE FROM ? WHERE ? = ?",
			clause.Table{Name: rel.Table},
			clause.Column{Name: rel.OwnerColumn},
			ownerID,
		).Error
		return translate(err)
	}
	if len(memberIDs) == 0 {
		return nil
	}
	err := db.Exec(
		"DELETE FROM ? WHERE ? = ? AND ? IN ?",
		clause.Table{Name: rel.Table},
		clause.Column{Name: rel.OwnerColumn},
		ownerID,
		clause.Column{Name: rel.MemberColumn},
		memberIDs,
	).Error
	return translate(err)
}

func eq(column string, value interface{}) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: column}, Value: value}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", store.ErrReferenced, err)
	default:
		return err
	}
}
