package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hasdev/api-gateway/pkg/db"
	"github.com/hasdev/api-gateway/pkg/db/models"
	"github.com/uptrace/bun"
)

var (
	errNoRows    = errors.New("account not found")
	errDuplicate = errors.New("account already exists")
)

// Store is the persistence layer for accounts.
type Store struct {
	db *bun.DB
}

func NewStore(database *bun.DB) *Store {
	return &Store{db: database}
}

// Insert writes a new account. It returns errDuplicate when the email or the
// provider identity is already taken.
func (s *Store) Insert(ctx context.Context, account *models.Account) error {
	_, err := s.db.NewInsert().Model(account).Exec(ctx)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return errDuplicate
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return s.getOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("id = ?", id)
	})
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.getOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("email = ?", email)
	})
}

func (s *Store) GetByProvider(ctx context.Context, provider, providerID string) (*models.Account, error) {
	return s.getOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("provider = ?", provider).Where("provider_id = ?", providerID)
	})
}

func (s *Store) getOne(ctx context.Context, where func(*bun.SelectQuery) *bun.SelectQuery) (*models.Account, error) {
	account := new(models.Account)
	err := where(s.db.NewSelect().Model(account)).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errNoRows
		}
		return nil, fmt.Errorf("select account: %w", err)
	}
	return account, nil
}

// List returns one page of accounts, newest first, and the total number of
// accounts.
func (s *Store) List(ctx context.Context, offset, limit int) ([]models.Account, int, error) {
	var accounts []models.Account
	total, err := s.db.NewSelect().
		Model(&accounts).
		Order("created_at DESC", "id DESC").
		Offset(offset).
		Limit(limit).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, total, nil
}

func (s *Store) SetAdmin(ctx context.Context, id string, admin bool) error {
	return s.updateColumn(ctx, id, "is_admin", admin)
}

func (s *Store) SetProfilePicture(ctx context.Context, id, url string) error {
	return s.updateColumn(ctx, id, "profile_picture", url)
}

func (s *Store) updateColumn(ctx context.Context, id, column string, value any) error {
	res, err := s.db.NewUpdate().
		Model((*models.Account)(nil)).
		Set("? = ?", bun.Ident(column), value).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update account %s: %w", column, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errNoRows
	}
	return nil
}
