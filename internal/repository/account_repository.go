package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foundit/lostfound-service/internal/domain"
)

// AccountRepository defines persistence access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

// Create inserts the account. Duplicate emails or usernames surface as *UniqueViolation.
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (email, username, password_hash, role)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

	err := conn(ctx, r.pool).QueryRow(ctx, query,
		account.Email,
		account.Username,
		account.PasswordHash,
		account.Role,
	).Scan(&account.ID, &account.CreatedAt)
	return mapError(err)
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
        SELECT id, email, username, password_hash, role, created_at
        FROM accounts WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
        SELECT id, email, username, password_hash, role, created_at
        FROM accounts WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *accountRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var account domain.Account
	if err := conn(ctx, r.pool).QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Email,
		&account.Username,
		&account.PasswordHash,
		&account.Role,
		&account.CreatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &account, nil
}
