package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/identity-service/internal/domain"
)

// ErrDuplicateActive is returned when an insert or update collides with the
// unique active-identity constraint. The uniqueness invariant lives in the
// store so concurrent registrations cannot both slip past an existence check.
var ErrDuplicateActive = errors.New("active account already exists for identity")

// AccountRepository defines persistence access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	FindByUsernameRoleStatus(ctx context.Context, username string, role domain.Role, status domain.Status) (*domain.Account, error)
	ExistsActiveByIdentifier(ctx context.Context, identifier string, role domain.Role) (bool, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (username, email, first_name, last_name, password_hash, role, status, confirmed)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		account.Username,
		account.Email,
		account.FirstName,
		account.LastName,
		account.PasswordHash,
		account.Role,
		account.Status,
		account.Confirmed,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	return mapUniqueViolation(err)
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	const query = `
        UPDATE accounts
        SET username=$1, email=$2, first_name=$3, last_name=$4, password_hash=$5,
            role=$6, status=$7, confirmed=$8, updated_at=NOW()
        WHERE id=$9`

	cmd, err := r.pool.Exec(ctx, query,
		account.Username,
		account.Email,
		account.FirstName,
		account.LastName,
		account.PasswordHash,
		account.Role,
		account.Status,
		account.Confirmed,
		account.ID,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) FindByUsernameRoleStatus(ctx context.Context, username string, role domain.Role, status domain.Status) (*domain.Account, error) {
	const query = `
        SELECT id, username, email, first_name, last_name, password_hash, role, status, confirmed, created_at, updated_at
        FROM accounts WHERE username=$1 AND role=$2 AND status=$3`

	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, username, role, status).Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.FirstName,
		&account.LastName,
		&account.PasswordHash,
		&account.Role,
		&account.Status,
		&account.Confirmed,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) ExistsActiveByIdentifier(ctx context.Context, identifier string, role domain.Role) (bool, error) {
	// The identifier may legitimately live in either column, so both are
	// matched in one pass.
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM accounts
            WHERE (email=$1 OR username=$1) AND role=$2 AND status=$3
        )`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, identifier, role, domain.StatusActive).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateActive
	}
	return err
}
