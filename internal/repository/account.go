package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyhub/internal/model"
)

// AccountRepository handles persistence for accounts.
type AccountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository constructs an AccountRepository.
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account and returns it with a generated UUID.
func (r *AccountRepository) Create(ctx context.Context, email, nickname, passwordHash string) (*model.Account, error) {
	acc := &model.Account{
		ID:           uuid.New().String(),
		Email:        email,
		Nickname:     nickname,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO accounts (id, email, nickname, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		acc.ID, acc.Email, acc.Nickname, acc.PasswordHash, acc.CreatedAt,
	)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return acc, nil
}

// GetByEmail returns the account with the given email or ErrNotFound.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.getBy(ctx, "email", email)
}

// GetByID returns the account with the given id or ErrNotFound.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*model.Account, error) {
	return r.getBy(ctx, "id", id)
}

func (r *AccountRepository) getBy(ctx context.Context, column, value string) (*model.Account, error) {
	var acc model.Account
	err := r.db.QueryRow(ctx,
		`SELECT id, email, nickname, password_hash, created_at
		 FROM accounts WHERE `+column+` = $1`,
		value,
	).Scan(&acc.ID, &acc.Email, &acc.Nickname, &acc.PasswordHash, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &acc, nil
}
