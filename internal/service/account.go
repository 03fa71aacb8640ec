package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"studyhub/internal/auth"
	"studyhub/internal/model"
	"studyhub/internal/repository"
)

// AccountStore is the persistence surface the account service needs.
type AccountStore interface {
	Create(ctx context.Context, email, nickname, passwordHash string) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	GetByID(ctx context.Context, id string) (*model.Account, error)
}

// AccountService handles sign-up and login.
type AccountService struct {
	accounts AccountStore
	tokens   *auth.TokenManager
}

// NewAccountService constructs an AccountService.
func NewAccountService(accounts AccountStore, tokens *auth.TokenManager) *AccountService {
	return &AccountService{accounts: accounts, tokens: tokens}
}

// SignUp validates the request, hashes the password, and creates the account.
func (s *AccountService) SignUp(ctx context.Context, req model.SignUpRequest) (*model.Account, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Nickname = strings.TrimSpace(req.Nickname)
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid sign-up form: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	acc, err := s.accounts.Create(ctx, req.Email, req.Nickname, hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, repository.ErrDuplicate
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return acc, nil
}

// Login checks credentials and issues a bearer token.
func (s *AccountService) Login(ctx context.Context, req model.LoginRequest) (string, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validate.Struct(req); err != nil {
		return "", ErrInvalidCredentials
	}

	acc, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("look up account: %w", err)
	}
	if !auth.CheckPassword(acc.PasswordHash, req.Password) {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(acc.ID)
}
