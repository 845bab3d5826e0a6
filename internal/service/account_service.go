package service

import (
	"context"
	"errors"
	"fmt"

	"go-storefront-api/internal/model"
	"go-storefront-api/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrAccountExists  = fmt.Errorf("only one account may exist per customer: %w", ErrConflict)
	ErrUsernameExists = fmt.Errorf("username already exists: %w", ErrConflict)
)

type AccountService interface {
	CreateAccount(ctx context.Context, req *CreateAccountRequest) (*model.CustomerAccount, error)
	GetAllAccounts(ctx context.Context) ([]model.CustomerAccount, error)
	UpdateAccount(ctx context.Context, customerID uint, req *UpdateAccountRequest) (*model.CustomerAccount, error)
	ResetPassword(ctx context.Context, username, password string) error
	DeleteAccount(ctx context.Context, customerID uint) error
}

type CreateAccountRequest struct {
	CustomerID uint   `json:"customer_id" validate:"required"`
	Username   string `json:"username" validate:"required,notblank,max=255"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
}

type UpdateAccountRequest struct {
	Username *string `json:"username" validate:"omitnil,notblank,max=255"`
	Password *string `json:"password" validate:"omitnil,min=6,max=72"`
}

type accountService struct {
	accounts  repository.AccountRepository
	customers repository.CustomerRepository
}

func NewAccountService(accounts repository.AccountRepository, customers repository.CustomerRepository) AccountService {
	return &accountService{accounts: accounts, customers: customers}
}

func (s *accountService) usernameTaken(ctx context.Context, username string, owner uint) error {
	existing, err := s.accounts.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return storage(err)
	case existing.CustomerID != owner:
		return ErrUsernameExists
	}
	return nil
}

func (s *accountService) CreateAccount(ctx context.Context, req *CreateAccountRequest) (*model.CustomerAccount, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := s.customers.FindByID(ctx, req.CustomerID); err != nil {
		return nil, lookup(err, "customer", req.CustomerID)
	}

	_, err := s.accounts.FindByID(ctx, req.CustomerID)
	if err == nil {
		return nil, ErrAccountExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage(err)
	}
	if err := s.usernameTaken(ctx, req.Username, req.CustomerID); err != nil {
		return nil, err
	}

	account := &model.CustomerAccount{CustomerID: req.CustomerID, Username: req.Username}
	if err := account.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, storage(err)
	}
	return account, nil
}

func (s *accountService) GetAllAccounts(ctx context.Context) ([]model.CustomerAccount, error) {
	accounts, err := s.accounts.FindAll(ctx, "")
	if err != nil {
		return nil, storage(err)
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, customerID uint, req *UpdateAccountRequest) (*model.CustomerAccount, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	account, err := s.accounts.FindByID(ctx, customerID)
	if err != nil {
		return nil, lookup(err, "account", customerID)
	}

	fields := map[string]interface{}{}
	if req.Username != nil && *req.Username != account.Username {
		if err := s.usernameTaken(ctx, *req.Username, customerID); err != nil {
			return nil, err
		}
		fields["username"] = *req.Username
	}
	if req.Password != nil {
		if err := account.SetPassword(*req.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		fields["password"] = account.Password
	}

	if err := s.accounts.Update(ctx, customerID, fields); err != nil {
		return nil, lookup(err, "account", customerID)
	}
	updated, err := s.accounts.FindByID(ctx, customerID)
	if err != nil {
		return nil, lookup(err, "account", customerID)
	}
	return updated, nil
}

// ResetPassword sets a new password for the account with the given username.
func (s *accountService) ResetPassword(ctx context.Context, username, password string) error {
	account, err := s.accounts.FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("account %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return storage(err)
	}
	newPassword := password
	if _, err := s.UpdateAccount(ctx, account.CustomerID, &UpdateAccountRequest{Password: &newPassword}); err != nil {
		return err
	}
	return nil
}

func (s *accountService) DeleteAccount(ctx context.Context, customerID uint) error {
	if err := s.accounts.Delete(ctx, customerID); err != nil {
		return lookup(err, "account", customerID)
	}
	return nil
}
