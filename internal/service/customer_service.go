package service

import (
	"context"
	"errors"
	"fmt"

	"go-storefront-api/internal/model"
	"go-storefront-api/internal/repository"

	"gorm.io/gorm"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, req *CustomerRequest) (*model.Customer, error)
	CreateCustomers(ctx context.Context, reqs []CustomerRequest) ([]model.Customer, error)
	GetAllCustomers(ctx context.Context, nameLike string) ([]model.Customer, error)
	GetCustomerDetail(ctx context.Context, id uint) (*model.CustomerDetail, error)
	UpdateCustomer(ctx context.Context, id uint, req *UpdateCustomerRequest) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id uint) error
}

type CustomerRequest struct {
	Name  string `json:"name" validate:"required,notblank,max=255"`
	Email string `json:"email" validate:"required,email,max=319"`
	Phone string `json:"phone" validate:"required,max=15"`
}

type UpdateCustomerRequest struct {
	Name  *string `json:"name" validate:"omitnil,notblank,max=255"`
	Email *string `json:"email" validate:"omitnil,email,max=319"`
	Phone *string `json:"phone" validate:"omitnil,max=15"`
}

type customerService struct {
	customers repository.CustomerRepository
	accounts  repository.AccountRepository
	orders    repository.OrderRepository
}

func NewCustomerService(customers repository.CustomerRepository, accounts repository.AccountRepository, orders repository.OrderRepository) CustomerService {
	return &customerService{customers: customers, accounts: accounts, orders: orders}
}

func (r *CustomerRequest) toModel() (*model.Customer, error) {
	if err := validate(r); err != nil {
		return nil, err
	}
	return &model.Customer{Name: r.Name, Email: r.Email, Phone: r.Phone}, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, req *CustomerRequest) (*model.Customer, error) {
	customer, err := req.toModel()
	if err != nil {
		return nil, err
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, storage(err)
	}
	return customer, nil
}

func (s *customerService) CreateCustomers(ctx context.Context, reqs []CustomerRequest) ([]model.Customer, error) {
	if len(reqs) == 0 {
		return nil, invalid("at least one customer is required")
	}
	customers := make([]model.Customer, len(reqs))
	for i := range reqs {
		c, err := reqs[i].toModel()
		if err != nil {
			return nil, fmt.Errorf("customer #%d: %w", i, err)
		}
		customers[i] = *c
	}
	if err := s.customers.CreateMany(ctx, customers); err != nil {
		return nil, storage(err)
	}
	return customers, nil
}

func (s *customerService) GetAllCustomers(ctx context.Context, nameLike string) ([]model.Customer, error) {
	customers, err := s.customers.FindAll(ctx, nameLike)
	if err != nil {
		return nil, storage(err)
	}
	return customers, nil
}

func (s *customerService) GetCustomerDetail(ctx context.Context, id uint) (*model.CustomerDetail, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "customer", id)
	}

	detail := &model.CustomerDetail{Customer: *customer, Orders: []model.OrderResponse{}}

	account, err := s.accounts.FindByID(ctx, id)
	switch {
	case err == nil:
		detail.Account = account
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, storage(err)
	}

	orders, err := s.orders.FindByCustomer(ctx, id)
	if err != nil {
		return nil, storage(err)
	}
	for i := range orders {
		detail.Orders = append(detail.Orders, orders[i].ToResponse())
	}
	return detail, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id uint, req *UpdateCustomerRequest) (*model.Customer, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if err := s.customers.Update(ctx, id, fields); err != nil {
		return nil, lookup(err, "customer", id)
	}
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "customer", id)
	}
	return customer, nil
}

// DeleteCustomer also removes the customer's account. Orders stay behind
// with a customer_id that no longer resolves.
func (s *customerService) DeleteCustomer(ctx context.Context, id uint) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		return lookup(err, "customer", id)
	}
	return nil
}
