package services

import (
	"context"

	"shopapi/internal/domain"
	"shopapi/internal/validate"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService { return &UserService{users: users} }

func (s *UserService) Get(ctx context.Context, id string) (domain.UserView, error) {
	id, err := parseID(id)
	if err != nil {
		return domain.UserView{}, err
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return domain.UserView{}, err
	}
	return u.View(), nil
}

// List returns one page of users and the total number of accounts.
func (s *UserService) List(ctx context.Context, p domain.Page) ([]domain.UserView, int, error) {
	users, err := s.users.List(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return domain.Views(users), total, nil
}

// Update changes profile names. Only the account owner or an Admin may do it.
func (s *UserService) Update(ctx context.Context, actor domain.Actor, id string, in validate.UpdateUserInput) (domain.UserView, error) {
	id, err := parseID(id)
	if err != nil {
		return domain.UserView{}, err
	}
	if !actor.CanManage(id) {
		return domain.UserView{}, domain.ErrForbidden
	}
	if err := domain.NewValidationError(validate.UpdateUser(&in)); err != nil {
		return domain.UserView{}, err
	}
	u, err := s.users.UpdateNames(ctx, id, in.FirstName, in.LastName)
	if err != nil {
		return domain.UserView{}, err
	}
	return u.View(), nil
}

// Delete removes an account. Only the account owner or an Admin may do it.
func (s *UserService) Delete(ctx context.Context, actor domain.Actor, id string) (domain.UserRemoval, error) {
	id, err := parseID(id)
	if err != nil {
		return domain.UserRemoval{}, err
	}
	if !actor.CanManage(id) {
		return domain.UserRemoval{}, domain.ErrForbidden
	}
	return s.users.Delete(ctx, id)
}

func parseID(raw string) (string, error) {
	id, ok := validate.ID(raw)
	if !ok {
		return "", &domain.ValidationError{Violations: []domain.Violation{
			{Field: "id", Message: "must be a valid id"},
		}}
	}
	return id, nil
}
