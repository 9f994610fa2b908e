package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"shopapi/internal/domain"
)

type RoleRepo struct{ DB *sqlx.DB }

func NewRoleRepo(db *sqlx.DB) *RoleRepo { return &RoleRepo{DB: db} }

func (r *RoleRepo) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	var role domain.Role
	if err := r.DB.GetContext(ctx, &role, r.DB.Rebind(`SELECT id,name FROM roles WHERE id=?`), id); err != nil {
		return nil, lookupErr("find role", err)
	}
	return &role, nil
}

func (r *RoleRepo) List(ctx context.Context) ([]domain.Role, error) {
	roles := []domain.Role{}
	if err := r.DB.SelectContext(ctx, &roles, `SELECT id,name FROM roles ORDER BY name`); err != nil {
		return nil, fmt.Errorf("%w: list roles: %w", domain.ErrPersistence, err)
	}
	return roles, nil
}
