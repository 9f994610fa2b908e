package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"shopapi/internal/domain"
)

const userColumns = `id,email,password_hash,first_name,last_name,is_active,role_id,created_at,updated_at`

var userOrderings = map[string]string{
	domain.OrderCreatedDesc: "created_at DESC, id DESC",
	domain.OrderCreatedAsc:  "created_at ASC, id ASC",
	domain.OrderEmailAsc:    "email ASC",
	domain.OrderEmailDesc:   "email DESC",
}

type UserRepo struct {
	DB *sqlx.DB

	// Now stamps created_at/updated_at. Defaults to time.Now.
	Now func() time.Time
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db, Now: time.Now} }

func (r *UserRepo) now() time.Time {
	if r.Now == nil {
		return time.Now().UTC().Truncate(time.Microsecond)
	}
	return r.Now().UTC().Truncate(time.Microsecond)
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT `+userColumns+` FROM users WHERE id=?`), id)
	if err != nil {
		return nil, lookupErr("find user by id", err)
	}
	return &u, nil
}

// FindByEmail matches the stored address exactly.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT `+userColumns+` FROM users WHERE email=?`), email)
	if err != nil {
		return nil, lookupErr("find user by email", err)
	}
	return &u, nil
}

// Create inserts u, filling in id and timestamps. The UNIQUE constraint on
// email is authoritative; a violation comes back as ErrDuplicateEmail.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.RoleID == "" {
		u.RoleID = domain.RoleCustomerID
	}
	now := r.now()
	u.CreatedAt, u.UpdatedAt = now, now

	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO users(`+userColumns+`)
		VALUES(:id,:email,:password_hash,:first_name,:last_name,:is_active,:role_id,:created_at,:updated_at)`, u)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateEmail, u.Email)
		}
		return fmt.Errorf("%w: create user: %w", domain.ErrPersistence, err)
	}
	return nil
}

func (r *UserRepo) List(ctx context.Context, p domain.Page) ([]domain.User, error) {
	order, ok := userOrderings[p.OrderBy]
	if !ok {
		order = userOrderings[domain.OrderCreatedDesc]
	}
	users := []domain.User{}
	err := r.DB.SelectContext(ctx, &users, r.DB.Rebind(`
		SELECT `+userColumns+` FROM users
		ORDER BY `+order+`
		LIMIT ? OFFSET ?`), p.Take, p.Skip)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %w", domain.ErrPersistence, err)
	}
	return users, nil
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("%w: count users: %w", domain.ErrPersistence, err)
	}
	return n, nil
}

// UpdateNames sets the given names; nil leaves a name unchanged.
func (r *UserRepo) UpdateNames(ctx context.Context, id string, firstName, lastName *string) (*domain.User, error) {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`
		UPDATE users
		SET first_name=COALESCE(?, first_name),
		    last_name=COALESCE(?, last_name),
		    updated_at=?
		WHERE id=?`), firstName, lastName, r.now(), id)
	if err != nil {
		return nil, fmt.Errorf("%w: update user: %w", domain.ErrPersistence, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	return r.FindByID(ctx, id)
}

// Delete removes a user in one transaction. Pending orders are cancelled and
// all their orders are kept with the owner cleared; products they sell are
// unpublished and detached.
func (r *UserRepo) Delete(ctx context.Context, id string) (domain.UserRemoval, error) {
	var out domain.UserRemoval
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		now := r.now()
		orders, products := NewOrderRepo(tx), NewProductRepo(tx)

		var err error
		if out.CancelledOrders, err = orders.CancelPendingForUser(ctx, id, now); err != nil {
			return fmt.Errorf("cancel orders: %w", err)
		}
		if err := orders.DetachUser(ctx, id); err != nil {
			return fmt.Errorf("detach orders: %w", err)
		}
		if out.UnpublishedProducts, err = products.UnpublishBySeller(ctx, id, now); err != nil {
			return fmt.Errorf("unpublish products: %w", err)
		}

		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM users WHERE id=?`), id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.UserRemoval{}, err
		}
		return domain.UserRemoval{}, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return out, nil
}

func lookupErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrPersistence, op, err)
}
