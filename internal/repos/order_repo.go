package repos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"shopapi/internal/domain"
)

// OrderRepo updates order rows on behalf of account changes. Works on the pool
// or inside a transaction.
type OrderRepo struct{ db sqlx.ExtContext }

func NewOrderRepo(db sqlx.ExtContext) *OrderRepo { return &OrderRepo{db: db} }

// CancelPendingForUser cancels the user's orders that have not been paid yet.
func (r *OrderRepo) CancelPendingForUser(ctx context.Context, userID string, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE orders SET status=?, updated_at=?
		WHERE user_id=? AND status=?`),
		domain.OrderCancelled, at, userID, domain.OrderPending)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DetachUser clears the owner of every order of userID. Rows stay for audit.
func (r *OrderRepo) DetachUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE orders SET user_id=NULL WHERE user_id=?`), userID)
	return err
}
