package repos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db sqlx.ExtContext }

func NewProductRepo(db sqlx.ExtContext) *ProductRepo { return &ProductRepo{db: db} }

// UnpublishBySeller hides a seller's products and clears the seller.
func (r *ProductRepo) UnpublishBySeller(ctx context.Context, sellerID string, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE products SET is_published=FALSE, seller_id=NULL, updated_at=?
		WHERE seller_id=?`), at, sellerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
