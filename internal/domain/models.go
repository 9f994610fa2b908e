package domain

// Order statuses stored in orders.status.
const (
	OrderPending   = "PENDING"
	OrderPaid      = "PAID"
	OrderShipped   = "SHIPPED"
	OrderDelivered = "DELIVERED"
	OrderCancelled = "CANCELLED"
)

// UserRemoval summarizes what deleting an account touched besides the user row.
// Orders are kept for audit and products stay in the catalog, unpublished.
type UserRemoval struct {
	CancelledOrders     int64 `json:"cancelledOrders"`
	UnpublishedProducts int64 `json:"unpublishedProducts"`
}
