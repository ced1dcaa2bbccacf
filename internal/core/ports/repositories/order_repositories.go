package repositories

import (
	"context"
	"time"

	"github.com/stitchadmin/stitchadmin/internal/core/domain"
)

// OrderReader defines read operations for orders
type OrderReader interface {
	// FindOrderByID retrieves an order with its items. Returns apperrors.ErrOrderNotFound when missing.
	FindOrderByID(ctx context.Context, db DBTX, id int64) (*domain.Order, error)

	// FindOrderByIDForUpdate is FindOrderByID plus a row lock held until the transaction ends.
	FindOrderByIDForUpdate(ctx context.Context, db DBTX, id int64) (*domain.Order, error)

	// FindOrderByApprovalTokenForUpdate locks the order carrying the given token hash.
	FindOrderByApprovalTokenForUpdate(ctx context.Context, db DBTX, tokenHash string) (*domain.Order, error)

	// ListExpiredOfferIDs returns offers whose valid-until date lies before today.
	ListExpiredOfferIDs(ctx context.Context, db DBTX, today time.Time) ([]int64, error)
}

// OrderWriter defines write operations for orders
type OrderWriter interface {
	// InsertOrder stores a new order with its items and returns the id.
	InsertOrder(ctx context.Context, db DBTX, order domain.Order) (int64, error)

	// UpdateOrder stores the workflow, payment, design, archive and link fields.
	UpdateOrder(ctx context.Context, db DBTX, order domain.Order) error
}

// OrderHistoryRepository is the append-only status history.
type OrderHistoryRepository interface {
	AppendStatusHistory(ctx context.Context, db DBTX, entry domain.OrderStatusHistory) error
	ListStatusHistory(ctx context.Context, db DBTX, orderID int64) ([]domain.OrderStatusHistory, error)
}

// OrderRepositoryFacade combines all order-related repository interfaces
type OrderRepositoryFacade interface {
	OrderReader
	OrderWriter
	OrderHistoryRepository
}
