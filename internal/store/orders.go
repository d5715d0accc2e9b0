package store

import (
	"context"

	"gorm.io/gorm"

	"fineart/internal/domain/artworks"
	"fineart/internal/domain/orders"
	"fineart/internal/listing"
)

func (s *Store) CreateOrder(ctx context.Context, o *orders.Order) error {
	return s.db.WithContext(ctx).Create(o).Error
}

func (s *Store) GetOrderBySession(ctx context.Context, sessionID string) (orders.Order, error) {
	var o orders.Order
	err := s.db.WithContext(ctx).Where("stripe_session_id = ?", sessionID).First(&o).Error
	return o, err
}

func (s *Store) ListOrdersByProfile(ctx context.Context, profileID string) ([]orders.Order, error) {
	items := []orders.Order{}
	err := s.db.WithContext(ctx).Where("profile_id = ?", profileID).Order("created_at desc").Find(&items).Error
	return items, err
}

var orderSorts = newSortSpec("created_at", "amount", "status")

// ListOrders pages through all orders, optionally narrowed to one status.
func (s *Store) ListOrders(ctx context.Context, q listing.Query) ([]orders.Order, int64, error) {
	base := func() *gorm.DB {
		db := s.db.WithContext(ctx).Model(&orders.Order{})
		if q.Filter.Status != "" {
			db = db.Where("status = ?", q.Filter.Status)
		}
		return db
	}
	order := func(db *gorm.DB) *gorm.DB {
		return applyOrder(db, orderSorts, q.Filter.Sort, q.Filter.Ascending)
	}
	return paginate[orders.Order](base, order, q.Page, q.PageSize)
}

// SettleOrder records the final status of a checkout session. A paid purchase also
// marks the artwork sold. Settling an already paid order is a no-op.
func (s *Store) SettleOrder(ctx context.Context, sessionID, status string, receiptURL *string) (orders.Order, error) {
	var out orders.Order
	err := s.InTx(ctx, func(tx *Store) error {
		o, err := tx.GetOrderBySession(ctx, sessionID)
		if err != nil {
			return err
		}
		if o.Paid() {
			out = o
			return nil
		}

		updates := map[string]any{"status": status}
		if receiptURL != nil {
			updates["receipt_url"] = *receiptURL
		}
		if err := tx.db.Model(&orders.Order{}).Where("id = ?", o.ID).Updates(updates).Error; err != nil {
			return err
		}
		o.Status = status
		o.ReceiptURL = receiptURL

		if o.Paid() && o.Kind == orders.KindPurchase {
			if err := tx.MarkArtworkSold(ctx, o.ArtworkID); err != nil {
				return err
			}
		}
		if o.Paid() && o.Kind == orders.KindRent {
			if err := tx.db.Model(&artworks.Artwork{}).
				Where("id = ? AND status = ?", o.ArtworkID, artworks.StatusForSale).
				Update("status", artworks.StatusRentable).Error; err != nil {
				return err
			}
		}
		out = o
		return nil
	})
	return out, err
}
