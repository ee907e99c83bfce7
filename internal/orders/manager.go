// Package orders owns the order lifecycle: stock-checked creation and the
// stock-restoring transitions (cancel, return, delete). Every stock side
// effect happens inside a single transaction with the order write, so a
// crash can never leave inventory short or inflated.
package orders

import (
	"errors"
	"fmt"
	"strings"

	"go-storefront/internal/models"
	"go-storefront/internal/pricing"
	"go-storefront/internal/promotions"
	"go-storefront/internal/settings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInsufficientStock rejects a checkout because live stock ran out for one
// line item. Nothing is persisted when this is returned.
type ErrInsufficientStock struct {
	ProductName string
}

func (e ErrInsufficientStock) Error() string {
	return fmt.Sprintf("Insufficient stock for %q", e.ProductName)
}

var (
	// ErrOrderNotFound - no order row with that id.
	ErrOrderNotFound = errors.New("order not found")
	// ErrAlreadyFinalized - the order is cancelled or returned; its stock
	// has been restored and further lifecycle changes are rejected.
	ErrAlreadyFinalized = errors.New("order is already cancelled or returned")
	// ErrEmptyCart - checkout was submitted with no line items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidStatus - unknown status value.
	ErrInvalidStatus = errors.New("invalid order status")
)

// Customer is the checkout contact block.
type Customer struct {
	Name         string
	Phone        string
	Address      string
	DeliveryArea string
}

// Result bundles everything the checkout response needs.
type Result struct {
	Order     *models.Order
	Breakdown pricing.Breakdown
	Member    *models.Member // detected member, if any
}

// Manager orchestrates order creation and status transitions.
type Manager struct {
	db       *gorm.DB
	resolver *promotions.Resolver
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db, resolver: promotions.NewResolver(db)}
}

// Create places an order. Promotion codes are re-validated server-side,
// line items are repriced from the catalog and the breakdown is recomputed
// from scratch; client-sent names, prices and totals are never trusted.
// Stock for every line item is taken with a conditional decrement
// (stock_quantity >= quantity) inside one transaction, so two simultaneous
// orders for the last unit cannot both succeed and a short item aborts the
// whole checkout with nothing persisted.
func (m *Manager) Create(customer Customer, items []models.OrderItem, couponCode, referralCode string) (*Result, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	items, err := m.repriceItems(items)
	if err != nil {
		return nil, err
	}

	subtotal := pricing.Subtotal(items)

	// Coupon: optional, one at most.
	var applied *promotions.AppliedCoupon
	if strings.TrimSpace(couponCode) != "" {
		coupon, err := m.resolver.ValidateCoupon(couponCode, subtotal)
		if err != nil {
			return nil, err
		}
		applied = coupon
	}

	// Referral: attribution only.
	var referral string
	if strings.TrimSpace(referralCode) != "" {
		code, err := m.resolver.ValidateReferral(referralCode)
		if err != nil {
			return nil, err
		}
		referral = code
	}

	// Member: passively detected by phone, stacks with the coupon.
	match, err := m.resolver.DetectMember(customer.Phone, subtotal)
	if err != nil {
		return nil, err
	}

	couponDiscount := 0
	if applied != nil {
		couponDiscount = applied.Discount
	}
	memberDiscount := 0
	if match != nil {
		memberDiscount = match.Discount
	}

	breakdown, err := pricing.Compute(items, customer.DeliveryArea, couponDiscount, memberDiscount)
	if err != nil {
		return nil, promotions.Rejection{Reason: "Invalid delivery area"}
	}

	// Membership config is read once before the critical section.
	membership, err := settings.LoadMembership(m.db)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = m.db.Transaction(func(tx *gorm.DB) error {
		// Take stock first. A single conditional UPDATE per item closes the
		// check-then-decrement race; zero rows affected means the product is
		// gone or the shelf is short.
		for _, item := range items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock_quantity >= ?", item.ProductID, item.Quantity).
				Updates(map[string]interface{}{
					"stock_quantity": gorm.Expr("stock_quantity - ?", item.Quantity),
					"sold_count":     gorm.Expr("sold_count + ?", item.Quantity),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientStock{ProductName: item.Name}
			}
		}

		orderID, err := nextOrderID(tx)
		if err != nil {
			return err
		}

		order = &models.Order{
			OrderID:        orderID,
			CustomerName:   customer.Name,
			Phone:          customer.Phone,
			Address:        customer.Address,
			DeliveryArea:   customer.DeliveryArea,
			Items:          models.OrderItems(items),
			Subtotal:       breakdown.Subtotal,
			DeliveryCharge: breakdown.DeliveryCharge,
			DiscountAmount: breakdown.Discount,
			Total:          breakdown.Total,
			Status:         models.StatusPending,
		}
		if applied != nil {
			order.CouponCode = &applied.Code
		}
		if referral != "" {
			order.ReferralCode = &referral
		}
		if match != nil {
			order.MemberID = &match.Member.ID
		}

		if err := insertOrder(tx, order); err != nil {
			return err
		}

		// Informational counter, not an enforced usage limit.
		if applied != nil {
			if err := tx.Model(&models.Coupon{}).
				Where("code = ?", applied.Code).
				Update("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
				return err
			}
		}

		if match != nil {
			return creditMember(tx, match.Member.ID, breakdown.Total)
		}
		return maybeEnrollMember(tx, customer, membership)
	})
	if err != nil {
		return nil, err
	}

	result := &Result{Order: order, Breakdown: breakdown}
	if match != nil {
		result.Member = &match.Member
	}
	return result, nil
}

// Delete permanently removes an order and puts its items back on the shelf.
// Orders already cancelled or returned had their stock restored at that
// transition, so deleting them is a plain row delete. The claim decides
// which case applies, so a transition racing the delete cannot make both
// sides restore.
func (m *Manager) Delete(id uint) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		order, err := getOrder(tx, id)
		if err != nil {
			return err
		}
		claimed, err := claimTerminal(tx, id, models.StatusCancelled)
		if err != nil {
			return err
		}
		if claimed {
			if err := restoreStock(tx, order.Items); err != nil {
				return err
			}
		}
		return tx.Delete(&models.Order{}, order.ID).Error
	})
}

// MarkReturned restores stock and flags the order as returned, keeping the
// row for audit and reporting. Rejected once the order is already
// cancelled or returned; stock must never be restored twice.
func (m *Manager) MarkReturned(id uint) error {
	return m.finalize(id, models.StatusReturned)
}

// Cancel restores stock and flags the order as cancelled.
func (m *Manager) Cancel(id uint) error {
	return m.finalize(id, models.StatusCancelled)
}

func (m *Manager) finalize(id uint, status string) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		order, err := getOrder(tx, id)
		if err != nil {
			return err
		}
		claimed, err := claimTerminal(tx, id, status)
		if err != nil {
			return err
		}
		if !claimed {
			return ErrAlreadyFinalized
		}
		return restoreStock(tx, order.Items)
	})
}

// UpdateStatus relabels an order. Transitions into cancelled or returned go
// through the stock-restoring paths; every other pair of statuses is a free
// transition with no inventory side effect. Leaving cancelled/returned is
// rejected, since that would require taking stock again.
func (m *Manager) UpdateStatus(id uint, status string) error {
	switch status {
	case models.StatusCancelled:
		return m.Cancel(id)
	case models.StatusReturned:
		return m.MarkReturned(id)
	case models.StatusPending, models.StatusConfirmed, models.StatusShipped, models.StatusDelivered:
		// fall through to the plain relabel below
	default:
		return ErrInvalidStatus
	}

	return m.db.Transaction(func(tx *gorm.DB) error {
		order, err := getOrder(tx, id)
		if err != nil {
			return err
		}
		// A same-status relabel is a no-op; MySQL reports zero affected
		// rows for it, which must not read as a finalized order.
		if order.Status == status {
			return nil
		}
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status NOT IN ?", id, terminalStatuses).
			Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyFinalized
		}
		return nil
	})
}

// Get fetches a single order.
func (m *Manager) Get(id uint) (*models.Order, error) {
	var order models.Order
	err := m.db.First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Terminal statuses never transition out; stock came back when they were
// entered.
var terminalStatuses = []string{models.StatusCancelled, models.StatusReturned}

// getOrder reads the row for its immutable fields (the item snapshot) and
// for existence. It takes no lock; liveness decisions go through
// claimTerminal, never through this read.
func getOrder(tx *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	err := tx.First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// claimTerminal flips the order into a terminal status unless it is in one
// already. Like the stock decrement at creation, the conditional UPDATE is
// the serialization point: of two simultaneous transitions only one sees a
// row affected, so stock is restored exactly once no matter how the reads
// interleave.
func claimTerminal(tx *gorm.DB, id uint, status string) (bool, error) {
	res := tx.Model(&models.Order{}).
		Where("id = ? AND status NOT IN ?", id, terminalStatuses).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// repriceItems replaces client-sent names and prices with the catalog's
// current values; the client only chooses product, size and quantity. A
// missing or deactivated product fails the same way an empty shelf does.
func (m *Manager) repriceItems(items []models.OrderItem) ([]models.OrderItem, error) {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, promotions.Rejection{Reason: "Invalid quantity"}
		}
		ids = append(ids, item.ProductID)
	}

	var products []models.Product
	if err := m.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		p, ok := byID[item.ProductID]
		if !ok {
			return nil, ErrInsufficientStock{ProductName: item.Name}
		}
		if !p.IsActive {
			return nil, ErrInsufficientStock{ProductName: p.Name}
		}
		item.Name = p.Name
		item.Price = p.EffectivePrice()
		out = append(out, item)
	}
	return out, nil
}

// restoreStock puts every line item's quantity back. A product that was
// deleted from the catalog after the order has nothing left to restore and
// is skipped; real store errors abort the surrounding transaction.
func restoreStock(tx *gorm.DB, items models.OrderItems) error {
	for _, item := range items {
		res := tx.Model(&models.Product{}).
			Where("id = ?", item.ProductID).
			Updates(map[string]interface{}{
				"stock_quantity": gorm.Expr("stock_quantity + ?", item.Quantity),
				"sold_count":     gorm.Expr("sold_count - ?", item.Quantity),
			})
		if res.Error != nil {
			return res.Error
		}
	}
	return nil
}

// insertOrder writes the row, stepping the sequential code past any order a
// concurrent checkout committed after nextOrderID ran. The unique index on
// order_id stays the hard backstop; the bump just turns a losing race into
// the next code instead of a failed checkout.
func insertOrder(tx *gorm.DB, order *models.Order) error {
	for attempt := 0; ; attempt++ {
		err := tx.Create(order).Error
		if err == nil {
			return nil
		}
		if attempt == 2 || !isDuplicateOrderID(err) {
			return err
		}
		var n int
		if _, scanErr := fmt.Sscanf(order.OrderID, "UC-%d", &n); scanErr != nil {
			return err
		}
		order.OrderID = fmt.Sprintf("UC-%04d", n+1)
	}
}

func isDuplicateOrderID(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint")
}

// nextOrderID assigns the next human-readable order code ("UC-0042").
func nextOrderID(tx *gorm.DB) (string, error) {
	var last models.Order
	err := tx.Order("id DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "UC-0001", nil
	}
	if err != nil {
		return "", err
	}

	var n int
	if _, scanErr := fmt.Sscanf(last.OrderID, "UC-%d", &n); scanErr != nil {
		n = int(last.ID)
	}
	return fmt.Sprintf("UC-%04d", n+1), nil
}

// creditMember accumulates a detected member's purchase totals.
func creditMember(tx *gorm.DB, memberID uint, total int) error {
	return tx.Model(&models.Member{}).
		Where("id = ?", memberID).
		Updates(map[string]interface{}{
			"total_purchases": gorm.Expr("total_purchases + ?", total),
			"order_count":     gorm.Expr("order_count + 1"),
		}).Error
}

// maybeEnrollMember auto-creates a membership once a customer's cumulative
// non-cancelled purchases (including the order just written) cross the
// configured threshold. New members get the default discount from settings.
func maybeEnrollMember(tx *gorm.DB, customer Customer, membership settings.Membership) error {
	// A deactivated member is not detected at checkout but must not be
	// enrolled a second time either.
	var existing int64
	if err := tx.Model(&models.Member{}).
		Where("phone = ?", customer.Phone).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	var cumulative int
	err := tx.Model(&models.Order{}).
		Where("phone = ?", customer.Phone).
		Where("status NOT IN ?", terminalStatuses).
		Select("COALESCE(SUM(total), 0)").
		Scan(&cumulative).Error
	if err != nil {
		return err
	}
	if cumulative < membership.Threshold.Amount {
		return nil
	}

	var count int64
	err = tx.Model(&models.Order{}).
		Where("phone = ?", customer.Phone).
		Where("status NOT IN ?", terminalStatuses).
		Count(&count).Error
	if err != nil {
		return err
	}

	member := models.Member{
		MemberCode:     NewMemberCode(),
		Name:           customer.Name,
		Phone:          customer.Phone,
		Address:        customer.Address,
		DiscountType:   membership.DefaultDiscount.Type,
		DiscountValue:  membership.DefaultDiscount.Value,
		TotalPurchases: cumulative,
		OrderCount:     int(count),
		IsActive:       true,
	}
	return tx.Create(&member).Error
}

// NewMemberCode generates a member code like "UCM-3F2A91BC".
func NewMemberCode() string {
	id := uuid.New().String()
	return "UCM-" + strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
}
