// Package order implements the submission pipeline: upload the customer's
// documents, persist the order, then notify. Order creation is at most
// once; notification is best effort.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dinarex/internal/domain"
	"dinarex/internal/orderform"
	"dinarex/internal/pricing"
	"dinarex/internal/upload"
	"dinarex/pkg/errors"
	"dinarex/pkg/logger"
)

// Repository persists orders.
type Repository interface {
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	FindByReference(ctx context.Context, reference string) (*domain.Order, error)
	FindAll(ctx context.Context, limit, offset int) ([]*domain.Order, error)
	CountAll(ctx context.Context) (int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
}

// Notifier sends order emails.
type Notifier interface {
	OrderCreated(ctx context.Context, order *domain.Order) error
}

// Publisher broadcasts order events to live listeners. Implementations must
// not block.
type Publisher interface {
	Publish(event Event)
}

// Event is a lifecycle event broadcast after persistence.
type Event struct {
	Type  string        `json:"type"`
	Order *domain.Order `json:"order"`
	At    time.Time     `json:"at"`
}

// EventOrderCreated is published once an order has been persisted.
const EventOrderCreated = "order.created"

// Service drives order submission and admin queries.
type Service struct {
	repo            Repository
	uploader        upload.Uploader
	notifier        Notifier
	publisher       Publisher
	catalog         *pricing.Catalog
	defaultShipping decimal.Decimal
	bonus           *domain.BonusConfig
	logger          logger.Logger
	now             func() time.Time
}

// NewService constructs a Service. publisher may be nil when no live feed
// is attached.
func NewService(
	repo Repository,
	uploader upload.Uploader,
	notifier Notifier,
	publisher Publisher,
	catalog *pricing.Catalog,
	defaultShipping decimal.Decimal,
	bonus *domain.BonusConfig,
	log logger.Logger,
) *Service {
	return &Service{
		repo:            repo,
		uploader:        uploader,
		notifier:        notifier,
		publisher:       publisher,
		catalog:         catalog,
		defaultShipping: defaultShipping,
		bonus:           bonus,
		logger:          log,
		now:             time.Now,
	}
}

// CreateRequest is the assembled order payload. TotalAmount is the total
// the customer was shown; the service recomputes it and rejects a mismatch.
type CreateRequest struct {
	PersonalInfo domain.PersonalInfo `json:"personalInfo" validate:"required"`
	OrderDetails domain.OrderDetails `json:"orderDetails" validate:"required"`
	TotalAmount  decimal.Decimal     `json:"totalAmount"`
	Verification domain.Verification `json:"verification"`
	Payment      domain.Payment      `json:"payment" validate:"required"`
}

// Submit runs the full pipeline for a completed form: sequential document
// uploads, payload assembly, persistence, then best-effort notification.
// Any upload failure aborts before an order exists; form state is left
// intact so the customer can retry.
func (s *Service) Submit(ctx context.Context, form *orderform.Form) (*domain.Order, error) {
	if !form.Step3Valid() {
		return nil, errors.ErrStepInvalid
	}
	if !form.Step1Valid() || !form.Step2Valid() {
		return nil, errors.Wrap(errors.ErrOrderInvalid, "earlier steps incomplete")
	}

	v := form.Verification
	req := &CreateRequest{
		PersonalInfo: form.PersonalInfo,
		OrderDetails: form.OrderDetails,
		Verification: domain.Verification{
			IDNumber:          v.IDNumber,
			IDExpiry:          v.IDExpiry,
			AcceptTerms:       v.AcceptTerms,
			SkipIDUpload:      v.SkipIDUpload,
			IsOldVerifiedUser: v.IsOldVerifiedUser,
		},
		Payment: domain.Payment{
			Method:      form.Payment.Method,
			SkipReceipt: form.Payment.SkipReceipt,
			Comments:    form.Payment.Comments,
		},
	}

	// ID document first, then receipt. Sequential so a failure belongs to
	// exactly one named upload.
	if !v.SkipIDUpload && !v.IsOldVerifiedUser && v.IDFile != nil {
		res, err := s.uploader.Upload(ctx, &upload.Request{
			Kind:     "id",
			FileName: v.IDFile.Name,
			Data:     v.IDFile.Data,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to upload id document: %w", err)
		}
		req.Verification.IDFileURL = res.URL
	}

	if form.Payment.Receipt != nil {
		res, err := s.uploader.Upload(ctx, &upload.Request{
			Kind:     "receipt",
			FileName: form.Payment.Receipt.Name,
			Data:     form.Payment.Receipt.Data,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to upload receipt: %w", err)
		}
		req.Payment.ReceiptURL = res.URL
	}

	summary := form.Summarize(s.catalog, s.defaultShipping, s.bonus)
	req.TotalAmount = summary.TotalAmount

	return s.Create(ctx, req)
}

// Create recomputes pricing for the payload, persists the order, then
// fires notification and the event feed. Notification failure is logged
// and never rolls back the already-created order.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*domain.Order, error) {
	if !req.Payment.Method.Valid() {
		return nil, errors.Wrap(errors.ErrOrderInvalid, "unsupported payment method")
	}
	if !s.catalog.Contains(req.OrderDetails.Currency) {
		return nil, errors.Wrap(errors.ErrUnknownCurrency, req.OrderDetails.Currency)
	}
	if req.OrderDetails.Quantity < 1 {
		return nil, errors.Wrap(errors.ErrOrderInvalid, "quantity must be at least 1")
	}

	unit := s.catalog.UnitPrice(req.OrderDetails.Currency)
	shipping := pricing.ShippingFee(req.PersonalInfo.Country, s.defaultShipping)
	total := pricing.Total(unit, req.OrderDetails.Quantity, shipping)

	if !req.TotalAmount.IsZero() && !req.TotalAmount.Equal(total) {
		return nil, errors.Wrap(errors.ErrTotalMismatch,
			fmt.Sprintf("submitted %s, computed %s", req.TotalAmount, total))
	}

	now := s.now()
	o := &domain.Order{
		ID:           uuid.New(),
		Reference:    s.reference(now),
		PersonalInfo: req.PersonalInfo,
		OrderDetails: req.OrderDetails,
		Verification: req.Verification,
		Payment:      req.Payment,
		UnitPrice:    unit,
		ShippingFee:  shipping,
		TotalAmount:  total,
		Status:       domain.OrderStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if pricing.QualifiesForBonus(s.bonus, req.OrderDetails.Currency) {
		o.Bonus = domain.Bonus{
			Qualifies: true,
			Label:     s.bonus.BonusLabel,
			Reason:    s.bonus.BonusReason,
			Type:      s.bonus.BonusType,
		}
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}

	s.logger.Info("Order created", map[string]interface{}{
		"order_id":  o.ID,
		"reference": o.Reference,
		"currency":  o.OrderDetails.Currency,
		"total":     o.TotalAmount.String(),
		"bonus":     o.Bonus.Qualifies,
	})

	s.notifyCreated(ctx, o)

	if s.publisher != nil {
		s.publisher.Publish(Event{Type: EventOrderCreated, Order: o, At: now})
	}

	return o, nil
}

// Resend re-fires the creation notification for an existing order. Used by
// the notify endpoint; delivery failure is swallowed as usual.
func (s *Service) Resend(ctx context.Context, id uuid.UUID) error {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	s.notifyCreated(ctx, o)
	return nil
}

// Get returns a single order.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns a page of orders plus the overall count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*domain.Order, int, error) {
	orders, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus moves an order through its lifecycle.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) notifyCreated(ctx context.Context, o *domain.Order) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.OrderCreated(ctx, o); err != nil {
		s.logger.Error("Order notification failed", map[string]interface{}{
			"order_id": o.ID,
			"error":    err.Error(),
		})
	}
}

func (s *Service) reference(now time.Time) string {
	return fmt.Sprintf("ORD-%d", now.UnixMilli())
}
