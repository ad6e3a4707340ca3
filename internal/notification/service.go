// Package notification delivers order emails. Delivery is best effort: the
// submission pipeline never fails because an email did not go out.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dinarex/internal/domain"
	"dinarex/pkg/logger"
	"dinarex/pkg/mailer"

	"github.com/google/uuid"
)

// AuditRepository defines the interface for audit logging.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// Event types rendered by the service.
const (
	EventOrderConfirmation = "ORDER_CONFIRMATION"
	EventOrderAlert        = "ORDER_ALERT"
)

// Message is a rendered email ready for delivery.
type Message struct {
	ID        uuid.UUID
	To        string
	Type      string
	Subject   string
	Body      string
	CreatedAt time.Time
}

// Service defines the notification service interface.
type Service interface {
	OrderCreated(ctx context.Context, order *domain.Order) error
	SendRaw(ctx context.Context, msg *Message) error
}

// DefaultService renders order templates and delivers them over SMTP.
type DefaultService struct {
	sender       mailer.Sender
	logger       logger.Logger
	auditRepo    AuditRepository
	staffAddress string
}

// NewService creates a notification service. staffAddress receives the
// internal new-order alert; empty disables it.
func NewService(sender mailer.Sender, log logger.Logger, auditRepo AuditRepository, staffAddress string) *DefaultService {
	return &DefaultService{
		sender:       sender,
		logger:       log,
		auditRepo:    auditRepo,
		staffAddress: staffAddress,
	}
}

// OrderCreated sends the customer confirmation and, when configured, the
// staff alert. The first delivery error is returned so the caller can log
// it; partial delivery is acceptable.
func (s *DefaultService) OrderCreated(ctx context.Context, order *domain.Order) error {
	confirmation := &Message{
		ID:        uuid.New(),
		To:        order.PersonalInfo.Email,
		Type:      EventOrderConfirmation,
		Subject:   fmt.Sprintf("Order %s received", order.Reference),
		Body:      renderConfirmation(order),
		CreatedAt: time.Now(),
	}
	if err := s.SendRaw(ctx, confirmation); err != nil {
		return err
	}

	if s.staffAddress == "" {
		return nil
	}
	alert := &Message{
		ID:        uuid.New(),
		To:        s.staffAddress,
		Type:      EventOrderAlert,
		Subject:   fmt.Sprintf("New order %s - %s", order.Reference, order.OrderDetails.Currency),
		Body:      renderAlert(order),
		CreatedAt: time.Now(),
	}
	return s.SendRaw(ctx, alert)
}

// SendRaw delivers a single message and writes an audit record.
func (s *DefaultService) SendRaw(ctx context.Context, msg *Message) error {
	if err := s.sender.Send(msg.To, msg.Subject, msg.Body); err != nil {
		s.logger.Error("Email delivery failed", map[string]interface{}{
			"notification_id": msg.ID,
			"type":            msg.Type,
			"error":           err.Error(),
		})
		return err
	}

	s.logger.Info("Notification sent", map[string]interface{}{
		"notification_id": msg.ID,
		"type":            msg.Type,
		"subject":         msg.Subject,
	})

	if s.auditRepo != nil {
		// Audit with its own deadline so a finished request doesn't drop the record.
		auditCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		newVals, _ := json.Marshal(map[string]interface{}{
			"type":    msg.Type,
			"subject": msg.Subject,
			"to":      msg.To,
		})

		err := s.auditRepo.Create(auditCtx, &domain.AuditLog{
			ID:         uuid.New(),
			Action:     "NOTIFICATION_SENT",
			EntityType: "notification",
			EntityID:   msg.ID.String(),
			NewValues:  newVals,
			CreatedAt:  time.Now(),
		})
		if err != nil {
			s.logger.Error("Failed to create audit log for notification", map[string]interface{}{
				"error":           err.Error(),
				"notification_id": msg.ID,
			})
		}
	}

	return nil
}

func renderConfirmation(o *domain.Order) string {
	bonusLine := ""
	if o.Bonus.Qualifies {
		bonusLine = fmt.Sprintf("<p>Your order includes a free bonus: %s.</p>", o.Bonus.Label)
	}
	return fmt.Sprintf(
		`<h2>Thank you for your order, %s</h2>
<p>Your order reference is <strong>%s</strong>.</p>
<table>
<tr><td>Currency</td><td>%s</td></tr>
<tr><td>Quantity</td><td>%d</td></tr>
<tr><td>Shipping</td><td>$%s AUD</td></tr>
<tr><td>Total</td><td>$%s AUD</td></tr>
</table>
%s
<p>We will email you again once payment is confirmed and your order ships.</p>`,
		o.PersonalInfo.FullName, o.Reference,
		o.OrderDetails.Currency, o.OrderDetails.Quantity,
		o.ShippingFee.StringFixed(2), o.TotalAmount.StringFixed(2),
		bonusLine,
	)
}

func renderAlert(o *domain.Order) string {
	return fmt.Sprintf(
		`<h2>New order %s</h2>
<p>%s &lt;%s&gt;, %s</p>
<p>%s x%d, total $%s AUD, payment via %s</p>
<p>ID document: %s | Receipt: %s</p>`,
		o.Reference,
		o.PersonalInfo.FullName, o.PersonalInfo.Email, o.PersonalInfo.Country,
		o.OrderDetails.Currency, o.OrderDetails.Quantity,
		o.TotalAmount.StringFixed(2), o.Payment.Method,
		orEmpty(o.Verification.IDFileURL, "not uploaded"),
		orEmpty(o.Payment.ReceiptURL, "not uploaded"),
	)
}

func orEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
