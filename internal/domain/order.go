// Package domain defines the order aggregate and storefront catalog types.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates the supported settlement channels. The enum is
// closed: any other value fails validation.
type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentWesternUnion PaymentMethod = "western_union"
)

// Valid reports whether m is one of the supported methods.
func (m PaymentMethod) Valid() bool {
	return m == PaymentBankTransfer || m == PaymentWesternUnion
}

// OrderStatus represents order lifecycle states.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PersonalInfo is the customer's contact and shipping information. Every
// field is required before the form can advance past step one.
type PersonalInfo struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"required,au_nz_mobile"`
	Country  string `json:"country" validate:"required"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	Postcode string `json:"postcode" validate:"required"`
}

// OrderDetails is the selected product line.
type OrderDetails struct {
	Currency string `json:"currency" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// Verification is the identity-check outcome attached to an order. The URL
// refers to the uploaded document, never to a local file.
type Verification struct {
	IDFileURL         string `json:"idFileUrl,omitempty"`
	IDNumber          string `json:"idNumber,omitempty"`
	IDExpiry          string `json:"idExpiry,omitempty"`
	AcceptTerms       bool   `json:"acceptTerms"`
	SkipIDUpload      bool   `json:"skipIdUpload"`
	IsOldVerifiedUser bool   `json:"isOldVerifiedUser"`
}

// Payment is the settlement outcome attached to an order.
type Payment struct {
	Method      PaymentMethod `json:"method" validate:"required,oneof=bank_transfer western_union"`
	ReceiptURL  string        `json:"receiptUrl,omitempty"`
	SkipReceipt bool          `json:"skipReceipt"`
	Comments    string        `json:"comments,omitempty"`
}

// Bonus records the promotional grant applied to an order, if any.
type Bonus struct {
	Qualifies bool   `json:"qualifies"`
	Label     string `json:"label,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Type      string `json:"type,omitempty"`
}

// Order is the persisted result of a completed form submission.
type Order struct {
	ID           uuid.UUID       `json:"id"`
	Reference    string          `json:"reference"`
	PersonalInfo PersonalInfo    `json:"personalInfo"`
	OrderDetails OrderDetails    `json:"orderDetails"`
	Verification Verification    `json:"verification"`
	Payment      Payment         `json:"payment"`
	Bonus        Bonus           `json:"bonus"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	ShippingFee  decimal.Decimal `json:"shippingFee"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Status       OrderStatus     `json:"status"`
	Metadata     Metadata        `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
