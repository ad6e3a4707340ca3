// Package postgres implements sqlx-backed repositories for orders and
// audit logs.
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"dinarex/internal/domain"
	"dinarex/pkg/errors"
)

type OrderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// orderRow flattens the nested order aggregate into table columns.
type orderRow struct {
	ID              uuid.UUID       `db:"id"`
	Reference       string          `db:"reference"`
	FullName        string          `db:"full_name"`
	Email           string          `db:"email"`
	Mobile          string          `db:"mobile"`
	Country         string          `db:"country"`
	Address         string          `db:"address"`
	City            string          `db:"city"`
	StateRegion     string          `db:"state_region"`
	Postcode        string          `db:"postcode"`
	CurrencyLabel   string          `db:"currency_label"`
	Quantity        int             `db:"quantity"`
	IDFileURL       sql.NullString  `db:"id_file_url"`
	IDNumber        sql.NullString  `db:"id_number"`
	IDExpiry        sql.NullString  `db:"id_expiry"`
	AcceptTerms     bool            `db:"accept_terms"`
	SkipIDUpload    bool            `db:"skip_id_upload"`
	OldVerifiedUser bool            `db:"old_verified_user"`
	PaymentMethod   string          `db:"payment_method"`
	ReceiptURL      sql.NullString  `db:"receipt_url"`
	SkipReceipt     bool            `db:"skip_receipt"`
	Comments        sql.NullString  `db:"comments"`
	BonusQualifies  bool            `db:"bonus_qualifies"`
	BonusLabel      sql.NullString  `db:"bonus_label"`
	BonusReason     sql.NullString  `db:"bonus_reason"`
	BonusType       sql.NullString  `db:"bonus_type"`
	UnitPrice       decimal.Decimal `db:"unit_price"`
	ShippingFee     decimal.Decimal `db:"shipping_fee"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	Status          string          `db:"status"`
	Metadata        domain.Metadata `db:"metadata"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

func toRow(o *domain.Order) *orderRow {
	meta := o.Metadata
	if meta == nil {
		meta = domain.Metadata{}
	}
	return &orderRow{
		ID:              o.ID,
		Reference:       o.Reference,
		FullName:        o.PersonalInfo.FullName,
		Email:           o.PersonalInfo.Email,
		Mobile:          o.PersonalInfo.Mobile,
		Country:         o.PersonalInfo.Country,
		Address:         o.PersonalInfo.Address,
		City:            o.PersonalInfo.City,
		StateRegion:     o.PersonalInfo.State,
		Postcode:        o.PersonalInfo.Postcode,
		CurrencyLabel:   o.OrderDetails.Currency,
		Quantity:        o.OrderDetails.Quantity,
		IDFileURL:       nullable(o.Verification.IDFileURL),
		IDNumber:        nullable(o.Verification.IDNumber),
		IDExpiry:        nullable(o.Verification.IDExpiry),
		AcceptTerms:     o.Verification.AcceptTerms,
		SkipIDUpload:    o.Verification.SkipIDUpload,
		OldVerifiedUser: o.Verification.IsOldVerifiedUser,
		PaymentMethod:   string(o.Payment.Method),
		ReceiptURL:      nullable(o.Payment.ReceiptURL),
		SkipReceipt:     o.Payment.SkipReceipt,
		Comments:        nullable(o.Payment.Comments),
		BonusQualifies:  o.Bonus.Qualifies,
		BonusLabel:      nullable(o.Bonus.Label),
		BonusReason:     nullable(o.Bonus.Reason),
		BonusType:       nullable(o.Bonus.Type),
		UnitPrice:       o.UnitPrice,
		ShippingFee:     o.ShippingFee,
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		Metadata:        meta,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func (r *orderRow) toDomain() *domain.Order {
	return &domain.Order{
		ID:        r.ID,
		Reference: r.Reference,
		PersonalInfo: domain.PersonalInfo{
			FullName: r.FullName,
			Email:    r.Email,
			Mobile:   r.Mobile,
			Country:  r.Country,
			Address:  r.Address,
			City:     r.City,
			State:    r.StateRegion,
			Postcode: r.Postcode,
		},
		OrderDetails: domain.OrderDetails{
			Currency: r.CurrencyLabel,
			Quantity: r.Quantity,
		},
		Verification: domain.Verification{
			IDFileURL:         r.IDFileURL.String,
			IDNumber:          r.IDNumber.String,
			IDExpiry:          r.IDExpiry.String,
			AcceptTerms:       r.AcceptTerms,
			SkipIDUpload:      r.SkipIDUpload,
			IsOldVerifiedUser: r.OldVerifiedUser,
		},
		Payment: domain.Payment{
			Method:      domain.PaymentMethod(r.PaymentMethod),
			ReceiptURL:  r.ReceiptURL.String,
			SkipReceipt: r.SkipReceipt,
			Comments:    r.Comments.String,
		},
		Bonus: domain.Bonus{
			Qualifies: r.BonusQualifies,
			Label:     r.BonusLabel.String,
			Reason:    r.BonusReason.String,
			Type:      r.BonusType.String,
		},
		UnitPrice:   r.UnitPrice,
		ShippingFee: r.ShippingFee,
		TotalAmount: r.TotalAmount,
		Status:      domain.OrderStatus(r.Status),
		Metadata:    r.Metadata,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	query := `
        INSERT INTO orders (
            id, reference, full_name, email, mobile, country, address, city,
            state_region, postcode, currency_label, quantity, id_file_url,
            id_number, id_expiry, accept_terms, skip_id_upload, old_verified_user,
            payment_method, receipt_url, skip_receipt, comments,
            bonus_qualifies, bonus_label, bonus_reason, bonus_type,
            unit_price, shipping_fee, total_amount, status, metadata,
            created_at, updated_at
        ) VALUES (
            :id, :reference, :full_name, :email, :mobile, :country, :address, :city,
            :state_region, :postcode, :currency_label, :quantity, :id_file_url,
            :id_number, :id_expiry, :accept_terms, :skip_id_upload, :old_verified_user,
            :payment_method, :receipt_url, :skip_receipt, :comments,
            :bonus_qualifies, :bonus_label, :bonus_reason, :bonus_type,
            :unit_price, :shipping_fee, :total_amount, :status, :metadata,
            :created_at, :updated_at
        )
    `

	_, err := r.db.NamedExecContext(ctx, query, toRow(o))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return errors.ErrOrderAlreadyExists
		}
		return errors.Wrap(err, "failed to insert order")
	}

	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var row orderRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM orders WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrOrderNotFound
		}
		return nil, errors.Wrap(err, "failed to find order")
	}
	return row.toDomain(), nil
}

func (r *OrderRepository) FindByReference(ctx context.Context, reference string) (*domain.Order, error) {
	var row orderRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM orders WHERE reference = $1`, reference)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrOrderNotFound
		}
		return nil, errors.Wrap(err, "failed to find order by reference")
	}
	return row.toDomain(), nil
}

func (r *OrderRepository) FindAll(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	var rows []orderRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]*domain.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, rows[i].toDomain())
	}
	return orders, nil
}

func (r *OrderRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM orders`)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count orders")
	}
	return count, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now(), id)
	if err != nil {
		return errors.Wrap(err, "failed to update order status")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.ErrOrderNotFound
	}
	return nil
}
