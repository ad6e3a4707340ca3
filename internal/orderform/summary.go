package orderform

import (
	"strings"

	"github.com/shopspring/decimal"

	"dinarex/internal/domain"
	"dinarex/internal/pricing"
)

// Summary holds the derived values shown alongside the form. They are
// recomputed from scratch on every change; nothing here is stored.
type Summary struct {
	UnitPrice         decimal.Decimal
	ShippingFee       decimal.Decimal
	TotalAmount       decimal.Decimal
	QualifiesForBonus bool
}

// Summarize computes the order summary for the form's current state. The
// shipping fee displays as zero until a country has been chosen; an
// unmatched currency label prices at zero.
func (f *Form) Summarize(catalog *pricing.Catalog, defaultShipping decimal.Decimal, bonus *domain.BonusConfig) Summary {
	unit := catalog.UnitPrice(f.OrderDetails.Currency)

	shipping := decimal.Zero
	if strings.TrimSpace(f.PersonalInfo.Country) != "" {
		shipping = pricing.ShippingFee(f.PersonalInfo.Country, defaultShipping)
	}

	quantity := f.OrderDetails.Quantity
	if quantity < 0 {
		quantity = 0
	}

	return Summary{
		UnitPrice:         unit,
		ShippingFee:       shipping,
		TotalAmount:       pricing.Total(unit, quantity, shipping),
		QualifiesForBonus: pricing.QualifiesForBonus(bonus, f.OrderDetails.Currency),
	}
}
