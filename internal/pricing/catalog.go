package pricing

import (
	"github.com/shopspring/decimal"

	"dinarex/internal/domain"
)

// Catalog is the static price list the storefront sells from. Options are
// configuration, not user input; lookups are by exact label.
type Catalog struct {
	options []domain.CurrencyOption
}

// NewCatalog builds a catalog from the given options.
func NewCatalog(options []domain.CurrencyOption) *Catalog {
	return &Catalog{options: options}
}

// Options returns the full price list in display order.
func (c *Catalog) Options() []domain.CurrencyOption {
	return c.options
}

// UnitPrice returns the unit price for an exact label match, or zero when
// the label is not on the list.
func (c *Catalog) UnitPrice(label string) decimal.Decimal {
	for _, opt := range c.options {
		if opt.Label == label {
			return opt.Value
		}
	}
	return decimal.Zero
}

// Contains reports whether label is on the price list.
func (c *Catalog) Contains(label string) bool {
	for _, opt := range c.options {
		if opt.Label == label {
			return true
		}
	}
	return false
}

func option(label, price string) domain.CurrencyOption {
	return domain.CurrencyOption{Label: label, Value: decimal.RequireFromString(price)}
}

// DefaultCatalog is the price list currently offered: Iraqi Dinar
// denominations plus the Zimbabwe Dollar line.
func DefaultCatalog() *Catalog {
	return NewCatalog([]domain.CurrencyOption{
		option("25,000 IQD - $186 AUD", "186"),
		option("50,000 IQD - $281 AUD", "281"),
		option("75,000 IQD - $325 AUD", "325"),
		option("100,000 IQD - $381 AUD", "381"),
		option("200,000 IQD - $656 AUD", "656"),
		option("500,000 IQD - $1,400 AUD", "1400"),
		option("1,000,000 IQD - $2,800 AUD", "2800"),
		option("2,000,000 IQD - $5,500 AUD", "5500"),
		option("10 Billion Zimbabwe Dollars - $250 AUD", "250"),
		option("50 Billion Zimbabwe Dollars - $890 AUD", "890"),
		option("10 Trillion Zimbabwe Dollars - $2600 AUD", "2600"),
	})
}
