package domain

import "github.com/shopspring/decimal"

// CurrencyOption is a single entry on the static price list, e.g.
// "25,000 IQD - $186 AUD". Value is the unit price in AUD.
type CurrencyOption struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// BonusConfig describes a promotional grant of a secondary currency above a
// purchase threshold of the primary one. Nil means no promotion is running.
type BonusConfig struct {
	MinAmount   int64  `json:"minAmount"`
	BonusAmount string `json:"bonusAmount"`
	BonusLabel  string `json:"bonusLabel"`
	BonusReason string `json:"bonusReason"`
	BonusType   string `json:"bonusType"`
}

// BankDetails is shown on the payment step for bank transfers.
type BankDetails struct {
	AccountName   string `json:"accountName"`
	BSB           string `json:"bsb"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
	Reference     string `json:"reference,omitempty"`
}
