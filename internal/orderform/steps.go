package orderform

import "strings"

func filled(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// Step1Valid reports whether the order-details step is complete: every
// personal field filled, a currency selected and a positive quantity.
func (f *Form) Step1Valid() bool {
	p := f.PersonalInfo
	return filled(p.FullName, p.Email, p.Mobile, p.Country, p.Address, p.City, p.State, p.Postcode) &&
		strings.TrimSpace(f.OrderDetails.Currency) != "" &&
		f.OrderDetails.Quantity >= 1
}

// Step2Valid reports whether the verification step is complete. When the
// customer skips the upload or is a previously verified customer, only the
// terms acceptance is required; otherwise the document, its number and
// expiry must all be present.
func (f *Form) Step2Valid() bool {
	v := f.Verification
	if v.SkipIDUpload || v.IsOldVerifiedUser {
		return v.AcceptTerms
	}
	return v.IDFile != nil && filled(v.IDNumber, v.IDExpiry) && v.AcceptTerms
}

// Step3Valid reports whether the payment step is complete. The method enum
// is closed: anything outside bank transfer and Western Union is invalid,
// and both require either an uploaded receipt or an explicit skip.
func (f *Form) Step3Valid() bool {
	if !f.Payment.Method.Valid() {
		return false
	}
	return f.Payment.Receipt != nil || f.Payment.SkipReceipt
}

func (f *Form) stepValid(step int) bool {
	switch step {
	case 1:
		return f.Step1Valid()
	case 2:
		return f.Step2Valid()
	case 3:
		return f.Step3Valid()
	}
	return false
}
