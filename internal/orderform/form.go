// Package orderform models the three-step order form: its aggregate state,
// reducer-style field updates, per-step validity, and the step machine.
package orderform

import (
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"dinarex/internal/domain"
)

// Section names a slice of the form aggregate. Updates are dispatched by
// (section, field) pairs.
type Section string

const (
	SectionPersonalInfo Section = "personalInfo"
	SectionOrderDetails Section = "orderDetails"
	SectionVerification Section = "verification"
	SectionPayment      Section = "payment"
)

// FileRef is an in-memory reference to a file the customer selected. The
// bytes live only until submission; the preview data URL is derived and has
// no bearing on the uploaded artifact.
type FileRef struct {
	Name string
	Data []byte
}

// DataURL renders the file as a data URL for local preview.
func (f *FileRef) DataURL() string {
	if f == nil {
		return ""
	}
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Name)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

// VerificationState is the step-two slice of the form. Exactly one of the
// upload path, SkipIDUpload, or IsOldVerifiedUser is active at a time;
// selecting skip or old-user clears the upload fields.
type VerificationState struct {
	IDFile            *FileRef
	IDFileURL         string
	IDNumber          string
	IDExpiry          string
	AcceptTerms       bool
	SkipIDUpload      bool
	IsOldVerifiedUser bool
}

// PaymentState is the step-three slice of the form. A receipt is required
// unless SkipReceipt is set.
type PaymentState struct {
	Method      domain.PaymentMethod
	Receipt     *FileRef
	ReceiptURL  string
	SkipReceipt bool
	Comments    string
}

// Form is the single mutable aggregate behind the order form. It is created
// fresh per mount, mutated field-by-field through Apply, and reset on
// successful submission.
type Form struct {
	PersonalInfo domain.PersonalInfo
	OrderDetails domain.OrderDetails
	Verification VerificationState
	Payment      PaymentState
}

// New returns an empty form.
func New() *Form {
	return &Form{}
}

// Reset restores the form to its initial state.
func (f *Form) Reset() {
	*f = Form{}
}

// Apply dispatches a single field update. It returns an error for unknown
// sections or fields and for values of the wrong type, so callers can treat
// the form as a validated boundary rather than a duck-typed bag.
func (f *Form) Apply(section Section, field string, value interface{}) error {
	switch section {
	case SectionPersonalInfo:
		return f.applyPersonalInfo(field, value)
	case SectionOrderDetails:
		return f.applyOrderDetails(field, value)
	case SectionVerification:
		return f.applyVerification(field, value)
	case SectionPayment:
		return f.applyPayment(field, value)
	default:
		return fmt.Errorf("unknown form section: %s", section)
	}
}

func (f *Form) applyPersonalInfo(field string, value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("personalInfo.%s: expected string, got %T", field, value)
	}
	switch field {
	case "fullName":
		f.PersonalInfo.FullName = s
	case "email":
		f.PersonalInfo.Email = s
	case "mobile":
		f.PersonalInfo.Mobile = s
	case "country":
		f.PersonalInfo.Country = s
	case "address":
		f.PersonalInfo.Address = s
	case "city":
		f.PersonalInfo.City = s
	case "state":
		f.PersonalInfo.State = s
	case "postcode":
		f.PersonalInfo.Postcode = s
	default:
		return fmt.Errorf("unknown personalInfo field: %s", field)
	}
	return nil
}

func (f *Form) applyOrderDetails(field string, value interface{}) error {
	switch field {
	case "currency":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("orderDetails.currency: expected string, got %T", value)
		}
		f.OrderDetails.Currency = s
	case "quantity":
		n, ok := value.(int)
		if !ok {
			return fmt.Errorf("orderDetails.quantity: expected int, got %T", value)
		}
		f.OrderDetails.Quantity = n
	default:
		return fmt.Errorf("unknown orderDetails field: %s", field)
	}
	return nil
}

func (f *Form) applyVerification(field string, value interface{}) error {
	switch field {
	case "idFile":
		file, ok := value.(*FileRef)
		if !ok {
			return fmt.Errorf("verification.idFile: expected *FileRef, got %T", value)
		}
		// Selecting a file selects the upload path.
		f.Verification.SkipIDUpload = false
		f.Verification.IsOldVerifiedUser = false
		f.Verification.IDFile = file
		f.Verification.IDFileURL = file.DataURL()
	case "idNumber":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("verification.idNumber: expected string, got %T", value)
		}
		f.Verification.IDNumber = s
	case "idExpiry":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("verification.idExpiry: expected string, got %T", value)
		}
		f.Verification.IDExpiry = s
	case "acceptTerms":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("verification.acceptTerms: expected bool, got %T", value)
		}
		f.Verification.AcceptTerms = b
	case "skipIdUpload":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("verification.skipIdUpload: expected bool, got %T", value)
		}
		f.Verification.SkipIDUpload = b
		if b {
			f.Verification.IsOldVerifiedUser = false
			f.clearUploadFields()
		}
	case "isOldVerifiedUser":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("verification.isOldVerifiedUser: expected bool, got %T", value)
		}
		f.Verification.IsOldVerifiedUser = b
		if b {
			f.Verification.SkipIDUpload = false
			f.clearUploadFields()
		}
	default:
		return fmt.Errorf("unknown verification field: %s", field)
	}
	return nil
}

func (f *Form) clearUploadFields() {
	f.Verification.IDFile = nil
	f.Verification.IDFileURL = ""
	f.Verification.IDNumber = ""
	f.Verification.IDExpiry = ""
}

func (f *Form) applyPayment(field string, value interface{}) error {
	switch field {
	case "method":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("payment.method: expected string, got %T", value)
		}
		f.Payment.Method = domain.PaymentMethod(s)
	case "receipt":
		file, ok := value.(*FileRef)
		if !ok {
			return fmt.Errorf("payment.receipt: expected *FileRef, got %T", value)
		}
		f.Payment.Receipt = file
		f.Payment.ReceiptURL = file.DataURL()
		f.Payment.SkipReceipt = false
	case "skipReceipt":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("payment.skipReceipt: expected bool, got %T", value)
		}
		f.Payment.SkipReceipt = b
	case "comments":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("payment.comments: expected string, got %T", value)
		}
		f.Payment.Comments = s
	default:
		return fmt.Errorf("unknown payment field: %s", field)
	}
	return nil
}
