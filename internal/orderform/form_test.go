package orderform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinarex/internal/domain"
)

func fillStep1(t *testing.T, f *Form) {
	t.Helper()
	fields := map[string]string{
		"fullName": "Jane Citizen",
		"email":    "jane@example.com",
		"mobile":   "0412345678",
		"country":  "Australia",
		"address":  "1 Collins St",
		"city":     "Melbourne",
		"state":    "VIC",
		"postcode": "3000",
	}
	for field, value := range fields {
		require.NoError(t, f.Apply(SectionPersonalInfo, field, value))
	}
	require.NoError(t, f.Apply(SectionOrderDetails, "currency", "1,000,000 IQD - $2,800 AUD"))
	require.NoError(t, f.Apply(SectionOrderDetails, "quantity", 1))
}

func fillStep2Upload(t *testing.T, f *Form) {
	t.Helper()
	require.NoError(t, f.Apply(SectionVerification, "idFile", &FileRef{Name: "passport.jpg", Data: []byte("jpeg")}))
	require.NoError(t, f.Apply(SectionVerification, "idNumber", "P1234567"))
	require.NoError(t, f.Apply(SectionVerification, "idExpiry", "2031-05-01"))
	require.NoError(t, f.Apply(SectionVerification, "acceptTerms", true))
}

func TestApplyRejectsUnknownFields(t *testing.T) {
	f := New()

	assert.Error(t, f.Apply("billingInfo", "fullName", "x"))
	assert.Error(t, f.Apply(SectionPersonalInfo, "nickname", "x"))
	assert.Error(t, f.Apply(SectionOrderDetails, "quantity", "three"))
	assert.Error(t, f.Apply(SectionVerification, "acceptTerms", "yes"))
}

func TestStep1Validity(t *testing.T) {
	f := New()
	assert.False(t, f.Step1Valid())

	fillStep1(t, f)
	assert.True(t, f.Step1Valid())

	// Removing any one required field flips validity to false.
	for _, field := range []string{"fullName", "email", "mobile", "country", "address", "city", "state", "postcode"} {
		g := New()
		fillStep1(t, g)
		require.NoError(t, g.Apply(SectionPersonalInfo, field, ""))
		assert.False(t, g.Step1Valid(), "empty %s should invalidate step 1", field)
	}

	g := New()
	fillStep1(t, g)
	require.NoError(t, g.Apply(SectionOrderDetails, "currency", ""))
	assert.False(t, g.Step1Valid())

	g = New()
	fillStep1(t, g)
	require.NoError(t, g.Apply(SectionOrderDetails, "quantity", 0))
	assert.False(t, g.Step1Valid())
}

func TestStep2UploadPath(t *testing.T) {
	f := New()
	assert.False(t, f.Step2Valid())

	fillStep2Upload(t, f)
	assert.True(t, f.Step2Valid())
	assert.Contains(t, f.Verification.IDFileURL, "data:image/jpeg;base64,")

	require.NoError(t, f.Apply(SectionVerification, "acceptTerms", false))
	assert.False(t, f.Step2Valid())
}

func TestStep2SkipClearsUploadFields(t *testing.T) {
	f := New()
	fillStep2Upload(t, f)

	require.NoError(t, f.Apply(SectionVerification, "skipIdUpload", true))
	assert.Nil(t, f.Verification.IDFile)
	assert.Empty(t, f.Verification.IDFileURL)
	assert.Empty(t, f.Verification.IDNumber)
	assert.Empty(t, f.Verification.IDExpiry)
	assert.False(t, f.Verification.IsOldVerifiedUser)

	// Only the terms matter now.
	assert.True(t, f.Step2Valid())
	require.NoError(t, f.Apply(SectionVerification, "acceptTerms", false))
	assert.False(t, f.Step2Valid())
}

func TestStep2RadioMutualExclusion(t *testing.T) {
	f := New()

	require.NoError(t, f.Apply(SectionVerification, "skipIdUpload", true))
	require.NoError(t, f.Apply(SectionVerification, "isOldVerifiedUser", true))
	assert.False(t, f.Verification.SkipIDUpload)
	assert.True(t, f.Verification.IsOldVerifiedUser)

	// Selecting a file returns to the upload path.
	require.NoError(t, f.Apply(SectionVerification, "idFile", &FileRef{Name: "licence.png", Data: []byte("png")}))
	assert.False(t, f.Verification.SkipIDUpload)
	assert.False(t, f.Verification.IsOldVerifiedUser)
	assert.NotNil(t, f.Verification.IDFile)
}

func TestStep3Validity(t *testing.T) {
	f := New()
	assert.False(t, f.Step3Valid())

	require.NoError(t, f.Apply(SectionPayment, "method", "bank_transfer"))
	assert.False(t, f.Step3Valid(), "no receipt and no skip")

	require.NoError(t, f.Apply(SectionPayment, "skipReceipt", true))
	assert.True(t, f.Step3Valid())

	// The method enum is closed.
	require.NoError(t, f.Apply(SectionPayment, "method", "paypal"))
	assert.False(t, f.Step3Valid())

	require.NoError(t, f.Apply(SectionPayment, "method", "western_union"))
	require.NoError(t, f.Apply(SectionPayment, "skipReceipt", false))
	require.NoError(t, f.Apply(SectionPayment, "receipt", &FileRef{Name: "receipt.pdf", Data: []byte("pdf")}))
	assert.True(t, f.Step3Valid())
}

func TestPaymentMethodClosedEnum(t *testing.T) {
	assert.True(t, domain.PaymentBankTransfer.Valid())
	assert.True(t, domain.PaymentWesternUnion.Valid())
	assert.False(t, domain.PaymentMethod("").Valid())
	assert.False(t, domain.PaymentMethod("crypto").Valid())
}

func TestReset(t *testing.T) {
	f := New()
	fillStep1(t, f)
	fillStep2Upload(t, f)

	f.Reset()
	assert.Equal(t, Form{}, *f)
}
