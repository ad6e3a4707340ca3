package orderform

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinarex/internal/domain"
	"dinarex/internal/pricing"
	"dinarex/pkg/errors"
)

func TestMachineRejectsInvalidAdvance(t *testing.T) {
	m := NewMachine(New())
	assert.Equal(t, 1, m.Step())
	assert.False(t, m.CanAdvance())

	err := m.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrStepInvalid)
	assert.Equal(t, 1, m.Step())
}

func TestMachineWalksAllSteps(t *testing.T) {
	f := New()
	m := NewMachine(f)

	fillStep1(t, f)
	require.NoError(t, m.Next())
	assert.Equal(t, 2, m.Step())

	// Step 2 invalid until filled.
	assert.Error(t, m.Next())

	fillStep2Upload(t, f)
	require.NoError(t, m.Next())
	assert.Equal(t, 3, m.Step())

	// Cannot advance past the last step.
	assert.Error(t, m.Next())
}

func TestMachineBackAlwaysAllowed(t *testing.T) {
	f := New()
	m := NewMachine(f)
	fillStep1(t, f)
	require.NoError(t, m.Next())

	// Invalidate step 1, then go back anyway.
	require.NoError(t, f.Apply(SectionPersonalInfo, "email", ""))
	m.Back()
	assert.Equal(t, 1, m.Step())

	m.Back()
	assert.Equal(t, 1, m.Step(), "back stops at the first step")
}

func TestMachineReset(t *testing.T) {
	f := New()
	m := NewMachine(f)
	fillStep1(t, f)
	require.NoError(t, m.Next())

	m.Reset()
	assert.Equal(t, 1, m.Step())
	assert.Equal(t, Form{}, *f)
}

func TestSummarize(t *testing.T) {
	catalog := pricing.DefaultCatalog()
	defaultFee := decimal.RequireFromString("29.99")
	bonus := &domain.BonusConfig{MinAmount: 1_000_000, BonusLabel: "10 Billion ZIM free"}

	f := New()
	require.NoError(t, f.Apply(SectionOrderDetails, "currency", "1,000,000 IQD - $2,800 AUD"))
	require.NoError(t, f.Apply(SectionOrderDetails, "quantity", 2))

	// Shipping displays as zero until a country is chosen.
	s := f.Summarize(catalog, defaultFee, bonus)
	assert.Equal(t, "2800", s.UnitPrice.String())
	assert.True(t, s.ShippingFee.IsZero())
	assert.Equal(t, "5600", s.TotalAmount.String())
	assert.True(t, s.QualifiesForBonus)

	require.NoError(t, f.Apply(SectionPersonalInfo, "country", "Australia"))
	s = f.Summarize(catalog, defaultFee, bonus)
	assert.Equal(t, "19.99", s.ShippingFee.String())
	assert.Equal(t, "5619.99", s.TotalAmount.String())

	// Below the threshold the bonus does not apply.
	require.NoError(t, f.Apply(SectionOrderDetails, "currency", "500,000 IQD - $1,400 AUD"))
	s = f.Summarize(catalog, defaultFee, bonus)
	assert.False(t, s.QualifiesForBonus)

	// Unknown label prices at zero.
	require.NoError(t, f.Apply(SectionOrderDetails, "currency", "750,000 IQD - $42 AUD"))
	s = f.Summarize(catalog, defaultFee, bonus)
	assert.True(t, s.UnitPrice.IsZero())
	assert.Equal(t, "19.99", s.TotalAmount.String())
}
