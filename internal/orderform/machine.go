package orderform

import (
	"fmt"

	"dinarex/pkg/errors"
)

// FirstStep and LastStep bound the form's ordered steps: order details,
// identity verification, payment.
const (
	FirstStep = 1
	LastStep  = 3
)

// Machine owns the step index for a form. Advancement is gated on the
// current step's validity predicate inside the transition itself, so a
// caller invoking Next directly cannot bypass validation. Going back is
// always allowed.
type Machine struct {
	form *Form
	step int
}

// NewMachine returns a machine positioned at the first step of form.
func NewMachine(form *Form) *Machine {
	return &Machine{form: form, step: FirstStep}
}

// Form returns the aggregate the machine drives.
func (m *Machine) Form() *Form {
	return m.form
}

// Step returns the current step number.
func (m *Machine) Step() int {
	return m.step
}

// CanAdvance reports whether the current step's predicate holds. The UI
// uses this to enable the next button; Next re-checks it regardless.
func (m *Machine) CanAdvance() bool {
	return m.form.stepValid(m.step)
}

// Next advances to the following step. It fails when the current step is
// incomplete or the machine is already on the last step.
func (m *Machine) Next() error {
	if m.step >= LastStep {
		return fmt.Errorf("already on step %d", m.step)
	}
	if !m.form.stepValid(m.step) {
		return errors.Wrap(errors.ErrStepInvalid, fmt.Sprintf("step %d", m.step))
	}
	m.step++
	return nil
}

// Back moves to the previous step, regardless of validity.
func (m *Machine) Back() {
	if m.step > FirstStep {
		m.step--
	}
}

// Reset clears the form and returns to the first step.
func (m *Machine) Reset() {
	m.form.Reset()
	m.step = FirstStep
}
