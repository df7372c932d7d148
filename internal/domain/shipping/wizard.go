package shipping

import (
	"errors"
	"time"
)

// Step identifies the wizard's current screen
type Step string

const (
	// StepMethod is the initial mode-selection step
	StepMethod Step = "METHOD"
	// StepDetails is the detail form for the chosen mode
	StepDetails Step = "DETAILS"
)

var (
	ErrInvalidMode      = errors.New("invalid shipping mode")
	ErrValidationFailed = errors.New("shipping info validation failed")
)

// Wizard is the two-step state machine behind the shipping form. Transitions
// are pure with respect to the wrapped Info: going back never resets
// accumulated details, and only a fresh wizard clears the mode.
type Wizard struct {
	step Step
	info Info
	now  func() time.Time
}

// NewWizard starts a wizard at the method step. When initial data is given
// (edit mode) it is copied wholesale, but the mode is cleared so the method
// choice is always made anew per session.
func NewWizard(initial *Info) *Wizard {
	w := &Wizard{
		step: StepMethod,
		now:  time.Now,
	}
	if initial != nil {
		w.info = *initial
	}
	w.info.Mode = ""
	return w
}

// Step returns the wizard's current step
func (w *Wizard) Step() Step {
	return w.step
}

// Info returns a copy of the accumulated shipping record
func (w *Wizard) Info() Info {
	return w.info
}

// Draft exposes the underlying record for free-text field edits. Guarded
// transitions (mode, status, agent) go through their dedicated methods.
func (w *Wizard) Draft() *Info {
	return &w.info
}

// ChooseMode sets the shipping mode and advances to the details step.
// Re-choosing a mode from the method step leaves every other field intact,
// including the shared departure/arrival dates and the other mode's fields.
func (w *Wizard) ChooseMode(m Mode) error {
	if !m.Valid() {
		return ErrInvalidMode
	}
	w.info.Mode = m
	w.step = StepDetails
	return nil
}

// Back returns to the method step without touching accumulated details
func (w *Wizard) Back() {
	w.step = StepMethod
}

// SetStatus updates the internal status, stamping the matching date the
// first time a status is reached. The stamps never revert on rollback.
func (w *Wizard) SetStatus(s Status) {
	w.info.InternalStatus = s
	switch s {
	case StatusAssigned:
		if w.info.AssignedDate.IsZero() {
			w.info.AssignedDate = w.now()
		}
	case StatusInTransit:
		if w.info.PickupDate.IsZero() {
			w.info.PickupDate = w.now()
		}
	}
}

// ApplyAgent copies the agent's contact, address and notes into the record.
// The copy is one-way and idempotent; the phone is only overwritten when the
// agent actually has one.
func (w *Wizard) ApplyAgent(a Agent) {
	w.info.AgentID = a.ID

	if c, ok := a.PrimaryContact(); ok {
		w.info.Contact = c.Name
	} else {
		w.info.Contact = a.Name
	}
	if phone, ok := a.ContactPhone(); ok {
		w.info.Phone = phone
	}
	w.info.Address = a.Address
	w.info.City = a.City
	w.info.Country = a.Country
	w.info.InternalNotes = a.Notes
}

// Validate runs the synchronous field validation for the current record
func (w *Wizard) Validate() ValidationErrors {
	return w.info.Validate()
}

// Save finalizes the wizard. It fails if validation reports any field
// errors; otherwise the completed record is returned for persistence.
func (w *Wizard) Save() (Info, error) {
	if errs := w.Validate(); len(errs) > 0 {
		return Info{}, ErrValidationFailed
	}
	w.info.UpdatedAt = w.now()
	return w.info, nil
}
