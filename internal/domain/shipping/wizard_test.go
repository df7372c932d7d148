package shipping

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewWizard(t *testing.T) {
	t.Run("FreshStartsAtMethod", func(t *testing.T) {
		w := NewWizard(nil)
		assert.Equal(t, StepMethod, w.Step())
		assert.Empty(t, w.Info().Mode)
	})

	t.Run("EditModeClearsShippingType", func(t *testing.T) {
		// Reopening always restarts at the method step, whatever the
		// previous session ended on.
		prev := NewInfo(uuid.New(), "PO-2024-000123")
		prev.Mode = ModeAir
		prev.FlightNumber = "TC-412"

		w := NewWizard(&prev)
		assert.Equal(t, StepMethod, w.Step())
		assert.Empty(t, w.Info().Mode)
		// Everything else carries over
		assert.Equal(t, "TC-412", w.Info().FlightNumber)
		assert.Equal(t, prev.InternalRef, w.Info().InternalRef)
	})
}

func TestWizard_Transitions(t *testing.T) {
	t.Run("ChooseModeAdvances", func(t *testing.T) {
		w := NewWizard(nil)
		require.NoError(t, w.ChooseMode(ModeAir))
		assert.Equal(t, StepDetails, w.Step())
		assert.Equal(t, ModeAir, w.Info().Mode)
	})

	t.Run("InvalidMode", func(t *testing.T) {
		w := NewWizard(nil)
		assert.ErrorIs(t, w.ChooseMode(Mode("ROAD")), ErrInvalidMode)
		assert.Equal(t, StepMethod, w.Step())
	})

	t.Run("BackPreservesDetails", func(t *testing.T) {
		w := NewWizard(nil)
		require.NoError(t, w.ChooseMode(ModeSea))
		w.Draft().VesselName = "MV Kilimanjaro"
		w.Draft().PortOfLoading = "Guangzhou"

		w.Back()
		assert.Equal(t, StepMethod, w.Step())
		assert.Equal(t, "MV Kilimanjaro", w.Info().VesselName)
		assert.Equal(t, "Guangzhou", w.Info().PortOfLoading)
	})

	t.Run("ModeSwitchKeepsSharedFields", func(t *testing.T) {
		// Air-only fields stay in state when switching to Sea, and the
		// shared departure/arrival dates survive any number of switches.
		w := NewWizard(nil)
		require.NoError(t, w.ChooseMode(ModeAir))
		departure := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
		arrival := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
		w.Draft().FlightNumber = "TC-412"
		w.Draft().DepartureDate = departure
		w.Draft().ArrivalDate = arrival

		w.Back()
		require.NoError(t, w.ChooseMode(ModeSea))
		assert.Equal(t, ModeSea, w.Info().Mode)
		assert.Equal(t, departure, w.Info().DepartureDate)
		assert.Equal(t, arrival, w.Info().ArrivalDate)
		assert.Equal(t, "TC-412", w.Info().FlightNumber)

		w.Back()
		require.NoError(t, w.ChooseMode(ModeAir))
		assert.Equal(t, departure, w.Info().DepartureDate)
		assert.Equal(t, arrival, w.Info().ArrivalDate)
	})
}

func TestWizard_Save(t *testing.T) {
	t.Run("RequiresMode", func(t *testing.T) {
		w := NewWizard(nil)
		_, err := w.Save()
		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.Contains(t, w.Validate(), "shipping_type")
	})

	t.Run("OtherFieldsOptional", func(t *testing.T) {
		w := NewWizard(nil)
		require.NoError(t, w.ChooseMode(ModeAir))

		info, err := w.Save()
		require.NoError(t, err)
		assert.Equal(t, ModeAir, info.Mode)
		assert.Empty(t, w.Validate())
	})
}

func TestWizard_StatusAutoDating(t *testing.T) {
	day1 := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)

	t.Run("AssignedStampsOnce", func(t *testing.T) {
		w := NewWizard(nil)
		w.now = fixedClock(day1)

		w.SetStatus(StatusAssigned)
		assert.Equal(t, StatusAssigned, w.Info().InternalStatus)
		assert.Equal(t, day1, w.Info().AssignedDate)

		// Re-assigning later must not move the stamp
		w.now = fixedClock(day2)
		w.SetStatus(StatusAssigned)
		assert.Equal(t, day1, w.Info().AssignedDate)
	})

	t.Run("InTransitStampsPickup", func(t *testing.T) {
		w := NewWizard(nil)
		w.now = fixedClock(day1)

		w.SetStatus(StatusInTransit)
		assert.Equal(t, day1, w.Info().PickupDate)
		assert.True(t, w.Info().AssignedDate.IsZero())
	})

	t.Run("RollbackDoesNotRevert", func(t *testing.T) {
		w := NewWizard(nil)
		w.now = fixedClock(day1)

		w.SetStatus(StatusInTransit)
		w.SetStatus(StatusPending)
		assert.Equal(t, StatusPending, w.Info().InternalStatus)
		assert.Equal(t, day1, w.Info().PickupDate)
	})
}

func TestWizard_ApplyAgent(t *testing.T) {
	agent := Agent{
		ID:      uuid.New(),
		Name:    "Musa Logistics",
		Company: "Musa Freight Ltd",
		Phone:   "+255700000001",
		Contacts: []Contact{
			{Name: "Juma Said", Role: "Dispatcher", Phone: "+255700000002"},
			{Name: "Asha Omari", Role: "Manager", Phone: "+255700000003", Primary: true},
		},
		Address: "12 Nyerere Rd",
		City:    "Dar es Salaam",
		Country: "Tanzania",
		Notes:   "Consolidates weekly from Guangzhou",
	}

	t.Run("PrimaryContactWins", func(t *testing.T) {
		w := NewWizard(nil)
		w.ApplyAgent(agent)

		info := w.Info()
		assert.Equal(t, agent.ID, info.AgentID)
		assert.Equal(t, "Asha Omari", info.Contact)
		assert.Equal(t, "+255700000003", info.Phone)
		assert.Equal(t, "12 Nyerere Rd", info.Address)
		assert.Equal(t, "Consolidates weekly from Guangzhou", info.InternalNotes)
	})

	t.Run("FirstContactFallback", func(t *testing.T) {
		a := agent
		a.Contacts = []Contact{{Name: "Juma Said", Phone: "+255700000002"}}

		w := NewWizard(nil)
		w.ApplyAgent(a)
		assert.Equal(t, "Juma Said", w.Info().Contact)
		assert.Equal(t, "+255700000002", w.Info().Phone)
	})

	t.Run("NoPhonePreservesPrior", func(t *testing.T) {
		a := agent
		a.Phone = ""
		a.Contacts = []Contact{{Name: "Juma Said"}}

		w := NewWizard(nil)
		w.Draft().Phone = "+255711111111"
		w.ApplyAgent(a)
		assert.Equal(t, "+255711111111", w.Info().Phone)
		assert.Equal(t, "Juma Said", w.Info().Contact)
	})

	t.Run("NoContactsUsesAgentName", func(t *testing.T) {
		a := agent
		a.Contacts = nil

		w := NewWizard(nil)
		w.ApplyAgent(a)
		assert.Equal(t, "Musa Logistics", w.Info().Contact)
		assert.Equal(t, "+255700000001", w.Info().Phone)
	})

	t.Run("Idempotent", func(t *testing.T) {
		w := NewWizard(nil)
		w.ApplyAgent(agent)
		first := w.Info()

		w.ApplyAgent(agent)
		assert.Equal(t, first, w.Info())
	})
}

func TestAgent_PrimaryContact(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		a := Agent{}
		_, ok := a.PrimaryContact()
		assert.False(t, ok)
	})

	t.Run("PriorityOrder", func(t *testing.T) {
		a := Agent{Contacts: []Contact{
			{Name: "First"},
			{Name: "Flagged", Primary: true},
		}}
		c, ok := a.PrimaryContact()
		require.True(t, ok)
		assert.Equal(t, "Flagged", c.Name)

		a.Contacts[1].Primary = false
		c, ok = a.PrimaryContact()
		require.True(t, ok)
		assert.Equal(t, "First", c.Name)
	})
}

func TestNewInfo_Defaults(t *testing.T) {
	poID := uuid.New()
	info := NewInfo(poID, "PO-2024-000123")

	assert.Equal(t, poID, info.PurchaseOrderID)
	assert.Equal(t, "PO-000123", info.InternalRef)
	assert.Equal(t, PriorityNormal, info.Priority)
	assert.Equal(t, StatusPending, info.InternalStatus)
	assert.Equal(t, "Standard", info.CarrierTier)
	assert.Empty(t, info.Mode)
}
