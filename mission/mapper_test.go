package mission

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/mission-engine/core"
	"github.com/warp/mission-engine/user"
)

// =============================================================================
// FAKE LOOKUPS
// =============================================================================

type fakeNatures struct {
	byID map[string]NatureMission
}

func (f *fakeNatures) GetNature(_ context.Context, id string) (*NatureMission, error) {
	n, ok := f.byID[id]
	if !ok {
		return nil, core.NewNotFound("nature", id)
	}
	return &n, nil
}

type fakeUsers struct {
	byID map[string]user.User
}

func (f *fakeUsers) GetUser(_ context.Context, id string) (*user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, core.NewNotFound("user", id)
	}
	return &u, nil
}

func newTestMapper() *Mapper {
	natures := &fakeNatures{byID: map[string]NatureMission{
		"n-consulting": BilledNature("n-consulting", "Consulting", 50, 10),
		"n-internal":   UnbilledNature("n-internal", "Internal project"),
	}}
	users := &fakeUsers{byID: map[string]user.User{
		"u-alice": {ID: "u-alice", FirstName: "Alice", LastName: "Durand", Email: "alice@example.com", Role: user.RoleUser},
	}}
	return NewMapper(natures, users)
}

func validForm() Form {
	return Form{
		Label:         "Client kickoff",
		Status:        StatusPlanned,
		StartDate:     "2025-01-01",
		EndDate:       "2025-01-03",
		Transport:     TransportTrain,
		DepartureCity: "Paris",
		ArrivalCity:   "Lyon",
		UserID:        "u-alice",
		NatureID:      "n-consulting",
	}
}

// =============================================================================
// TESTS
// =============================================================================

func TestFromForm_ComputesPriceButNeverBounty(t *testing.T) {
	mp := newTestMapper()

	// GIVEN a form claiming FINISHED status under an eligible nature
	form := validForm()
	form.Status = StatusFinished

	// WHEN converting to an entity
	m, _, err := mp.FromForm(context.Background(), form)
	require.NoError(t, err)

	// THEN the price is derived (3 days × 50) but the bounty stays zeroed:
	// only the display conversion awards bounties
	assert.True(t, decimal.NewFromInt(150).Equal(m.TotalPrice), "got %s", m.TotalPrice)
	assert.True(t, m.BountyAmount.IsZero())
	assert.Nil(t, m.BountyDate)
}

func TestFromForm_AttachesExpenseShell(t *testing.T) {
	mp := newTestMapper()

	// WHEN converting a valid form
	m, shell, err := mp.FromForm(context.Background(), validForm())
	require.NoError(t, err)

	// THEN a fresh empty expense shell references the mission and vice versa
	require.NotNil(t, shell)
	assert.NotEmpty(t, shell.ID)
	assert.Equal(t, m.ID, shell.MissionID)
	assert.Equal(t, shell.ID, m.ExpenseID)
	assert.Empty(t, shell.Lines)
}

func TestFromForm_ResolvesReferences(t *testing.T) {
	mp := newTestMapper()

	m, _, err := mp.FromForm(context.Background(), validForm())
	require.NoError(t, err)

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "u-alice", m.UserID)
	assert.Equal(t, "n-consulting", m.NatureID)
	assert.True(t, core.NewTimePoint(2025, time.January, 1).Equal(m.Start))
	assert.True(t, core.NewTimePoint(2025, time.January, 3).Equal(m.End))
}

func TestFromForm_UnknownNatureFails(t *testing.T) {
	mp := newTestMapper()

	form := validForm()
	form.NatureID = "n-missing"

	_, _, err := mp.FromForm(context.Background(), form)
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err))
}

func TestFromForm_UnknownUserFails(t *testing.T) {
	mp := newTestMapper()

	form := validForm()
	form.UserID = "u-missing"

	_, _, err := mp.FromForm(context.Background(), form)
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err))
}

func TestFromForm_BadDateFails(t *testing.T) {
	mp := newTestMapper()

	form := validForm()
	form.StartDate = "01/01/2025"

	_, _, err := mp.FromForm(context.Background(), form)
	require.Error(t, err)
}

func TestToDisplay_RecomputesFromCurrentPolicy(t *testing.T) {
	mp := newTestMapper()

	// GIVEN a finished mission whose STORED money fields are stale
	m := Mission{
		ID:            "m1",
		Label:         "Client kickoff",
		Status:        StatusFinished,
		Start:         core.NewTimePoint(2025, time.January, 1),
		End:           core.NewTimePoint(2025, time.January, 3),
		Transport:     TransportTrain,
		DepartureCity: "Paris",
		ArrivalCity:   "Lyon",
		NatureID:      "n-consulting",
		UserID:        "u-alice",
		ExpenseID:     "e1",
		TotalPrice:    decimal.NewFromInt(999),
		BountyAmount:  decimal.Zero,
	}

	// WHEN converting for display
	dto, err := mp.ToDisplay(context.Background(), m)
	require.NoError(t, err)

	// THEN the DTO carries the recomputed values, not the stored ones
	assert.True(t, decimal.NewFromInt(150).Equal(dto.TotalPrice), "got %s", dto.TotalPrice)
	assert.True(t, decimal.NewFromInt(15).Equal(dto.BountyAmount), "got %s", dto.BountyAmount)
	assert.Equal(t, "2025-01-03", dto.BountyDate)
	assert.Equal(t, "Consulting", dto.NatureLabel)
	assert.Equal(t, "2025-01-01", dto.StartDate)
	assert.Equal(t, "2025-01-03", dto.EndDate)
}

func TestToDisplay_UnfinishedMissionOmitsBountyDate(t *testing.T) {
	mp := newTestMapper()

	m := Mission{
		ID:       "m1",
		Status:   StatusInProgress,
		Start:    core.NewTimePoint(2025, time.January, 1),
		End:      core.NewTimePoint(2025, time.January, 3),
		NatureID: "n-consulting",
		UserID:   "u-alice",
	}

	dto, err := mp.ToDisplay(context.Background(), m)
	require.NoError(t, err)

	assert.True(t, dto.BountyAmount.IsZero())
	assert.Empty(t, dto.BountyDate)
}

func TestToDisplay_UnknownNatureFails(t *testing.T) {
	mp := newTestMapper()

	m := Mission{ID: "m1", NatureID: "n-missing", UserID: "u-alice"}

	_, err := mp.ToDisplay(context.Background(), m)
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err))
}

func TestToForm_CopiesScalarsOnly(t *testing.T) {
	mp := newTestMapper()

	// GIVEN a mission with derived fields set
	m := Mission{
		ID:            "m1",
		Label:         "Client kickoff",
		Status:        StatusPlanned,
		Start:         core.NewTimePoint(2025, time.January, 1),
		End:           core.NewTimePoint(2025, time.January, 3),
		Transport:     TransportCar,
		DepartureCity: "Paris",
		ArrivalCity:   "Lyon",
		NatureID:      "n-consulting",
		UserID:        "u-alice",
		TotalPrice:    decimal.NewFromInt(150),
		BountyAmount:  decimal.NewFromInt(15),
	}

	// WHEN converting to the edit form
	form := mp.ToForm(m)

	// THEN the writable surface round-trips; no derived field is exposed
	assert.Equal(t, Form{
		Label:         "Client kickoff",
		Status:        StatusPlanned,
		StartDate:     "2025-01-01",
		EndDate:       "2025-01-03",
		Transport:     TransportCar,
		DepartureCity: "Paris",
		ArrivalCity:   "Lyon",
		UserID:        "u-alice",
		NatureID:      "n-consulting",
	}, form)
}
