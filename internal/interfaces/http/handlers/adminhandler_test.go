package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clinicdto "github.com/fammo-app/fammo/internal/application/clinic/dto"
	clinicusecases "github.com/fammo-app/fammo/internal/application/clinic/usecases"
	refusecases "github.com/fammo-app/fammo/internal/application/referral/usecases"
	usageusecases "github.com/fammo-app/fammo/internal/application/usage/usecases"
	"github.com/fammo-app/fammo/internal/interfaces/http/handlers/testutil"
	"github.com/fammo-app/fammo/internal/shared/errors"
)

type mockNearbyUsersUC struct {
	result *clinicdto.NearbyUsersReportDTO
	err    error
	got    clinicusecases.NearbyUsersReportQuery
}

func (m *mockNearbyUsersUC) Execute(ctx context.Context, query clinicusecases.NearbyUsersReportQuery) (*clinicdto.NearbyUsersReportDTO, error) {
	m.got = query
	return m.result, m.err
}

type mockUpdateGatesUC struct {
	result *clinicdto.ClinicDetailDTO
	err    error
	got    clinicusecases.UpdateClinicGatesCommand
}

func (m *mockUpdateGatesUC) Execute(ctx context.Context, cmd clinicusecases.UpdateClinicGatesCommand) (*clinicdto.ClinicDetailDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockSetReferralStatusUC struct {
	result *refusecases.SetReferralStatusResult
	err    error
	got    refusecases.SetReferralStatusCommand
}

func (m *mockSetReferralStatusUC) Execute(ctx context.Context, cmd refusecases.SetReferralStatusCommand) (*refusecases.SetReferralStatusResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockResetStaleUsageUC struct {
	result *usageusecases.ResetStaleUsageResult
	err    error
}

func (m *mockResetStaleUsageUC) Execute(ctx context.Context) (*usageusecases.ResetStaleUsageResult, error) {
	return m.result, m.err
}

type adminMocks struct {
	nearby    *mockNearbyUsersUC
	gates     *mockUpdateGatesUC
	referrals *mockSetReferralStatusUC
	reset     *mockResetStaleUsageUC
}

func newTestAdminHandler() (*AdminHandler, *adminMocks) {
	m := &adminMocks{
		nearby:    &mockNearbyUsersUC{},
		gates:     &mockUpdateGatesUC{},
		referrals: &mockSetReferralStatusUC{},
		reset:     &mockResetStaleUsageUC{},
	}
	return NewAdminHandler(m.nearby, m.gates, m.referrals, m.reset, testutil.NewMockLogger()), m
}

func TestAdminHandler_NearbyUsers(t *testing.T) {
	t.Run("report is rendered without an envelope", func(t *testing.T) {
		h, m := newTestAdminHandler()
		m.nearby.result = &clinicdto.NearbyUsersReportDTO{
			Clinic:          &clinicdto.ClinicDTO{ID: 1, Name: "Amsterdam Vet"},
			RadiusKm:        10,
			ClinicHasCoords: true,
			Users:           []*clinicdto.NearbyUserDTO{{UserID: 4, Email: "a@example.com", DistanceKm: 1.2}},
		}
		c, w := testutil.NewTestContext(http.MethodGet, "/api/admin/clinic/1/nearby-users", nil)
		testutil.SetURLParam(c, "id", "1")

		h.NearbyUsers(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(1), m.nearby.got.ClinicID)
		assert.Zero(t, m.nearby.got.RadiusKm)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["clinic_has_coords"])
		assert.Len(t, body["users"], 1)
		assert.NotContains(t, body, "success")
	})

	t.Run("unknown clinic", func(t *testing.T) {
		h, m := newTestAdminHandler()
		m.nearby.err = errors.NewNotFoundError("clinic not found")
		c, w := testutil.NewTestContext(http.MethodGet, "/api/admin/clinic/99/nearby-users?radius=5", nil)
		testutil.SetURLParam(c, "id", "99")

		h.NearbyUsers(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, 5.0, m.nearby.got.RadiusKm)
	})

	t.Run("negative radius", func(t *testing.T) {
		h, _ := newTestAdminHandler()
		c, w := testutil.NewTestContext(http.MethodGet, "/api/admin/clinic/1/nearby-users?radius=-3", nil)
		testutil.SetURLParam(c, "id", "1")

		h.NearbyUsers(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAdminHandler_UpdateClinicGates(t *testing.T) {
	h, m := newTestAdminHandler()
	m.gates.result = &clinicdto.ClinicDetailDTO{AdminApproved: true}
	approved := true
	c, w := testutil.NewTestContext(http.MethodPatch, "/api/admin/clinics/3/gates", UpdateClinicGatesRequest{AdminApproved: &approved})
	testutil.SetURLParam(c, "id", "3")

	h.UpdateClinicGates(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(3), m.gates.got.ClinicID)
	assert.Nil(t, m.gates.got.EmailConfirmed)
	require.NotNil(t, m.gates.got.AdminApproved)
	assert.True(t, *m.gates.got.AdminApproved)
}

func TestAdminHandler_SetReferralStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, m := newTestAdminHandler()
		m.referrals.result = &refusecases.SetReferralStatusResult{Updated: 2}
		c, w := testutil.NewTestContext(http.MethodPost, "/api/admin/referrals/status",
			SetReferralStatusRequest{IDs: []uint{1, 2}, Status: "INACTIVE"})

		h.SetReferralStatus(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []uint{1, 2}, m.referrals.got.IDs)
		assert.Equal(t, "INACTIVE", m.referrals.got.Status)
	})

	t.Run("empty selection", func(t *testing.T) {
		h, _ := newTestAdminHandler()
		c, w := testutil.NewTestContext(http.MethodPost, "/api/admin/referrals/status",
			SetReferralStatusRequest{Status: "ACTIVE"})

		h.SetReferralStatus(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAdminHandler_ResetStaleUsage(t *testing.T) {
	h, m := newTestAdminHandler()
	m.reset.result = &usageusecases.ResetStaleUsageResult{Month: "2026-03", RowsAffected: 12}
	c, w := testutil.NewTestContext(http.MethodPost, "/api/admin/usage/reset-stale", nil)

	h.ResetStaleUsage(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Contains(t, string(resp.Data), `"rows_affected":12`)
}
