package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	profileusecases "github.com/fammo-app/fammo/internal/application/profile/usecases"
	"github.com/fammo-app/fammo/internal/interfaces/http/handlers/testutil"
	"github.com/fammo-app/fammo/internal/shared/errors"
)

type mockSaveLocationUC struct {
	result *profileusecases.SaveLocationResult
	err    error
	got    profileusecases.SaveLocationCommand
}

func (m *mockSaveLocationUC) Execute(ctx context.Context, cmd profileusecases.SaveLocationCommand) (*profileusecases.SaveLocationResult, error) {
	m.got = cmd
	return m.result, m.err
}

func TestProfileHandler_SaveLocation(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		uc := &mockSaveLocationUC{}
		h := NewProfileHandler(uc, testutil.NewMockLogger())
		c, w := testutil.NewTestContext(http.MethodPost, "/api/profile/save-location", SaveLocationRequest{Consent: false})

		h.SaveLocation(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var body testutil.FlatError
		require.NoError(t, testutil.ParseResponse(w, &body))
		assert.Equal(t, "Authentication required", body.Error)
	})

	t.Run("consent without coordinates", func(t *testing.T) {
		uc := &mockSaveLocationUC{err: errors.NewValidationError("Latitude and longitude are required when consent is true")}
		h := NewProfileHandler(uc, testutil.NewMockLogger())
		c, w := testutil.NewTestContext(http.MethodPost, "/api/profile/save-location", SaveLocationRequest{Consent: true})
		testutil.SetAuthContext(c, 3)

		h.SaveLocation(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body testutil.FlatError
		require.NoError(t, testutil.ParseResponse(w, &body))
		assert.Equal(t, "Latitude and longitude are required when consent is true", body.Error)
	})

	t.Run("malformed json", func(t *testing.T) {
		uc := &mockSaveLocationUC{}
		h := NewProfileHandler(uc, testutil.NewMockLogger())
		c, w := testutil.NewTestContext(http.MethodPost, "/api/profile/save-location", `{"consent":`)
		testutil.SetAuthContext(c, 3)

		h.SaveLocation(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		uc := &mockSaveLocationUC{result: &profileusecases.SaveLocationResult{
			Consent: true, Latitude: floatPtr(52.37), Longitude: floatPtr(4.9), UpdatedAt: &now,
		}}
		h := NewProfileHandler(uc, testutil.NewMockLogger())
		c, w := testutil.NewTestContext(http.MethodPost, "/api/profile/save-location",
			SaveLocationRequest{Consent: true, Latitude: floatPtr(52.37), Longitude: floatPtr(4.9)})
		testutil.SetAuthContext(c, 3)

		h.SaveLocation(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(3), uc.got.UserID)
		var body struct {
			Success   bool     `json:"success"`
			Consent   bool     `json:"consent"`
			Latitude  *float64 `json:"latitude"`
			UpdatedAt string   `json:"updated_at"`
		}
		require.NoError(t, testutil.ParseResponse(w, &body))
		assert.True(t, body.Success)
		assert.True(t, body.Consent)
		require.NotNil(t, body.Latitude)
		assert.InDelta(t, 52.37, *body.Latitude, 1e-9)
		assert.NotEmpty(t, body.UpdatedAt)
	})
}
