package clinic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fammo-app/fammo/internal/domain/geo"
)

func newTestClinic(t *testing.T) *Clinic {
	t.Helper()
	c, err := NewClinic(nil, Details{Name: "Happy Paws", Email: "Info@HappyPaws.nl", City: "Utrecht"})
	require.NoError(t, err)
	return c
}

func TestNewClinic(t *testing.T) {
	c := newTestClinic(t)

	assert.Equal(t, "info@happypaws.nl", c.Email())
	assert.False(t, c.EmailConfirmed())
	assert.False(t, c.AdminApproved())
	assert.False(t, c.IsVerified())

	_, err := NewClinic(nil, Details{Name: " ", Email: "a@b.nl"})
	assert.Error(t, err)
	_, err = NewClinic(nil, Details{Name: "X", Email: "not-an-email"})
	assert.Error(t, err)
}

func TestClinic_VerificationDerivation(t *testing.T) {
	steps := []struct {
		name     string
		apply    func(c *Clinic) bool
		changed  bool
		verified bool
	}{
		{"approve first", func(c *Clinic) bool { return c.SetAdminApproved(true) }, true, false},
		{"confirm email", func(c *Clinic) bool { return c.SetEmailConfirmed(true) }, true, true},
		{"confirm again is a no-op", func(c *Clinic) bool { return c.SetEmailConfirmed(true) }, false, true},
		{"revoke approval", func(c *Clinic) bool { return c.SetAdminApproved(false) }, true, false},
		{"unconfirm", func(c *Clinic) bool { return c.SetEmailConfirmed(false) }, true, false},
	}

	c := newTestClinic(t)
	for _, s := range steps {
		t.Run(s.name, func(t *testing.T) {
			assert.Equal(t, s.changed, s.apply(c))
			assert.Equal(t, s.verified, c.IsVerified())
			assert.Equal(t, c.EmailConfirmed() && c.AdminApproved(), c.IsVerified())
		})
	}
}

func TestReconstructClinic_DerivesVerification(t *testing.T) {
	c := ReconstructClinic(State{ID: 1, Details: Details{Name: "A", Email: "a@b.nl"}, EmailConfirmed: true, AdminApproved: true})
	assert.True(t, c.IsVerified())

	c = ReconstructClinic(State{ID: 2, Details: Details{Name: "B", Email: "b@b.nl"}, EmailConfirmed: true})
	assert.False(t, c.IsVerified())
}

func TestClinic_ConfirmEmail(t *testing.T) {
	sent := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	ttl := 24 * time.Hour

	t.Run("valid token", func(t *testing.T) {
		c := newTestClinic(t)
		c.IssueConfirmationToken("hash", sent)

		changed, err := c.ConfirmEmail("hash", sent.Add(time.Hour), ttl)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, c.EmailConfirmed())
		assert.Empty(t, c.ConfirmationTokenHash())
	})

	t.Run("wrong token", func(t *testing.T) {
		c := newTestClinic(t)
		c.IssueConfirmationToken("hash", sent)

		_, err := c.ConfirmEmail("other", sent, ttl)
		assert.ErrorIs(t, err, ErrInvalidConfirmationToken)
		assert.False(t, c.EmailConfirmed())
	})

	t.Run("prefix of the stored hash", func(t *testing.T) {
		c := newTestClinic(t)
		c.IssueConfirmationToken("hash", sent)

		_, err := c.ConfirmEmail("has", sent, ttl)
		assert.ErrorIs(t, err, ErrInvalidConfirmationToken)
		_, err = c.ConfirmEmail("hash2", sent, ttl)
		assert.ErrorIs(t, err, ErrInvalidConfirmationToken)
		assert.Equal(t, "hash", c.ConfirmationTokenHash())
	})

	t.Run("no token issued", func(t *testing.T) {
		c := newTestClinic(t)

		_, err := c.ConfirmEmail("", sent, ttl)
		assert.ErrorIs(t, err, ErrInvalidConfirmationToken)
		assert.False(t, c.EmailConfirmed())
	})

	t.Run("expired token", func(t *testing.T) {
		c := newTestClinic(t)
		c.IssueConfirmationToken("hash", sent)

		_, err := c.ConfirmEmail("hash", sent.Add(25*time.Hour), ttl)
		assert.ErrorIs(t, err, ErrConfirmationTokenExpired)
	})

	t.Run("already confirmed", func(t *testing.T) {
		c := newTestClinic(t)
		c.SetEmailConfirmed(true)

		changed, err := c.ConfirmEmail("anything", sent, ttl)
		require.NoError(t, err)
		assert.False(t, changed)
	})
}

func TestClinic_Coordinates(t *testing.T) {
	c := newTestClinic(t)
	assert.False(t, c.HasCoordinates())

	require.NoError(t, c.SetCoordinates(geo.Point{Lat: 52.09, Lng: 5.12}))
	p, ok := c.Location()
	assert.True(t, ok)
	assert.Equal(t, 52.09, p.Lat)

	assert.ErrorIs(t, c.SetCoordinates(geo.Point{Lat: 95, Lng: 0}), geo.ErrInvalidCoordinates)
}
