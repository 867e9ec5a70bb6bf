package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/shared/constants"
	"github.com/fammo-app/fammo/internal/shared/db"
	apperrors "github.com/fammo-app/fammo/internal/shared/errors"
)

func (f *referralFixture) visitUseCase() *RecordReferralVisitUseCase {
	return NewRecordReferralVisitUseCase(f.resolver, f.referrals, f.pending, f.settings, f.log)
}

func (f *referralFixture) attachUseCase() *AttachReferralOnRegistrationUseCase {
	return NewAttachReferralOnRegistrationUseCase(f.resolver, f.referrals, f.pending, f.settings, f.log)
}

func (f *referralFixture) activateUseCase() *ActivateReferralUseCase {
	return NewActivateReferralUseCase(f.referrals, f.pending, f.log)
}

func TestReferralLifecycle_VisitRegisterActivate(t *testing.T) {
	f := newReferralFixture(t)
	ctx := t.Context()
	c := f.clinic(t, "Happy Paws", "happy-paws", true, nil)
	f.code(t, c, "vet-happypaws")

	landing, err := f.visitUseCase().Execute(ctx, RecordReferralVisitCommand{Code: "VET-HappyPaws"})
	require.NoError(t, err)
	assert.NotEmpty(t, landing.VisitorToken)
	assert.Equal(t, "vet-happypaws", landing.ReferralCode)
	assert.Equal(t, "https://fammo.ai/signup/?ref=vet-happypaws", landing.SignupURL)
	assert.Equal(t, c.ID(), landing.ClinicID)
	assert.False(t, landing.IsVerified)

	visitRow, err := f.referrals.FindByClinicAndVisitor(ctx, c.ID(), landing.VisitorToken)
	require.NoError(t, err)
	require.NotNil(t, visitRow)
	assert.Equal(t, clinic.StatusNew, visitRow.Status())
	assert.False(t, visitRow.HasUser())

	u := f.user(t, "owner@example.com", false)
	attached, err := f.attachUseCase().Execute(ctx, AttachReferralCommand{
		UserID:       u.ID(),
		Email:        u.Email(),
		ReferralCode: "vet-happypaws",
		VisitorToken: landing.VisitorToken,
	})
	require.NoError(t, err)
	require.NotNil(t, attached)
	assert.Equal(t, visitRow.ID(), attached.ID())
	assert.Equal(t, u.ID(), *attached.UserID())
	assert.Equal(t, clinic.StatusNew, attached.Status())
	assert.False(t, f.pending.Has(constants.PendingReferralVisit, landing.VisitorToken))

	activated, err := f.activateUseCase().Execute(ctx, u.ID())
	require.NoError(t, err)
	require.NotNil(t, activated)
	assert.Equal(t, clinic.StatusActive, activated.Status())

	stored, err := f.referrals.GetByID(ctx, visitRow.ID())
	require.NoError(t, err)
	assert.Equal(t, clinic.StatusActive, stored.Status())
	assert.Equal(t, int64(1), f.referralRows(t, c.ID()))

	again, err := f.activateUseCase().Execute(ctx, u.ID())
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestRecordReferralVisit_ReusesVisitorToken(t *testing.T) {
	f := newReferralFixture(t)
	c := f.clinic(t, "Happy Paws", "happy-paws", true, nil)
	f.code(t, c, "vet-happypaws")
	uc := f.visitUseCase()

	first, err := uc.Execute(t.Context(), RecordReferralVisitCommand{Code: "vet-happypaws"})
	require.NoError(t, err)
	second, err := uc.Execute(t.Context(), RecordReferralVisitCommand{Code: "vet-happypaws", VisitorToken: first.VisitorToken})
	require.NoError(t, err)

	assert.Equal(t, first.VisitorToken, second.VisitorToken)
	assert.Equal(t, int64(1), f.referralRows(t, c.ID()))

	third, err := uc.Execute(t.Context(), RecordReferralVisitCommand{Code: "vet-happypaws", VisitorToken: "not-a-uuid"})
	require.NoError(t, err)
	assert.NotEqual(t, "not-a-uuid", third.VisitorToken)
}

func TestRecordReferralVisit_NotFound(t *testing.T) {
	f := newReferralFixture(t)
	unconfirmed := f.clinic(t, "Quiet", "quiet", false, nil)
	f.code(t, unconfirmed, "vet-quiet")
	confirmed := f.clinic(t, "Open", "open", true, nil)
	retired := f.code(t, confirmed, "vet-retired")
	retired.Deactivate()
	require.NoError(t, f.codes.Update(t.Context(), retired))

	for _, code := range []string{"vet-quiet", "vet-retired", "vet-missing", "bad code!"} {
		t.Run(code, func(t *testing.T) {
			_, err := f.visitUseCase().Execute(t.Context(), RecordReferralVisitCommand{Code: code})
			assert.True(t, apperrors.IsNotFoundError(err))
		})
	}
	assert.Equal(t, int64(0), f.referralRows(t, unconfirmed.ID()))
}

func TestAttachReferral_ByCodeWithoutVisit(t *testing.T) {
	f := newReferralFixture(t)
	ctx := t.Context()
	c := f.clinic(t, "Happy Paws", "happy-paws", true, nil)
	rc := f.code(t, c, "vet-happypaws")
	u := f.user(t, "direct@example.com", false)

	row, err := f.attachUseCase().Execute(ctx, AttachReferralCommand{UserID: u.ID(), Email: u.Email(), ReferralCode: "vet-happypaws"})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, clinic.StatusNew, row.Status())
	assert.Equal(t, rc.ID(), *row.ReferralCodeID())

	again, err := f.attachUseCase().Execute(ctx, AttachReferralCommand{UserID: u.ID(), Email: u.Email(), ReferralCode: "vet-happypaws"})
	require.NoError(t, err)
	assert.Equal(t, row.ID(), again.ID())
	assert.Equal(t, int64(1), f.referralRows(t, c.ID()))
	assert.True(t, f.pending.Has(constants.PendingReferral, pendingKey(u.ID())))
}

func TestAttachReferral_AdoptsEmailCapture(t *testing.T) {
	f := newReferralFixture(t)
	ctx := t.Context()
	c := f.clinic(t, "Happy Paws", "happy-paws", true, nil)
	f.code(t, c, "vet-happypaws")

	tracked, err := NewTrackReferralUseCase(f.resolver, f.referrals, f.users, f.log).
		Execute(ctx, TrackReferralCommand{Email: "Later@Example.com", ReferralCode: "vet-happypaws"})
	require.NoError(t, err)
	assert.Nil(t, tracked.UserID)

	u := f.user(t, "later@example.com", false)
	row, err := f.attachUseCase().Execute(ctx, AttachReferralCommand{UserID: u.ID(), Email: u.Email(), ReferralCode: "vet-happypaws"})
	require.NoError(t, err)
	assert.Equal(t, tracked.ID, row.ID())
	assert.Equal(t, u.ID(), *row.UserID())
	assert.Equal(t, int64(1), f.referralRows(t, c.ID()))
}

func TestAttachReferral_NoReferral(t *testing.T) {
	f := newReferralFixture(t)
	u := f.user(t, "plain@example.com", false)

	row, err := f.attachUseCase().Execute(t.Context(), AttachReferralCommand{UserID: u.ID(), Email: u.Email()})
	require.NoError(t, err)
	assert.Nil(t, row)

	row, err = f.attachUseCase().Execute(t.Context(), AttachReferralCommand{UserID: u.ID(), Email: u.Email(), VisitorToken: "expired-token"})
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestTrackReferral(t *testing.T) {
	f := newReferralFixture(t)
	ctx := t.Context()
	c := f.clinic(t, "Happy Paws", "happy-paws", true, nil)
	f.code(t, c, "vet-happypaws")
	uc := NewTrackReferralUseCase(f.resolver, f.referrals, f.users, f.log)

	active := f.user(t, "active@example.com", true)
	pending := f.user(t, "pending@example.com", false)

	t.Run("active account is ACTIVE and idempotent", func(t *testing.T) {
		first, err := uc.Execute(ctx, TrackReferralCommand{Email: "active@example.com", ReferralCode: "vet-happypaws"})
		require.NoError(t, err)
		assert.Equal(t, string(clinic.StatusActive), first.Status)
		assert.Equal(t, active.ID(), *first.UserID)

		second, err := uc.Execute(ctx, TrackReferralCommand{Email: "ACTIVE@example.com ", ReferralCode: "VET-HAPPYPAWS"})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("inactive account is NEW", func(t *testing.T) {
		got, err := uc.Execute(ctx, TrackReferralCommand{Email: "pending@example.com", ReferralCode: "vet-happypaws"})
		require.NoError(t, err)
		assert.Equal(t, string(clinic.StatusNew), got.Status)
		assert.Equal(t, pending.ID(), *got.UserID)
	})

	t.Run("unknown email is captured as NEW", func(t *testing.T) {
		got, err := uc.Execute(ctx, TrackReferralCommand{Email: "stranger@example.com", ReferralCode: "vet-happypaws"})
		require.NoError(t, err)
		assert.Equal(t, string(clinic.StatusNew), got.Status)
		assert.Nil(t, got.UserID)
		assert.Equal(t, "stranger@example.com", got.Email)
	})

	assert.Equal(t, int64(3), f.referralRows(t, c.ID()))

	errorCases := []struct {
		name    string
		cmd     TrackReferralCommand
		message string
	}{
		{"missing email", TrackReferralCommand{ReferralCode: "vet-happypaws"}, "Missing required fields"},
		{"missing code", TrackReferralCommand{Email: "a@example.com"}, "Missing required fields"},
		{"bad email", TrackReferralCommand{Email: "not-an-email", ReferralCode: "vet-happypaws"}, "Invalid email address"},
		{"unknown code", TrackReferralCommand{Email: "a@example.com", ReferralCode: "vet-nope"}, "Invalid referral code"},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, tt.cmd)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidationError(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

// staleEmailLookup misses the first email lookup, as a request that lost
// the race to a concurrent insert would.
type staleEmailLookup struct {
	clinic.ReferredUserRepository
	missed bool
}

func (s *staleEmailLookup) FindByClinicAndEmail(ctx context.Context, clinicID uint, email string) (*clinic.ReferredUser, error) {
	if !s.missed {
		s.missed = true
		return nil, nil
	}
	return s.ReferredUserRepository.FindByClinicAndEmail(ctx, clinicID, email)
}

func TestTrackReferral_ConcurrentEmailCaptureReusesRow(t *testing.T) {
	f := newReferralFixture(t)
	ctx := t.Context()
	c := f.clinic(t, "Happy Paws", "happy-paws", true, nil)
	f.code(t, c, "vet-happypaws")

	winner, err := NewTrackReferralUseCase(f.resolver, f.referrals, f.users, f.log).
		Execute(ctx, TrackReferralCommand{Email: "racer@example.com", ReferralCode: "vet-happypaws"})
	require.NoError(t, err)

	loser, err := NewTrackReferralUseCase(f.resolver, &staleEmailLookup{ReferredUserRepository: f.referrals}, f.users, f.log).
		Execute(ctx, TrackReferralCommand{Email: "racer@example.com", ReferralCode: "vet-happypaws"})
	require.NoError(t, err)

	assert.Equal(t, winner.ID, loser.ID)
	assert.Equal(t, int64(1), f.referralRows(t, c.ID()))
}

func TestTrackReferral_KeepsOperatorDeactivation(t *testing.T) {
	f := newReferralFixture(t)
	ctx := t.Context()
	c := f.clinic(t, "Happy Paws", "happy-paws", true, nil)
	f.code(t, c, "vet-happypaws")
	f.user(t, "member@example.com", true)
	uc := NewTrackReferralUseCase(f.resolver, f.referrals, f.users, f.log)

	first, err := uc.Execute(ctx, TrackReferralCommand{Email: "member@example.com", ReferralCode: "vet-happypaws"})
	require.NoError(t, err)

	_, err = NewSetReferralStatusUseCase(db.NewTransactionManager(f.gdb), f.referrals, f.log).
		Execute(ctx, SetReferralStatusCommand{IDs: []uint{first.ID}, Status: "inactive"})
	require.NoError(t, err)

	again, err := uc.Execute(ctx, TrackReferralCommand{Email: "member@example.com", ReferralCode: "vet-happypaws"})
	require.NoError(t, err)
	assert.Equal(t, string(clinic.StatusInactive), again.Status)
}

func TestSetReferralStatus(t *testing.T) {
	f := newReferralFixture(t)
	ctx := t.Context()
	c := f.clinic(t, "Happy Paws", "happy-paws", true, nil)
	f.code(t, c, "vet-happypaws")
	track := NewTrackReferralUseCase(f.resolver, f.referrals, f.users, f.log)

	a, err := track.Execute(ctx, TrackReferralCommand{Email: "a@example.com", ReferralCode: "vet-happypaws"})
	require.NoError(t, err)
	b, err := track.Execute(ctx, TrackReferralCommand{Email: "b@example.com", ReferralCode: "vet-happypaws"})
	require.NoError(t, err)

	uc := NewSetReferralStatusUseCase(db.NewTransactionManager(f.gdb), f.referrals, f.log)

	res, err := uc.Execute(ctx, SetReferralStatusCommand{IDs: []uint{a.ID, b.ID, 9999}, Status: "ACTIVE"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Updated)

	res, err = uc.Execute(ctx, SetReferralStatusCommand{IDs: []uint{a.ID}, Status: "ACTIVE"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Updated)

	stored, err := f.referrals.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, clinic.StatusActive, stored.Status())

	_, err = uc.Execute(ctx, SetReferralStatusCommand{IDs: []uint{a.ID}, Status: "NEW"})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Execute(ctx, SetReferralStatusCommand{Status: "ACTIVE"})
	assert.True(t, apperrors.IsValidationError(err))
}
