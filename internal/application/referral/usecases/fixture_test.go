package usecases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fammo-app/fammo/internal/application/testutil"
	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/domain/user"
	"github.com/fammo-app/fammo/internal/infrastructure/persistence/models"
	"github.com/fammo-app/fammo/internal/infrastructure/repository"
	"github.com/fammo-app/fammo/internal/infrastructure/repository/repotest"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

type referralFixture struct {
	gdb       *gorm.DB
	clinics   clinic.ClinicRepository
	codes     clinic.ReferralCodeRepository
	referrals clinic.ReferredUserRepository
	users     user.Repository
	pending   *testutil.MemoryPendingStore
	settings  Settings
	resolver  *CodeResolver
	minter    *CodeMinter
	log       logger.Interface
}

func newReferralFixture(t *testing.T) *referralFixture {
	t.Helper()
	gdb := repotest.NewDB(t)
	log := logger.NewNop()
	f := &referralFixture{
		gdb:       gdb,
		clinics:   repository.NewClinicRepository(gdb, log),
		codes:     repository.NewReferralCodeRepository(gdb, log),
		referrals: repository.NewReferredUserRepository(gdb, log),
		users:     repository.NewUserRepository(gdb, log),
		pending:   testutil.NewMemoryPendingStore(),
		settings:  Settings{SiteURL: "https://fammo.ai", MaxAttempts: 5, PendingTTL: time.Hour},
		log:       log,
	}
	f.resolver = NewCodeResolver(f.codes, f.clinics, log)
	f.minter = NewCodeMinter(f.codes, clinic.NewCodeGenerator("vet", 10, 5), f.settings, log)
	return f
}

func (f *referralFixture) clinic(t *testing.T, name, slug string, confirmed bool, owner *uint) *clinic.Clinic {
	t.Helper()
	c, err := clinic.NewClinic(owner, clinic.Details{Name: name, Email: slug + "@clinics.example", City: "Amsterdam"})
	require.NoError(t, err)
	c.SetSlug(slug)
	require.NoError(t, f.clinics.Create(t.Context(), c))
	if confirmed {
		c.SetEmailConfirmed(true)
		require.NoError(t, f.clinics.Update(t.Context(), c))
	}
	return c
}

func (f *referralFixture) code(t *testing.T, c *clinic.Clinic, code string) *clinic.ReferralCode {
	t.Helper()
	rc, err := clinic.NewReferralCode(c.ID(), code)
	require.NoError(t, err)
	require.NoError(t, f.codes.Create(t.Context(), rc))
	return rc
}

func (f *referralFixture) user(t *testing.T, email string, active bool) *user.User {
	t.Helper()
	u := user.ReconstructUser(user.State{Email: email, PasswordHash: "hash", Role: "user", IsActive: active})
	require.NoError(t, f.users.Create(t.Context(), u))
	return u
}

func (f *referralFixture) referralRows(t *testing.T, clinicID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.gdb.Model(&models.ReferredUserModel{}).Where("clinic_id = ?", clinicID).Count(&n).Error)
	return n
}
