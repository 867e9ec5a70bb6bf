package usecases

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	refusecases "github.com/fammo-app/fammo/internal/application/referral/usecases"
	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/domain/geo"
	"github.com/fammo-app/fammo/internal/domain/profile"
	"github.com/fammo-app/fammo/internal/domain/user"
	"github.com/fammo-app/fammo/internal/infrastructure/repository"
	"github.com/fammo-app/fammo/internal/infrastructure/repository/repotest"
	"github.com/fammo-app/fammo/internal/infrastructure/token"
	"github.com/fammo-app/fammo/internal/shared/db"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

type fakeGeocoder struct {
	mu    sync.Mutex
	calls int
	fn    func(address, city string) (geo.Point, bool)
}

func (g *fakeGeocoder) Geocode(ctx context.Context, address, city string) (geo.Point, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.fn == nil {
		return geo.Point{}, false
	}
	return g.fn(address, city)
}

type sentConfirmation struct {
	to       string
	clinicID uint
	token    string
}

type fakeEmailService struct {
	mu            sync.Mutex
	confirmations []sentConfirmation
	sendErr       error
	notified      chan string
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{notified: make(chan string, 4)}
}

func (e *fakeEmailService) SendClinicConfirmationEmail(to, clinicName string, clinicID uint, token string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sendErr != nil {
		return e.sendErr
	}
	e.confirmations = append(e.confirmations, sentConfirmation{to: to, clinicID: clinicID, token: token})
	return nil
}

func (e *fakeEmailService) NotifyAdminsClinicConfirmed(clinicName, clinicEmail, city string) error {
	e.notified <- clinicName
	return nil
}

func (e *fakeEmailService) lastToken() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.confirmations) == 0 {
		return ""
	}
	return e.confirmations[len(e.confirmations)-1].token
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Verify(password, hash string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type clinicFixture struct {
	tx        db.Transactor
	clinics   clinic.ClinicRepository
	codes     clinic.ReferralCodeRepository
	referrals clinic.ReferredUserRepository
	users     user.Repository
	profiles  profile.Repository
	tokens    *token.Generator
	email     *fakeEmailService
	geocoder  *fakeGeocoder
	ensurer   *refusecases.EnsureActiveCodeUseCase
	log       logger.Interface
}

func newClinicFixture(t *testing.T) *clinicFixture {
	t.Helper()
	gdb := repotest.NewDB(t)
	log := logger.NewNop()
	f := &clinicFixture{
		tx:        db.NewTransactionManager(gdb),
		clinics:   repository.NewClinicRepository(gdb, log),
		codes:     repository.NewReferralCodeRepository(gdb, log),
		referrals: repository.NewReferredUserRepository(gdb, log),
		users:     repository.NewUserRepository(gdb, log),
		profiles:  repository.NewProfileRepository(gdb, log),
		tokens:    token.NewTokenGenerator(),
		email:     newFakeEmailService(),
		geocoder:  &fakeGeocoder{},
		log:       log,
	}
	settings := refusecases.Settings{SiteURL: "https://fammo.ai", MaxAttempts: 5}
	minter := refusecases.NewCodeMinter(f.codes, clinic.NewCodeGenerator("vet", 10, 5), settings, log)
	f.ensurer = refusecases.NewEnsureActiveCodeUseCase(f.codes, minter, log)
	return f
}

func (f *clinicFixture) registerUseCase() *RegisterClinicUseCase {
	return NewRegisterClinicUseCase(f.tx, f.clinics, f.users, plainHasher{}, f.tokens, f.email, f.geocoder, f.log)
}

// seedClinic stores a clinic directly with the given gates and position.
func (f *clinicFixture) seedClinic(t *testing.T, name, city string, emailConfirmed, adminApproved bool, at *geo.Point) *clinic.Clinic {
	t.Helper()
	c, err := clinic.NewClinic(nil, clinic.Details{Name: name, Email: "info@" + name + ".example", City: city})
	require.NoError(t, err)
	c.SetSlug(name)
	if at != nil {
		require.NoError(t, c.SetCoordinates(*at))
	}
	require.NoError(t, f.clinics.Create(t.Context(), c))
	c.SetEmailConfirmed(emailConfirmed)
	c.SetAdminApproved(adminApproved)
	require.NoError(t, f.clinics.Update(t.Context(), c))
	return c
}

func point(lat, lng float64) *geo.Point {
	return &geo.Point{Lat: lat, Lng: lng}
}
