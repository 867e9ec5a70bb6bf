package usecases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fammo-app/fammo/internal/domain/geo"
	"github.com/fammo-app/fammo/internal/domain/profile"
	"github.com/fammo-app/fammo/internal/domain/user"
	apperrors "github.com/fammo-app/fammo/internal/shared/errors"
)

func TestFindNearbyClinics_OnlyVerifiedWithinRadiusSorted(t *testing.T) {
	f := newClinicFixture(t)
	f.seedClinic(t, "the-hague-vets", "Den Haag", true, true, point(52.0705, 4.3007))
	f.seedClinic(t, "rotterdam-vets", "Rotterdam", true, true, point(51.9244, 4.4777))
	f.seedClinic(t, "gouda-vets", "Gouda", true, true, point(52.0115, 4.7105))
	f.seedClinic(t, "amsterdam-vets", "Amsterdam", true, true, point(52.3676, 4.9041))
	f.seedClinic(t, "leiden-vets", "Leiden", true, false, point(52.1601, 4.4970))
	f.seedClinic(t, "delft-vets", "Delft", false, false, point(52.0116, 4.3571))
	f.seedClinic(t, "nowhere-vets", "Rotterdam", true, true, nil)

	res, err := NewFindNearbyClinicsUseCase(f.clinics, f.log).Execute(t.Context(), FindNearbyClinicsQuery{
		Latitude: 52.0, Longitude: 4.5, RadiusKm: km(30),
	})
	require.NoError(t, err)

	require.Equal(t, 3, res.Count)
	var names []string
	var distances []float64
	for _, c := range res.Clinics {
		names = append(names, c.Name)
		distances = append(distances, *c.Distance)
		assert.True(t, c.IsVerified)
	}
	assert.Equal(t, []string{"rotterdam-vets", "gouda-vets", "the-hague-vets"}, names)
	assert.Equal(t, []float64{8.5, 14.5, 15.7}, distances)
	assert.Equal(t, 30.0, res.SearchParams.RadiusKm)
}

func TestFindNearbyClinics_DefaultsAndValidation(t *testing.T) {
	f := newClinicFixture(t)
	f.seedClinic(t, "amsterdam-vets", "Amsterdam", true, true, point(52.3676, 4.9041))
	uc := NewFindNearbyClinicsUseCase(f.clinics, f.log)

	res, err := uc.Execute(t.Context(), FindNearbyClinicsQuery{Latitude: 52.0, Longitude: 4.5})
	require.NoError(t, err)
	assert.Equal(t, DefaultClinicRadiusKm, res.SearchParams.RadiusKm)
	assert.Equal(t, 1, res.Count)

	_, err = uc.Execute(t.Context(), FindNearbyClinicsQuery{Latitude: 91, Longitude: 4.5})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Execute(t.Context(), FindNearbyClinicsQuery{Latitude: 52.0, Longitude: 4.5, RadiusKm: km(-1)})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestFindNearbyClinics_ExplicitZeroRadius(t *testing.T) {
	f := newClinicFixture(t)
	f.seedClinic(t, "on-the-spot", "Gouda", true, true, point(52.0, 4.5))
	f.seedClinic(t, "gouda-vets", "Gouda", true, true, point(52.0115, 4.7105))
	uc := NewFindNearbyClinicsUseCase(f.clinics, f.log)

	res, err := uc.Execute(t.Context(), FindNearbyClinicsQuery{Latitude: 52.0, Longitude: 4.5, RadiusKm: km(0)})
	require.NoError(t, err)
	assert.Zero(t, res.SearchParams.RadiusKm)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, "on-the-spot", res.Clinics[0].Name)
}

func km(v float64) *float64 { return &v }

func TestFindNearbyClinics_BoundaryIsInclusive(t *testing.T) {
	f := newClinicFixture(t)
	f.seedClinic(t, "rotterdam-vets", "Rotterdam", true, true, point(51.9244, 4.4777))
	origin := geo.Point{Lat: 52.0, Lng: 4.5}
	exact := geo.Haversine(origin, geo.Point{Lat: 51.9244, Lng: 4.4777})

	uc := NewFindNearbyClinicsUseCase(f.clinics, f.log)

	res, err := uc.Execute(t.Context(), FindNearbyClinicsQuery{Latitude: 52.0, Longitude: 4.5, RadiusKm: km(exact)})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)

	res, err = uc.Execute(t.Context(), FindNearbyClinicsQuery{Latitude: 52.0, Longitude: 4.5, RadiusKm: km(exact - 0.001)})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
}

func TestFindClinicsByCity(t *testing.T) {
	f := newClinicFixture(t)
	f.seedClinic(t, "b-rotterdam", "Rotterdam", true, true, nil)
	f.seedClinic(t, "a-rotterdam", "Rotterdam-Zuid", true, true, nil)
	f.seedClinic(t, "pending-rotterdam", "Rotterdam", true, false, nil)
	f.seedClinic(t, "utrecht", "Utrecht", true, true, nil)
	uc := NewFindClinicsByCityUseCase(f.clinics, f.log)

	res, err := uc.Execute(t.Context(), FindClinicsByCityQuery{City: " rotter "})
	require.NoError(t, err)
	require.Equal(t, 2, res.Count)
	assert.Equal(t, "a-rotterdam", res.Clinics[0].Name)
	assert.Equal(t, "b-rotterdam", res.Clinics[1].Name)
	assert.Nil(t, res.Clinics[0].Distance)
	assert.Equal(t, "rotter", res.SearchParams.City)
	assert.Equal(t, DefaultCityRadiusKm, res.SearchParams.RadiusKm)

	_, err = uc.Execute(t.Context(), FindClinicsByCityQuery{City: "  "})
	assert.True(t, apperrors.IsValidationError(err))
}

func (f *clinicFixture) seedLocatedUser(t *testing.T, email, first string, consent bool, at geo.Point) *user.User {
	t.Helper()
	u, err := user.NewUser(email, "hash")
	require.NoError(t, err)
	require.NoError(t, f.users.Create(t.Context(), u))
	p, err := profile.NewProfile(u.ID(), first, "Tester")
	require.NoError(t, err)
	p.SetCity("Amsterdam")
	lat, lng := at.Lat, at.Lng
	require.NoError(t, p.SaveLocation(consent, &lat, &lng, time.Now()))
	require.NoError(t, f.profiles.Create(t.Context(), p))
	return u
}

func TestNearbyUsersReport(t *testing.T) {
	f := newClinicFixture(t)
	c := f.seedClinic(t, "amsterdam-vets", "Amsterdam", true, true, point(52.3676, 4.9041))
	noCoords := f.seedClinic(t, "somewhere-vets", "Amsterdam", true, true, nil)

	near := f.seedLocatedUser(t, "near@example.com", "Near", true, geo.Point{Lat: 52.37, Lng: 4.90})
	f.seedLocatedUser(t, "mid@example.com", "Mid", true, geo.Point{Lat: 52.40, Lng: 4.95})
	f.seedLocatedUser(t, "hidden@example.com", "Hidden", false, geo.Point{Lat: 52.368, Lng: 4.904})
	f.seedLocatedUser(t, "far@example.com", "Far", true, geo.Point{Lat: 51.9244, Lng: 4.4777})

	uc := NewNearbyUsersReportUseCase(f.clinics, f.profiles, f.users, f.log)

	report, err := uc.Execute(t.Context(), NearbyUsersReportQuery{ClinicID: c.ID()})
	require.NoError(t, err)
	assert.True(t, report.ClinicHasCoords)
	assert.Equal(t, DefaultReportRadiusKm, report.RadiusKm)
	require.Len(t, report.Users, 2)
	assert.Equal(t, near.ID(), report.Users[0].UserID)
	assert.Equal(t, "near@example.com", report.Users[0].Email)
	assert.Equal(t, 0.4, report.Users[0].DistanceKm)
	assert.Equal(t, "mid@example.com", report.Users[1].Email)
	assert.NotNil(t, report.Users[0].LocationUpdatedAt)

	wide, err := uc.Execute(t.Context(), NearbyUsersReportQuery{ClinicID: c.ID(), RadiusKm: 100})
	require.NoError(t, err)
	assert.Len(t, wide.Users, 3)

	empty, err := uc.Execute(t.Context(), NearbyUsersReportQuery{ClinicID: noCoords.ID()})
	require.NoError(t, err)
	assert.False(t, empty.ClinicHasCoords)
	assert.Empty(t, empty.Users)

	_, err = uc.Execute(t.Context(), NearbyUsersReportQuery{ClinicID: 9999})
	assert.True(t, apperrors.IsNotFoundError(err))
}
