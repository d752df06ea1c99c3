package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"klaxon/internal/model"
)

func TestHomeListsAvailableRides(t *testing.T) {
	f := newFixture(t)
	h := NewHomeHandler(f.rides, f.agencies, f.users)
	f.createRide(t, f.alice, 3)
	full := f.createRide(t, f.bob, 2)
	require.NoError(t, f.db.SetAvailableSeats(full.ID, 0))

	rec, err := f.call(t, h.Home, anonymous(), "/?page=home", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Paris")
	assert.Contains(t, body, "Lyon")
	assert.Contains(t, body, "<td>3</td>")
	assert.NotContains(t, body, "<td>0</td>")
	assert.NotContains(t, body, "0601020304")
	assert.Contains(t, body, "Log in")
}

func TestConnectedShowsDriverAndOwnActions(t *testing.T) {
	f := newFixture(t)
	h := NewHomeHandler(f.rides, f.agencies, f.users)
	own := f.createRide(t, f.alice, 3)
	f.createRide(t, f.bob, 2)

	rec, err := f.call(t, h.Connected, signedIn(f.alice), "/?page=connected", nil)
	require.NoError(t, err)
	body := rec.Body.String()
	assert.Contains(t, body, "0605060708")
	assert.Contains(t, body, "Hello Alice Martin")
	assert.Contains(t, body, "editTrajetPage&amp;id="+uintString(own.ID))
	assert.Equal(t, 1, countOf(body, "editTrajetPage"))
	assert.Equal(t, 1, countOf(body, `action="/?page=deleteTrajet"`))
}

func TestConnectedLetsAdminDeleteAnyRide(t *testing.T) {
	f := newFixture(t)
	h := NewHomeHandler(f.rides, f.agencies, f.users)
	f.createRide(t, f.alice, 3)
	f.createRide(t, f.bob, 2)

	rec, err := f.call(t, h.Connected, signedIn(f.admin), "/?page=connected", nil)
	require.NoError(t, err)
	body := rec.Body.String()
	assert.Equal(t, 0, countOf(body, "editTrajetPage"))
	assert.Equal(t, 2, countOf(body, `action="/?page=deleteTrajet"`))
}

func TestAdminDashboard(t *testing.T) {
	f := newFixture(t)
	h := NewHomeHandler(f.rides, f.agencies, f.users)
	f.createRide(t, f.alice, 3)

	rec, err := f.call(t, h.Admin, signedIn(f.admin), "/?page=admin", nil)
	require.NoError(t, err)
	body := rec.Body.String()
	assert.Contains(t, body, "Users</a> (3)")
	assert.Contains(t, body, "Agencies</a> (2)")
	assert.Contains(t, body, "Rides</a> (1)")
}

func TestAPIListRides(t *testing.T) {
	f := newFixture(t)
	h := NewAPIHandler(f.rides, f.agencies)
	ride := f.createRide(t, f.alice, 3)

	rec, err := f.call(t, h.ListRides, signedIn(f.bob), "/api/rides", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got []model.RideListing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, ride.ID, got[0].ID)
	assert.Equal(t, "alice@example.com", got[0].DriverEmail)
}

func TestAPIListAgencies(t *testing.T) {
	f := newFixture(t)
	h := NewAPIHandler(f.rides, f.agencies)

	rec, err := f.call(t, h.ListAgencies, signedIn(f.bob), "/api/agencies", nil)
	require.NoError(t, err)

	var got []model.Agency
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Lyon", got[0].City)
}
