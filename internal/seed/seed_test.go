package seed

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"klaxon/internal/repository/repotest"
	"klaxon/internal/service"
)

func newSeeder(now time.Time) *Seeder {
	s := New(rand.New(rand.NewPCG(1, 2)), nil)
	s.now = func() time.Time { return now }
	return s
}

func TestParseAgencies(t *testing.T) {
	cities, err := ParseAgencies(strings.NewReader("Paris\n\n  Lyon  \r\nNantes"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris", "Lyon", "Nantes"}, cities)
}

func TestParseUsersSkipsMalformedLines(t *testing.T) {
	input := strings.Join([]string{
		"Martin, Alexandre ,0612345678,alexandre.martin@email.fr",
		"",
		"incomplete,line",
		"Dubois,Sophie,0698765432,sophie.dubois@email.fr,extra",
		"Roux,Chloé,0633221199,chloe.roux@email.fr",
	}, "\n")

	users, err := ParseUsers(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []UserRecord{
		{LastName: "Martin", FirstName: "Alexandre", Phone: "0612345678", Email: "alexandre.martin@email.fr"},
		{LastName: "Roux", FirstName: "Chloé", Phone: "0633221199", Email: "chloe.roux@email.fr"},
	}, users)
}

func TestDefaultDataParses(t *testing.T) {
	cities, err := ParseAgencies(strings.NewReader(DefaultAgencies))
	require.NoError(t, err)
	assert.Len(t, cities, 12)

	users, err := ParseUsers(strings.NewReader(DefaultUsers))
	require.NoError(t, err)
	assert.Len(t, users, 10)
}

func TestPopulate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, 3, 10, 9, 30, 0, 0, time.Local)
	db := repotest.New()
	repos := Repositories{Agencies: db.Agencies(), Users: db.Users(), Rides: db.Rides()}

	users := []UserRecord{
		{LastName: "Martin", FirstName: "Alexandre", Phone: "0612345678", Email: "alexandre.martin@email.fr"},
		{LastName: "Dubois", FirstName: "Sophie", Phone: "0698765432", Email: "sophie.dubois@email.fr"},
	}
	res, err := newSeeder(now).Populate(ctx, repos, []string{"Paris", "Lyon", "Nantes"}, users)
	require.NoError(t, err)
	assert.Equal(t, Result{Agencies: 3, Users: 2, Rides: SampleRides}, res)

	auth := service.NewAuthService(db.Users())
	first, err := auth.Login(ctx, "alexandre.martin@email.fr", DefaultPassword)
	require.NoError(t, err)
	assert.True(t, first.Admin)
	second, err := auth.Login(ctx, "sophie.dubois@email.fr", DefaultPassword)
	require.NoError(t, err)
	assert.False(t, second.Admin)

	rides, err := db.Rides().List(ctx)
	require.NoError(t, err)
	require.Len(t, rides, SampleRides)
	for i, r := range rides {
		assert.NotEqual(t, r.DepartureAgencyID, r.ArrivalAgencyID)
		assert.True(t, r.DepartureAt.After(now))
		assert.Equal(t, now.AddDate(0, 0, i+1).Day(), r.DepartureAt.Day())
		assert.GreaterOrEqual(t, r.DepartureAt.Hour(), 6)
		assert.LessOrEqual(t, r.DepartureAt.Hour(), 18)
		d := r.Duration()
		assert.GreaterOrEqual(t, d, time.Hour)
		assert.LessOrEqual(t, d, 5*time.Hour)
		assert.GreaterOrEqual(t, r.TotalSeats, 2)
		assert.LessOrEqual(t, r.TotalSeats, 8)
		assert.Equal(t, r.TotalSeats, r.AvailableSeats)
	}
}

func TestPopulateNeedsTwoAgencies(t *testing.T) {
	db := repotest.New()
	repos := Repositories{Agencies: db.Agencies(), Users: db.Users(), Rides: db.Rides()}

	_, err := newSeeder(time.Now()).Populate(context.Background(), repos, []string{"Paris"}, nil)
	assert.ErrorIs(t, err, ErrNotEnoughAgencies)
}

func TestPopulateWithoutUsersCreatesNoRides(t *testing.T) {
	db := repotest.New()
	repos := Repositories{Agencies: db.Agencies(), Users: db.Users(), Rides: db.Rides()}

	res, err := newSeeder(time.Now()).Populate(context.Background(), repos, []string{"Paris", "Lyon"}, nil)
	require.NoError(t, err)
	assert.Equal(t, Result{Agencies: 2}, res)
	assert.Zero(t, db.RideCount())
}

func newGormWithMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err)
	return gdb, mock
}

func TestRunUsesOneTransaction(t *testing.T) {
	gdb, mock := newGormWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM Trajet").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM Utilisateur").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM Agence").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO `Agence`").WithArgs("Paris").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `Agence`").WithArgs("Lyon").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO `Utilisateur`").WillReturnResult(sqlmock.NewResult(1, 1))
	for i := 0; i < SampleRides; i++ {
		mock.ExpectExec("INSERT INTO `Trajet`").WillReturnResult(sqlmock.NewResult(int64(i+1), 1))
	}
	mock.ExpectCommit()

	users := []UserRecord{{LastName: "Martin", FirstName: "Alexandre", Phone: "0612345678", Email: "a@example.com"}}
	res, err := newSeeder(time.Now()).Run(context.Background(), gdb, []string{"Paris", "Lyon"}, users)
	require.NoError(t, err)
	assert.Equal(t, Result{Agencies: 2, Users: 1, Rides: SampleRides}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRollsBackOnError(t *testing.T) {
	gdb, mock := newGormWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM Trajet").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM Utilisateur").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM Agence").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO `Agence`").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := newSeeder(time.Now()).Run(context.Background(), gdb, []string{"Paris", "Lyon"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}
