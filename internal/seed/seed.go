// Package seed fills an empty database with agencies, users and sample rides.
package seed

import (
	"bufio"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"gorm.io/gorm"

	"klaxon/internal/logging"
	"klaxon/internal/model"
	"klaxon/internal/repository"
	"klaxon/internal/service"
)

// DefaultPassword is given to every imported user.
const DefaultPassword = "password123"

// SampleRides is the number of future rides created.
const SampleRides = 5

// DefaultAgencies and DefaultUsers are the bundled data set.
var (
	//go:embed data/agencies.txt
	DefaultAgencies string
	//go:embed data/users.txt
	DefaultUsers string
)

// ErrNotEnoughAgencies is returned when fewer than two agencies are imported;
// a ride needs distinct departure and arrival agencies.
var ErrNotEnoughAgencies = errors.New("at least two agencies are required")

// UserRecord is one line of the users file: last name, first name, phone, email.
type UserRecord struct {
	LastName  string
	FirstName string
	Phone     string
	Email     string
}

// Result counts what was inserted.
type Result struct {
	Agencies int
	Users    int
	Rides    int
}

// Repositories are the stores the seeder writes to.
type Repositories struct {
	Agencies repository.AgencyRepository
	Users    repository.UserRepository
	Rides    repository.RideRepository
}

// ParseAgencies reads one city per line, skipping blank lines.
func ParseAgencies(r io.Reader) ([]string, error) {
	var cities []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if city := strings.TrimSpace(sc.Text()); city != "" {
			cities = append(cities, city)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read agencies: %w", err)
	}
	return cities, nil
}

// ParseUsers reads comma separated user lines. Lines without exactly four
// fields are skipped.
func ParseUsers(r io.Reader) ([]UserRecord, error) {
	var users []UserRecord
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 4 {
			continue
		}
		users = append(users, UserRecord{
			LastName:  strings.TrimSpace(fields[0]),
			FirstName: strings.TrimSpace(fields[1]),
			Phone:     strings.TrimSpace(fields[2]),
			Email:     strings.TrimSpace(fields[3]),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	return users, nil
}

// Seeder inserts the data set.
type Seeder struct {
	rnd *rand.Rand
	now func() time.Time
	log logging.Logger
}

// New creates a seeder. A nil rnd uses a time-seeded source.
func New(rnd *rand.Rand, log logging.Logger) *Seeder {
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Seeder{rnd: rnd, now: time.Now, log: log}
}

// Run empties the tables and inserts everything in one transaction.
func (s *Seeder) Run(ctx context.Context, db *gorm.DB, cities []string, users []UserRecord) (Result, error) {
	var res Result
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"Trajet", "Utilisateur", "Agence"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		var err error
		res, err = s.Populate(ctx, Repositories{
			Agencies: repository.NewAgencyRepository(tx),
			Users:    repository.NewUserRepository(tx),
			Rides:    repository.NewRideRepository(tx),
		}, cities, users)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// Populate inserts agencies, users and sample rides through repos. The
// first user is an administrator; every user gets DefaultPassword and a
// random home agency.
func (s *Seeder) Populate(ctx context.Context, repos Repositories, cities []string, users []UserRecord) (Result, error) {
	var res Result
	if len(cities) < 2 {
		return res, ErrNotEnoughAgencies
	}

	agencyIDs := make([]uint, 0, len(cities))
	for _, city := range cities {
		a := &model.Agency{City: city}
		if err := repos.Agencies.Create(ctx, a); err != nil {
			return res, fmt.Errorf("create agency %q: %w", city, err)
		}
		agencyIDs = append(agencyIDs, a.ID)
	}
	res.Agencies = len(agencyIDs)
	s.log.Info(ctx, "agencies imported", "count", res.Agencies)

	hash, err := service.HashPassword(DefaultPassword)
	if err != nil {
		return res, err
	}

	userIDs := make([]uint, 0, len(users))
	for i, rec := range users {
		u := &model.User{
			LastName:     rec.LastName,
			FirstName:    rec.FirstName,
			Phone:        rec.Phone,
			Email:        rec.Email,
			PasswordHash: hash,
			Admin:        i == 0,
			AgencyID:     agencyIDs[s.rnd.IntN(len(agencyIDs))],
		}
		if err := repos.Users.Create(ctx, u); err != nil {
			return res, fmt.Errorf("create user %q: %w", rec.Email, err)
		}
		userIDs = append(userIDs, u.ID)
	}
	res.Users = len(userIDs)
	s.log.Info(ctx, "users imported", "count", res.Users)

	if len(userIDs) == 0 {
		return res, nil
	}
	for i := 0; i < SampleRides; i++ {
		ride := s.sampleRide(i, agencyIDs, userIDs)
		if err := repos.Rides.Create(ctx, ride); err != nil {
			return res, fmt.Errorf("create ride: %w", err)
		}
		res.Rides++
	}
	s.log.Info(ctx, "sample rides created", "count", res.Rides)
	return res, nil
}

// sampleRide departs i+1 days from now between 6:00 and 18:00 and lasts
// one to five hours.
func (s *Seeder) sampleRide(i int, agencyIDs, userIDs []uint) *model.Ride {
	dep := s.rnd.IntN(len(agencyIDs))
	arr := s.rnd.IntN(len(agencyIDs) - 1)
	if arr >= dep {
		arr++
	}

	day := s.now().AddDate(0, 0, i+1)
	departure := time.Date(day.Year(), day.Month(), day.Day(), 6+s.rnd.IntN(13), 0, 0, 0, day.Location())
	seats := 2 + s.rnd.IntN(model.MaxSeats-1)

	return &model.Ride{
		DepartureAgencyID: agencyIDs[dep],
		DepartureAt:       departure,
		ArrivalAgencyID:   agencyIDs[arr],
		ArrivalAt:         departure.Add(time.Duration(1+s.rnd.IntN(5)) * time.Hour),
		TotalSeats:        seats,
		AvailableSeats:    seats,
		DriverID:          userIDs[s.rnd.IntN(len(userIDs))],
	}
}
