// Package repotest provides in-memory repositories for handler and service tests.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"klaxon/internal/model"
	"klaxon/internal/repository"
)

// DB is a tiny in-memory database shared by the fake repositories so that
// foreign key checks behave like the MySQL schema.
type DB struct {
	mu       sync.Mutex
	agencies map[uint]model.Agency
	users    map[uint]model.User
	rides    map[uint]model.Ride
	nextID   uint
}

// New returns an empty database.
func New() *DB {
	return &DB{
		agencies: make(map[uint]model.Agency),
		users:    make(map[uint]model.User),
		rides:    make(map[uint]model.Ride),
	}
}

func (d *DB) id() uint {
	d.nextID++
	return d.nextID
}

// Agencies returns an AgencyRepository backed by d.
func (d *DB) Agencies() repository.AgencyRepository { return &agencies{d} }

// Users returns a UserRepository backed by d.
func (d *DB) Users() repository.UserRepository { return &users{d} }

// Rides returns a RideRepository backed by d.
func (d *DB) Rides() repository.RideRepository { return &rides{d} }

// RideCount reports how many rides are stored.
func (d *DB) RideCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.rides)
}

// SetAvailableSeats overwrites a ride's free seat count.
func (d *DB) SetAvailableSeats(id uint, seats int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.rides[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.AvailableSeats = seats
	d.rides[id] = t
	return nil
}

type agencies struct{ d *DB }

func (r *agencies) List(_ context.Context) ([]model.Agency, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	out := make([]model.Agency, 0, len(r.d.agencies))
	for _, a := range r.d.agencies {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].City < out[j].City })
	return out, nil
}

func (r *agencies) FindByID(_ context.Context, id uint) (*model.Agency, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	a, ok := r.d.agencies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r *agencies) Create(_ context.Context, agency *model.Agency) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	agency.ID = r.d.id()
	r.d.agencies[agency.ID] = *agency
	return nil
}

func (r *agencies) Update(_ context.Context, agency *model.Agency) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.agencies[agency.ID]; ok {
		r.d.agencies[agency.ID] = *agency
	}
	return nil
}

func (r *agencies) Delete(_ context.Context, id uint) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.agencyRefs(id) > 0 {
		return gorm.ErrForeignKeyViolated
	}
	delete(r.d.agencies, id)
	return nil
}

func (r *agencies) CountReferences(_ context.Context, id uint) (int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	return r.d.agencyRefs(id), nil
}

func (d *DB) agencyRefs(id uint) int64 {
	var n int64
	for _, u := range d.users {
		if u.AgencyID == id {
			n++
		}
	}
	for _, t := range d.rides {
		if t.DepartureAgencyID == id || t.ArrivalAgencyID == id {
			n++
		}
	}
	return n
}

type users struct{ d *DB }

func (r *users) List(_ context.Context) ([]model.User, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	out := make([]model.User, 0, len(r.d.users))
	for _, u := range r.d.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (r *users) FindByID(_ context.Context, id uint) (*model.User, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	u, ok := r.d.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *users) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, u := range r.d.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *users) Create(_ context.Context, user *model.User) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.emailTaken(user.Email, 0) {
		return gorm.ErrDuplicatedKey
	}
	if _, ok := r.d.agencies[user.AgencyID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	user.ID = r.d.id()
	r.d.users[user.ID] = *user
	return nil
}

func (r *users) Update(_ context.Context, user *model.User) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	cur, ok := r.d.users[user.ID]
	if !ok {
		return nil
	}
	if r.d.emailTaken(user.Email, user.ID) {
		return gorm.ErrDuplicatedKey
	}
	if _, ok := r.d.agencies[user.AgencyID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	cur.LastName = user.LastName
	cur.FirstName = user.FirstName
	cur.Email = user.Email
	cur.Phone = user.Phone
	cur.Admin = user.Admin
	cur.AgencyID = user.AgencyID
	r.d.users[user.ID] = cur
	return nil
}

func (r *users) UpdatePassword(_ context.Context, id uint, passwordHash string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if u, ok := r.d.users[id]; ok {
		u.PasswordHash = passwordHash
		r.d.users[id] = u
	}
	return nil
}

func (r *users) Delete(_ context.Context, id uint) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.d.userRides(id) > 0 {
		return gorm.ErrForeignKeyViolated
	}
	delete(r.d.users, id)
	return nil
}

func (r *users) CountRides(_ context.Context, id uint) (int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	return r.d.userRides(id), nil
}

func (d *DB) emailTaken(email string, except uint) bool {
	for id, u := range d.users {
		if id != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (d *DB) userRides(id uint) int64 {
	var n int64
	for _, t := range d.rides {
		if t.DriverID == id {
			n++
		}
	}
	return n
}

type rides struct{ d *DB }

func (r *rides) List(_ context.Context) ([]model.Ride, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	out := make([]model.Ride, 0, len(r.d.rides))
	for _, t := range r.d.rides {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepartureAt.Before(out[j].DepartureAt) })
	return out, nil
}

func (r *rides) FindByID(_ context.Context, id uint) (*model.Ride, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	t, ok := r.d.rides[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (r *rides) Create(_ context.Context, ride *model.Ride) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if err := r.d.checkRideRefs(ride); err != nil {
		return err
	}
	ride.AvailableSeats = ride.TotalSeats
	ride.ID = r.d.id()
	r.d.rides[ride.ID] = *ride
	return nil
}

func (r *rides) Update(_ context.Context, ride *model.Ride) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	cur, ok := r.d.rides[ride.ID]
	if !ok {
		return nil
	}
	if err := r.d.checkRideRefs(ride); err != nil {
		return err
	}
	ride.AvailableSeats = ride.TotalSeats
	cur.DepartureAgencyID = ride.DepartureAgencyID
	cur.DepartureAt = ride.DepartureAt
	cur.ArrivalAgencyID = ride.ArrivalAgencyID
	cur.ArrivalAt = ride.ArrivalAt
	cur.TotalSeats = ride.TotalSeats
	cur.AvailableSeats = ride.AvailableSeats
	r.d.rides[ride.ID] = cur
	return nil
}

func (r *rides) Delete(_ context.Context, id uint) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	delete(r.d.rides, id)
	return nil
}

func (r *rides) ListAvailableWithDriver(_ context.Context, now time.Time) ([]model.RideListing, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	out := r.d.listings(func(t model.Ride) bool {
		return t.AvailableSeats > 0 && !t.DepartureAt.Before(now)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].DepartureAt.Before(out[j].DepartureAt) })
	return out, nil
}

func (r *rides) ListAllWithDriver(_ context.Context) ([]model.RideListing, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	out := r.d.listings(func(model.Ride) bool { return true })
	sort.Slice(out, func(i, j int) bool { return out[i].DepartureAt.After(out[j].DepartureAt) })
	return out, nil
}

func (d *DB) listings(keep func(model.Ride) bool) []model.RideListing {
	out := []model.RideListing{}
	for _, t := range d.rides {
		if !keep(t) {
			continue
		}
		u, ok := d.users[t.DriverID]
		if !ok {
			continue
		}
		out = append(out, model.RideListing{
			Ride:            t,
			DriverFirstName: u.FirstName,
			DriverLastName:  u.LastName,
			DriverPhone:     u.Phone,
			DriverEmail:     u.Email,
		})
	}
	return out
}

func (d *DB) checkRideRefs(ride *model.Ride) error {
	if _, ok := d.agencies[ride.DepartureAgencyID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	if _, ok := d.agencies[ride.ArrivalAgencyID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	if _, ok := d.users[ride.DriverID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	return nil
}
