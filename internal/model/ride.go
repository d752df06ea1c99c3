package model

import "time"

// Ride seat and duration limits.
const (
	MinSeats       = 1
	MaxSeats       = 8
	MinRideMinutes = 60
)

// Ride is a scheduled car trip between two agencies.
type Ride struct {
	ID                uint      `json:"id" gorm:"column:Id_Trajet;primaryKey"`
	DepartureAgencyID uint      `json:"departure_agency_id" gorm:"column:Id_Agence_Depart;not null"`
	DepartureAt       time.Time `json:"departure_at" gorm:"column:date_heure_depart;not null"`
	ArrivalAgencyID   uint      `json:"arrival_agency_id" gorm:"column:Id_Agence_Arrivee;not null"`
	ArrivalAt         time.Time `json:"arrival_at" gorm:"column:date_heure_arrivee;not null"`
	TotalSeats        int       `json:"total_seats" gorm:"column:nb_places_total;not null"`
	AvailableSeats    int       `json:"available_seats" gorm:"column:nb_places_dispo;not null"`
	DriverID          uint      `json:"driver_id" gorm:"column:Id_Conducteur;not null"`
}

// TableName keeps the historical table name.
func (Ride) TableName() string { return "Trajet" }

// Duration is the scheduled travel time.
func (r Ride) Duration() time.Duration {
	return r.ArrivalAt.Sub(r.DepartureAt)
}

// RideListing is a ride joined with its driver's contact details.
type RideListing struct {
	Ride
	DriverFirstName string `json:"driver_first_name" gorm:"column:prenom_utilisateur"`
	DriverLastName  string `json:"driver_last_name" gorm:"column:nom_utilisateur"`
	DriverPhone     string `json:"driver_phone" gorm:"column:telephone"`
	DriverEmail     string `json:"driver_email" gorm:"column:email"`
}
