package model

// Agency is a pickup/drop-off location identified by its city.
type Agency struct {
	ID   uint   `json:"id" gorm:"column:Id_Agence;primaryKey"`
	City string `json:"city" gorm:"column:ville;size:100;not null"`
}

// TableName keeps the historical table name.
func (Agency) TableName() string { return "Agence" }
