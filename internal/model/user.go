package model

// User is an employee account. Accounts are created by administrators.
type User struct {
	ID           uint   `json:"id" gorm:"column:Id_Utilisateur;primaryKey"`
	LastName     string `json:"last_name" gorm:"column:nom_utilisateur;size:100;not null"`
	FirstName    string `json:"first_name" gorm:"column:prenom_utilisateur;size:100;not null"`
	Phone        string `json:"phone" gorm:"column:telephone;size:20;not null"`
	Email        string `json:"email" gorm:"column:email;uniqueIndex;size:255;not null"`
	PasswordHash string `json:"-" gorm:"column:mot_de_passe;size:255;not null"` // Never expose in JSON
	Admin        bool   `json:"admin" gorm:"column:admin;not null;default:false"`
	AgencyID     uint   `json:"agency_id" gorm:"column:Id_Agence;not null"`
}

// TableName keeps the historical table name.
func (User) TableName() string { return "Utilisateur" }

// FullName returns "First Last".
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
