package models

import "time"

// Patient defines the structure for patient records.
type Patient struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"index;not null"`
	DOB       *string   `json:"dob"`   // Optional field
	Notes     *string   `json:"notes"` // Optional field
	OwnerID   uint      `json:"owner_id" gorm:"index;not null"` // Foreign key to User.ID
	CreatedAt time.Time `json:"created_at"`

	Predictions []Prediction `json:"-" gorm:"foreignKey:PatientID"`
}
