package model

import (
	"taskpal/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID             = "id"
	FieldFirstName      = "first_name"
	FieldLastName       = "last_name"
	FieldEmail          = "email"
	FieldPassword       = "password"
	FieldPhone          = "phone"
	FieldAddress        = "address"
	FieldBarangay       = "barangay"
	FieldCity           = "city"
	FieldLatitude       = "latitude"
	FieldLongitude      = "longitude"
	FieldIsVerified     = "is_verified"
	FieldDocuments      = "documents"
	FieldProfilePicture = "profile_picture"
	FieldActive         = "active"
)

// User is a client account.
type User struct {
	ID             string         `db:"id"`
	FirstName      string         `db:"first_name"`
	LastName       string         `db:"last_name"`
	Email          string         `db:"email"`
	Password       string         `db:"password"`
	Phone          string         `db:"phone"`
	Address        string         `db:"address"`
	Barangay       *string        `db:"barangay"`
	City           *string        `db:"city"`
	Latitude       *float64       `db:"latitude"`
	Longitude      *float64       `db:"longitude"`
	IsVerified     bool           `db:"is_verified"`
	Documents      pq.StringArray `db:"documents"`
	ProfilePicture *string        `db:"profile_picture"`
	Active         bool           `db:"active"`
	model.Metadata
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
