package model

import (
	"taskpal/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "providers"
	EntityName = "provider"

	FieldID             = "id"
	FieldBusinessName   = "business_name"
	FieldFirstName      = "first_name"
	FieldLastName       = "last_name"
	FieldEmail          = "email"
	FieldPassword       = "password"
	FieldPhone          = "phone"
	FieldServiceType    = "service_type"
	FieldProviderType   = "provider_type"
	FieldLicenseID      = "license_id"
	FieldStatus         = "status"
	FieldDocuments      = "documents"
	FieldProfilePicture = "profile_picture"
	FieldRating         = "rating"
	FieldReviewCount    = "review_count"
)

const (
	StatusPending   = "Pending"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
	StatusSuspended = "Suspended"

	TypeIndividual = "individual"
	TypeAgency     = "agency"
)

type Provider struct {
	ID             string         `db:"id"`
	BusinessName   *string        `db:"business_name"`
	FirstName      string         `db:"first_name"`
	LastName       string         `db:"last_name"`
	Email          string         `db:"email"`
	Password       string         `db:"password"`
	Phone          string         `db:"phone"`
	ServiceType    string         `db:"service_type"`
	ProviderType   string         `db:"provider_type"`
	LicenseID      *string        `db:"license_id"`
	Status         string         `db:"status"`
	Documents      pq.StringArray `db:"documents"`
	ProfilePicture *string        `db:"profile_picture"`
	Rating         float64        `db:"rating"`
	ReviewCount    int            `db:"review_count"`
	model.Metadata
}

// DisplayName prefers the business name of agencies.
func (p Provider) DisplayName() string {
	if p.BusinessName != nil && *p.BusinessName != "" {
		return *p.BusinessName
	}

	return p.FirstName + " " + p.LastName
}
