package dto

import (
	"taskpal/internal/domains/user/model"
	"taskpal/shared"
	gDto "taskpal/shared/dto"
	gModel "taskpal/shared/model"
	"taskpal/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreateUserRequest struct {
	FirstName string   `json:"first_name" validate:"required,max=100"`
	LastName  string   `json:"last_name"  validate:"required,max=100"`
	Email     string   `json:"email"      validate:"required,email"`
	Password  string   `json:"password"   validate:"required,min=8"`
	Phone     string   `json:"phone"      validate:"required,phone"`
	Address   string   `json:"address"    validate:"required,max=255"`
	Barangay  *string  `json:"barangay,omitempty"  validate:"omitempty,max=100"`
	City      *string  `json:"city,omitempty"      validate:"omitempty,max=100"`
	Latitude  *float64 `json:"latitude,omitempty"  validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

func (r *CreateUserRequest) ToModel(user string, hashedPassword string) model.User {
	return model.User{
		ID:         uuid.NewString(),
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Password:   hashedPassword,
		Phone:      r.Phone,
		Address:    r.Address,
		Barangay:   r.Barangay,
		City:       r.City,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		IsVerified: false,
		Documents:  []string{},
		Active:     true,
		Metadata:   gModel.NewMetadata(user, timezone.Now()),
	}
}

type UserResponse struct {
	ID             string   `json:"id"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Address        string   `json:"address"`
	Barangay       *string  `json:"barangay,omitempty"`
	City           *string  `json:"city,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	IsVerified     bool     `json:"is_verified"`
	Documents      []string `json:"documents"`
	ProfilePicture *string  `json:"profile_picture,omitempty"`
	Active         bool     `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.FirstName = model.FirstName
	r.LastName = model.LastName
	r.Email = model.Email
	r.Phone = model.Phone
	r.Address = model.Address
	r.Barangay = model.Barangay
	r.City = model.City
	r.Latitude = model.Latitude
	r.Longitude = model.Longitude
	r.IsVerified = model.IsVerified
	r.Documents = model.Documents
	r.ProfilePicture = model.ProfilePicture
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)

	if r.Documents == nil {
		r.Documents = []string{}
	}
}

type UpdateProfileRequest struct {
	FirstName *string  `db:"first_name" json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  *string  `db:"last_name"  json:"last_name,omitempty"  validate:"omitempty,max=100"`
	Phone     *string  `db:"phone"      json:"phone,omitempty"      validate:"omitempty,phone"`
	Address   *string  `db:"address"    json:"address,omitempty"    validate:"omitempty,max=255"`
	Barangay  *string  `db:"barangay"   json:"barangay,omitempty"   validate:"omitempty,max=100"`
	City      *string  `db:"city"       json:"city,omitempty"       validate:"omitempty,max=100"`
	Latitude  *float64 `db:"latitude"   json:"latitude,omitempty"   validate:"omitempty,latitude"`
	Longitude *float64 `db:"longitude"  json:"longitude,omitempty"  validate:"omitempty,longitude"`
}

type VerifyUserRequest struct {
	IsVerified *bool `db:"is_verified" json:"is_verified" validate:"required"`
}

type UpdateProfilePictureRequest struct {
	ProfilePicture string `db:"profile_picture"`
}

type UpdateDocumentsRequest struct {
	Documents pq.StringArray `db:"documents"`
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
