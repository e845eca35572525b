package dto

import (
	"taskpal/internal/domains/authorized/model"
	"taskpal/shared"
	gDto "taskpal/shared/dto"
	gModel "taskpal/shared/model"
	"taskpal/shared/otp"
	"time"

	"github.com/google/uuid"
)

type CreateAuthorizedUserRequest struct {
	Name          string   `json:"name"                      validate:"required,max=150"`
	Email         string   `json:"email"                     validate:"required,email"`
	Password      string   `json:"password"                  validate:"required,min=8"`
	Relationship  string   `json:"relationship"              validate:"required,max=100"`
	Permissions   []string `json:"permissions"               validate:"required,min=1,unique,dive,oneof=bookings payments chat reviews"`
	OTP           otp.Code `json:"otp"                       validate:"required,configured"`
	ExpiresInDays *int     `json:"expires_in_days,omitempty" validate:"omitempty,min=1,max=365"`
}

func (r *CreateAuthorizedUserRequest) ToModel(clientID, hashedPassword string, now time.Time, defaultDays int) model.AuthorizedUser {
	days := defaultDays
	if r.ExpiresInDays != nil {
		days = *r.ExpiresInDays
	}

	return model.AuthorizedUser{
		ID:           uuid.NewString(),
		ClientID:     clientID,
		Name:         r.Name,
		Email:        r.Email,
		Password:     hashedPassword,
		Relationship: r.Relationship,
		Permissions:  r.Permissions,
		ExpiresAt:    now.AddDate(0, 0, days),
		Active:       true,
		Metadata:     gModel.NewMetadata(clientID, now),
	}
}

type AuthorizedUserResponse struct {
	ID           string    `json:"id"`
	ClientID     string    `json:"client_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Relationship string    `json:"relationship"`
	Permissions  []string  `json:"permissions"`
	ExpiresAt    time.Time `json:"expires_at"`
	Active       bool      `json:"active"`
	gDto.Metadata
}

func (r *AuthorizedUserResponse) FromModel(model model.AuthorizedUser) {
	r.ID = model.ID
	r.ClientID = model.ClientID
	r.Name = model.Name
	r.Email = model.Email
	r.Relationship = model.Relationship
	r.Permissions = model.Permissions
	r.ExpiresAt = model.ExpiresAt
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)

	if r.Permissions == nil {
		r.Permissions = []string{}
	}
}

type GetAuthorizedUsersResponse struct {
	AuthorizedUsers []AuthorizedUserResponse `json:"authorized_users"`
	TotalPage       int                      `json:"total_page"`
	TotalData       int                      `json:"total_data"`
}

func (r *GetAuthorizedUsersResponse) FromModels(models []model.AuthorizedUser, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.AuthorizedUsers = make([]AuthorizedUserResponse, len(models))
	for i, mod := range models {
		r.AuthorizedUsers[i].FromModel(mod)
	}
}

type RevokeRequest struct {
	Active *bool `db:"active"`
}
