package dto

import (
	"taskpal/internal/domains/provider/model"
	"taskpal/shared"
	gDto "taskpal/shared/dto"
	gModel "taskpal/shared/model"
	"taskpal/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreateProviderRequest struct {
	BusinessName *string `json:"business_name,omitempty" validate:"omitempty,max=150"`
	FirstName    string  `json:"first_name"              validate:"required,max=100"`
	LastName     string  `json:"last_name"               validate:"required,max=100"`
	Email        string  `json:"email"                   validate:"required,email"`
	Password     string  `json:"password"                validate:"required,min=8"`
	Phone        string  `json:"phone"                   validate:"required,phone"`
	ServiceType  string  `json:"service_type"            validate:"required,max=100"`
	ProviderType string  `json:"provider_type"           validate:"required,oneof=individual agency"`
	LicenseID    *string `json:"license_id,omitempty"    validate:"omitempty,max=100"`
}

func (r *CreateProviderRequest) ToModel(user string, hashedPassword string) model.Provider {
	return model.Provider{
		ID:           uuid.NewString(),
		BusinessName: r.BusinessName,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		Password:     hashedPassword,
		Phone:        r.Phone,
		ServiceType:  r.ServiceType,
		ProviderType: r.ProviderType,
		LicenseID:    r.LicenseID,
		Status:       model.StatusPending,
		Documents:    []string{},
		Metadata:     gModel.NewMetadata(user, timezone.Now()),
	}
}

type ProviderResponse struct {
	ID             string   `json:"id"`
	BusinessName   *string  `json:"business_name,omitempty"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	ServiceType    string   `json:"service_type"`
	ProviderType   string   `json:"provider_type"`
	LicenseID      *string  `json:"license_id,omitempty"`
	Status         string   `json:"status"`
	Documents      []string `json:"documents"`
	ProfilePicture *string  `json:"profile_picture,omitempty"`
	Rating         float64  `json:"rating"`
	ReviewCount    int      `json:"review_count"`
	gDto.Metadata
}

func (r *ProviderResponse) FromModel(model model.Provider) {
	r.ID = model.ID
	r.BusinessName = model.BusinessName
	r.FirstName = model.FirstName
	r.LastName = model.LastName
	r.Email = model.Email
	r.Phone = model.Phone
	r.ServiceType = model.ServiceType
	r.ProviderType = model.ProviderType
	r.LicenseID = model.LicenseID
	r.Status = model.Status
	r.Documents = model.Documents
	r.ProfilePicture = model.ProfilePicture
	r.Rating = model.Rating
	r.ReviewCount = model.ReviewCount
	r.Metadata.FromModel(model.Metadata)

	if r.Documents == nil {
		r.Documents = []string{}
	}
}

type GetProvidersResponse struct {
	Providers []ProviderResponse `json:"providers"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetProvidersResponse) FromModels(models []model.Provider, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Providers = make([]ProviderResponse, len(models))
	for i, mod := range models {
		r.Providers[i].FromModel(mod)
	}
}

type UpdateProfileRequest struct {
	BusinessName *string `db:"business_name" json:"business_name,omitempty" validate:"omitempty,max=150"`
	FirstName    *string `db:"first_name"    json:"first_name,omitempty"    validate:"omitempty,max=100"`
	LastName     *string `db:"last_name"     json:"last_name,omitempty"     validate:"omitempty,max=100"`
	Phone        *string `db:"phone"         json:"phone,omitempty"         validate:"omitempty,phone"`
	ServiceType  *string `db:"service_type"  json:"service_type,omitempty"  validate:"omitempty,max=100"`
	LicenseID    *string `db:"license_id"    json:"license_id,omitempty"    validate:"omitempty,max=100"`
}

type UpdateStatusRequest struct {
	Status string `db:"status" json:"status" validate:"required,oneof=Pending Approved Rejected Suspended"`
}

type UpdateProfilePictureRequest struct {
	ProfilePicture string `db:"profile_picture"`
}

type UpdateDocumentsRequest struct {
	Documents pq.StringArray `db:"documents"`
}

type UpdateRatingRequest struct {
	Rating      float64 `db:"rating"`
	ReviewCount int     `db:"review_count"`
}
