package dto

import (
	"taskpal/internal/domains/admin/model"
	"taskpal/shared"
	gDto "taskpal/shared/dto"
	gModel "taskpal/shared/model"
	"taskpal/shared/timezone"

	"github.com/google/uuid"
)

type CreateAdminRequest struct {
	Name     string `json:"name"     validate:"required,max=150"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"required,oneof=admin superadmin"`
}

func (r *CreateAdminRequest) ToModel(user string, hashedPassword string) model.Admin {
	return model.Admin{
		ID:       uuid.NewString(),
		Name:     r.Name,
		Email:    r.Email,
		Password: hashedPassword,
		Role:     r.Role,
		Metadata: gModel.NewMetadata(user, timezone.Now()),
	}
}

type AdminResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	gDto.Metadata
}

func (r *AdminResponse) FromModel(model model.Admin) {
	r.ID = model.ID
	r.Name = model.Name
	r.Email = model.Email
	r.Role = model.Role
	r.Metadata.FromModel(model.Metadata)
}

type GetAdminsResponse struct {
	Admins    []AdminResponse `json:"admins"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetAdminsResponse) FromModels(models []model.Admin, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Admins = make([]AdminResponse, len(models))
	for i, mod := range models {
		r.Admins[i].FromModel(mod)
	}
}

// StatsResponse is the admin dashboard summary.
type StatsResponse struct {
	TotalUsers        int            `json:"total_users"`
	TotalProviders    int            `json:"total_providers"`
	PendingProviders  int            `json:"pending_providers"`
	ProvidersByStatus map[string]int `json:"providers_by_status"`
	TotalBookings     int            `json:"total_bookings"`
	BookingsByStatus  map[string]int `json:"bookings_by_status"`
	TotalPaidAmount   float64        `json:"total_paid_amount"`
}

func sum(counts map[string]int) (total int) {
	for _, count := range counts {
		total += count
	}

	return total
}

func (r *StatsResponse) SetProviders(counts map[string]int, pendingStatus string) {
	r.ProvidersByStatus = counts
	r.TotalProviders = sum(counts)
	r.PendingProviders = counts[pendingStatus]
}

func (r *StatsResponse) SetBookings(counts map[string]int) {
	r.BookingsByStatus = counts
	r.TotalBookings = sum(counts)
}
