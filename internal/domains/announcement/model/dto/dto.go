package dto

import (
	"taskpal/internal/domains/announcement/model"
	"taskpal/shared"
	gDto "taskpal/shared/dto"
	gModel "taskpal/shared/model"
	"taskpal/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateAnnouncementRequest struct {
	Title     string     `json:"title"                validate:"required,max=200"`
	Content   string     `json:"content"              validate:"required"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

func (r *CreateAnnouncementRequest) ToModel(user string) model.Announcement {
	return model.Announcement{
		ID:        uuid.NewString(),
		Title:     r.Title,
		Content:   r.Content,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Metadata:  gModel.NewMetadata(user, timezone.Now()),
	}
}

type UpdateAnnouncementRequest struct {
	Title     string     `json:"title,omitempty"      db:"title"      validate:"omitempty,max=200"`
	Content   string     `json:"content,omitempty"    db:"content"`
	StartDate *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"   db:"end_date"`
}

func (r *UpdateAnnouncementRequest) Apply(announcement *model.Announcement) {
	if r.Title != "" {
		announcement.Title = r.Title
	}

	if r.Content != "" {
		announcement.Content = r.Content
	}

	if r.StartDate != nil {
		announcement.StartDate = r.StartDate
	}

	if r.EndDate != nil {
		announcement.EndDate = r.EndDate
	}
}

type StateFields struct {
	IsActive *bool `db:"is_active"`
}

type AnnouncementResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	IsActive  *bool      `json:"is_active"`
	State     string     `json:"state"`
	gDto.Metadata
}

func (r *AnnouncementResponse) FromModel(model model.Announcement) {
	r.ID = model.ID
	r.Title = model.Title
	r.Content = model.Content
	r.StartDate = model.StartDate
	r.EndDate = model.EndDate
	r.IsActive = model.IsActive
	r.State = model.State()
	r.Metadata.FromModel(model.Metadata)
}

type GetAnnouncementsResponse struct {
	Announcements []AnnouncementResponse `json:"announcements"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (r *GetAnnouncementsResponse) FromModels(models []model.Announcement, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Announcements = make([]AnnouncementResponse, len(models))
	for i, mod := range models {
		r.Announcements[i].FromModel(mod)
	}
}

type DeletedEvent struct {
	ID string `json:"id"`
}
