package dto

import (
	"taskpal/internal/domains/notification/model"
	"taskpal/shared"
	gDto "taskpal/shared/dto"
	gModel "taskpal/shared/model"
	"taskpal/shared/timezone"

	"github.com/google/uuid"
)

// NotifyRequest is issued by other services, never decoded from a request body.
type NotifyRequest struct {
	RecipientID   string
	RecipientRole string
	Type          string
	Title         string
	Message       string
	ReferenceID   string
}

func (n *NotifyRequest) ToModel(user string) model.Notification {
	var reference *string
	if n.ReferenceID != "" {
		reference = &n.ReferenceID
	}

	return model.Notification{
		ID:            uuid.NewString(),
		RecipientID:   n.RecipientID,
		RecipientRole: n.RecipientRole,
		Title:         n.Title,
		Message:       n.Message,
		Type:          n.Type,
		ReferenceID:   reference,
		IsRead:        false,
		Metadata:      gModel.NewMetadata(user, timezone.Now()),
	}
}

type MarkReadRequest struct {
	IsRead bool `db:"is_read"`
}

type NotificationResponse struct {
	ID            string  `json:"id"`
	RecipientID   string  `json:"recipient_id"`
	RecipientRole string  `json:"recipient_role"`
	Title         string  `json:"title"`
	Message       string  `json:"message"`
	Type          string  `json:"type"`
	ReferenceID   *string `json:"reference_id,omitempty"`
	IsRead        bool    `json:"is_read"`
	gDto.Metadata
}

func (r *NotificationResponse) FromModel(model model.Notification) {
	r.ID = model.ID
	r.RecipientID = model.RecipientID
	r.RecipientRole = model.RecipientRole
	r.Title = model.Title
	r.Message = model.Message
	r.Type = model.Type
	r.ReferenceID = model.ReferenceID
	r.IsRead = model.IsRead
	r.Metadata.FromModel(model.Metadata)
}

type GetNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (r *GetNotificationsResponse) FromModels(models []model.Notification, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Notifications = make([]NotificationResponse, len(models))
	for i, mod := range models {
		r.Notifications[i].FromModel(mod)
	}
}

type UnreadCountResponse struct {
	Unread int `json:"unread"`
}
