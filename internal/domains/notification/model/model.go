package model

import "taskpal/shared/model"

const (
	TableName  = "notifications"
	EntityName = "notification"

	FieldID            = "id"
	FieldRecipientID   = "recipient_id"
	FieldRecipientRole = "recipient_role"
	FieldTitle         = "title"
	FieldMessage       = "message"
	FieldType          = "type"
	FieldReferenceID   = "reference_id"
	FieldIsRead        = "is_read"
)

const (
	TypeBooking      = "booking"
	TypePayment      = "payment"
	TypeExecution    = "execution"
	TypeReview       = "review"
	TypeAccount      = "account"
	TypeAnnouncement = "announcement"
)

type Notification struct {
	ID            string  `db:"id"`
	RecipientID   string  `db:"recipient_id"`
	RecipientRole string  `db:"recipient_role"`
	Title         string  `db:"title"`
	Message       string  `db:"message"`
	Type          string  `db:"type"`
	ReferenceID   *string `db:"reference_id"`
	IsRead        bool    `db:"is_read"`
	model.Metadata
}
