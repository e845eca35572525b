package dto

import (
	"taskpal/shared/constant"
	"taskpal/shared/model"
	"taskpal/shared/timezone"
	"time"
)

// Metadata is the audit block embedded in every response. Timestamps are
// rendered in the application timezone.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedBy string `json:"modified_by"`
}

func (m *Metadata) FromModel(metadata model.Metadata) {
	*m = Metadata{
		CreatedAt:  formatTime(metadata.CreatedAt),
		ModifiedAt: formatTime(metadata.ModifiedAt),
		CreatedBy:  metadata.CreatedBy,
		ModifiedBy: metadata.ModifiedBy,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return timezone.Format(t, constant.DateFormat)
}
