package dto

import (
	"taskpal/internal/domains/chat/model"
	"taskpal/shared"
	gDto "taskpal/shared/dto"
)

type TokenResponse struct {
	Token  string `json:"token"`
	APIKey string `json:"api_key"`
	UserID string `json:"user_id"`
}

type ThreadResponse struct {
	ID         string `json:"id"`
	BookingID  string `json:"booking_id"`
	ClientID   string `json:"client_id"`
	ProviderID string `json:"provider_id"`
	ChannelID  string `json:"channel_id"`
	gDto.Metadata
}

func (r *ThreadResponse) FromModel(model model.Thread) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.ClientID = model.ClientID
	r.ProviderID = model.ProviderID
	r.ChannelID = model.ChannelID
	r.Metadata.FromModel(model.Metadata)
}

type GetThreadsResponse struct {
	Threads   []ThreadResponse `json:"threads"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetThreadsResponse) FromModels(models []model.Thread, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Threads = make([]ThreadResponse, len(models))
	for i, mod := range models {
		r.Threads[i].FromModel(mod)
	}
}
