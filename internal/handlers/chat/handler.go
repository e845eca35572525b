package chat

import (
	"net/http"
	"taskpal/infras/otel"
	"taskpal/internal/domains/chat/service"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Chat
	otel    otel.Otel
}

func New(service service.Chat, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/chat", func(routerGroup chi.Router) {
		routerGroup.Get("/token", handler.Token)
		routerGroup.Get("/threads", handler.GetThreads)
	})
}

// Token issues a chat user token for the caller.
// @Summary Get a chat token
// @Tags Chat
// @Produce json
// @Success 200 {object} response.Data[dto.TokenResponse]
// @Failure 500 {object} response.Error
// @Router /api/chat/token [get]
// @Security BearerAuth
func (handler *Handler) Token(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Token")
	defer scope.End()

	token, err := handler.service.Token(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to issue chat token")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, token)
}

// GetThreads lists the caller's booking chat threads.
// @Summary Get chat threads
// @Tags Chat
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetThreadsResponse]
// @Failure 500 {object} response.Error
// @Router /api/chat/threads [get]
// @Security BearerAuth
func (handler *Handler) GetThreads(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetThreads")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	threads, err := handler.service.GetThreads(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get chat threads")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, threads)
}
