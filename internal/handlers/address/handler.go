package address

import (
	"net/http"
	"taskpal/infras/otel"
	"taskpal/internal/domains/address/model/dto"
	"taskpal/internal/domains/address/service"
	"taskpal/shared/constant"
	"taskpal/shared/validator"
	"taskpal/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Address
	otel    otel.Otel
}

func New(service service.Address, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/address", func(routerGroup chi.Router) {
		routerGroup.Post("/validate-google", handler.Validate)
	})
}

// Validate geocodes an address and checks it lies in the service area.
// @Summary Validate an address
// @Tags Address
// @Accept json
// @Produce json
// @Param request body dto.ValidateAddressRequest true "Validate Address Request"
// @Success 200 {object} response.Data[dto.ValidateAddressResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/address/validate-google [post]
func (handler *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Validate")
	defer scope.End()

	req := dto.ValidateAddressRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Validate(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate address")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
