package authorized

import (
	"net/http"
	"taskpal/infras/otel"
	"taskpal/internal/domains/authorized/model/dto"
	"taskpal/internal/domains/authorized/service"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/validator"
	"taskpal/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.AuthorizedUser
	otel    otel.Otel
}

func New(service service.AuthorizedUser, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/authorized-users", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateAuthorizedUser)
		routerGroup.Get("/", handler.GetAuthorizedUsers)
		routerGroup.Delete("/{id}", handler.RevokeAuthorizedUser)
	})
}

// CreateAuthorizedUser adds a delegate who can act for the calling client within
// the granted permissions.
// @Summary Create a delegate
// @Tags Authorized User
// @Accept json
// @Produce json
// @Param request body dto.CreateAuthorizedUserRequest true "Create Authorized User Request"
// @Success 201 {object} response.Data[dto.AuthorizedUserResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/authorized-users [post]
// @Security BearerAuth
func (handler *Handler) CreateAuthorizedUser(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateAuthorizedUser")
	defer scope.End()

	req := dto.CreateAuthorizedUserRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	delegate, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create authorized user")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Authorized user created successfully")

	response.WithJSON(w, http.StatusCreated, delegate)
}

// GetAuthorizedUsers lists the calling client's delegates.
// @Summary Get own delegates
// @Tags Authorized User
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetAuthorizedUsersResponse]
// @Failure 500 {object} response.Error
// @Router /api/authorized-users [get]
// @Security BearerAuth
func (handler *Handler) GetAuthorizedUsers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAuthorizedUsers")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	delegates, err := handler.service.GetAll(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get authorized users")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, delegates)
}

// RevokeAuthorizedUser deactivates one of the calling client's delegates.
// @Summary Revoke a delegate
// @Tags Authorized User
// @Produce json
// @Param id path string true "Authorized user ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/authorized-users/{id} [delete]
// @Security BearerAuth
func (handler *Handler) RevokeAuthorizedUser(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RevokeAuthorizedUser")
	defer scope.End()

	if err := handler.service.Revoke(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to revoke authorized user")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Authorized user revoked")

	response.WithMessage(w, http.StatusOK, "Authorized user revoked")
}
