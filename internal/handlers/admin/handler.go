package admin

import (
	"net/http"
	"taskpal/infras/otel"
	"taskpal/internal/domains/admin/model/dto"
	adminService "taskpal/internal/domains/admin/service"
	bookingModel "taskpal/internal/domains/booking/model"
	bookingDto "taskpal/internal/domains/booking/model/dto"
	bookingService "taskpal/internal/domains/booking/service"
	providerModel "taskpal/internal/domains/provider/model"
	providerDto "taskpal/internal/domains/provider/model/dto"
	providerService "taskpal/internal/domains/provider/service"
	providerHandler "taskpal/internal/handlers/provider"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/validator"
	"taskpal/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service  adminService.Admin
	provider providerService.Provider
	booking  bookingService.Booking
	otel     otel.Otel
}

func New(service adminService.Admin, provider providerService.Provider, booking bookingService.Booking, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		provider: provider,
		booking:  booking,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/admin", func(routerGroup chi.Router) {
		routerGroup.Post("/admins", handler.CreateAdmin)
		routerGroup.Get("/admins", handler.GetAdmins)
		routerGroup.Get("/providers", handler.GetProviders)
		routerGroup.Patch("/providers/{id}/status", handler.UpdateProviderStatus)
		routerGroup.Get("/stats", handler.GetStats)
		routerGroup.Get("/bookings", handler.GetBookings)
		routerGroup.Delete("/bookings/{id}", handler.DeleteBooking)
	})
}

// CreateAdmin registers another administrator. Superadmin only.
// @Summary Create an admin
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.CreateAdminRequest true "Create Admin Request"
// @Success 201 {object} response.Data[dto.AdminResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/admin/admins [post]
// @Security BearerAuth
func (handler *Handler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateAdmin")
	defer scope.End()

	req := dto.CreateAdminRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	admin, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create admin")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Admin created successfully")

	response.WithJSON(w, http.StatusCreated, admin)
}

// GetAdmins lists administrators.
// @Summary Get all admins
// @Tags Admin
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetAdminsResponse]
// @Failure 500 {object} response.Error
// @Router /api/admin/admins [get]
// @Security BearerAuth
func (handler *Handler) GetAdmins(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAdmins")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	admins, err := handler.service.GetAll(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get admins")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, admins)
}

// GetProviders lists providers in any status.
// @Summary Get providers for review
// @Tags Admin
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (Pending, Approved, Rejected, Suspended)"
// @Param service_type query string false "Filter by service type"
// @Param provider_type query string false "Filter by provider type"
// @Param name query string false "Filter by name"
// @Success 200 {object} response.Data[providerDto.GetProvidersResponse]
// @Failure 500 {object} response.Error
// @Router /api/admin/providers [get]
// @Security BearerAuth
func (handler *Handler) GetProviders(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProviders")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := providerHandler.Filter(r)
	filter.AppendIfPresent(providerModel.TableName, providerModel.FieldStatus, gDto.FilterOperatorEq, r.URL.Query().Get(providerModel.FieldStatus))

	providers, err := handler.provider.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get providers")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, providers)
}

// UpdateProviderStatus approves, rejects or suspends a provider.
// @Summary Update provider status
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Provider ID"
// @Param request body providerDto.UpdateStatusRequest true "Update Status Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/admin/providers/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateProviderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateProviderStatus")
	defer scope.End()

	req := providerDto.UpdateStatusRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.provider.UpdateStatus(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update provider status")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Provider status updated")

	response.WithMessage(w, http.StatusOK, "Provider status updated")
}

// GetStats returns platform counters.
// @Summary Platform statistics
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Data[dto.StatsResponse]
// @Failure 500 {object} response.Error
// @Router /api/admin/stats [get]
// @Security BearerAuth
func (handler *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStats")
	defer scope.End()

	stats, err := handler.service.Stats(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get stats")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, stats)
}

// GetBookings lists every booking.
// @Summary Get all bookings
// @Tags Admin
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Data[bookingDto.GetBookingsResponse]
// @Failure 500 {object} response.Error
// @Router /api/admin/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	var (
		bookings bookingDto.GetBookingsResponse
		err      error
	)

	bookings, err = handler.booking.GetAll(ctx, queryParams, r.URL.Query().Get(bookingModel.FieldStatus))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// DeleteBooking hard-deletes a booking.
// @Summary Delete a booking
// @Tags Admin
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/admin/bookings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBooking")
	defer scope.End()

	if err := handler.booking.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking deleted successfully")

	response.WithMessage(w, http.StatusOK, "Booking deleted successfully")
}
