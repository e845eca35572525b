package announcement

import (
	"net/http"
	"taskpal/infras/otel"
	"taskpal/internal/domains/announcement/model/dto"
	"taskpal/internal/domains/announcement/service"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/validator"
	"taskpal/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const queryState = "state"

type Handler struct {
	service service.Announcement
	otel    otel.Otel
}

func New(service service.Announcement, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/announcements", func(routerGroup chi.Router) {
		routerGroup.Get("/active", handler.GetActive)

		routerGroup.Post("/", handler.CreateAnnouncement)
		routerGroup.Get("/", handler.GetAnnouncements)
		routerGroup.Patch("/{id}", handler.UpdateAnnouncement)
		routerGroup.Patch("/{id}/activate", handler.Activate)
		routerGroup.Patch("/{id}/complete", handler.Complete)
		routerGroup.Delete("/{id}", handler.DeleteAnnouncement)
	})
}

// GetActive returns the announcements currently shown to users.
// @Summary Get active announcements
// @Tags Announcement
// @Produce json
// @Success 200 {object} response.Data[[]dto.AnnouncementResponse]
// @Failure 500 {object} response.Error
// @Router /api/announcements/active [get]
func (handler *Handler) GetActive(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetActive")
	defer scope.End()

	announcements, err := handler.service.GetActive(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get active announcements")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, announcements)
}

// CreateAnnouncement drafts a pending announcement.
// @Summary Create an announcement
// @Tags Announcement
// @Accept json
// @Produce json
// @Param request body dto.CreateAnnouncementRequest true "Create Announcement Request"
// @Success 201 {object} response.Data[dto.AnnouncementResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/announcements [post]
// @Security BearerAuth
func (handler *Handler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateAnnouncement")
	defer scope.End()

	req := dto.CreateAnnouncementRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	announcement, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create announcement")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Announcement created successfully")

	response.WithJSON(w, http.StatusCreated, announcement)
}

// GetAnnouncements lists all announcements.
// @Summary Get announcements
// @Tags Announcement
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param state query string false "Filter by state (pending, active, completed)"
// @Success 200 {object} response.Data[dto.GetAnnouncementsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/announcements [get]
// @Security BearerAuth
func (handler *Handler) GetAnnouncements(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAnnouncements")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	announcements, err := handler.service.GetAll(ctx, queryParams, r.URL.Query().Get(queryState))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get announcements")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, announcements)
}

// UpdateAnnouncement edits title, content or schedule.
// @Summary Update an announcement
// @Tags Announcement
// @Accept json
// @Produce json
// @Param id path string true "Announcement ID"
// @Param request body dto.UpdateAnnouncementRequest true "Update Announcement Request"
// @Success 200 {object} response.Data[dto.AnnouncementResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/announcements/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateAnnouncement")
	defer scope.End()

	req := dto.UpdateAnnouncementRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	announcement, err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update announcement")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, announcement)
}

// Activate publishes an announcement to connected users.
// @Summary Activate an announcement
// @Tags Announcement
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} response.Data[dto.AnnouncementResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/announcements/{id}/activate [patch]
// @Security BearerAuth
func (handler *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Activate")
	defer scope.End()

	announcement, err := handler.service.Activate(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to activate announcement")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Announcement activated")

	response.WithJSON(w, http.StatusOK, announcement)
}

// Complete withdraws an active announcement.
// @Summary Complete an announcement
// @Tags Announcement
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} response.Data[dto.AnnouncementResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/announcements/{id}/complete [patch]
// @Security BearerAuth
func (handler *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Complete")
	defer scope.End()

	announcement, err := handler.service.Complete(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to complete announcement")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Announcement completed")

	response.WithJSON(w, http.StatusOK, announcement)
}

// DeleteAnnouncement removes an announcement.
// @Summary Delete an announcement
// @Tags Announcement
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/announcements/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteAnnouncement")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete announcement")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Announcement deleted")

	response.WithMessage(w, http.StatusOK, "Announcement deleted successfully")
}
