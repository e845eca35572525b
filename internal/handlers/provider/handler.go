package provider

import (
	"net/http"
	"taskpal/infras/otel"
	"taskpal/internal/domains/provider/model"
	"taskpal/internal/domains/provider/model/dto"
	"taskpal/internal/domains/provider/service"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/validator"
	"taskpal/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const queryName = "name"

type Handler struct {
	service service.Provider
	otel    otel.Otel
}

func New(service service.Provider, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/providers", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetProviders)
		routerGroup.Get("/me", handler.GetMe)
		routerGroup.Patch("/me", handler.UpdateMe)
		routerGroup.Post("/me/profile-picture", handler.UploadProfilePicture)
		routerGroup.Post("/me/documents", handler.UploadDocument)
		routerGroup.Get("/{id}", handler.GetProviderByID)
	})
}

// Filter builds the provider listing filter from the query string. Admin listings
// reuse it with their own status parameter.
func Filter(r *http.Request) gDto.FilterGroup {
	query := r.URL.Query()

	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	filter.AppendIfPresent(model.TableName, model.FieldServiceType, gDto.FilterOperatorEq, query.Get(model.FieldServiceType))
	filter.AppendIfPresent(model.TableName, model.FieldProviderType, gDto.FilterOperatorEq, query.Get(model.FieldProviderType))

	if name := query.Get(queryName); name != "" {
		byName := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorOr}
		byName.Filters = append(byName.Filters,
			gDto.Filter{ArgName: "business_name_like", Field: model.FieldBusinessName, Value: name, Operator: gDto.FilterOperatorLike, Table: model.TableName},
			gDto.Filter{ArgName: "first_name_like", Field: model.FieldFirstName, Value: name, Operator: gDto.FilterOperatorLike, Table: model.TableName},
			gDto.Filter{ArgName: "last_name_like", Field: model.FieldLastName, Value: name, Operator: gDto.FilterOperatorLike, Table: model.TableName},
		)

		filter.Filters = append(filter.Filters, byName)
	}

	return filter
}

// GetProviders lists approved providers.
// @Summary Browse providers
// @Tags Provider
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param service_type query string false "Filter by service type"
// @Param provider_type query string false "Filter by provider type (individual, agency)"
// @Param name query string false "Filter by business or personal name"
// @Success 200 {object} response.Data[dto.GetProvidersResponse]
// @Failure 500 {object} response.Error
// @Router /api/providers [get]
func (handler *Handler) GetProviders(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProviders")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	providers, err := handler.service.GetApproved(ctx, queryParams, Filter(r))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get providers")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, providers)
}

// GetProviderByID returns a provider's public profile.
// @Summary Get a provider
// @Tags Provider
// @Produce json
// @Param id path string true "Provider ID"
// @Success 200 {object} response.Data[dto.ProviderResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/providers/{id} [get]
func (handler *Handler) GetProviderByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProviderByID")
	defer scope.End()

	provider, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get provider")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, provider)
}

// GetMe returns the calling provider's profile.
// @Summary Get own provider profile
// @Tags Provider
// @Produce json
// @Success 200 {object} response.Data[dto.ProviderResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/providers/me [get]
// @Security BearerAuth
func (handler *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMe")
	defer scope.End()

	provider, err := handler.service.GetMe(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get provider profile")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, provider)
}

// UpdateMe updates the calling provider's profile.
// @Summary Update own provider profile
// @Tags Provider
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Update Profile Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/providers/me [patch]
// @Security BearerAuth
func (handler *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateMe")
	defer scope.End()

	req := dto.UpdateProfileRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateMe(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update provider profile")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Provider profile updated successfully")

	response.WithMessage(w, http.StatusOK, "Profile updated successfully")
}

// UploadProfilePicture stores a new provider profile picture.
// @Summary Upload provider profile picture
// @Tags Provider
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file (png, jpeg)"
// @Success 200 {object} response.Data[gDto.UploadResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/providers/me/profile-picture [post]
// @Security BearerAuth
func (handler *Handler) UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadProfilePicture")
	defer scope.End()

	req := gDto.UploadImageRequest{}

	if err := req.FromRequest(r); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to read upload")

		response.WithError(w, err)

		return
	}
	defer req.Content.Close()

	res, err := handler.service.UploadProfilePicture(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload profile picture")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UploadDocument appends a licence or permit document.
// @Summary Upload provider document
// @Tags Provider
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document (png, jpeg, pdf)"
// @Success 200 {object} response.Data[gDto.UploadResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/providers/me/documents [post]
// @Security BearerAuth
func (handler *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadDocument")
	defer scope.End()

	req := gDto.UploadDocumentRequest{}

	if err := req.FromRequest(r); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to read upload")

		response.WithError(w, err)

		return
	}
	defer req.Content.Close()

	res, err := handler.service.UploadDocument(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload document")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
