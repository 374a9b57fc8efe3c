package adaptor

import (
	"context"
	"encoding/json"
	"net/http"

	"cinephile/internal/dto/request"
	"cinephile/internal/dto/response"
	"cinephile/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CRUDService is the shape shared by every resource service.
type CRUDService[Req, Resp any] interface {
	List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[Resp], error)
	Create(ctx context.Context, req *Req) (*Resp, error)
	Get(ctx context.Context, id string) (*Resp, error)
	Update(ctx context.Context, id string, req *Req) (*Resp, error)
	Delete(ctx context.Context, id string) error
}

// ResourceHandler serves list, create, retrieve, update and delete of one
// resource. PUT and PATCH both merge the supplied fields into the stored row.
type ResourceHandler[Req, Resp any] struct {
	name    string
	service CRUDService[Req, Resp]
	log     *zap.Logger
}

type (
	AddressHandler    = ResourceHandler[request.AddressRequest, response.AddressResponse]
	CinemaHandler     = ResourceHandler[request.CinemaRequest, response.CinemaResponse]
	FilmHandler       = ResourceHandler[request.FilmRequest, response.FilmResponse]
	FilmCinemaHandler = ResourceHandler[request.FilmCinemaRequest, response.FilmCinemaResponse]
	TicketHandler     = ResourceHandler[request.TicketRequest, response.TicketResponse]
	UserHandler       = ResourceHandler[request.UserRequest, response.UserResponse]
)

func NewResourceHandler[Req, Resp any](name string, service CRUDService[Req, Resp], log *zap.Logger) *ResourceHandler[Req, Resp] {
	return &ResourceHandler[Req, Resp]{
		name:    name,
		service: service,
		log:     log.With(zap.String("handler", name)),
	}
}

// List handles GET /rest/{resource}/
func (h *ResourceHandler[Req, Resp]) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), utils.DefaultPerPage),
	}
	if req.Page < 1 {
		req.Page = 1
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err, "list "+h.name)
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// Create handles POST /rest/{resource}/
func (h *ResourceHandler[Req, Resp]) Create(w http.ResponseWriter, r *http.Request) {
	var req Req
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create "+h.name)
		return
	}

	utils.ResponseCreated(w, "success", result)
}

// Retrieve handles GET /rest/{resource}/{id}/
func (h *ResourceHandler[Req, Resp]) Retrieve(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "get "+h.name)
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// Update handles PUT and PATCH /rest/{resource}/{id}/
func (h *ResourceHandler[Req, Resp]) Update(w http.ResponseWriter, r *http.Request) {
	var req Req
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update "+h.name)
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// Delete handles DELETE /rest/{resource}/{id}/
func (h *ResourceHandler[Req, Resp]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, err, "delete "+h.name)
		return
	}

	utils.ResponseNoContent(w)
}
