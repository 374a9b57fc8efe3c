package adaptor

import (
	"encoding/json"
	"mime"
	"net/http"

	"cinephile/internal/dto/request"
	"cinephile/internal/usecase"
	"cinephile/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// ObtainToken handles POST /api-token-auth/ with a JSON or form body.
func (h *AuthHandler) ObtainToken(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLogin(r)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	token, err := h.service.ObtainToken(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err, "obtain token")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	utils.ResponseSuccess(w, "success", token)
}

func decodeLogin(r *http.Request) (*request.LoginRequest, error) {
	var req request.LoginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	default:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, err
		}
	}

	return &req, nil
}
