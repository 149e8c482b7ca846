package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/inout-manager/realtime-go/internal/handler/http/response"
	"github.com/inout-manager/realtime-go/internal/pkg/jwt"
)

// AuthHandler issues access tokens. The gateway carries a single
// configured admin credential; the full user store lives in the main
// HR application.
type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	ChannelToken(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	jwtService        jwt.Service
	adminEmail        string
	adminPasswordHash string
}

func NewAuthHandler(jwtService jwt.Service, adminEmail, adminPasswordHash string) AuthHandler {
	return &authHandlerImpl{
		jwtService:        jwtService,
		adminEmail:        adminEmail,
		adminPasswordHash: adminPasswordHash,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

// Login handles POST /auth/login
func (h *authHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if req.Email != h.adminEmail {
		response.Unauthorized(w, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.adminPasswordHash), []byte(req.Password)); err != nil {
		response.Unauthorized(w, "Invalid credentials")
		return
	}

	token, expiresAt, err := h.jwtService.GenerateAccessToken(req.Email, req.Email, "admin")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, loginResponse{AccessToken: token, ExpiresAt: expiresAt})
}

type channelTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// ChannelToken handles GET /realtime/token: a short-lived token for
// the websocket handshake
func (h *authHandlerImpl) ChannelToken(w http.ResponseWriter, r *http.Request) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}
	userID, _ := claims["user_id"].(string)

	token, expiresIn, err := h.jwtService.GenerateChannelToken(userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, channelTokenResponse{Token: token, ExpiresIn: expiresIn})
}
