package http

import (
	"errors"
	"net/http"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service *services.AuthService
	tokens  *services.TokenService
}

func NewAuthHandler(service *services.AuthService, tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{
		service: service,
		tokens:  tokens,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
	Token   string `json:"token,omitempty"`
}

func (h *AuthHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
}

// Register godoc
// @Summary      Register a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "credentials"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.service.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCredentialsRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password required"})
		case errors.Is(err, domain.ErrUsernameTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
		default:
			internalError(c, err)
		}
		return
	}

	h.respond(c, http.StatusCreated, "User registered", user.ID)
}

// Login godoc
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.service.Login(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCredentialsRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password required"})
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		default:
			internalError(c, err)
		}
		return
	}

	h.respond(c, http.StatusOK, "Logged in", user.ID)
}

func (h *AuthHandler) respond(c *gin.Context, status int, message string, userID int64) {
	token, err := h.tokens.GenerateToken(userID)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(status, authResponse{
		Message: message,
		UserID:  userID,
		Token:   token,
	})
}
