package handlers

import (
	"errors"
	"net/http"
	"time"

	"learnhub/internal/repository"
	"learnhub/internal/service"

	"github.com/gin-gonic/gin"
)

// User-facing message strings. The client matches on these; keep them stable.
const (
	msgUserRegistered = "User registered successfully"
	msgLoginOK        = "Login successfully"
	msgProfileUpdated = "Profile updated successfully"

	errMissingCredentials = "Username and password are required"
	errUsernameLength     = "Username must be between 3 and 30 characters"
	errPasswordTooShort   = "Password must be at least 6 characters"
	errUsernameExists     = "Username already exists"
	errUsernameTaken      = "Username is already taken"
	errInvalidCredentials = "Invalid credentials"
	errUserNotFound       = "User not found"
	errNoToken            = "No token provided"
	errInvalidToken       = "Invalid or expired token"
	errInternal           = "Internal server error"
)

// Single, shared credentials payload for both register and login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
	Password *string `json:"password"`
}

type sessionUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

type registeredUser struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type authPayload struct {
	User  any    `json:"user"`
	Token string `json:"token"`
}

type updatedProfile struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
}

// Centralized error logging and response.
func (h *Handler) logAndRespondError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err, "request_id", c.GetString(ctxRequestIDKey)}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	respondError(c, httpCode, userMsg)
}

// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Credentials"
// @Success      200   {object}  apiResponse  "user and token"
// @Failure      400   {object}  apiResponse
// @Failure      500   {object}  apiResponse
// @Router       /api/auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, errMissingCredentials)
		return
	}

	u, token, err := h.services.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameLength):
			respondError(c, http.StatusBadRequest, errUsernameLength)
		case errors.Is(err, service.ErrPasswordTooShort):
			respondError(c, http.StatusBadRequest, errPasswordTooShort)
		case errors.Is(err, repository.ErrDuplicateUsername):
			respondError(c, http.StatusBadRequest, errUsernameExists)
		default:
			h.logAndRespondError(c, http.StatusInternalServerError, errInternal, "auth_register_failed", err, "username", req.Username)
		}
		return
	}

	respondMessage(c, http.StatusOK, msgUserRegistered, authPayload{
		User:  registeredUser{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt},
		Token: token,
	})
}

// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Credentials"
// @Success      200   {object}  apiResponse  "user and token"
// @Failure      400   {object}  apiResponse
// @Failure      401   {object}  apiResponse
// @Failure      500   {object}  apiResponse
// @Router       /api/auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, errMissingCredentials)
		return
	}

	u, token, err := h.services.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, errInvalidCredentials)
			return
		}
		h.logAndRespondError(c, http.StatusInternalServerError, errInternal, "auth_login_failed", err, "username", req.Username)
		return
	}

	respondMessage(c, http.StatusOK, msgLoginOK, authPayload{
		User:  sessionUser{ID: u.ID, Username: u.Username},
		Token: token,
	})
}

// @Summary      Current user's profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  apiResponse
// @Failure      401  {object}  apiResponse
// @Failure      404  {object}  apiResponse
// @Router       /api/auth/me [get]
// @Security     BearerAuth
func (h *Handler) getMe(c *gin.Context) {
	u, err := h.services.GetProfile(c.Request.Context(), callerID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, errUserNotFound)
			return
		}
		h.logAndRespondError(c, http.StatusInternalServerError, errInternal, "auth_get_me_failed", err, "user_id", callerID(c))
		return
	}

	respondData(c, http.StatusOK, u)
}

// @Summary      Update profile
// @Description  All fields optional; a provided password is re-hashed.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  apiResponse
// @Failure      400   {object}  apiResponse
// @Failure      401   {object}  apiResponse
// @Failure      404   {object}  apiResponse
// @Router       /api/auth/update [put]
// @Security     BearerAuth
func (h *Handler) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, errInvalidBodyPref+err.Error())
		return
	}

	u, err := h.services.UpdateProfile(c.Request.Context(), callerID(c), service.ProfileUpdate{
		Username: req.Username,
		Bio:      req.Bio,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, errUserNotFound)
		case errors.Is(err, service.ErrUsernameLength):
			respondError(c, http.StatusBadRequest, errUsernameLength)
		case errors.Is(err, service.ErrPasswordTooShort):
			respondError(c, http.StatusBadRequest, errPasswordTooShort)
		case errors.Is(err, repository.ErrDuplicateUsername):
			respondError(c, http.StatusBadRequest, errUsernameTaken)
		default:
			h.logAndRespondError(c, http.StatusInternalServerError, errInternal, "auth_update_profile_failed", err, "user_id", callerID(c))
		}
		return
	}

	respondMessage(c, http.StatusOK, msgProfileUpdated, updatedProfile{
		ID:       u.ID,
		Username: u.Username,
		Bio:      u.Bio,
	})
}
