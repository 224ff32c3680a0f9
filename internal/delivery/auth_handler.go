package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/middleware"
	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/usecase"
)

type AuthHandler struct {
	useCase usecase.UserUseCase
	log     *logrus.Logger
}

func NewAuthHandler(uc usecase.UserUseCase, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *AuthHandler) RegisterRoutes(router gin.IRouter, identify, admin gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.PUT("/profile", identify, h.UpdateProfile)
		auth.GET("/users", identify, admin, h.ListUsers)
		auth.GET("/user-check", identify, h.UserCheck)
		auth.GET("/admin-check", identify, admin, h.AdminCheck)
	}
}

type registerRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	SecurityAnswer string `json:"security_answer"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for register: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	profile, err := h.useCase.Register(usecase.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Phone:          req.Phone,
		Address:        req.Address,
		SecurityAnswer: req.SecurityAnswer,
	})
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Registration failed for %s: %v", req.Email, err)
		ErrorResponse(c, statusCode, "Registration failed: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "User registered successfully", profile)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for login: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.useCase.Login(req.Email, req.Password)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Login failed for %s: %v", req.Email, err)
		ErrorResponse(c, statusCode, "Login failed: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Login successful", result)
}

type forgotPasswordRequest struct {
	Email          string `json:"email"`
	SecurityAnswer string `json:"security_answer"`
	NewPassword    string `json:"new_password"`
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for forgot-password: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.useCase.ForgotPassword(req.Email, req.SecurityAnswer, req.NewPassword); err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Password reset failed for %s: %v", req.Email, err)
		ErrorResponse(c, statusCode, "Password reset failed: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Password reset successfully", nil)
}

type profileUpdateRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetInt(middleware.UserIDKey)

	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for profile update (user ID %d): %v", userID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	profile, err := h.useCase.UpdateProfile(userID, usecase.ProfileUpdateInput{
		Name:     req.Name,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Profile update failed for user ID %d: %v", userID, err)
		ErrorResponse(c, statusCode, "Profile update failed: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Profile updated successfully", profile)
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.useCase.ListUsers()
	if err != nil {
		h.log.Errorf("Failed to list users: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}

	SuccessResponse(c, http.StatusOK, "Users retrieved successfully", users)
}

// UserCheck confirms a valid credential and returns the caller's
// profile; the credential check itself happened in the Identify
// middleware.
func (h *AuthHandler) UserCheck(c *gin.Context) {
	userID := c.GetInt(middleware.UserIDKey)

	profile, err := h.useCase.GetProfile(userID)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Profile lookup failed for user ID %d: %v", userID, err)
		ErrorResponse(c, statusCode, "Failed to retrieve profile: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "User authenticated", profile)
}

// AdminCheck confirms the caller holds the admin role.
func (h *AuthHandler) AdminCheck(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Admin authenticated", gin.H{"ok": true})
}
