package handlers

import (
	"fmt"
	"net/http"

	"zenmindful/internal/application/usecase"
	"zenmindful/internal/domain"
	"zenmindful/internal/middleware"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	identity *usecase.IdentityUseCase
	cookie   middleware.SessionCookie
}

func NewAuthHandler(identity *usecase.IdentityUseCase, cookie middleware.SessionCookie) *AuthHandler {
	return &AuthHandler{identity: identity, cookie: cookie}
}

type userResponse struct {
	*domain.User
	OnboardingComplete bool `json:"onboardingComplete"`
}

func newUserResponse(u *domain.User) userResponse {
	return userResponse{User: u, OnboardingComplete: u.OnboardingComplete()}
}

func badRequest(c *gin.Context, err error) {
	middleware.AbortWithError(c, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
}

func (h *AuthHandler) writeSession(c *gin.Context, s *usecase.Session, extra gin.H) {
	h.cookie.Write(c, s.Token)

	body := gin.H{
		"success":     true,
		"userId":      s.User.ID,
		"user":        newUserResponse(s.User),
		"isReturning": s.IsReturning,
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

type verifySessionReq struct {
	UserID string `json:"userId" binding:"required"`
}

// VerifySession restores the account the client remembers on this device.
func (h *AuthHandler) VerifySession(c *gin.Context) {
	var req verifySessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	s, err := h.identity.Reconcile(c.Request.Context(), h.cookie.Token(c), req.UserID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	h.writeSession(c, s, nil)
}

type establishSessionReq struct {
	DeviceID string `json:"deviceId" binding:"required"`
}

func (h *AuthHandler) EstablishSession(c *gin.Context) {
	var req establishSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	s, err := h.identity.Reconcile(c.Request.Context(), h.cookie.Token(c), req.DeviceID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	msg := "Welcome! Your personalized wellness journey begins."
	if s.IsReturning {
		msg = fmt.Sprintf("Welcome back %s! Your data is ready.", s.User.FirstName)
	}
	h.writeSession(c, s, gin.H{"message": msg})
}

type quickStartReq struct {
	DeviceID string `json:"deviceId"`
}

func (h *AuthHandler) QuickStart(c *gin.Context) {
	var req quickStartReq
	// body is optional
	_ = c.ShouldBindJSON(&req)

	s, err := h.identity.QuickStart(c.Request.Context(), h.cookie.Token(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	h.writeSession(c, s, gin.H{"deviceId": req.DeviceID})
}

type syncReq struct {
	IDToken         string `json:"idToken" binding:"required"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// Sync logs in with an ID token from the federated provider.
func (h *AuthHandler) Sync(c *gin.Context) {
	var req syncReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	s, err := h.identity.SyncFederated(c.Request.Context(), h.cookie.Token(c), req.IDToken, domain.Identity{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	h.writeSession(c, s, gin.H{"needsOnboarding": !s.User.OnboardingComplete()})
}

type sendOTPReq struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req sendOTPReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.identity.SendOTP(c.Request.Context(), req.PhoneNumber); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent successfully"})
}

type verifyOTPReq struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	s, err := h.identity.VerifyOTP(c.Request.Context(), h.cookie.Token(c), req.PhoneNumber, req.OTP)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	h.writeSession(c, s, nil)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.identity.Logout(c.Request.Context(), h.cookie.Token(c)); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	h.cookie.Write(c, "")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ResetUser deletes the resolved user and everything recorded for them.
func (h *AuthHandler) ResetUser(c *gin.Context) {
	err := h.identity.Reset(c.Request.Context(), middleware.UserID(c), c.GetString(middleware.ContextSessionToken))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	h.cookie.Write(c, "")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) GetUser(c *gin.Context) {
	u, err := h.identity.CurrentUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(u))
}

type onboardingReq struct {
	Name              string   `json:"name"`
	Age               string   `json:"age"`
	WellnessGoals     []string `json:"wellnessGoals"`
	PreferredTime     string   `json:"preferredTime"`
	Motivation        string   `json:"motivation"`
	PreferredLanguage string   `json:"preferredLanguage"`
}

func (h *AuthHandler) CompleteOnboarding(c *gin.Context) {
	var req onboardingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	u, err := h.identity.CompleteOnboarding(c.Request.Context(), middleware.UserID(c), domain.ProfileUpdate{
		Name:              req.Name,
		Age:               req.Age,
		WellnessGoals:     req.WellnessGoals,
		PreferredTime:     req.PreferredTime,
		Motivation:        req.Motivation,
		PreferredLanguage: req.PreferredLanguage,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": newUserResponse(u)})
}
