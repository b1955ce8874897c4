package handlers

import (
	"net/http"

	"zenmindful/internal/application/usecase"
	"zenmindful/internal/catalog"
	"zenmindful/internal/domain"
	"zenmindful/internal/middleware"

	"github.com/gin-gonic/gin"
)

type ChallengeHandler struct {
	challenges *usecase.ChallengeUseCase
	content    *usecase.ContentUseCase
	identity   *usecase.IdentityUseCase
}

func NewChallengeHandler(challenges *usecase.ChallengeUseCase, content *usecase.ContentUseCase, identity *usecase.IdentityUseCase) *ChallengeHandler {
	return &ChallengeHandler{challenges: challenges, content: content, identity: identity}
}

func (h *ChallengeHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.All())
}

func (h *ChallengeHandler) Available(c *gin.Context) {
	list, err := h.challenges.ListAvailable(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ChallengeHandler) Active(c *gin.Context) {
	list, err := h.challenges.ListActive(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ChallengeHandler) Completed(c *gin.Context) {
	list, err := h.challenges.ListCompleted(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type joinReq struct {
	ChallengeID string `json:"challengeId" binding:"required"`
}

func (h *ChallengeHandler) Join(c *gin.Context) {
	var req joinReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	e, err := h.challenges.Enroll(c.Request.Context(), middleware.UserID(c), req.ChallengeID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

type progressReq struct {
	ChallengeID string `json:"challengeId" binding:"required"`
	Completed   *bool  `json:"completed" binding:"required"`
	Date        string `json:"date"`
}

type progressResponse struct {
	domain.Progress
	Encouragement string `json:"encouragement,omitempty"`
}

// RecordProgress marks a day of a joined challenge.
func (h *ChallengeHandler) RecordProgress(c *gin.Context) {
	var req progressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	p, err := h.challenges.RecordCompletion(ctx, middleware.UserID(c), req.ChallengeID, *req.Completed, req.Date)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	resp := progressResponse{Progress: p}
	if *req.Completed {
		ch, _ := catalog.Get(req.ChallengeID)
		if msg, ok := h.content.Encouragement(ctx, ch, p); ok {
			resp.Encouragement = msg
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChallengeHandler) GetProgress(c *gin.Context) {
	p, err := h.challenges.GetProgress(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ChallengeHandler) Insights(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	user, err := h.identity.CurrentUser(ctx, userID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	active, err := h.challenges.ListActive(ctx, userID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	completed, err := h.challenges.ListCompleted(ctx, userID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"insights": h.content.Insights(ctx, user, active, completed)})
}

func (h *ChallengeHandler) DailyTip(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := h.identity.CurrentUser(ctx, middleware.UserID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tip": h.content.DailyTip(ctx, user)})
}
