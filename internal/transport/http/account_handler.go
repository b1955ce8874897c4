package handlers

import (
	"net/http"

	"zenmindful/internal/application/usecase"
	"zenmindful/internal/middleware"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	accounts *usecase.AccountUseCase
}

func NewAccountHandler(accounts *usecase.AccountUseCase) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

func (h *AccountHandler) Export(c *gin.Context) {
	out, err := h.accounts.Export(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="zenmindful-export.json"`)
	c.JSON(http.StatusOK, out)
}

func (h *AccountHandler) Integrity(c *gin.Context) {
	report, err := h.accounts.Integrity(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
