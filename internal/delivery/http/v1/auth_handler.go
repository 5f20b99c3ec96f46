package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-jobpilot-backend/internal/delivery/http/response"
	"go-jobpilot-backend/internal/domain"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

// NewAuthHandler registers the current-user route
func NewAuthHandler(r *gin.RouterGroup, authUC domain.AuthUsecase) {
	handler := &AuthHandler{authUC: authUC}
	r.GET("/me", handler.Me)
}

// Me godoc
// @Summary      Get the authenticated user's profile
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Router       /me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User retrieved", user)
}
