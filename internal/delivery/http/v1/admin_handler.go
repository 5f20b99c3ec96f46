package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-jobpilot-backend/internal/delivery/http/response"
	"go-jobpilot-backend/internal/domain"
)

type AdminHandler struct {
	adminUC domain.AdminUsecase
}

// NewAdminHandler registers admin routes. The admin capability itself is
// enforced in the usecase layer from the token's admin claim.
func NewAdminHandler(r *gin.RouterGroup, adminUC domain.AdminUsecase) {
	handler := &AdminHandler{adminUC: adminUC}

	admin := r.Group("/admin")
	{
		admin.GET("/resumes", handler.ListResumes)
		admin.DELETE("/resumes", handler.ClearResumes)
		admin.DELETE("/applications", handler.ClearApplications)
	}
}

// ListResumes godoc
// @Summary      List every active resume (admin)
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.ResumeWithOwner}
// @Failure      403  {object}  response.Response
// @Router       /admin/resumes [get]
// @Security     BearerAuth
func (h *AdminHandler) ListResumes(c *gin.Context) {
	resumes, err := h.adminUC.ListAllResumes(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resumes retrieved", resumes)
}

// ClearResumes godoc
// @Summary      Delete every stored resume (admin)
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /admin/resumes [delete]
// @Security     BearerAuth
func (h *AdminHandler) ClearResumes(c *gin.Context) {
	count, err := h.adminUC.ClearResumes(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resumes cleared", gin.H{"deleted": count})
}

// ClearApplications godoc
// @Summary      Delete every application (admin)
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /admin/applications [delete]
// @Security     BearerAuth
func (h *AdminHandler) ClearApplications(c *gin.Context) {
	count, err := h.adminUC.ClearApplications(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications cleared", gin.H{"deleted": count})
}
