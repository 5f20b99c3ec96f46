package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-jobpilot-backend/internal/delivery/http/response"
	"go-jobpilot-backend/internal/domain"
	"go-jobpilot-backend/pkg/apperror"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

// NewApplicationHandler registers application lifecycle routes
func NewApplicationHandler(r *gin.RouterGroup, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	applications := r.Group("/applications")
	{
		applications.GET("", handler.List)
		applications.GET("/stats", handler.Stats)
		applications.GET("/:id", handler.Get)
		applications.GET("/:id/history", handler.History)
		applications.PATCH("/:id/status", handler.UpdateStatus)
		applications.PUT("/:id/notes", handler.SetNotes)
		applications.PUT("/:id/thread", handler.SetThread)
	}
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(string(domain.KeyUserID))
}

func applicationID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// List godoc
// @Summary      List my applications
// @Tags         applications
// @Produce      json
// @Param        status  query     string  false  "Filter by lifecycle status"
// @Param        limit   query     int     false  "Max results (default 10, max 100)"
// @Success      200     {object}  response.Response{data=[]domain.Application}
// @Router       /applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) List(c *gin.Context) {
	filter := domain.ApplicationFilter{}
	if s := c.Query("status"); s != "" {
		status := domain.Status(s)
		filter.Status = &status
	}
	if l := c.Query("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil {
			c.Error(apperror.BadRequest("Invalid limit"))
			return
		}
		filter.Limit = limit
	}

	apps, err := h.applicationUC.List(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}

// Get godoc
// @Summary      Get one application
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.Application}
// @Failure      404  {object}  response.Response
// @Router       /applications/{id} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, err := applicationID(c)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}
	app, err := h.applicationUC.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application retrieved", app)
}

// History godoc
// @Summary      Get the status history of an application
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Application ID"
// @Success      200  {object}  response.Response{data=[]domain.StatusHistoryEntry}
// @Failure      404  {object}  response.Response
// @Router       /applications/{id}/history [get]
// @Security     BearerAuth
func (h *ApplicationHandler) History(c *gin.Context) {
	id, err := applicationID(c)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}
	entries, err := h.applicationUC.History(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "History retrieved", entries)
}

// UpdateStatusRequest is the request payload for a lifecycle transition
type UpdateStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Note   *string `json:"note"`
}

// UpdateStatus godoc
// @Summary      Apply a lifecycle transition
// @Description  Moves the application to a new status; illegal transitions are rejected with 409 and leave history untouched
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Application ID"
// @Param        body  body      UpdateStatusRequest  true  "Target status"
// @Success      200   {object}  response.Response{data=domain.Application}
// @Failure      404   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /applications/{id}/status [patch]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, err := applicationID(c)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	app, err := h.applicationUC.UpdateStatus(c.Request.Context(), currentUserID(c), id, domain.Status(req.Status), req.Note)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Status updated", app)
}

// SetNotesRequest is the request payload for replacing application notes
type SetNotesRequest struct {
	Notes string `json:"notes"`
}

// SetNotes godoc
// @Summary      Set the notes of an application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      int              true  "Application ID"
// @Param        body  body      SetNotesRequest  true  "Notes"
// @Success      200   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /applications/{id}/notes [put]
// @Security     BearerAuth
func (h *ApplicationHandler) SetNotes(c *gin.Context) {
	id, err := applicationID(c)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}
	var req SetNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	if err := h.applicationUC.SetNotes(c.Request.Context(), currentUserID(c), id, req.Notes); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Notes updated", nil)
}

// SetThreadRequest is the request payload for recording the dispatcher's
// conversation thread on an application
type SetThreadRequest struct {
	ThreadID int64 `json:"thread_id" binding:"required"`
}

// SetThread godoc
// @Summary      Record the dispatcher thread of an application
// @Description  Stores the conversation reference the dispatcher opened for this application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      int               true  "Application ID"
// @Param        body  body      SetThreadRequest  true  "Thread reference"
// @Success      200   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /applications/{id}/thread [put]
// @Security     BearerAuth
func (h *ApplicationHandler) SetThread(c *gin.Context) {
	id, err := applicationID(c)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}
	var req SetThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	if err := h.applicationUC.SetThread(c.Request.Context(), currentUserID(c), id, req.ThreadID); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Thread recorded", nil)
}

// Stats godoc
// @Summary      Get my application statistics
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.UserStats}
// @Router       /applications/stats [get]
// @Security     BearerAuth
func (h *ApplicationHandler) Stats(c *gin.Context) {
	stats, err := h.applicationUC.Stats(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Stats retrieved", stats)
}
