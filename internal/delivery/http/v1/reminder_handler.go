package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-jobpilot-backend/internal/delivery/http/response"
	"go-jobpilot-backend/internal/domain"
	"go-jobpilot-backend/pkg/apperror"
)

type ReminderHandler struct {
	reminderUC domain.ReminderUsecase
}

// NewReminderHandler registers reminder routes
func NewReminderHandler(r *gin.RouterGroup, reminderUC domain.ReminderUsecase) {
	handler := &ReminderHandler{reminderUC: reminderUC}

	reminders := r.Group("/reminders")
	{
		reminders.POST("", handler.Create)
		reminders.GET("", handler.List)
		reminders.DELETE("/:id", handler.Delete)
	}
}

// CreateReminderRequest is the request payload for scheduling a reminder
type CreateReminderRequest struct {
	ApplicationID *int64    `json:"application_id"`
	ChannelID     int64     `json:"channel_id" binding:"required"`
	RemindAt      time.Time `json:"remind_at" binding:"required"`
	Message       string    `json:"message" binding:"required"`
}

// Create godoc
// @Summary      Schedule a follow-up reminder
// @Tags         reminders
// @Accept       json
// @Produce      json
// @Param        body  body      CreateReminderRequest  true  "Reminder data"
// @Success      201   {object}  response.Response{data=domain.Reminder}
// @Failure      400   {object}  response.Response
// @Router       /reminders [post]
// @Security     BearerAuth
func (h *ReminderHandler) Create(c *gin.Context) {
	var req CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	reminder, err := h.reminderUC.Create(c.Request.Context(), &domain.Reminder{
		UserID:        currentUserID(c),
		ApplicationID: req.ApplicationID,
		ChannelID:     req.ChannelID,
		RemindAt:      req.RemindAt,
		Message:       req.Message,
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Reminder scheduled", reminder)
}

// List godoc
// @Summary      List my pending reminders
// @Tags         reminders
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Reminder}
// @Router       /reminders [get]
// @Security     BearerAuth
func (h *ReminderHandler) List(c *gin.Context) {
	reminders, err := h.reminderUC.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Reminders retrieved", reminders)
}

// Delete godoc
// @Summary      Delete a reminder
// @Tags         reminders
// @Produce      json
// @Param        id   path      int  true  "Reminder ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /reminders/{id} [delete]
// @Security     BearerAuth
func (h *ReminderHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid reminder ID"))
		return
	}
	if err := h.reminderUC.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Reminder deleted", nil)
}
