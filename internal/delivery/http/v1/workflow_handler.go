package v1

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-jobpilot-backend/internal/domain"
	"go-jobpilot-backend/pkg/apperror"
	"go-jobpilot-backend/pkg/logger"
)

type WorkflowHandler struct {
	pipelineUC domain.PipelineUsecase
}

// NewWorkflowHandler registers the apply-to-job workflow route
func NewWorkflowHandler(r *gin.RouterGroup, pipelineUC domain.PipelineUsecase) {
	handler := &WorkflowHandler{pipelineUC: pipelineUC}
	r.POST("/applications/apply", handler.ApplyJob)
}

// ApplyJobRequest is the request payload of the apply-to-job workflow
type ApplyJobRequest struct {
	JobText  string `json:"job_text" binding:"required"`
	JobTitle string `json:"job_title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	JobURL   string `json:"job_url"`
	ThreadID *int64 `json:"thread_id"`
}

// ApplyJob godoc
// @Summary      Run the apply-to-job analysis workflow
// @Description  Creates an application and streams the four analysis stage results as NDJSON, ending with a summary event
// @Tags         workflow
// @Accept       json
// @Produce      application/x-ndjson
// @Param        body  body      ApplyJobRequest  true  "Job offer data"
// @Success      200   {object}  domain.StageEvent
// @Failure      400   {object}  response.Response
// @Router       /applications/apply [post]
// @Security     BearerAuth
func (h *WorkflowHandler) ApplyJob(c *gin.Context) {
	userID := c.GetInt64(string(domain.KeyUserID))
	username := c.GetString(string(domain.KeyUserName))

	var req ApplyJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	events, err := h.pipelineUC.Run(c.Request.Context(), userID, username, domain.ApplyJobInput{
		JobText:  req.JobText,
		JobTitle: req.JobTitle,
		Company:  req.Company,
		Location: req.Location,
		JobURL:   req.JobURL,
		ThreadID: req.ThreadID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	encoder := json.NewEncoder(c.Writer)
	clientGone := false
	for event := range events {
		if clientGone {
			// Keep draining so the pipeline goroutine can finish; results
			// are already persisted.
			continue
		}
		if err := encoder.Encode(event); err != nil {
			logger.Log.Warn("client disconnected during workflow stream",
				"user_id", userID, "application_id", event.ApplicationID)
			clientGone = true
			continue
		}
		c.Writer.Flush()
	}
}
