package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-jobpilot-backend/internal/delivery/http/response"
	"go-jobpilot-backend/internal/domain"
	"go-jobpilot-backend/pkg/apperror"
)

type ResumeHandler struct {
	resumeUC domain.ResumeUsecase
}

// NewResumeHandler registers resume routes
func NewResumeHandler(r *gin.RouterGroup, resumeUC domain.ResumeUsecase) {
	handler := &ResumeHandler{resumeUC: resumeUC}

	resumes := r.Group("/resumes")
	{
		resumes.POST("", handler.Upload)
		resumes.GET("", handler.List)
		resumes.GET("/active", handler.GetActive)
		resumes.PUT("/active/text", handler.SetExtractedText)
		resumes.DELETE("/active", handler.DeleteActive)
	}
}

// Upload godoc
// @Summary      Upload a base resume
// @Description  Stores the file and makes it the active resume; the previous active resume is deactivated
// @Tags         resumes
// @Accept       multipart/form-data
// @Produce      json
// @Param        file            formData  file    true   "Resume file (PDF, TXT, DOC, DOCX, max 10 MB)"
// @Param        extracted_text  formData  string  false  "Plain-text content extracted by the dispatcher"
// @Success      201  {object}  response.Response{data=domain.Resume}
// @Failure      400  {object}  response.Response
// @Router       /resumes [post]
// @Security     BearerAuth
func (h *ResumeHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.BadRequest("A file field is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	resume, err := h.resumeUC.Upload(c.Request.Context(), currentUserID(c), domain.ResumeUpload{
		OriginalName:  fileHeader.Filename,
		MimeType:      fileHeader.Header.Get("Content-Type"),
		Content:       content,
		ExtractedText: c.PostForm("extracted_text"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Resume uploaded", resume)
}

// List godoc
// @Summary      List my resumes
// @Tags         resumes
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Resume}
// @Router       /resumes [get]
// @Security     BearerAuth
func (h *ResumeHandler) List(c *gin.Context) {
	resumes, err := h.resumeUC.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resumes retrieved", resumes)
}

// GetActive godoc
// @Summary      Get my active resume
// @Tags         resumes
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Resume}
// @Failure      404  {object}  response.Response
// @Router       /resumes/active [get]
// @Security     BearerAuth
func (h *ResumeHandler) GetActive(c *gin.Context) {
	resume, err := h.resumeUC.GetActive(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Active resume retrieved", resume)
}

// SetExtractedTextRequest is the request payload for attaching extracted
// text to the active resume
type SetExtractedTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// SetExtractedText godoc
// @Summary      Attach extracted text to my active resume
// @Description  Stores the plain-text content the dispatcher extracted from the uploaded file
// @Tags         resumes
// @Accept       json
// @Produce      json
// @Param        body  body      SetExtractedTextRequest  true  "Extracted text"
// @Success      200   {object}  response.Response{data=domain.Resume}
// @Failure      404   {object}  response.Response
// @Router       /resumes/active/text [put]
// @Security     BearerAuth
func (h *ResumeHandler) SetExtractedText(c *gin.Context) {
	var req SetExtractedTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	resume, err := h.resumeUC.SetExtractedText(c.Request.Context(), currentUserID(c), req.Text)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Extracted text stored", resume)
}

// DeleteActive godoc
// @Summary      Delete my active resume
// @Tags         resumes
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /resumes/active [delete]
// @Security     BearerAuth
func (h *ResumeHandler) DeleteActive(c *gin.Context) {
	if err := h.resumeUC.DeleteActive(c.Request.Context(), currentUserID(c)); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Active resume deleted", nil)
}
