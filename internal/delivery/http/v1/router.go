package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"go-jobpilot-backend/config"
	"go-jobpilot-backend/internal/delivery/http/middleware"
	"go-jobpilot-backend/internal/delivery/http/response"
	"go-jobpilot-backend/internal/domain"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	ResumeUC      domain.ResumeUsecase
	ApplicationUC domain.ApplicationUsecase
	PipelineUC    domain.PipelineUsecase
	ReminderUC    domain.ReminderUsecase
	AdminUC       domain.AdminUsecase
	Analyzer      domain.AnalyzerClient
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global middlewares
	r.Use(middleware.CORSMiddleware())
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Health check, including the analyzer sidecar
	v1.GET("/health", func(c *gin.Context) {
		analyzerStatus := "ok"
		if err := deps.Analyzer.Health(c.Request.Context()); err != nil {
			analyzerStatus = "unreachable"
		}
		response.Success(c, http.StatusOK, "System operational", gin.H{
			"analyzer": analyzerStatus,
		})
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Config, deps.AuthUC))
	{
		NewAuthHandler(protected, deps.AuthUC)
		NewResumeHandler(protected, deps.ResumeUC)
		NewWorkflowHandler(protected, deps.PipelineUC)
		NewApplicationHandler(protected, deps.ApplicationUC)
		NewReminderHandler(protected, deps.ReminderUC)
		NewAdminHandler(protected, deps.AdminUC)
	}

	return r
}
