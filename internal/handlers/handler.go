package handlers

import (
	"net/http"
	"time"

	"learnhub/internal/logger"
	"learnhub/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// CORSConfig restricts cross-origin access to an explicit allow-list of
// origins, with credentials enabled.
type CORSConfig struct {
	AllowedOrigins []string
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes(corsCfg CORSConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestID)

	if len(corsCfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     corsCfg.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	api := router.Group("/api")
	h.registerAuthRoutes(api)
	h.registerCourseRoutes(api)

	return router
}

func (h *Handler) registerAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.GET("/me", h.authenticate, h.getMe)
		auth.PUT("/update", h.authenticate, h.updateProfile)
	}
}

func (h *Handler) registerCourseRoutes(api *gin.RouterGroup) {
	courses := api.Group("/courses")
	{
		courses.GET("", h.listPublishedCourses)
		courses.POST("", h.authenticate, h.createCourse)
		// The static my-courses segment must be registered before the
		// dynamic :courseId routes so it is never read as an identifier.
		courses.GET("/my-courses", h.authenticate, h.listOwnCourses)
		courses.GET("/:courseId", h.getCourseByID)
		courses.POST("/:courseId/publish", h.authenticate, h.publishCourse)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
