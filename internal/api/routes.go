package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"resumeforge/internal/account"
	"resumeforge/internal/api/middleware"
	"resumeforge/internal/auth"
	"resumeforge/internal/config"
	"resumeforge/internal/export"
	"resumeforge/internal/render"
	"resumeforge/internal/resumes"
)

// RegisterRoutes wires the full HTTP surface. redisClient may be nil, which
// disables the login throttle.
func RegisterRoutes(
	router *gin.Engine,
	accounts *account.Service,
	resumeService *resumes.Service,
	renderer *render.Renderer,
	exporter *export.Exporter,
	sessions *auth.SessionService,
	redisClient *redis.Client,
	cfg *config.Config,
) {
	throttle := newLoginThrottle(redisClient, cfg.Redis)

	authHandler := NewAuthHandler(accounts, sessions, throttle, cfg.Session.CookieDomain)
	resumeHandler := NewResumeHandler(resumeService, renderer, exporter)
	templateHandler := NewTemplateHandler(renderer)
	guard := middleware.SessionGuard(sessions)

	// Open routes.
	router.GET("/register", authHandler.RegisterPage)
	router.POST("/register", authHandler.Register)
	router.GET("/login", authHandler.LoginPage)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)
	router.GET("/resume/:id", resumeHandler.View)
	router.GET("/download_resume/:id", resumeHandler.Download)
	router.GET("/view/:template_name", templateHandler.Preview)

	// Routes behind the session guard.
	router.GET("/", guard, resumeHandler.Index)
	router.GET("/create_resume", guard, resumeHandler.CreatePage)
	router.POST("/create_resume", guard, resumeHandler.Create)
	router.GET("/view_resumes", guard, resumeHandler.List)
	router.POST("/delete_resume/:id", guard, resumeHandler.Delete)
}
