package handlers

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/devjobs/internal/auth"
	"github.com/justsurfingit/devjobs/internal/middleware"
)

type RouterConfig struct {
	Vacancies  *VacancyHandler
	Candidates *CandidateHandler
	Verifier   *auth.JWTVerifier
	Logger     *slog.Logger

	// Limiter guards the public submission route. Nil disables it.
	Limiter      middleware.Limiter
	SubmitLimit  int
	SubmitWindow time.Duration

	CORSOrigins    []string
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(ErrorHandler(cfg.Logger))
	r.NoRoute(NotFound)

	requireUser := auth.RequireUser(cfg.Verifier)

	r.GET("/health", HealthCheck)
	r.GET("/", cfg.Vacancies.List)
	r.POST("/buscador", cfg.Vacancies.Search)
	r.GET("/administracion", requireUser, cfg.Vacancies.Panel)

	vacantes := r.Group("/vacantes")
	{
		vacantes.POST("/nueva", requireUser, cfg.Vacancies.Create)
		vacantes.GET("/:url", cfg.Vacancies.Show)
		vacantes.POST("/:url",
			middleware.RateLimit(cfg.Limiter, cfg.SubmitLimit, cfg.SubmitWindow),
			cfg.Candidates.LimitBody(),
			cfg.Candidates.Submit,
		)
		vacantes.GET("/editar/:url", requireUser, cfg.Vacancies.EditForm)
		vacantes.POST("/editar/:url", requireUser, cfg.Vacancies.Edit)
		vacantes.DELETE("/eliminar/:id", requireUser, cfg.Vacancies.Delete)
	}

	r.GET("/candidatos/:id", requireUser, cfg.Candidates.List)
	return r
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.ExposeHeaders = []string{"Location", middleware.RequestIDHeader}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		config.AllowAllOrigins = true
		return config
	}
	config.AllowOrigins = origins
	return config
}
