package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pasarde/recipe-app/internal/api/handlers/health"
	interactionHandler "github.com/pasarde/recipe-app/internal/api/handlers/interaction"
	recipeHandler "github.com/pasarde/recipe-app/internal/api/handlers/recipe"
	userHandler "github.com/pasarde/recipe-app/internal/api/handlers/user"
	"github.com/pasarde/recipe-app/internal/api/middleware"
	"github.com/pasarde/recipe-app/internal/core/history"
	"github.com/pasarde/recipe-app/internal/core/interaction"
	"github.com/pasarde/recipe-app/internal/core/recipe"
	"github.com/pasarde/recipe-app/internal/core/user"
	"github.com/pasarde/recipe-app/internal/infrastructure/config"
	"github.com/pasarde/recipe-app/internal/pkg/common"
)

// Services are the wired application services the router exposes.
type Services struct {
	Recipes      *recipe.Service
	Weather      recipeHandler.WeatherProvider
	History      *history.Tracker
	Interactions *interaction.Service
	Users        *user.Service
	// Checks are pinged by /ready.
	Checks map[string]health.Pinger
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc *Services) *gin.Engine {
	common.LogInfo("setting up router",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID", middleware.UserHeader},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(requestTimeout(cfg.Server.RequestTimeout))

	healthHandler := health.NewHandler(cfg.App.Version, svc.Checks)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	router.Static(cfg.Upload.PublicPrefix, cfg.Upload.Dir)

	recipes := recipeHandler.NewHandler(svc.Recipes, svc.Weather, svc.History, svc.Interactions, cfg.Recipes.DefaultCity)
	interactions := interactionHandler.NewHandler(svc.Interactions)
	users := userHandler.NewHandler(svc.Users)

	v1 := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		v1.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	v1.Use(middleware.CurrentUser(svc.Users))
	{
		v1.GET("/home", recipes.Home)
		v1.GET("/suggest", recipes.Suggest)
		v1.POST("/weather-by-coords", recipes.WeatherByCoords)
		v1.POST("/recommend-by-location", recipes.RecommendByLocation)
		v1.GET("/recipes/:source/:id", recipes.Detail)

		v1.POST("/register", users.Register)
		v1.POST("/login", users.Login)

		authed := v1.Group("", middleware.RequireUser())
		authed.POST("/recipes", recipes.Submit)
		authed.POST("/interact", interactions.Interact)
		authed.POST("/comments", interactions.AddComment)
		authed.GET("/profile", interactions.Profile)
	}

	common.LogInfo("router setup completed",
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}

// requestTimeout bounds every request context and answers 504 when the
// handler ran out of time without writing a response.
func requestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			common.LogError("request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeout),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, common.ErrorResponse{
				Code:    "REQUEST_TIMEOUT",
				Message: "Request timeout",
				Details: timeout.String(),
			})
		}
	}
}
