package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/rottenbot/inference-service/config"
	"github.com/rottenbot/inference-service/controllers"
	"github.com/rottenbot/inference-service/inference"
	"github.com/rottenbot/inference-service/middleware"
	"github.com/rottenbot/inference-service/utils"
)

// SetupRouter wires routes, middlewares, and the inference controller.
func SetupRouter(predictor inference.Predictor, rec controllers.Recorder) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(utils.RequestLogger())
	r.Use(utils.RecoveryWithZap())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	inferenceController := controllers.NewInferenceController(predictor, rec)

	api := r.Group("/api/v1")

	inferenceGroup := api.Group("/inference")
	inferenceGroup.Use(middleware.AuthRequired(utils.IsTokenRevoked), middleware.RateLimitMiddleware())
	inferenceGroup.POST("/predict", inferenceController.Predict)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Detail(ctx, http.StatusNotFound, "Route not found")
	})

	return r
}
