package main

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/rottenbot/inference-service/config"
	"github.com/rottenbot/inference-service/inference"
	"github.com/rottenbot/inference-service/models"
	"github.com/rottenbot/inference-service/recorder"
	"github.com/rottenbot/inference-service/routes"
	"github.com/rottenbot/inference-service/storage"
	"github.com/rottenbot/inference-service/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.Prediction{})

	engine := loadModel(cfg)
	defer engine.Close()

	endpoint, useSSL := objectStoreEndpoint(cfg)
	objects, err := storage.NewMinioStore(endpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, useSSL)
	if err != nil {
		utils.Sugar.Fatalf("object store init failed: %v", err)
	}

	rec := recorder.New(objects, storage.NewGormPredictionStore(db), cfg.RecorderQueueSize, cfg.RecorderWorkers)

	scheduler := gocron.NewScheduler(time.UTC)
	if _, err := scheduler.Every(1).Minute().Do(rec.LogStats); err != nil {
		utils.Sugar.Warnf("failed to schedule recorder stats job: %v", err)
	}
	scheduler.StartAsync()

	r := routes.SetupRouter(engine, rec)

	utils.Sugar.Infof("model ready with %d classes, starting server on port %s (graceful)", engine.Classes().Len(), cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil && !errors.Is(err, http.ErrServerClosed) {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}

	scheduler.Stop()
	rec.Close(30 * time.Second)
}

// loadModel picks the model source once at boot: local artifacts or a fetch
// from the MLflow tracking server. Either way a failure aborts startup.
func loadModel(cfg config.AppConfig) *inference.Engine {
	var engine *inference.Engine
	var err error

	if cfg.ModelUseLocal {
		utils.Sugar.Infof("loading model from local dir %s", cfg.ModelDir)
		engine, err = inference.LoadLocal(cfg.ModelDir, cfg.ModelInputSize)
	} else {
		utils.Sugar.Infof("loading model from registry %s (run %s)", cfg.MLflowTrackingURI, cfg.MLflowRunID)
		engine, err = inference.LoadFromRegistry(inference.RegistryConfig{
			TrackingURI: cfg.MLflowTrackingURI,
			ModelURI:    cfg.ModelURI,
			RunID:       cfg.MLflowRunID,
		}, cfg.ModelDir, cfg.ModelInputSize)
	}
	if err != nil {
		utils.Sugar.Fatalf("model load failed: %v", err)
	}
	return engine
}

// objectStoreEndpoint resolves the object-store endpoint, honoring the
// optional proxy URL in front of it.
func objectStoreEndpoint(cfg config.AppConfig) (string, bool) {
	if cfg.S3ProxyURL == "" {
		return cfg.MinioEndpoint, cfg.MinioUseSSL
	}
	u, err := url.Parse(cfg.S3ProxyURL)
	if err != nil || u.Host == "" {
		utils.Sugar.Warnf("invalid S3 proxy URL %q, falling back to %s", cfg.S3ProxyURL, cfg.MinioEndpoint)
		return cfg.MinioEndpoint, cfg.MinioUseSSL
	}
	return u.Host, u.Scheme == "https"
}
