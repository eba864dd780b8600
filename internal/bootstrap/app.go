package bootstrap

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"jobfit-backend/internal/analyses"
	"jobfit-backend/internal/extract"
	"jobfit-backend/internal/matcher"
	"jobfit-backend/internal/shared/config"
	"jobfit-backend/internal/shared/server"
	"jobfit-backend/internal/shared/server/middleware"
	"jobfit-backend/internal/shared/storage/object"
	localstore "jobfit-backend/internal/shared/storage/object/local"
	s3store "jobfit-backend/internal/shared/storage/object/s3"
	"jobfit-backend/internal/uploads"
)

// App holds shared dependencies and the HTTP router.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	Matcher         *matcher.Matcher
	Source          object.Source
	AnalysisService *analyses.Service
	AnalysisHandler *analyses.Handler
	UploadsHandler  *uploads.Handler
}

// Build prepares dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()

	m, err := BuildMatcher(cfg.MatcherProfile, cfg.ScoreFloor)
	if err != nil {
		return nil, err
	}

	source, err := buildSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	uploadsHandler, err := buildUploads(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc := analyses.NewService(extract.New(), m, source, cfg.MaxUploadBytes)
	app := &App{
		Config:          cfg,
		Matcher:         m,
		Source:          source,
		AnalysisService: svc,
		AnalysisHandler: analyses.NewHandler(svc),
		UploadsHandler:  uploadsHandler,
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AnalysisHandler: app.AnalysisHandler,
		UploadsHandler:  app.UploadsHandler,
		RateLimiter:     middleware.NewRateLimiter(nil),
	})
	return app, nil
}

// BuildMatcher loads the matcher profile from path, or the defaults when path
// is empty, and applies scoreFloor when it is not negative.
func BuildMatcher(path string, scoreFloor int) (*matcher.Matcher, error) {
	profile := matcher.DefaultProfile()
	if strings.TrimSpace(path) != "" {
		loaded, err := matcher.LoadProfile(path)
		if err != nil {
			return nil, err
		}
		profile = loaded
	}
	if scoreFloor >= 0 {
		profile.ScoreFloor = scoreFloor
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return matcher.New(profile), nil
}

func buildSource(ctx context.Context, cfg config.Config) (object.Source, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return nil, fmt.Errorf("build s3 source: %w", err)
		}
		return store, nil
	case "local":
		return localstore.New(cfg.LocalStoreDir), nil
	default:
		log.Printf("bootstrap: OBJECT_STORE unset; resume_key lookups disabled")
		return nil, nil
	}
}

func buildUploads(ctx context.Context, cfg config.Config) (*uploads.Handler, error) {
	if cfg.ObjectStoreType != "s3" {
		return nil, nil
	}
	bucket := cfg.UploadsBucket
	if bucket == "" {
		bucket = cfg.S3Bucket
	}
	h, err := uploads.NewHandler(ctx, cfg.AWSRegion, bucket, cfg.UploadsPrefix, cfg.MaxUploadBytes)
	if err != nil {
		return nil, fmt.Errorf("build uploads presigner: %w", err)
	}
	return h, nil
}
