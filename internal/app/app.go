// Package app wires configuration into the services shared by the studio server
// and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/praveensuthar2105/Ai-Resume-Builder/config"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/api/handlers"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/api/middleware"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/api/routes"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/cache"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/providers/document"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/providers/pdf"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/providers/resumeapi"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/repositories/state"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/services"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/storage"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/telemetry"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/workers"
)

type App struct {
	Config *config.Config
	Log    *logrus.Logger

	Client   *resumeapi.Client
	Sessions state.SessionRepository
	Sink     storage.Uploader

	Auth    services.AuthService
	Resumes services.ResumeService
	ATS     services.ATSService
	Exports services.ExportService
	Admin   services.AdminService

	closers []func(context.Context) error
}

// New builds every dependency from cfg. Call Close when done.
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}
	if err := a.init(ctx); err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config

	shutdown, err := telemetry.InitTracing(ctx, telemetry.TracingConfig{
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		Environment: cfg.Telemetry.Environment,
		SampleRatio: cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	a.closers = append(a.closers, shutdown)

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	a.Sessions = state.NewSessionRepo(store)

	a.Client, err = resumeapi.New(resumeapi.Config{BaseURL: cfg.Backend.URL, Timeout: cfg.Backend.Timeout},
		resumeapi.TokenFunc(a.Sessions.Token), a.Log)
	if err != nil {
		return err
	}

	if a.Sink, err = a.openSink(ctx); err != nil {
		return err
	}

	if cfg.Unidoc.LicenseKey != "" {
		if err := document.SetLicenseKey(cfg.Unidoc.LicenseKey); err != nil {
			a.Log.WithError(err).Warn("unidoc license rejected, page counts may be unavailable")
		}
	}

	renderer := pdf.NewRenderer(a.Log)
	renderer.Install = cfg.Export.InstallBrowser
	a.closers = append(a.closers, func(context.Context) error { return renderer.Close() })

	a.Auth = services.NewAuthService(a.Client, a.Sessions, a.Log)
	a.Resumes = services.NewResumeService(a.Client, a.Sessions,
		workers.NewDebouncer("autosave", cfg.Timing.Autosave, a.Log), cfg.Templates.Generation, a.Log)
	a.closers = append(a.closers, func(context.Context) error { a.Resumes.Close(); return nil })
	a.ATS = services.NewATSService(a.Client, document.NewInspector(a.Log), a.Log)
	a.Exports = services.NewExportService(a.Client, a.Sessions, renderer, a.Sink,
		workers.NewDebouncer("autocompile", cfg.Timing.AutoCompile, a.Log), cfg.Templates.Latex, a.Log)
	a.Admin = services.NewAdminService(a.Client, a.Sessions, a.Log)
	return nil
}

func (a *App) openStore(ctx context.Context) (cache.Cache, error) {
	switch a.Config.State.Driver {
	case "redis":
		rdb, err := config.NewRedis(ctx, a.Config.State.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		a.Log.Info("session store: redis")
		return cache.NewRedisCache(rdb, a.Config.State.RedisPrefix), nil
	default:
		fc, err := cache.NewFileCache(a.Config.State.Dir)
		if err != nil {
			return nil, fmt.Errorf("session store: %w", err)
		}
		a.Log.WithField("path", fc.Path()).Debug("session store: file")
		return fc, nil
	}
}

func (a *App) openSink(ctx context.Context) (storage.Uploader, error) {
	ec := a.Config.Export
	switch ec.Sink {
	case "gcs":
		u, err := storage.NewGCSUploader(ctx, ec.GCS.Bucket, ec.GCS.Prefix)
		if err != nil {
			return nil, fmt.Errorf("gcs: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return u.Close() })
		return u, nil
	case "minio":
		u, err := storage.NewMinioUploader(storage.MinioConfig{
			Endpoint:  ec.S3.Endpoint,
			AccessKey: ec.S3.AccessKey,
			SecretKey: ec.S3.SecretKey,
			UseSSL:    ec.S3.UseSSL,
			Bucket:    ec.S3.Bucket,
			Prefix:    ec.S3.Prefix,
			Region:    ec.S3.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("minio: %w", err)
		}
		if err := u.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("minio: %w", err)
		}
		return u, nil
	case "none":
		return nil, nil
	default:
		return storage.NewLocalUploader(ec.Dir)
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Router builds the studio's gin engine.
func (a *App) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(a.Log))

	routes.RegisterRoutes(r, routes.Deps{
		Auth:           handlers.NewAuthHandler(a.Auth),
		Resume:         handlers.NewResumeHandler(a.Resumes),
		ATS:            handlers.NewATSHandler(a.ATS),
		Export:         handlers.NewExportHandler(a.Exports),
		Admin:          handlers.NewAdminHandler(a.Admin),
		WS:             handlers.NewWSHandler(a.Admin, a.Config.Timing.AdminPoll, a.Config.Studio.AllowedOrigins, a.Log),
		AuthService:    a.Auth,
		AllowedOrigins: a.Config.Studio.AllowedOrigins,
		Logger:         a.Log,
	})
	return r
}

// Serve runs the studio until ctx is done, then drains in-flight requests.
func (a *App) Serve(ctx context.Context, addr string) error {
	if addr == "" {
		studio := a.Config.Studio
		if studio.Host == "" {
			studio.Host = "127.0.0.1"
		}
		addr = studio.Addr()
	}
	if !loopback(addr) {
		a.Log.WithField("addr", addr).Warn("studio is reachable from other hosts and acts with the stored session")
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(a.Router(), "studio"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.WithField("addr", addr).Info("studio listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.Log.Info("studio shutting down")
	return srv.Shutdown(shutdownCtx)
}

func loopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
