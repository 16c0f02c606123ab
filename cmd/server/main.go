package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"vidtube/internal/auth"
	"vidtube/internal/config"
	apphttp "vidtube/internal/http"
	"vidtube/internal/repository/sqlite"
	"vidtube/internal/service"
	"vidtube/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.AccessSecret) == "" {
		logger.Fatalf("auth access token secret is required")
	}
	if strings.TrimSpace(cfg.Auth.RefreshSecret) == "" {
		logger.Fatalf("auth refresh token secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	videoRepo := sqlite.NewVideoRepository(db)
	commentRepo := sqlite.NewCommentRepository(db)
	likeRepo := sqlite.NewLikeRepository(db)
	subRepo := sqlite.NewSubscriptionRepository(db)
	tweetRepo := sqlite.NewTweetRepository(db)
	playlistRepo := sqlite.NewPlaylistRepository(db)

	for name, init := range map[string]func(context.Context) error{
		"users":         userRepo.Init,
		"videos":        videoRepo.Init,
		"comments":      commentRepo.Init,
		"likes":         likeRepo.Init,
		"subscriptions": subRepo.Init,
		"tweets":        tweetRepo.Init,
		"playlists":     playlistRepo.Init,
	} {
		if err := init(ctx); err != nil {
			logger.Fatalf("init %s repository: %v", name, err)
		}
	}

	issuer := auth.NewIssuer(
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		time.Duration(cfg.Auth.AccessTTLMinutes)*time.Minute,
		time.Duration(cfg.Auth.RefreshTTLDays)*24*time.Hour,
	)

	userService := service.NewUserService(userRepo, subRepo, issuer, cfg.Auth.BcryptCost)
	videoService := service.NewVideoService(videoRepo, commentRepo, likeRepo, playlistRepo)
	commentService := service.NewCommentService(commentRepo, videoRepo, likeRepo)
	likeService := service.NewLikeService(likeRepo, videoRepo, commentRepo, tweetRepo)
	subService := service.NewSubscriptionService(subRepo, userRepo)
	playlistService := service.NewPlaylistService(playlistRepo, videoRepo, userRepo)
	tweetService := service.NewTweetService(tweetRepo, likeRepo, userRepo)
	dashboardService := service.NewDashboardService(videoRepo, subRepo, likeRepo)

	storageSvc, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		userService,
		videoService,
		commentService,
		likeService,
		subService,
		playlistService,
		tweetService,
		dashboardService,
		issuer,
		storageSvc,
		logger,
		apphttp.Options{
			Bucket:       cfg.Storage.Bucket,
			KeyPrefix:    cfg.Storage.KeyPrefix,
			TempDir:      cfg.Upload.TempDir,
			CookieSecure: cfg.Auth.CookieSecure,
			MaxVideoMB:   cfg.Upload.MaxVideoMB,
			MaxImageMB:   cfg.Upload.MaxImageMB,
		},
	)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client, storage.S3Options{
		Region:   cfg.Storage.Region,
		Endpoint: cfg.Storage.Endpoint,
	}), nil
}
