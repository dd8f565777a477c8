package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"socialnet/backend/internal/cache"
	"socialnet/backend/internal/config"
	"socialnet/backend/internal/database"
	"socialnet/backend/internal/events"
	"socialnet/backend/internal/handler"
	"socialnet/backend/internal/hub"
	"socialnet/backend/internal/logger"
	"socialnet/backend/internal/metrics"
	"socialnet/backend/internal/repository"
	"socialnet/backend/internal/service"

	"golang.org/x/sync/errgroup"
)

func init() {
	config.LoadConfig()
}

// @title           Socialnet API
// @version         1.0
// @description     Posts, follows and likes for the Socialnet service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.AppConfig
	logger.Init(cfg.LogLevel, cfg.LogPretty)
	lg := logger.For("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Connect(cfg.DatabaseURL); err != nil {
		lg.Fatal().Err(err).Msg("database connection failed")
	}

	users := repository.NewUserRepo(database.DB)
	posts := repository.NewPostRepo(database.DB)
	followers := repository.NewFollowerRepo(database.DB)
	likes := repository.NewLikeRepo(database.DB)

	var stats cache.StatsCache = cache.NopStatsCache{}
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			lg.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis connection failed")
		}
		defer rdb.Close()
		stats = cache.NewRedisStatsCache(rdb, cfg.StatsCacheTTL)
		lg.Info().Str("addr", cfg.RedisAddr).Msg("profile stats cache enabled")
	}

	profileHub := hub.NewHub()
	publisher := events.MultiPublisher{profileHub}
	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		kp := events.NewKafkaPublisher(events.KafkaConfig{
			Brokers:      brokers,
			Topic:        cfg.KafkaTopic,
			WriteTimeout: cfg.KafkaWriteTimeout,
		})
		defer kp.Close()
		publisher = append(publisher, kp)
		lg.Info().Strs("brokers", brokers).Str("topic", cfg.KafkaTopic).Msg("activity events go to kafka")
	}

	m := metrics.New()
	secret := []byte(cfg.JWTSecret)

	h := handler.New(
		service.NewFeedService(users, posts),
		service.NewSocialService(users, posts, followers, likes,
			service.WithStatsCache(stats),
			service.WithPublisher(publisher),
			service.WithObserver(m),
		),
		service.NewUserService(users, secret, cfg.TokenTTL),
		profileHub,
		secret,
	)

	srv := newServer(cfg.ServerAddr, setupRouter(h, m), profileHub)
	if err := run(ctx, srv); err != nil {
		lg.Fatal().Err(err).Msg("server stopped unexpectedly")
	}
	lg.Info().Msg("Shutdown completed")
}

// newServer builds the HTTP server. Open event streams are ended on shutdown,
// since Shutdown does not cancel in-flight requests.
func newServer(addr string, h http.Handler, streams *hub.Hub) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(streams.Close)
	return srv
}

// run serves until ctx is done, then shuts srv down gracefully.
func run(ctx context.Context, srv *http.Server) error {
	lg := logger.For("server")
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lg.Info().Str("addr", srv.Addr).Msg("Server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		lg.Info().Msg("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
