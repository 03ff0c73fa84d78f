package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	httpapi "github.com/studylab/chatboard/internal/api/http"
	"github.com/studylab/chatboard/internal/config"
	"github.com/studylab/chatboard/internal/repository"
	"github.com/studylab/chatboard/internal/repository/model"
	"github.com/studylab/chatboard/internal/service"
	"github.com/studylab/chatboard/lib/logger/slogpretty"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	roomRepo, postRepo, userRepo, err := setupRepositories(cfg.Database, log)
	if err != nil {
		log.Error("failed to set up storage", slog.Any("error", err))
		os.Exit(1)
	}

	presence := service.NewPresenceTracker(log)
	roomService := service.NewRoomService(roomRepo, presence, log)
	forumService := service.NewForumService(postRepo, log)
	adminService := service.NewAdminService(userRepo, log)

	if err := adminService.Bootstrap(context.Background(), cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Error("failed to bootstrap admin account", slog.Any("error", err))
		os.Exit(1)
	}

	roomController := httpapi.NewRoomController(roomService)
	forumController := httpapi.NewForumController(forumService)
	adminController := httpapi.NewAdminController(adminService)

	router := httpapi.SetupRouter(roomController, forumController, adminController, httpapi.RouterOptions{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		StaticDir:      cfg.HTTP.StaticDir,
		STUNServers:    cfg.WebRTC.STUNServers,
	})

	log.Info("starting application", slog.String("addr", cfg.HTTP.Address))
	if err := router.Run(cfg.HTTP.Address); err != nil {
		log.Error("http server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}

func setupRepositories(cfg config.DatabaseConfig, log *slog.Logger) (repository.RoomRepository, repository.PostRepository, repository.UserRepository, error) {
	if cfg.DSN == "" {
		log.Warn("no database dsn configured, using in-memory storage")
		return repository.NewInMemoryRoomRepository(),
			repository.NewInMemoryPostRepository(),
			repository.NewInMemoryUserRepository(),
			nil
	}

	db, err := connectDatabase(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	return repository.NewGormRoomRepository(db),
		repository.NewGormPostRepository(db),
		repository.NewGormUserRepository(db),
		nil
}

func connectDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, errors.New("database dsn is empty")
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&model.Room{}, &model.Member{}, &model.Message{},
		&model.Post{}, &model.Comment{}, &model.User{},
	); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
