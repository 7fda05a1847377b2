package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "healthtracker/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"healthtracker/internal/auth"
	"healthtracker/internal/config"
	"healthtracker/internal/db"
	"healthtracker/internal/handler"
	"healthtracker/internal/kv"
	"healthtracker/internal/logging"
	"healthtracker/internal/mail"
	"healthtracker/internal/repository"
	"healthtracker/internal/router"
	"healthtracker/internal/service"
)

// @title Health Tracker API
// @version 1.0
// @description Personal health tracking with exercise and diet logs, goals and groups.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.WithError(err).Fatal("database init")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB, log); err != nil {
		log.WithError(err).Fatal("database migrate")
	}

	kvClient := kv.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer kvClient.Close()
	if err := kvClient.Ping(ctx); err != nil {
		log.WithError(err).Warn("redis unreachable, logout revocation will not persist")
	}

	mailer, err := newMailer(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("mail init")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	exerciseRepo := repository.NewExerciseRepository(gormDB)
	dietRepo := repository.NewDietRepository(gormDB)
	goalRepo := repository.NewGoalRepository(gormDB)
	groupRepo := repository.NewGroupRepository(gormDB)
	txManager := repository.NewTxManager(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.SessionTTL)
	tokenStore := auth.NewTokenStore(kvClient)
	hasher := auth.NewBcryptHasher(auth.BcryptCost)

	// Initialize services
	loc := cfg.Location()
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, hasher)
	userService := service.NewUserService(userRepo, goalRepo, groupRepo, txManager)
	exerciseService := service.NewExerciseService(exerciseRepo, userRepo)
	dietService := service.NewDietService(dietRepo, loc)
	goalService := service.NewGoalService(goalRepo, groupRepo, log)
	groupService := service.NewGroupService(groupRepo, goalRepo, userRepo, txManager, mailer, cfg.ClientURL, log)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, cfg, log, authService, router.Handlers{
		Auth:     handler.NewAuthHandler(authService, userService),
		User:     handler.NewUserHandler(userService),
		Exercise: handler.NewExerciseHandler(exerciseService, loc),
		Diet:     handler.NewDietHandler(dietService, loc),
		Goal:     handler.NewGoalHandler(goalService),
		Group:    handler.NewGroupHandler(groupService),
	})

	log.Infof("Swagger documentation available at: %s", swaggerURL(cfg.SwaggerHost))

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server start")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
}

func newMailer(ctx context.Context, cfg *config.Config, log *logrus.Logger) (mail.Sender, error) {
	if strings.EqualFold(cfg.MailDriver, "ses") {
		return mail.NewSESSender(ctx, cfg.AWSRegion, cfg.MailFrom)
	}
	log.Warn("MAIL_DRIVER is not ses, invitations are logged and never reported as sent")
	return mail.NewLogSender(log), nil
}

func swaggerURL(host string) string {
	if host == "" {
		return "http://localhost:5000/swagger/index.html"
	}
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host + "/swagger/index.html"
	}
	return "http://" + host + "/swagger/index.html"
}
