package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotel-frontdesk/internal/auth"
	"hotel-frontdesk/internal/booking"
	"hotel-frontdesk/internal/callflow"
	"hotel-frontdesk/internal/callsession"
	"hotel-frontdesk/internal/config"
	"hotel-frontdesk/internal/extract"
	"hotel-frontdesk/internal/httpapi"
	"hotel-frontdesk/internal/notify"
	"hotel-frontdesk/internal/telephony"
	"hotel-frontdesk/pkg/logger"
	"hotel-frontdesk/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	sessions := callsession.NewPostgresStore(db)
	reservations := booking.NewPostgresRepo(db)

	// Extraction runs without a key in local setups; the service then answers
	// with defaults instead of calling out.
	var completer extract.Completer
	if cfg.OpenAI.APIKey != "" {
		oc, err := extract.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		if err != nil {
			log.Error("openai init failed", "err", err)
			os.Exit(1)
		}
		completer = oc
	} else {
		log.Warn("no openai key configured, bookings will use default values")
	}
	extractor := extract.NewService(completer, cfg.OpenAI.RequestTimeout)

	var notifier notify.Notifier = notify.Noop{}
	if cfg.SMTPEnabled() {
		notifier = notify.NewSMTPNotifier(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	} else {
		log.Warn("smtp not configured, confirmation emails disabled")
	}

	committer := booking.NewCommitter(reservations, sessions, notifier)
	flow := callflow.NewController(sessions, extractor, committer, callflow.NewRedisDeduper(rdb))

	var dialer telephony.Dialer
	if cfg.Twilio.AccountSID != "" && cfg.Twilio.AuthToken != "" {
		dialer, err = telephony.NewRestClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken)
		if err != nil {
			log.Error("twilio init failed", "err", err)
			os.Exit(1)
		}
	} else {
		log.Warn("twilio credentials not configured, outbound calls disabled")
	}

	api := httpapi.Handlers{
		Auth:          authManager,
		Sessions:      sessions,
		Reservations:  reservations,
		Dialer:        dialer,
		PublicBaseURL: cfg.App.PublicBaseURL,
		FromNumber:    cfg.Twilio.FromNumber,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, db, flow, api, auth.RequireAccessToken(authManager))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
