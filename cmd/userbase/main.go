package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"userbase/internal/config"
	"userbase/internal/domain"
	"userbase/internal/notify"
	"userbase/internal/observability/logging"
	"userbase/internal/observability/metrics"
	impl "userbase/internal/service/impl"
	"userbase/internal/store"
	httpx "userbase/internal/transport/http"
	"userbase/pkg/db"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "userbase",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	logger.Info("starting service")

	cfg := config.Load()

	metrics.MustRegister("userbase")

	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}

	if cfg.AutoMigrate {
		err := gdb.AutoMigrate(
			&domain.User{},
			&domain.Device{},
			&domain.Group{},
			&domain.UserGroupAssociation{},
			&domain.EventDescriptor{},
			&domain.Event{},
		)
		if err != nil {
			logger.Error("auto migrate", "error", err)
			os.Exit(1)
		}
	}

	st := &store.Store{DB: gdb}

	passwords := impl.NewPasswordServiceBcrypt(cfg.BcryptCost)

	tokens := impl.NewTokenServiceHS256(impl.TokenConfig{
		SigningKey: []byte(cfg.SigningKey),
		Session:    impl.ExpirationWindow{Days: cfg.SessionTokenDays, Seconds: cfg.SessionTokenSeconds},
		Password:   impl.ExpirationWindow{Days: cfg.PasswordTokenDays, Seconds: cfg.PasswordTokenSecs},
		Email:      impl.ExpirationWindow{Days: cfg.EmailTokenDays, Seconds: cfg.EmailTokenSeconds},
	})

	mailer := notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom, cfg.MailDryRun)
	sms := notify.NewSMSGateway(cfg.SMSAPIKey, cfg.SMSSender, cfg.SMSBaseURL)
	push := notify.NewFCMSender(cfg.FCMServerKey)
	verifier := impl.NewIdentityVerifierImpl(cfg.GoogleClientID)

	auth := impl.NewAuthServiceImpl(st, passwords, tokens, verifier, mailer)
	phone := impl.NewPhoneServiceImpl(st, sms, cfg.PhoneCodeExpirySeconds)
	devices := impl.NewDeviceServiceImpl(st)
	notifications := impl.NewNotificationServiceImpl(st, push, cfg.PushTitle)

	router := httpx.NewRouter(&httpx.Handler{
		Auth:          auth,
		Phone:         phone,
		Devices:       devices,
		Notifications: notifications,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
