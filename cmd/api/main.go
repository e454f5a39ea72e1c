package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"hbnb/internal/auth"
	"hbnb/internal/db"
	"hbnb/internal/domain/bookings"
	"hbnb/internal/domain/memory"
	"hbnb/internal/domain/storage"
	"hbnb/internal/events"
	"hbnb/internal/facade"
	"hbnb/internal/locker"
	"hbnb/internal/mailer"
	"hbnb/internal/media"
	"hbnb/internal/notifications"
	"hbnb/internal/ratelimiter"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	defaultRequests := 200
	defaultEnabled := false

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATELIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            5 * time.Second,
		Enabled:              enabled,
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), zapcore.InfoLevel)

	return zap.New(core).Sugar(), nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return d
}

func loadConfig() config {
	var brokers []string
	for _, b := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	return config{
		addr:    envOr("ADDR", ":8080"),
		env:     envOr("ENV", "development"),
		apiURL:  envOr("EXTERNAL_URL", "localhost:8080"),
		storage: envOr("STORAGE", "memory"),
		db: dbConfig{
			addr:         os.Getenv("DB_ADDR"),
			maxOpenConns: envInt("DB_MAX_OPEN_CONNS", 30),
			maxIdleTime:  envOr("DB_MAX_IDLE_TIME", "15m"),
		},
		redis: redisConfig{
			addr:     os.Getenv("REDIS_ADDR"),
			password: os.Getenv("REDIS_PASSWORD"),
			db:       envInt("REDIS_DB", 0),
		},
		kafka: kafkaConfig{
			brokers: brokers,
			topic:   envOr("KAFKA_BOOKING_TOPIC", "hbnb.bookings"),
		},
		mail: mailConfig{
			host:      os.Getenv("SMTP_HOST"),
			port:      envInt("SMTP_PORT", 587),
			username:  os.Getenv("SMTP_USERNAME"),
			password:  os.Getenv("SMTP_PASSWORD"),
			fromEmail: os.Getenv("MAIL_FROM"),
		},
		cloudinary: cloudinaryConfig{
			url:    os.Getenv("CLOUDINARY_URL"),
			folder: envOr("CLOUDINARY_FOLDER", "hbnb/places"),
		},
		expoAccessToken: os.Getenv("EXPO_ACCESS_TOKEN"),
		pushEnabled:     os.Getenv("EXPO_PUSH_ENABLED") == "true" || os.Getenv("EXPO_ACCESS_TOKEN") != "",
		hashidsSalt:     envOr("HASHIDS_SALT", "hbnb"),
		bookingSweep:    envDuration("BOOKING_SWEEP_INTERVAL", 0),
		admin: adminConfig{
			email:    os.Getenv("ADMIN_EMAIL"),
			password: os.Getenv("ADMIN_PASSWORD"),
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				secret:          os.Getenv("AUTH_TOKEN_SECRET"),
				refreshSecret:   os.Getenv("AUTH_TOKEN_REFRESH_SECRET"),
				accessTokenExp:  envDuration("AUTH_TOKEN_EXP", time.Hour),
				refreshTokenExp: envDuration("AUTH_REFRESH_TOKEN_EXP", time.Hour*24*7),
				iss:             "HBnB",
			},
		},
		rateLimiter: LoadRateLimiterConfig(),
	}
}

var version = "1.0.0"

//	@title			HBnB API
//	@description	Places, bookings and reviews for the HBnB rental platform.

//	@contact.name	API Support
//	@contact.email	support@hbnb.io

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@BasePath					/v1
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := loadConfig()

	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	ctx := context.Background()

	// Storage
	var store *storage.Container
	switch cfg.storage {
	case "postgres":
		pool, err := db.New(cfg.db.addr, int32(cfg.db.maxOpenConns), cfg.db.maxIdleTime)
		if err != nil {
			logger.Fatal(err)
		}
		defer pool.Close()
		logger.Info("database connection pool established")

		store = storage.NewContainer(pool)
		expvar.Publish("database", expvar.Func(func() any {
			s := pool.Stat()
			return map[string]int32{
				"total_conns":    s.TotalConns(),
				"idle_conns":     s.IdleConns(),
				"acquired_conns": s.AcquiredConns(),
			}
		}))
	case "memory":
		store = storage.NewMemoryContainer(memory.New())
		logger.Warn("using in-memory storage, data is lost on restart")
	default:
		logger.Fatalf("unknown STORAGE %q", cfg.storage)
	}

	refs, err := bookings.NewReferenceGenerator(cfg.hashidsSalt)
	if err != nil {
		logger.Fatal(err)
	}
	opts := []facade.Option{facade.WithReferences(refs)}

	// Redis backs the booking lock and the rate limiter when configured
	var redisClient *redis.Client
	if cfg.redis.addr != "" {
		redisClient, err = locker.NewRedisClient(ctx, cfg.redis.addr, cfg.redis.password, cfg.redis.db)
		if err != nil {
			logger.Fatal(err)
		}
		defer redisClient.Close()
		opts = append(opts, facade.WithLocker(locker.NewRedis(redisClient, "hbnb:lock:", 10*time.Second)))
		logger.Infow("redis connected", "addr", cfg.redis.addr)
	}

	if len(cfg.kafka.brokers) > 0 {
		publisher, err := events.NewKafkaPublisher(cfg.kafka.brokers, cfg.kafka.topic, logger)
		if err != nil {
			logger.Fatal(err)
		}
		defer publisher.Close()
		opts = append(opts, facade.WithPublisher(publisher))
		logger.Infow("publishing booking events", "brokers", cfg.kafka.brokers, "topic", cfg.kafka.topic)
	}

	if cfg.cloudinary.url != "" {
		cld, err := media.NewCloudinary(cfg.cloudinary.url, cfg.cloudinary.folder)
		if err != nil {
			logger.Fatal(err)
		}
		opts = append(opts, facade.WithMedia(cld))
	}

	var notifiers notifications.Multi
	if cfg.pushEnabled {
		notifiers = append(notifiers, notifications.NewPush(notifications.NewExpoAdapter(cfg.expoAccessToken), store.PushTokens))
	}
	if cfg.mail.host != "" {
		smtp, err := mailer.NewSMTPMailer(cfg.mail.host, cfg.mail.port, cfg.mail.username, cfg.mail.password, cfg.mail.fromEmail)
		if err != nil {
			logger.Fatal(err)
		}
		notifiers = append(notifiers, notifications.NewMail(smtp, store.Users))
	}
	if len(notifiers) > 0 {
		opts = append(opts, facade.WithNotifier(notifiers))
	}

	hbnb, err := facade.New(store, logger, opts...)
	if err != nil {
		logger.Fatal(err)
	}

	if cfg.admin.email != "" {
		admin, err := hbnb.BootstrapAdmin(ctx, facade.RegisterInput{
			FirstName: "Admin",
			LastName:  "HBnB",
			Email:     cfg.admin.email,
			Password:  cfg.admin.password,
		})
		if err != nil {
			logger.Fatal(err)
		}
		logger.Infow("admin account ready", "user", admin.ID)
	}

	// Rate limiter
	var rateLimiter ratelimiter.Limiter = ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)
	if redisClient != nil {
		rateLimiter = ratelimiter.NewRedisLimiter(
			redisClient,
			"hbnb:ratelimit:",
			cfg.rateLimiter.RequestsPerTimeFrame,
			cfg.rateLimiter.TimeFrame,
		)
	}

	// Authenticator
	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.refreshSecret,
		cfg.auth.token.iss,
		cfg.auth.token.iss,
		cfg.auth.token.accessTokenExp,
		cfg.auth.token.refreshTokenExp,
	)

	app := &application{
		config:        cfg,
		logger:        logger,
		facade:        hbnb,
		authenticator: jwtAuthenticator,
		rateLimiter:   rateLimiter,
	}

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	stop := app.completeExpiredBookingsEvery(cfg.bookingSweep)
	defer stop()

	mux := app.mount()

	if err := app.run(mux); err != nil {
		logger.Error(err)
	}
	hbnb.Wait()
}
