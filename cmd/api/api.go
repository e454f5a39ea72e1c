package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hbnb/docs" //this is required to generate swagger docs
	"hbnb/internal/auth"
	"hbnb/internal/facade"
	"hbnb/internal/ratelimiter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	facade        *facade.Facade
	logger        *zap.SugaredLogger
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
}

type config struct {
	addr            string
	env             string
	apiURL          string
	storage         string
	db              dbConfig
	redis           redisConfig
	kafka           kafkaConfig
	mail            mailConfig
	cloudinary      cloudinaryConfig
	expoAccessToken string
	pushEnabled     bool
	hashidsSalt     string
	bookingSweep    time.Duration
	admin           adminConfig
	auth            authConfig
	rateLimiter     ratelimiter.Config
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret          string
	refreshSecret   string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	iss             string
}

type basicConfig struct {
	user string
	pass string
}

type adminConfig struct {
	email    string
	password string
}

type mailConfig struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
}

type cloudinaryConfig struct {
	url    string
	folder string
}

type redisConfig struct {
	addr     string
	password string
	db       int
}

type kafkaConfig struct {
	brokers []string
	topic   string
}

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleTime  string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	r.Use(app.RateLimiterMiddleware)

	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// Public routes
		r.Route("/authentication", func(r chi.Router) {
			r.Post("/user", app.registerUserHandler)
			r.Post("/token", app.createTokenHandler)
			r.Post("/refresh", app.refreshTokenHandler)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.listUsersHandler)
			r.Get("/me", app.getCurrentUserHandler)
			r.Post("/admin", app.createAdminHandler)
			r.Post("/push-tokens", app.savePushTokenHandler)
			r.Delete("/push-tokens", app.deletePushTokenHandler)

			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/", app.getUserHandler)
				r.Put("/", app.updateUserHandler)
				r.Delete("/", app.deleteUserHandler)
				r.Patch("/moderate", app.moderateUserHandler)
				r.Get("/bookings", app.listUserBookingsHandler)
			})
		})

		r.Route("/amenities", func(r chi.Router) {
			r.Get("/", app.listAmenitiesHandler)
			r.Get("/{amenityID}", app.getAmenityHandler)
			r.With(app.AuthTokenMiddleware).Post("/", app.createAmenityHandler)
			r.With(app.AuthTokenMiddleware).Put("/{amenityID}", app.updateAmenityHandler)
		})

		r.Route("/places", func(r chi.Router) {
			r.Get("/", app.listPlacesHandler)
			r.Get("/{placeID}", app.getPlaceHandler)
			r.Get("/{placeID}/reviews", app.listPlaceReviewsHandler)
			r.Get("/{placeID}/bookings", app.listPlaceBookingsHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.Post("/", app.createPlaceHandler)
				r.Put("/{placeID}", app.updatePlaceHandler)
				r.Delete("/{placeID}", app.deletePlaceHandler)
				r.Post("/{placeID}/reviews", app.createPlaceReviewHandler)
				//Call DELETE /places/{placeID}/photos?photo_url={url}.
				r.Post("/{placeID}/photos", app.uploadPlacePhotoHandler)
				r.Delete("/{placeID}/photos", app.deletePlacePhotoHandler)
			})
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", app.listBookingsHandler)
			r.Get("/{bookingID}", app.getBookingHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.Post("/", app.createBookingHandler)
				r.Put("/{bookingID}", app.updateBookingHandler)
				r.Patch("/{bookingID}/status", app.updateBookingStatusHandler)
				r.Delete("/{bookingID}", app.deleteBookingHandler)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", app.listReviewsHandler)
			r.Get("/{reviewID}", app.getReviewHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.Post("/", app.createReviewHandler)
				r.Put("/{reviewID}", app.updateReviewHandler)
				r.Delete("/{reviewID}", app.deleteReviewHandler)
			})
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env, "storage", app.config.storage)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
