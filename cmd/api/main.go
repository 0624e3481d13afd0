package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/blinkclip/blinkclip-go/internal/config"
	"github.com/blinkclip/blinkclip-go/internal/crypto"
	"github.com/blinkclip/blinkclip-go/internal/handler"
	"github.com/blinkclip/blinkclip-go/internal/middleware"
	"github.com/blinkclip/blinkclip-go/internal/repository"
	"github.com/blinkclip/blinkclip-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.RunMigrations(context.Background(), db); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	clipRepo := repository.NewClipRepository(db)

	tokens := crypto.NewTokenService(cfg.TokenSecret)
	authService := service.NewAuthService(userRepo, tokens)
	clipService := service.NewClipService(clipRepo)

	authHandler := handler.NewAuthHandler(authService, cfg.APITokenTTL)
	clipHandler := handler.NewClipHandler(clipService)
	webHandler, err := handler.NewWebHandler(authService, clipService, handler.WebConfig{
		CookieName: cfg.CookieName,
		Secure:     cfg.IsProduction(),
		SignupTTL:  cfg.WebSignupTokenTTL,
		LoginTTL:   cfg.WebLoginTokenTTL,
	})
	if err != nil {
		slog.Error("template setup failed", "error", err)
		os.Exit(1)
	}

	cookieAuth := middleware.CookieAuth(tokens, cfg.CookieName)
	bearerAuth := middleware.BearerAuth(tokens, userRepo)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Web surface: forms in, redirects and HTML out, cookie-carried identity.
	r.Get("/", webHandler.HandleIndex)
	r.Post("/signup", webHandler.HandleSignup)
	r.Post("/login", webHandler.HandleLogin)
	r.Get("/logout", webHandler.HandleLogout)

	r.Group(func(r chi.Router) {
		r.Use(cookieAuth)
		r.Get("/dashboard", webHandler.HandleDashboard)
		r.Post("/save", webHandler.HandleSave)
		r.Get("/clips", webHandler.HandleClips)
		r.Get("/clip/view/{id}", webHandler.HandleView)
		r.Get("/clip/edit/{id}", webHandler.HandleEditPage)
		r.Post("/clip/edit/{id}", webHandler.HandleEdit)
		r.Post("/clip/delete/{id}", webHandler.HandleDelete)
	})

	// Extension API surface: JSON in and out, bearer-carried identity.
	r.Post("/api/signup", authHandler.HandleSignup)
	r.Post("/api/login", authHandler.HandleLogin)

	r.Group(func(r chi.Router) {
		r.Use(bearerAuth)
		r.Get("/api/clips", clipHandler.HandleList)
		r.Post("/api/clip", clipHandler.HandleCreate)
		r.Put("/api/clip/{id}", clipHandler.HandleUpdate)
		r.Delete("/api/clip/{id}", clipHandler.HandleDelete)
	})

	// Both clients fetch their own account record from the same endpoint.
	r.Group(func(r chi.Router) {
		r.Use(middleware.EitherAuth(bearerAuth, cookieAuth))
		r.Get("/me", authHandler.HandleMe)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
