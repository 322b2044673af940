package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"olympics-storefront/internal/api"
	"olympics-storefront/internal/config"
	"olympics-storefront/internal/database"
	"olympics-storefront/internal/handlers"
	"olympics-storefront/internal/middleware"
	"olympics-storefront/internal/services"
	"olympics-storefront/internal/storage"
	"olympics-storefront/web"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/spf13/pflag"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	authKey, encryptionKey, err := cfg.SessionKeys()
	if err != nil {
		log.Fatal("Failed to derive session keys: ", err)
	}
	sessionStore := sessions.NewCookieStore(authKey, encryptionKey)
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
	cookies := storage.NewCookieProvider(sessionStore)

	provider, closeProvider, err := visitorStorage(ctx, cfg, cookies)
	if err != nil {
		log.Fatal("Failed to set up visitor storage: ", err)
	}
	defer closeProvider()
	log.Printf("Visitor storage: %s", cfg.Session.Backend)

	client := api.NewClient(api.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RequestID: middleware.GetRequestID,
	})
	log.Printf("Ticketing API: %s", client.BaseURL())

	catalogService := services.NewCatalogService(client)
	cartService := services.NewCartService(client, client, services.NewMutationQueue())
	ticketService := services.NewTicketService(client)

	renderer, err := handlers.NewRenderer(web.Templates())
	if err != nil {
		log.Fatal("Failed to parse templates: ", err)
	}

	catalogHandler := handlers.NewCatalogHandler(catalogService, renderer)
	authHandler := handlers.NewAuthHandler(renderer)
	reservationHandler := handlers.NewReservationHandler(catalogService, cartService)
	profileHandler := handlers.NewProfileHandler(cartService, ticketService, renderer)
	cartHandler := handlers.NewCartHandler(cartService, renderer)

	sessionMiddleware := middleware.NewSessionMiddleware(provider, client)
	loginLimiter := middleware.NewLoginRateLimiter(5, 15*time.Minute)
	go loginLimiter.Cleanup(ctx, time.Minute)

	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.CleanPath)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.ErrorHandlingMiddleware)
	r.Use(middleware.SecureHeaders)

	r.NotFound(middleware.NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler().ServeHTTP)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"olympics-storefront"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(sessionMiddleware.LoadSession)
		r.Use(middleware.CSRFProtection)

		// Catalog
		r.Get("/", catalogHandler.Home)
		r.Get("/billetterie", catalogHandler.Sports)
		r.Get("/sports/{slug}", catalogHandler.Sport)
		r.Get("/offres", catalogHandler.Offers)

		// Authentication
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireGuest)
			r.Get("/connexion", authHandler.LoginPage)
			r.With(middleware.LoginRateLimit(loginLimiter)).Post("/connexion", authHandler.LoginSubmit)
			r.Get("/inscription", authHandler.RegisterPage)
			r.Post("/inscription", authHandler.RegisterSubmit)
		})
		r.Post("/deconnexion", authHandler.Logout)

		// Reservation; anonymous visitors are sent to log in by the handler
		r.Post("/reservations", reservationHandler.Begin)
		r.Post("/reservations/offre", reservationHandler.SelectOffer)
		r.Post("/reservations/valider", reservationHandler.Submit)
		r.Post("/reservations/annuler", reservationHandler.Cancel)

		// Profile, cart and tickets
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/profil", profileHandler.TicketsTab)
			r.Get("/profil/panier", profileHandler.CartTab)
			r.Get("/billets/{id}/pdf", profileHandler.DownloadTicket)
			r.Get("/panier/articles/{id}/supprimer", cartHandler.ConfirmRemove)
			r.Post("/panier/articles/{id}/supprimer", cartHandler.RemoveItem)
			r.Get("/panier/valider", cartHandler.ConfirmValidate)
			r.Post("/panier/valider", cartHandler.Validate)
		})
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed: ", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown failed: %v", err)
	}
}

// visitorStorage builds the configured storage backend. The returned func
// releases whatever the backend holds open.
func visitorStorage(ctx context.Context, cfg *config.Config, cookies *storage.CookieProvider) (storage.Provider, func(), error) {
	switch cfg.Session.Backend {
	case config.BackendMemory:
		provider := storage.NewMemoryProvider(cookies)
		go purgeStale(ctx, provider, cfg.Session.PurgeAfter)
		return provider, func() {}, nil

	case config.BackendPostgres:
		db, err := database.NewConnection(ctx, database.Config(cfg.Database))
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}

		provider := storage.NewPostgresProvider(db.DB, cookies)
		go purgeStale(ctx, provider, cfg.Session.PurgeAfter)
		return provider, func() { db.Close() }, nil

	default:
		return cookies, func() {}, nil
	}
}

// stalePurger is a backend that forgets visitors idle for longer than maxAge
type stalePurger interface {
	PurgeStale(ctx context.Context, maxAge time.Duration) (int64, error)
}

func purgeStale(ctx context.Context, provider stalePurger, maxAge time.Duration) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := provider.PurgeStale(ctx, maxAge)
			if err != nil {
				log.Printf("Failed to purge visitor storage: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("Purged %d stale visitor storage entries", removed)
			}
		}
	}
}
