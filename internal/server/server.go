package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/tossit/internal/checker"
	"github.com/dukerupert/tossit/internal/discard"
	"github.com/dukerupert/tossit/internal/handler"
	"github.com/dukerupert/tossit/internal/middleware"
	"github.com/dukerupert/tossit/internal/notify"
	"github.com/dukerupert/tossit/internal/store"
	ws "github.com/dukerupert/tossit/internal/websocket"
)

// Config carries the runtime options main reads from the environment.
type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	AutoEndShifts   bool
	CheckInterval   time.Duration
}

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	itemH       *handler.ItemHandler
	shiftH      *handler.ShiftHandler
	schedulerH  *handler.SchedulerHandler
	checker     *checker.Checker
	discard     *discard.Scheduler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	itemStore := store.NewItemStore(db)
	userStore := store.NewUserStore(db)
	pushStore := store.NewPushStore(db)

	sink := notify.NewWebPushSink(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, pushStore,
		logger.With("component", "webpush"))
	if sink.Permission() != notify.PermissionGranted {
		logger.Warn("VAPID keys not configured, notifications disabled")
	}
	dispatch := notify.NewDispatcher(sink, logger.With("component", "notify"))

	expiryChecker := checker.New(checker.Config{
		Items:         itemStore,
		Users:         userStore,
		Shifts:        userStore,
		Dispatch:      dispatch,
		AutoEndShifts: cfg.AutoEndShifts,
		Interval:      cfg.CheckInterval,
	}, logger.With("component", "checker"))

	discardSched := discard.NewScheduler(itemStore, dispatch, logger.With("component", "discard"))

	return &Server{
		db:          db,
		hub:         hub,
		itemH:       handler.NewItemHandler(itemStore, hub, logger.With("component", "item")),
		shiftH:      handler.NewShiftHandler(userStore, hub, logger.With("component", "shift")),
		schedulerH:  handler.NewSchedulerHandler(discardSched, logger.With("component", "scheduler")),
		checker:     expiryChecker,
		discard:     discardSched,
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// StartSchedulers begins the expiry checker and discard scheduler loops.
// Called once at application start.
func (s *Server) StartSchedulers(ctx context.Context) {
	s.checker.Start(ctx)
	if !s.discard.Start(ctx) {
		s.logger.Warn("discard scheduler already active")
	}
}

// StopSchedulers halts both loops. Called once at shutdown.
func (s *Server) StopSchedulers() {
	s.checker.Stop()
	s.discard.Stop()
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	// Item API routes
	mux.HandleFunc("POST /api/items", s.rateLimited(s.itemH.Open))
	mux.HandleFunc("GET /api/items", s.itemH.List)
	mux.HandleFunc("POST /api/items/{id}/throw", s.rateLimited(s.itemH.Throw))
	mux.HandleFunc("GET /api/products", s.itemH.Products)

	// Shift API routes
	mux.HandleFunc("POST /api/shifts/start", s.rateLimited(s.shiftH.Start))
	mux.HandleFunc("POST /api/shifts/end", s.rateLimited(s.shiftH.End))

	// Scheduler control surface
	mux.HandleFunc("GET /api/scheduler/status", s.schedulerH.Status)
	mux.HandleFunc("POST /api/scheduler/run", s.rateLimited(s.schedulerH.ForceRun))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP, 60, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
