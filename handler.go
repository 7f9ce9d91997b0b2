package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"

	"lg/macrocoach-go-api/internal/coach"
	"lg/macrocoach-go-api/internal/store"

	"github.com/gin-gonic/gin"
)

// accountStore is the user lookup behind login and the auth middleware.
type accountStore interface {
	UserByUsername(ctx context.Context, username string) (store.User, error)
	UserIDByToken(ctx context.Context, token string) (int, error)
}

// Handler holds shared dependencies (coach store, accounts, sessions) for all
// route handlers.
type Handler struct {
	accounts accountStore
	sessions *sessionRegistry
}

func newHandler(s coach.Store, accounts accountStore, opts ...coach.Option) *Handler {
	return &Handler{
		accounts: accounts,
		sessions: newSessionRegistry(s, opts...),
	}
}

/* ─── Sessions ────────────────────────────────────────────────────────── */

// sessionRegistry keeps one Coach per user. The Coach is not safe for
// concurrent use, so each session carries its own mutex and requests for the
// same user run one at a time. A Coach is loaded on first use and then kept
// in memory as the authoritative state for that user.
type sessionRegistry struct {
	store coach.Store
	opts  []coach.Option

	mu     sync.Mutex
	byUser map[int]*session
}

type session struct {
	mu    sync.Mutex
	coach *coach.Coach
}

func newSessionRegistry(s coach.Store, opts ...coach.Option) *sessionRegistry {
	return &sessionRegistry{store: s, opts: opts, byUser: make(map[int]*session)}
}

func (r *sessionRegistry) session(userID int) *session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byUser[userID]
	if !ok {
		s = &session{}
		r.byUser[userID] = s
	}
	return s
}

// with runs fn with the user's Coach while holding the session lock.
func (r *sessionRegistry) with(ctx context.Context, userID int, fn func(*coach.Coach)) error {
	s := r.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.coach == nil {
		c, err := coach.Load(ctx, userID, r.store, r.opts...)
		if err != nil {
			return err
		}
		s.coach = c
	}
	fn(s.coach)
	return nil
}

// withCoach runs fn with the authenticated user's Coach. A failed load is
// answered with a 500 and fn is not called.
func (h *Handler) withCoach(c *gin.Context, fn func(*coach.Coach)) {
	userID := c.GetInt("user_id")
	if err := h.sessions.with(c, userID, fn); err != nil {
		log.Printf("[withCoach] load failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to load coach state")
	}
}

/* ─── Responses ───────────────────────────────────────────────────────── */

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// coachError maps a rejected transition to its HTTP status.
func coachError(c *gin.Context, err error) {
	var verr *coach.ValidationError
	switch {
	case errors.As(err, &verr):
		apiError(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, coach.ErrNoWeightEntry):
		apiError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, coach.ErrNotInSetup), errors.Is(err, coach.ErrNotTracking):
		apiError(c, http.StatusConflict, err.Error())
	case errors.Is(err, coach.ErrEntryNotFound):
		apiError(c, http.StatusNotFound, err.Error())
	default:
		log.Printf("[coachError] unexpected error: %v", err)
		apiError(c, http.StatusInternalServerError, "internal error")
	}
}

// persistResult separates a persistence failure from a rejected transition.
// A *coach.PersistError means the transition was applied but not saved; it is
// logged and reported as persisted=false with a nil error.
func persistResult(fn string, userID int, err error) (persisted bool, rejected error) {
	if err == nil {
		return true, nil
	}
	var perr *coach.PersistError
	if errors.As(err, &perr) {
		log.Printf("[%s] persist failed for user %d: %v", fn, userID, err)
		return false, nil
	}
	return false, err
}

/* ─── Routes ──────────────────────────────────────────────────────────── */

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/coach/state", h.getState)
	api.PATCH("/coach/profile", h.patchProfile)
	api.POST("/coach/start", h.startCycle)
	api.POST("/coach/weights", h.addWeightEntry)
	api.DELETE("/coach/weights/:id", h.deleteWeightEntry)
	api.POST("/coach/calories", h.addCalorieEntry)
	api.DELETE("/coach/calories/:id", h.deleteCalorieEntry)
	api.GET("/coach/week", h.getWeek)
	api.POST("/coach/complete-week", h.completeWeek)
	api.POST("/coach/complete-cycle", h.completeCycle)
	api.GET("/coach/progress", h.getProgress)
	api.GET("/coach/cycles", h.getCycles)
	api.GET("/coach/export", h.exportWorkbook)
}
