package main

import "lg/macrocoach-go-api/internal/coach"

/* ─── Requests ───────────────────────────────────────────────────────── */

// loginRequest is the request body for POST /api/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// entryRequest is the request body for POST /api/coach/weights and
// POST /api/coach/calories. Value is kg or kcal respectively.
type entryRequest struct {
	Value *float64 `json:"value"`
}

// completeCycleRequest must carry confirm=true; ending a cycle discards the
// running week.
type completeCycleRequest struct {
	Confirm bool `json:"confirm"`
}

/* ─── Responses ──────────────────────────────────────────────────────── */

type loginResponse struct {
	Token  string `json:"token"`
	UserID int    `json:"user_id"`
}

// stateResponse is the full coach state as every lifecycle endpoint returns
// it. Week is null outside tracking. Persisted is false when the transition
// that produced this state could not be saved.
type stateResponse struct {
	coach.Document
	ActivityLevel string             `json:"activity_level"`
	Week          *coach.WeekSummary `json:"week"`
	Progress      coach.Progress     `json:"progress"`
	Persisted     bool               `json:"persisted"`
}

func newStateResponse(s coach.State, persisted bool) stateResponse {
	resp := stateResponse{
		Document:      s.Document(),
		ActivityLevel: coach.ActivityLevelName(s.Profile.ActivityFactor),
		Progress:      s.Progress(),
		Persisted:     persisted,
	}
	if week, ok := s.CurrentWeek(); ok {
		resp.Week = &week
	}
	return resp
}

// entryResponse answers entry adds and deletes. Entry is omitted on delete.
type entryResponse struct {
	Entry     *coach.Entry      `json:"entry,omitempty"`
	Week      coach.WeekSummary `json:"week"`
	Persisted bool              `json:"persisted"`
}

type weekCompletedResponse struct {
	Outcome coach.WeekOutcome `json:"outcome"`
	State   stateResponse     `json:"state"`
}

type cycleCompletedResponse struct {
	Cycle coach.CycleRecord `json:"cycle"`
	State stateResponse     `json:"state"`
}
