package main

import (
	"net/http"

	"lg/macrocoach-go-api/internal/coach"

	"github.com/gin-gonic/gin"
)

// addCalorieEntry logs a day's intake (kcal) in the current week.
// POST /api/coach/calories. Body: { "value": 2150 }.
func (h *Handler) addCalorieEntry(c *gin.Context) {
	h.addEntry(c, coach.CalorieEntry)
}

// deleteCalorieEntry removes a calorie entry of the current week.
// DELETE /api/coach/calories/:id.
func (h *Handler) deleteCalorieEntry(c *gin.Context) {
	h.deleteEntry(c, coach.CalorieEntry)
}

// getWeek returns the live readout of the week being tracked: its entries
// and running averages. 409 outside tracking.
// GET /api/coach/week.
func (h *Handler) getWeek(c *gin.Context) {
	h.withCoach(c, func(co *coach.Coach) {
		week, ok := co.State().CurrentWeek()
		if !ok {
			coachError(c, coach.ErrNotTracking)
			return
		}
		c.JSON(http.StatusOK, week)
	})
}

// getProgress reports how far the running cycle has come.
// GET /api/coach/progress.
func (h *Handler) getProgress(c *gin.Context) {
	h.withCoach(c, func(co *coach.Coach) {
		c.JSON(http.StatusOK, co.State().Progress())
	})
}
