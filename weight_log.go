package main

import (
	"net/http"

	"lg/macrocoach-go-api/internal/coach"

	"github.com/gin-gonic/gin"
)

// addWeightEntry logs a body weight (kg) in the current week.
// POST /api/coach/weights. Body: { "value": 89.4 }.
func (h *Handler) addWeightEntry(c *gin.Context) {
	h.addEntry(c, coach.WeightEntry)
}

// deleteWeightEntry removes a weight entry of the current week.
// DELETE /api/coach/weights/:id. Entries of completed weeks are frozen (404).
func (h *Handler) deleteWeightEntry(c *gin.Context) {
	h.deleteEntry(c, coach.WeightEntry)
}

// addEntry is shared by the weight and calorie endpoints; kind picks the
// collection.
func (h *Handler) addEntry(c *gin.Context, kind coach.EntryKind) {
	userID := c.GetInt("user_id")

	var body entryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Value == nil {
		apiError(c, http.StatusBadRequest, "value is required")
		return
	}
	if err := coach.ValidateEntry(kind, *body.Value); err != nil {
		coachError(c, err)
		return
	}

	h.withCoach(c, func(co *coach.Coach) {
		var (
			e   coach.Entry
			err error
		)
		if kind == coach.WeightEntry {
			e, err = co.AddWeight(c, *body.Value)
		} else {
			e, err = co.AddCalories(c, *body.Value)
		}
		persisted, err := persistResult("addEntry", userID, err)
		if err != nil {
			coachError(c, err)
			return
		}
		week, _ := co.State().CurrentWeek()
		c.JSON(http.StatusCreated, entryResponse{Entry: &e, Week: week, Persisted: persisted})
	})
}

func (h *Handler) deleteEntry(c *gin.Context, kind coach.EntryKind) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	h.withCoach(c, func(co *coach.Coach) {
		err := co.RemoveEntry(c, kind, id)
		persisted, err := persistResult("deleteEntry", userID, err)
		if err != nil {
			coachError(c, err)
			return
		}
		week, _ := co.State().CurrentWeek()
		c.JSON(http.StatusOK, entryResponse{Week: week, Persisted: persisted})
	})
}
