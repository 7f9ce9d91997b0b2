package main

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"time"

	"lg/macrocoach-go-api/internal/coach"
	"lg/macrocoach-go-api/internal/export"

	"github.com/gin-gonic/gin"
)

// startCycle validates the goal and moves the user from setup into week 1.
// POST /api/coach/start.
func (h *Handler) startCycle(c *gin.Context) {
	userID := c.GetInt("user_id")
	h.withCoach(c, func(co *coach.Coach) {
		_, err := co.Start(c)
		persisted, err := persistResult("startCycle", userID, err)
		if err != nil {
			coachError(c, err)
			return
		}
		c.JSON(http.StatusOK, newStateResponse(co.State(), persisted))
	})
}

// completeWeek finalizes the current week and may recalibrate the TDEE.
// POST /api/coach/complete-week. 400 when no weight was logged this week.
func (h *Handler) completeWeek(c *gin.Context) {
	userID := c.GetInt("user_id")
	h.withCoach(c, func(co *coach.Coach) {
		out, err := co.CompleteWeek(c)
		persisted, err := persistResult("completeWeek", userID, err)
		if err != nil {
			coachError(c, err)
			return
		}
		c.JSON(http.StatusOK, weekCompletedResponse{
			Outcome: out,
			State:   newStateResponse(co.State(), persisted),
		})
	})
}

// completeCycle archives the running cycle and returns to setup.
// POST /api/coach/complete-cycle. Body: { "confirm": true }.
func (h *Handler) completeCycle(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body completeCycleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if !body.Confirm {
		apiError(c, http.StatusBadRequest, "confirm must be true to complete the cycle")
		return
	}

	h.withCoach(c, func(co *coach.Coach) {
		rec, err := co.CompleteCycle(c)
		persisted, err := persistResult("completeCycle", userID, err)
		if err != nil {
			coachError(c, err)
			return
		}
		c.JSON(http.StatusOK, cycleCompletedResponse{
			Cycle: rec,
			State: newStateResponse(co.State(), persisted),
		})
	})
}

// getCycles returns the archive of completed cycles, oldest first.
// Returns an empty array (not null) when there are none.
// GET /api/coach/cycles.
func (h *Handler) getCycles(c *gin.Context) {
	userID := c.GetInt("user_id")
	h.withCoach(c, func(co *coach.Coach) {
		cycles, err := co.Cycles(c)
		if err != nil {
			log.Printf("[getCycles] user %d: %v", userID, err)
			apiError(c, http.StatusInternalServerError, "failed to fetch cycles")
			return
		}
		if cycles == nil {
			cycles = []coach.CycleRecord{}
		}
		c.JSON(http.StatusOK, cycles)
	})
}

// exportWorkbook downloads the user's coaching data as an xlsx workbook.
// GET /api/coach/export.
func (h *Handler) exportWorkbook(c *gin.Context) {
	userID := c.GetInt("user_id")
	h.withCoach(c, func(co *coach.Coach) {
		cycles, err := co.Cycles(c)
		if err != nil {
			log.Printf("[exportWorkbook] cycles for user %d: %v", userID, err)
			apiError(c, http.StatusInternalServerError, "failed to fetch cycles")
			return
		}
		var buf bytes.Buffer
		if err := export.Write(&buf, co.State(), cycles); err != nil {
			log.Printf("[exportWorkbook] user %d: %v", userID, err)
			apiError(c, http.StatusInternalServerError, "failed to build workbook")
			return
		}
		filename := fmt.Sprintf("macrocoach-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, export.ContentType, buf.Bytes())
	})
}
