package main

import (
	"net/http"

	"lg/macrocoach-go-api/internal/coach"

	"github.com/gin-gonic/gin"
)

// getState returns the full coach state for the authenticated user.
// GET /api/coach/state.
func (h *Handler) getState(c *gin.Context) {
	h.withCoach(c, func(co *coach.Coach) {
		c.JSON(http.StatusOK, newStateResponse(co.State(), true))
	})
}

// patchProfile updates only the provided profile fields.
// PATCH /api/coach/profile. Uses pointer fields in the request body to
// distinguish "not provided" from zero. activity_level takes a name from
// coach.ActivityLevels; activity_factor must be one of their factors.
// Only allowed during setup (409 otherwise).
func (h *Handler) patchProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body coach.ProfilePatch
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Empty() {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	h.withCoach(c, func(co *coach.Coach) {
		_, err := co.PatchProfile(c, body)
		persisted, err := persistResult("patchProfile", userID, err)
		if err != nil {
			coachError(c, err)
			return
		}
		c.JSON(http.StatusOK, newStateResponse(co.State(), persisted))
	})
}
