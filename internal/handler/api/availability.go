package api

import (
	"net/http"

	reqdto "booking-engine/internal/handler/dto/request"
	resdto "booking-engine/internal/handler/dto/response"
	"booking-engine/internal/handler/httperr"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	q    queries.AvailabilityQueries
	cmds commands.AvailabilityCommands
}

func NewAvailabilityHandler(q queries.AvailabilityQueries, cmds commands.AvailabilityCommands) *AvailabilityHandler {
	return &AvailabilityHandler{q: q, cmds: cmds}
}

// @Summary Get availability
// @Description Unavailable date ranges for a property, merged from bookings, owner entries and the external calendar
// @Tags availability
// @Produce json
// @Param id path string true "Property ID"
// @Param from query string false "First day (YYYY-MM-DD), defaults to today"
// @Param to query string false "Day after the last (YYYY-MM-DD), defaults to 18 months ahead"
// @Success 200 {object} queries.AvailabilityView
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /properties/{id}/availability [get]
func (h *AvailabilityHandler) Get(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid property id", nil)
		return
	}
	var q reqdto.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	from, to, err := q.Window()
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	view, err := h.q.GetAvailability(c.Request.Context(), propertyID, from, to)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Create availability entry
// @Description Owner blackout or hold. Booked entries are managed by the booking lifecycle.
// @Tags availability
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Property ID"
// @Param request body reqdto.CreateEntryRequest true "Entry"
// @Success 201 {object} resdto.EntryResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /properties/{id}/availability [post]
func (h *AvailabilityHandler) CreateEntry(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid property id", nil)
		return
	}
	var req reqdto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	entry, err := h.cmds.CreateEntry(c.Request.Context(), propertyID, in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromEntry(entry))
}

// @Summary Delete availability entry
// @Tags availability
// @Security BearerAuth
// @Param id path string true "Property ID"
// @Param entryId path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /properties/{id}/availability/{entryId} [delete]
func (h *AvailabilityHandler) DeleteEntry(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid property id", nil)
		return
	}
	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid entry id", nil)
		return
	}

	if err := h.cmds.DeleteEntry(c.Request.Context(), propertyID, entryID); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
