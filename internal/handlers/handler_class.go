package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/class_credits_crm/internal/core/ports/services"
	"github.com/SscSPs/class_credits_crm/internal/dto"
	"github.com/SscSPs/class_credits_crm/internal/middleware"
)

// classHandler handles class sessions, rosters and attendance.
type classHandler struct {
	attendanceService portssvc.AttendanceSvcFacade
}

func newClassHandler(as portssvc.AttendanceSvcFacade) *classHandler {
	return &classHandler{attendanceService: as}
}

func registerClassRoutes(rg *gin.RouterGroup, attendanceService portssvc.AttendanceSvcFacade) {
	h := newClassHandler(attendanceService)

	classes := rg.Group("/classes")
	{
		classes.POST("", h.createClass)
		classes.GET("", h.listClasses)
		classes.GET("/:classID", h.getClass)
		classes.DELETE("/:classID", h.deleteClass)

		regs := classes.Group("/:classID/registrations")
		regs.POST("", h.registerChild)
		regs.DELETE("/:clientID/:childID", h.deleteRegistration)
		regs.POST("/:clientID/:childID/attendance", h.markAttended)
		regs.DELETE("/:clientID/:childID/attendance", h.cancelAttendance)
	}
}

// createClass godoc
// @Summary Schedule a class session
// @Tags classes
// @Accept  json
// @Produce  json
// @Param   class body dto.CreateClassSessionRequest true "Date (YYYY-MM-DD) and time (HH:MM)"
// @Success 201 {object} dto.ClassSessionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Security BearerAuth
// @Router /classes [post]
func (h *classHandler) createClass(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateClassSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "request format", err)
		return
	}
	actorID, ok := operatorID(c, logger)
	if !ok {
		return
	}

	session, err := h.attendanceService.CreateClassSession(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to create class session")
		return
	}
	c.JSON(http.StatusCreated, dto.ToClassSessionResponse(session))
}

// listClasses godoc
// @Summary List the class sessions of a day
// @Tags classes
// @Produce  json
// @Param   date query string true "Day (YYYY-MM-DD)"
// @Success 200 {array} dto.ClassSessionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Security BearerAuth
// @Router /classes [get]
func (h *classHandler) listClasses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListClassSessionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "query parameters", err)
		return
	}

	sessions, err := h.attendanceService.ListClassSessionsByDate(c.Request.Context(), params.Date)
	if err != nil {
		respondError(c, logger, err, "Failed to list class sessions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListClassSessionResponse(sessions))
}

// getClass godoc
// @Summary Get a class session with its roster
// @Tags classes
// @Produce  json
// @Param   classID path string true "Class session ID"
// @Success 200 {object} dto.ClassSessionResponse
// @Failure 404 {object} dto.ErrorResponse "Class session not found"
// @Security BearerAuth
// @Router /classes/{classID} [get]
func (h *classHandler) getClass(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("class_session_id", c.Param("classID")))
	session, err := h.attendanceService.GetClassSession(c.Request.Context(), c.Param("classID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve class session")
		return
	}
	c.JSON(http.StatusOK, dto.ToClassSessionResponse(session))
}

// deleteClass godoc
// @Summary Delete a class session
// @Description Removes the session and its roster. Attended registrations are not refunded.
// @Tags classes
// @Param   classID path string true "Class session ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Class session not found"
// @Security BearerAuth
// @Router /classes/{classID} [delete]
func (h *classHandler) deleteClass(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("class_session_id", c.Param("classID")))
	actorID, ok := operatorID(c, logger)
	if !ok {
		return
	}
	if err := h.attendanceService.DeleteClassSession(c.Request.Context(), c.Param("classID"), actorID); err != nil {
		respondError(c, logger, err, "Failed to delete class session")
		return
	}
	c.Status(http.StatusNoContent)
}

// registerChild godoc
// @Summary Register a child into a class
// @Tags attendance
// @Accept  json
// @Produce  json
// @Param   classID path string true "Class session ID"
// @Param   registration body dto.RegisterChildRequest true "Client and child"
// @Success 201 {object} dto.ClassSessionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Class session or client not found"
// @Failure 409 {object} dto.ErrorResponse "Child already registered"
// @Security BearerAuth
// @Router /classes/{classID}/registrations [post]
func (h *classHandler) registerChild(c *gin.Context) {
	classID := c.Param("classID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("class_session_id", classID))
	var req dto.RegisterChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "request format", err)
		return
	}
	actorID, ok := operatorID(c, logger)
	if !ok {
		return
	}

	session, err := h.attendanceService.RegisterChild(c.Request.Context(), classID, req, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to register child")
		return
	}
	c.JSON(http.StatusCreated, dto.ToClassSessionResponse(session))
}

// deleteRegistration godoc
// @Summary Remove a child from a class
// @Description Drops the registration. An attended registration is not refunded.
// @Tags attendance
// @Produce  json
// @Param   classID path string true "Class session ID"
// @Param   clientID path string true "Client ID"
// @Param   childID path string true "Child ID"
// @Success 200 {object} dto.ClassSessionResponse
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Security BearerAuth
// @Router /classes/{classID}/registrations/{clientID}/{childID} [delete]
func (h *classHandler) deleteRegistration(c *gin.Context) {
	logger := registrationLogger(c)
	actorID, ok := operatorID(c, logger)
	if !ok {
		return
	}

	session, err := h.attendanceService.DeleteRegistration(c.Request.Context(), c.Param("classID"), c.Param("clientID"), c.Param("childID"), actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to delete registration")
		return
	}
	c.JSON(http.StatusOK, dto.ToClassSessionResponse(session))
}

// markAttended godoc
// @Summary Mark a child as attended
// @Description Debits one credit unless another child of the same client already attended this class. Marking twice is a no-op.
// @Tags attendance
// @Produce  json
// @Param   classID path string true "Class session ID"
// @Param   clientID path string true "Client ID"
// @Param   childID path string true "Child ID"
// @Success 200 {object} dto.AttendanceResponse
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent update, retry"
// @Failure 422 {object} dto.ErrorResponse "Insufficient credits"
// @Security BearerAuth
// @Router /classes/{classID}/registrations/{clientID}/{childID}/attendance [post]
func (h *classHandler) markAttended(c *gin.Context) {
	logger := registrationLogger(c)
	actorID, ok := operatorID(c, logger)
	if !ok {
		return
	}

	result, err := h.attendanceService.MarkAttended(c.Request.Context(), c.Param("classID"), c.Param("clientID"), c.Param("childID"), actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to mark attendance")
		return
	}
	c.JSON(http.StatusOK, dto.ToAttendanceResponse(result))
}

// cancelAttendance godoc
// @Summary Cancel a child's attendance
// @Description Moves the registration back to REGISTERED and refunds the credit once no child of the client remains attended.
// @Tags attendance
// @Produce  json
// @Param   classID path string true "Class session ID"
// @Param   clientID path string true "Client ID"
// @Param   childID path string true "Child ID"
// @Success 200 {object} dto.AttendanceResponse
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Failure 422 {object} dto.ErrorResponse "Cancellation window closed"
// @Security BearerAuth
// @Router /classes/{classID}/registrations/{clientID}/{childID}/attendance [delete]
func (h *classHandler) cancelAttendance(c *gin.Context) {
	logger := registrationLogger(c)
	actorID, ok := operatorID(c, logger)
	if !ok {
		return
	}

	result, err := h.attendanceService.CancelAttendance(c.Request.Context(), c.Param("classID"), c.Param("clientID"), c.Param("childID"), actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to cancel attendance")
		return
	}
	c.JSON(http.StatusOK, dto.ToAttendanceResponse(result))
}

func registrationLogger(c *gin.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("class_session_id", c.Param("classID")),
		slog.String("client_id", c.Param("clientID")),
		slog.String("child_id", c.Param("childID")),
	)
}
