package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/comitanigiacomo/kanso-habits/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
	"github.com/gin-gonic/gin"
)

type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler {
	return &HabitHandler{
		svc: svc,
	}
}

type createHabitRequest struct {
	Name     string      `json:"name"`
	Goal     json.Number `json:"goal"`
	Category string      `json:"category"`
	UserID   json.Number `json:"user_id"`
}

type updateHabitRequest struct {
	Goal json.Number `json:"goal"`
}

func (h *HabitHandler) RegisterRoutes(router gin.IRouter) {
	habits := router.Group("/habits")
	{
		habits.GET("", h.List)
		habits.POST("", h.Create)
		habits.PUT("/:id", h.UpdateGoal)
		habits.DELETE("/:id", h.Delete)
		habits.POST("/:id/remind", h.Remind)
	}
}

// List godoc
// @Summary      List habits with progress
// @Tags         habits
// @Produce      json
// @Param        user_id  query     int  true  "user id"
// @Success      200      {array}   domain.HabitStat
// @Failure      400      {object}  map[string]string
// @Router       /habits [get]
func (h *HabitHandler) List(c *gin.Context) {
	userID, ok := queryUserID(c)
	if !ok {
		return
	}

	stats, err := h.svc.ListStats(c.Request.Context(), userID)
	if err != nil {
		internalError(c, err)
		return
	}
	if stats == nil {
		stats = []domain.HabitStat{}
	}

	c.JSON(http.StatusOK, stats)
}

// Create godoc
// @Summary      Create a habit
// @Tags         habits
// @Accept       json
// @Produce      json
// @Param        body  body      createHabitRequest  true  "habit"
// @Success      201   {object}  domain.HabitStat
// @Failure      400   {object}  map[string]string
// @Router       /habits [post]
func (h *HabitHandler) Create(c *gin.Context) {
	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Name == "" || req.Goal == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	rawUserID := string(req.UserID)
	if rawUserID == "" {
		actor, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
			return
		}
		rawUserID = strconv.FormatInt(actor, 10)
	}
	userID, ok := ownedUserID(c, rawUserID)
	if !ok {
		return
	}

	goal, err := strconv.Atoi(string(req.Goal))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidGoal.Error()})
		return
	}

	stat, err := h.svc.Create(c.Request.Context(), services.CreateHabitInput{
		UserID:   userID,
		Name:     req.Name,
		Goal:     goal,
		Category: req.Category,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHabitNameEmpty),
			errors.Is(err, domain.ErrHabitNameTooLong),
			errors.Is(err, domain.ErrInvalidGoal),
			errors.Is(err, domain.ErrInvalidCategory),
			errors.Is(err, domain.ErrHabitInvalidUserID):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, stat)
}

// UpdateGoal godoc
// @Summary      Change a habit's goal
// @Tags         habits
// @Accept       json
// @Produce      json
// @Param        id    path      int                 true  "habit id"
// @Param        body  body      updateHabitRequest  true  "new goal"
// @Success      200   {object}  domain.HabitStat
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /habits/{id} [put]
func (h *HabitHandler) UpdateGoal(c *gin.Context) {
	id, ok := habitIDParam(c)
	if !ok {
		return
	}

	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Goal == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Goal required"})
		return
	}
	goal, err := strconv.Atoi(string(req.Goal))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidGoal.Error()})
		return
	}

	stat, err := h.svc.UpdateGoal(c.Request.Context(), services.UpdateGoalInput{
		ID:      id,
		ActorID: middleware.ActorID(c),
		Goal:    goal,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHabitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Habit not found"})
		case errors.Is(err, domain.ErrInvalidGoal):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, stat)
}

// Delete godoc
// @Summary      Delete a habit and its completions
// @Tags         habits
// @Produce      json
// @Param        id  path      int  true  "habit id"
// @Success      200 {object}  map[string]string
// @Failure      404 {object}  map[string]string
// @Router       /habits/{id} [delete]
func (h *HabitHandler) Delete(c *gin.Context) {
	id, ok := habitIDParam(c)
	if !ok {
		return
	}

	err := h.svc.Delete(c.Request.Context(), id, middleware.ActorID(c))
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Habit not found"})
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Habit deleted"})
}

// Remind godoc
// @Summary      Queue a reminder for a habit
// @Tags         habits
// @Produce      json
// @Param        id  path      int  true  "habit id"
// @Success      202 {object}  map[string]string
// @Failure      404 {object}  map[string]string
// @Failure      503 {object}  map[string]string
// @Router       /habits/{id}/remind [post]
func (h *HabitHandler) Remind(c *gin.Context) {
	id, ok := habitIDParam(c)
	if !ok {
		return
	}

	err := h.svc.Remind(c.Request.Context(), id, middleware.ActorID(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHabitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Habit not found"})
		case errors.Is(err, services.ErrRemindersUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Reminder queued"})
}
