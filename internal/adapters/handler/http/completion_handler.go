package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/comitanigiacomo/kanso-habits/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
	"github.com/gin-gonic/gin"
)

type CompletionHandler struct {
	svc *services.CompletionService
}

func NewCompletionHandler(svc *services.CompletionService) *CompletionHandler {
	return &CompletionHandler{svc: svc}
}

func (h *CompletionHandler) RegisterRoutes(router gin.IRouter) {
	habits := router.Group("/habits")
	{
		habits.POST("/:id/complete", h.Complete)
		habits.GET("/history", h.History)
		habits.GET("/missed/today", h.MissedToday)
		habits.GET("/missed/previous", h.MissedPrevious)
	}
}

// Complete godoc
// @Summary      Mark a habit complete today
// @Tags         completions
// @Produce      json
// @Param        id  path      int  true  "habit id"
// @Success      200 {object}  map[string]string
// @Failure      404 {object}  map[string]string
// @Failure      409 {object}  map[string]string
// @Router       /habits/{id}/complete [post]
func (h *CompletionHandler) Complete(c *gin.Context) {
	id, ok := habitIDParam(c)
	if !ok {
		return
	}

	completion, err := h.svc.Complete(c.Request.Context(), id, middleware.ActorID(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHabitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Habit not found"})
		case errors.Is(err, domain.ErrAlreadyCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "Already marked complete today"})
		default:
			internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Marked complete",
		"habit_id": completion.HabitID,
		"date":     completion.Date,
	})
}

// History godoc
// @Summary      Completions in a date range
// @Tags         completions
// @Produce      json
// @Param        user_id  query     int     true  "user id"
// @Param        start    query     string  true  "YYYY-MM-DD"
// @Param        end      query     string  true  "YYYY-MM-DD"
// @Success      200      {array}   domain.HistoryEntry
// @Failure      400      {object}  map[string]string
// @Router       /habits/history [get]
func (h *CompletionHandler) History(c *gin.Context) {
	userID, ok := queryUserID(c)
	if !ok {
		return
	}
	start, ok := queryDate(c, "start")
	if !ok {
		return
	}
	end, ok := queryDate(c, "end")
	if !ok {
		return
	}

	entries, err := h.svc.History(c.Request.Context(), services.HistoryInput{
		UserID: userID,
		Start:  start,
		End:    end,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidDate):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, entries)
}

// MissedToday godoc
// @Summary      Habits not yet completed today
// @Tags         completions
// @Produce      json
// @Param        user_id  query     int  true  "user id"
// @Success      200      {array}   domain.MissedEntry
// @Failure      400      {object}  map[string]string
// @Router       /habits/missed/today [get]
func (h *CompletionHandler) MissedToday(c *gin.Context) {
	h.missed(c, h.svc.MissedToday)
}

// MissedPrevious godoc
// @Summary      Days before today on which habits were missed
// @Tags         completions
// @Produce      json
// @Param        user_id  query     int  true  "user id"
// @Success      200      {array}   domain.MissedEntry
// @Failure      400      {object}  map[string]string
// @Router       /habits/missed/previous [get]
func (h *CompletionHandler) MissedPrevious(c *gin.Context) {
	h.missed(c, h.svc.MissedPrevious)
}

func (h *CompletionHandler) missed(c *gin.Context, load func(ctx context.Context, userID int64) ([]domain.MissedEntry, error)) {
	userID, ok := queryUserID(c)
	if !ok {
		return
	}

	entries, err := load(c.Request.Context(), userID)
	if err != nil {
		internalError(c, err)
		return
	}
	if entries == nil {
		entries = []domain.MissedEntry{}
	}

	c.JSON(http.StatusOK, entries)
}
