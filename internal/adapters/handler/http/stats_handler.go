package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/habits/performance", h.Performance)
}

// Performance godoc
// @Summary      Best and worst habit by consistency
// @Tags         stats
// @Produce      json
// @Param        user_id  query     int  true  "user id"
// @Success      200      {object}  domain.Performance
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /habits/performance [get]
func (h *StatsHandler) Performance(c *gin.Context) {
	userID, ok := queryUserID(c)
	if !ok {
		return
	}

	perf, err := h.svc.Performance(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNoHabits) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No habits found"})
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, perf)
}
