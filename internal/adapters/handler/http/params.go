package http

import (
	"net/http"
	"strconv"

	"github.com/comitanigiacomo/kanso-habits/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// queryUserID reads the user_id query parameter and checks it against the
// bearer token, if any. It writes the error response itself.
func queryUserID(c *gin.Context) (int64, bool) {
	raw := c.Query("user_id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user_id"})
		return 0, false
	}
	return ownedUserID(c, raw)
}

func ownedUserID(c *gin.Context, raw string) (int64, bool) {
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return 0, false
	}
	if !middleware.CheckOwner(c, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return 0, false
	}
	return userID, true
}

func habitIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Habit not found"})
		return 0, false
	}
	return id, true
}

func queryDate(c *gin.Context, name string) (domain.Date, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing parameters"})
		return domain.Date{}, false
	}
	day, err := domain.ParseDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " date, expected YYYY-MM-DD"})
		return domain.Date{}, false
	}
	return day, true
}

func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
