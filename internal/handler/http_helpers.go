package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/waterbuddy/internal/db"
)

const dateLayout = "2006-01-02"

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		respondError(c, http.StatusBadRequest, "请求体无效")
		return false
	}
	return true
}

// parseDateParam 解析路径中的 YYYY-MM-DD，缺省回退到当天。
func parseDateParam(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Param(name)
	if raw == "" {
		return time.Now(), true
	}
	day, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		respondError(c, http.StatusBadRequest, "日期格式必须为 YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}

func parseDateQuery(c *gin.Context, name string, fallback time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	day, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		respondError(c, http.StatusBadRequest, "日期格式必须为 YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}

func entryPayload(entry *db.WaterEntry) gin.H {
	displayAmount := entry.Amount
	if entry.Unit == db.UnitOunces {
		displayAmount = db.Convert(entry.Amount, db.UnitMilliliters, db.UnitOunces)
	}
	return gin.H{
		"id":             entry.ID,
		"amount_ml":      entry.Amount,
		"display_amount": displayAmount,
		"unit":           entry.Unit,
		"container_type": entry.ContainerType,
		"timestamp":      entry.Timestamp.Format(time.RFC3339),
	}
}

func entriesPayload(entries []db.WaterEntry) []gin.H {
	out := make([]gin.H, 0, len(entries))
	for i := range entries {
		out = append(out, entryPayload(&entries[i]))
	}
	return out
}
