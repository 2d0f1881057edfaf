package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/waterbuddy/internal/db"
	"github.com/waterbuddy/internal/service"
	"github.com/waterbuddy/internal/store"
)

type addWaterRequest struct {
	Amount    float64 `json:"amount" binding:"required"`
	Unit      string  `json:"unit"`
	Container string  `json:"container"`
	Timestamp string  `json:"timestamp"`
}

type updateEntryRequest struct {
	Amount    float64 `json:"amount" binding:"required"`
	Unit      string  `json:"unit"`
	Container string  `json:"container"`
	Timestamp string  `json:"timestamp"`
}

// AddWater 记录一次饮水，返回当日进度与连击信息。
func (a *API) AddWater(c *gin.Context) {
	var req addWaterRequest
	if !bindJSON(c, &req) {
		return
	}

	input := service.AddWaterInput{
		Amount:    req.Amount,
		Unit:      db.WaterUnit(req.Unit),
		Container: db.ContainerType(req.Container),
	}
	if req.Timestamp != "" {
		at, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			respondError(c, http.StatusBadRequest, "时间戳格式必须为 RFC3339")
			return
		}
		input.At = at
	}

	result, err := a.water.AddWater(input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount),
			errors.Is(err, service.ErrInvalidUnit),
			errors.Is(err, service.ErrInvalidContainer):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "记录饮水失败")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"entry":          entryPayload(&result.Entry),
		"intake_before":  result.IntakeBefore,
		"intake_after":   result.IntakeAfter,
		"goal_completed": result.GoalCompleted,
		"streak_count":   result.StreakCount,
	})
}

// QuickAddPresets 返回当前单位下的快捷加水档位。
func (a *API) QuickAddPresets(c *gin.Context) {
	unit := db.WaterUnit(c.Query("unit"))
	if unit == "" {
		profile, err := a.profiles.Get()
		if err != nil {
			respondError(c, http.StatusInternalServerError, "读取档案失败")
			return
		}
		unit = profile.PreferredUnit
	}
	if unit != db.UnitMilliliters && unit != db.UnitOunces {
		respondError(c, http.StatusBadRequest, "不支持的单位")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"unit":            unit,
		"amounts_ml":      db.QuickAddAmounts(unit),
		"display_amounts": db.QuickAddDisplayAmounts(unit),
	})
}

// ListEntriesForDay 返回某天的全部饮水记录，新到旧排序。
func (a *API) ListEntriesForDay(c *gin.Context) {
	day, ok := parseDateParam(c, "date")
	if !ok {
		return
	}
	entries, err := a.entries.ListForDay(day)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "读取记录失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":    day.Format(dateLayout),
		"entries": entriesPayload(entries),
	})
}

// ListEntries 按区间列出记录，缺省返回最近 7 天。
func (a *API) ListEntries(c *gin.Context) {
	now := time.Now()
	start, ok := parseDateQuery(c, "start", now.AddDate(0, 0, -6))
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end", now)
	if !ok {
		return
	}
	if start.After(end) {
		respondError(c, http.StatusBadRequest, "起始日期不能晚于结束日期")
		return
	}
	entries, err := a.entries.ListForRange(start, end)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "读取记录失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"start":   start.Format(dateLayout),
		"end":     end.Format(dateLayout),
		"entries": entriesPayload(entries),
	})
}

// ExportEntries 导出全部历史记录。
func (a *API) ExportEntries(c *gin.Context) {
	entries, err := a.entries.ListAll()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "导出记录失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"exported_at": time.Now().Format(time.RFC3339),
		"count":       len(entries),
		"entries":     entriesPayload(entries),
	})
}

// UpdateEntry 修改单条记录的用量、容器或时间。
func (a *API) UpdateEntry(c *gin.Context) {
	id := c.Param("id")
	var req updateEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := a.entries.Get(id)
	if err != nil {
		respondError(c, http.StatusNotFound, "记录不存在")
		return
	}

	unit := db.WaterUnit(req.Unit)
	if unit == "" {
		unit = entry.Unit
	}
	entry.Amount = db.Convert(req.Amount, unit, db.UnitMilliliters)
	entry.Unit = unit
	if req.Container != "" {
		entry.ContainerType = db.ContainerType(req.Container)
	}
	if req.Timestamp != "" {
		at, parseErr := time.Parse(time.RFC3339, req.Timestamp)
		if parseErr != nil {
			respondError(c, http.StatusBadRequest, "时间戳格式必须为 RFC3339")
			return
		}
		entry.Timestamp = at
	}

	if err := a.water.UpdateEntry(*entry); err != nil {
		switch {
		case errors.Is(err, store.ErrEntryNotFound):
			respondError(c, http.StatusNotFound, "记录不存在")
		case errors.Is(err, service.ErrInvalidAmount),
			errors.Is(err, service.ErrInvalidUnit),
			errors.Is(err, service.ErrInvalidContainer):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "更新记录失败")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entryPayload(entry)})
}

// DeleteEntry 删除记录；若当日总量跌破目标会允许再次庆祝。
func (a *API) DeleteEntry(c *gin.Context) {
	id := c.Param("id")
	if err := a.water.DeleteEntry(id, time.Now()); err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			respondError(c, http.StatusNotFound, "记录不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "删除记录失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

// ResetAll 清空全部记录并重置档案，数据危险操作。
func (a *API) ResetAll(c *gin.Context) {
	if err := a.water.Clear(); err != nil {
		respondError(c, http.StatusInternalServerError, "清空记录失败")
		return
	}
	if _, err := a.profiles.Reset(); err != nil {
		respondError(c, http.StatusInternalServerError, "重置档案失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已恢复初始状态"})
}
