package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/waterbuddy/internal/service"
)

type snoozeRequest struct {
	DelaySeconds int `json:"delay_seconds"`
}

// ApplyReminders 按当前档案重排提醒计划。
func (a *API) ApplyReminders(c *gin.Context) {
	profile, err := a.profiles.Get()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "读取档案失败")
		return
	}
	if err := a.reminders.Apply(profile); err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			respondError(c, http.StatusForbidden, "提醒权限被拒绝")
		case errors.Is(err, service.ErrInvalidReminderInterval):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "更新提醒计划失败")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "提醒计划已更新"})
}

// SnoozeReminder 推迟下一次提醒，默认 10 分钟。
func (a *API) SnoozeReminder(c *gin.Context) {
	var req snoozeRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	delay := 10 * time.Minute
	if req.DelaySeconds > 0 {
		delay = time.Duration(req.DelaySeconds) * time.Second
	}
	if err := a.reminders.Snooze(delay); err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondError(c, http.StatusForbidden, "提醒权限被拒绝")
			return
		}
		respondError(c, http.StatusInternalServerError, "推迟提醒失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已推迟提醒", "delay_seconds": int(delay / time.Second)})
}
