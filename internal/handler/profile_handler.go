package handler

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"
	"net/http"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/gin-gonic/gin"
	"github.com/waterbuddy/internal/db"
	"github.com/waterbuddy/internal/locale"
	"github.com/waterbuddy/internal/service"
	"golang.org/x/image/draw"
)

// maxAvatarEdge 头像长边上限，超出时等比缩放。
const maxAvatarEdge = 512

// maxUploadBytes 上传原图的读取上限，处理后再受 MaxProfileImageBytes 约束。
const maxUploadBytes = 8 << 20

type updateGoalRequest struct {
	Goal float64 `json:"goal" binding:"required"`
	Unit string  `json:"unit"`
}

type updateUnitRequest struct {
	Unit string `json:"unit" binding:"required"`
}

type updateNameRequest struct {
	Name string `json:"name"`
}

type updateLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

type updateRemindersRequest struct {
	Enabled         bool   `json:"enabled"`
	Mode            string `json:"mode"`
	IntervalSeconds int    `json:"interval_seconds"`
	Time            string `json:"time"`
	WindowStart     string `json:"window_start"`
	WindowEnd       string `json:"window_end"`
}

func profilePayload(profile *db.Profile) gin.H {
	return gin.H{
		"name":                  profile.Name,
		"daily_goal_ml":         profile.DailyGoal,
		"daily_goal_display":    profile.DailyGoalInUnit(profile.PreferredUnit),
		"preferred_unit":        profile.PreferredUnit,
		"streak_count":          profile.StreakCount,
		"language":              profile.Language,
		"reminder_enabled":      profile.ReminderEnabled,
		"reminder_mode":         profile.ReminderMode,
		"reminder_interval":     profile.ReminderInterval,
		"reminder_time":         profile.ReminderTime.String(),
		"reminder_window_start": profile.ReminderWindowStart.String(),
		"reminder_window_end":   profile.ReminderWindowEnd.String(),
		"has_profile_image":     len(profile.ProfileImage) > 0,
		"created_date":          profile.CreatedDate,
		"last_active_date":      profile.LastActiveDate,
	}
}

// GetProfile 返回当前档案。
func (a *API) GetProfile(c *gin.Context) {
	profile, err := a.profiles.Get()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "读取档案失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profilePayload(profile)})
}

// UpdateDailyGoal 更新每日目标，接受 ml 或 oz 输入并统一为毫升。
func (a *API) UpdateDailyGoal(c *gin.Context) {
	var req updateGoalRequest
	if !bindJSON(c, &req) {
		return
	}
	goal := req.Goal
	if unit := db.WaterUnit(req.Unit); unit == db.UnitOunces {
		goal = db.Convert(goal, db.UnitOunces, db.UnitMilliliters)
	}
	profile, err := a.profiles.UpdateDailyGoal(goal)
	if err != nil {
		if errors.Is(err, service.ErrInvalidGoal) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "更新目标失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profilePayload(profile)})
}

// UpdatePreferredUnit 更新展示单位。
func (a *API) UpdatePreferredUnit(c *gin.Context) {
	var req updateUnitRequest
	if !bindJSON(c, &req) {
		return
	}
	profile, err := a.profiles.UpdatePreferredUnit(db.WaterUnit(req.Unit))
	if err != nil {
		if errors.Is(err, service.ErrInvalidUnit) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "更新单位失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profilePayload(profile)})
}

// UpdateName 更新用户名。
func (a *API) UpdateName(c *gin.Context) {
	var req updateNameRequest
	if !bindJSON(c, &req) {
		return
	}
	profile, err := a.profiles.UpdateName(req.Name)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "更新用户名失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profilePayload(profile)})
}

// UpdateLanguage 更新语言偏好，支持 Accept-Language 兜底。
func (a *API) UpdateLanguage(c *gin.Context) {
	var req updateLanguageRequest
	if !bindJSON(c, &req) {
		return
	}
	language := req.Language
	if locale.NormalizeLanguage(language) == "" {
		language = locale.LanguageFromAcceptLanguage(c.GetHeader("Accept-Language"))
	}
	profile, err := a.profiles.UpdateLanguage(language)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedLanguage) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "更新语言失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profilePayload(profile)})
}

// UpdateReminderSettings 更新提醒配置并立即重排提醒计划。
func (a *API) UpdateReminderSettings(c *gin.Context) {
	var req updateRemindersRequest
	if !bindJSON(c, &req) {
		return
	}

	input := service.ReminderSettingsInput{
		Enabled:         req.Enabled,
		Mode:            req.Mode,
		IntervalSeconds: req.IntervalSeconds,
	}
	var err error
	if input.Time, err = parseOptionalTimeOfDay(req.Time, db.TimeOfDay{Hour: 9}); err != nil {
		respondError(c, http.StatusBadRequest, "提醒时刻格式必须为 HH:MM")
		return
	}
	if input.WindowStart, err = parseOptionalTimeOfDay(req.WindowStart, db.TimeOfDay{Hour: 8}); err != nil {
		respondError(c, http.StatusBadRequest, "时间窗格式必须为 HH:MM")
		return
	}
	if input.WindowEnd, err = parseOptionalTimeOfDay(req.WindowEnd, db.TimeOfDay{Hour: 22}); err != nil {
		respondError(c, http.StatusBadRequest, "时间窗格式必须为 HH:MM")
		return
	}

	profile, err := a.profiles.UpdateReminderSettings(input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidReminderInterval),
			errors.Is(err, service.ErrInvalidTimeRange):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	if err := a.reminders.Apply(profile); err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondError(c, http.StatusForbidden, "提醒权限被拒绝")
			return
		}
		respondError(c, http.StatusInternalServerError, "更新提醒计划失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profilePayload(profile)})
}

func parseOptionalTimeOfDay(raw string, fallback db.TimeOfDay) (db.TimeOfDay, error) {
	if raw == "" {
		return fallback, nil
	}
	return db.ParseTimeOfDay(raw)
}

// UploadProfileImage 接收 multipart 头像，解码后等比缩放并统一存为 PNG。
func (a *API) UploadProfileImage(c *gin.Context) {
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "缺少 image 文件字段")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		respondError(c, http.StatusBadRequest, "读取上传内容失败")
		return
	}
	if len(raw) > maxUploadBytes {
		respondError(c, http.StatusBadRequest, "图片超出大小上限")
		return
	}

	processed, err := normalizeAvatar(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "无法识别的图片格式")
		return
	}

	profile, err := a.profiles.UpdateProfileImage(processed)
	if err != nil {
		if errors.Is(err, service.ErrImageTooLarge) {
			respondError(c, http.StatusBadRequest, "图片超出大小上限")
			return
		}
		respondError(c, http.StatusInternalServerError, "保存头像失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profilePayload(profile)})
}

// GetProfileImage 返回已存储的头像 PNG。
func (a *API) GetProfileImage(c *gin.Context) {
	profile, err := a.profiles.Get()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "读取档案失败")
		return
	}
	if len(profile.ProfileImage) == 0 {
		respondError(c, http.StatusNotFound, "尚未设置头像")
		return
	}
	c.Data(http.StatusOK, "image/png", profile.ProfileImage)
}

// DeleteProfileImage 清除头像。
func (a *API) DeleteProfileImage(c *gin.Context) {
	profile, err := a.profiles.UpdateProfileImage(nil)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "清除头像失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profilePayload(profile)})
}

// normalizeAvatar 解码任意受支持格式的图片，长边超过 maxAvatarEdge
// 时用 Catmull-Rom 缩放，最终统一编码为 PNG。
func normalizeAvatar(raw []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > maxAvatarEdge || height > maxAvatarEdge {
		scale := float64(maxAvatarEdge) / float64(width)
		if height > width {
			scale = float64(maxAvatarEdge) / float64(height)
		}
		dst := image.NewRGBA(image.Rect(0, 0, int(float64(width)*scale), int(float64(height)*scale)))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
