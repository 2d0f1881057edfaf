package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/waterbuddy/internal/db"
	"golang.org/x/crypto/bcrypt"
)

const sessionUnlockedKey = "unlocked"

type unlockRequest struct {
	Password string `json:"password" binding:"required"`
}

// Unlock 校验访问密码并标记会话为已解锁。
func (a *API) Unlock(c *gin.Context) {
	var req unlockRequest
	if !bindJSON(c, &req) {
		return
	}

	hash, err := db.AccessPasswordHash(a.db)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "读取访问密码失败")
		return
	}
	if hash == "" {
		c.JSON(http.StatusOK, gin.H{"message": "未设置访问密码"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "访问密码错误")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUnlockedKey, true)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "解锁成功"})
}

// Lock 清除会话，恢复锁定状态。
func (a *API) Lock(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"message": "已锁定"})
}

// AuthRequired 在配置了访问密码时要求会话已解锁，未配置则直接放行。
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		hash, err := db.AccessPasswordHash(a.db)
		if err != nil || hash == "" {
			c.Next()
			return
		}
		session := sessions.Default(c)
		if unlocked, ok := session.Get(sessionUnlockedKey).(bool); !ok || !unlocked {
			respondError(c, http.StatusUnauthorized, "需要先解锁")
			c.Abort()
			return
		}
		c.Next()
	}
}
