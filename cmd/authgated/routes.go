package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/panelkit/authgate"
	"github.com/panelkit/authgate/captcha"
	"github.com/panelkit/authgate/middleware"
	"github.com/panelkit/authgate/userstore"
)

type loginRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	CaptchaKey  string `json:"captcha_key"`
	CaptchaCode string `json:"captcha_code"`
}

func newRouter(gateway *authgate.Gateway, users *userstore.Store, challenges *captcha.Service, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	guest := router.Group("/api/v1/guest")
	guest.GET("/captcha", func(c *gin.Context) {
		if challenges == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "captcha disabled"})
			return
		}
		scope := uuid.NewString()
		code, err := challenges.Generate(c.Request.Context(), scope)
		if err != nil {
			logger.Error("captcha generation failed", "err", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "captcha unavailable"})
			return
		}
		// The code goes back raw; rendering it as an image is the frontend's job.
		c.JSON(http.StatusOK, gin.H{"key": scope, "code": code})
	})

	passport := router.Group("/api/v1/passport")
	passport.POST("/auth/login", func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if challenges != nil {
			ok, err := challenges.Verify(c.Request.Context(), req.CaptchaKey, req.CaptchaCode)
			if err != nil {
				logger.Error("captcha verification failed", "err", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "captcha unavailable"})
				return
			}
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "captcha mismatch"})
				return
			}
		}

		account, err := users.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, userstore.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			logger.Error("login lookup failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		data, err := gateway.Issue(c.Request.Context(), *account, authgate.RequestMetaFromHTTP(c.Request))
		if err != nil {
			logger.Error("issuance failed", "user_id", account.ID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": data})
	})

	user := router.Group("/api/v1/user")
	user.Use(middleware.GinRequireAuth(gateway))

	user.GET("/info", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": middleware.GinUser(c)})
	})

	user.GET("/session", func(c *gin.Context) {
		sessions, err := gateway.Sessions(c.Request.Context(), middleware.GinUser(c).ID)
		if err != nil {
			logger.Error("session list failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": sessions})
	})

	user.DELETE("/session/:id", func(c *gin.Context) {
		if err := gateway.Revoke(c.Request.Context(), middleware.GinUser(c).ID, c.Param("id")); err != nil {
			logger.Error("revoke failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": true})
	})

	user.DELETE("/session", func(c *gin.Context) {
		if err := gateway.RevokeAll(c.Request.Context(), middleware.GinUser(c).ID); err != nil {
			logger.Error("revoke all failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": true})
	})

	return router
}
