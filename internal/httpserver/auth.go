package httpserver

import (
	"errors"
	"net/http"
	"time"

	"license-storefront/internal/backend"
	"license-storefront/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	accessTokenCookie     = "access_token"
	csrfTokenCookie       = "csrf_token"
	rememberedEmailCookie = "remembered_email"
	csrfHeader            = "X-CSRF-Token"
)

type loginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Remember bool   `form:"remember"`
}

type registerRequest struct {
	CustomerName string `json:"customer_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=7,max=40"`
	PhoneNumber  string `json:"phone_number"`
	Address      string `json:"address"`
}

func loginHandler(svc SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "username and password required"})
			return
		}

		sess, err := svc.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, domain.ErrBadCredentials) {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "incorrect email or password"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"detail": "login temporarily unavailable"})
			return
		}

		for _, ck := range sess.Cookies {
			http.SetCookie(c.Writer, ck)
		}
		// Remember-me keeps the email only; the password is never persisted.
		if req.Remember {
			c.SetCookie(rememberedEmailCookie, req.Username, int((30 * 24 * time.Hour).Seconds()), "/", "", false, false)
		} else {
			c.SetCookie(rememberedEmailCookie, "", -1, "/", "", false, false)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Login successful", "csrf_token": sess.CSRFToken})
	}
}

func logoutHandler(svc SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(accessTokenCookie)
		// Best effort upstream; local session state always goes away.
		_ = svc.Logout(c.Request.Context(), token)

		c.SetCookie(accessTokenCookie, "", -1, "/", "", false, true)
		c.SetCookie(csrfTokenCookie, "", -1, "/", "", false, false)

		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

func registerHandler(svc SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid registration payload"})
			return
		}

		err := svc.Register(c.Request.Context(), backend.RegisterInput{
			CustomerName: req.CustomerName,
			Email:        req.Email,
			Password:     req.Password,
			PhoneNumber:  req.PhoneNumber,
			Address:      req.Address,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrAlreadyExists):
				c.JSON(http.StatusBadRequest, gin.H{"detail": "this email is already registered"})
			case errors.Is(err, domain.ErrBadCredentials):
				c.JSON(http.StatusBadRequest, gin.H{"detail": "registration rejected"})
			default:
				c.JSON(http.StatusBadGateway, gin.H{"detail": "registration temporarily unavailable"})
			}
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "registration accepted, check your email to activate the account"})
	}
}

func meHandler(svc SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(accessTokenCookie)
		identity, err := svc.Current(c.Request.Context(), token, c.GetHeader(csrfHeader))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "not authenticated"})
			return
		}
		c.JSON(http.StatusOK, identity)
	}
}
