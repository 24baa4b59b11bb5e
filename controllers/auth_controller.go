package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nkpol/nkpolbackend/auth"
	"github.com/nkpol/nkpolbackend/dto"
	"github.com/nkpol/nkpolbackend/models"
)

func setAuthCookie(c *gin.Context, token string, ttl time.Duration) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode, // for cross-site
	})
}

func clearAuthCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func Login(a *auth.Authenticator, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		token, err := a.Issue(c.Request.Context(), body.Username, body.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}

		setAuthCookie(c, token, tokenTTL)
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

// Logout writes the presented token into the revocation ledger so it is
// rejected on every future request, even though it has not expired.
func Logout(a *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetString("token")
		if token == "" {
			token = auth.TokenFromRequest(c.Request)
		}

		err := a.Revoke(c.Request.Context(), token, models.RevokeReasonLogout, auth.RevokeMetadata{
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		if err != nil && !errors.Is(err, auth.ErrMissingToken) && !errors.Is(err, auth.ErrTokenInvalid) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
			return
		}

		clearAuthCookie(c)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// Me returns the claims the guard resolved for the current request.
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId":   c.GetString("userID"),
			"username": c.GetString("username"),
		})
	}
}

// RevokeToken lets an admin invalidate an arbitrary token (e.g. a leaked
// one) before its natural expiry.
func RevokeToken(a *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RevokeTokenDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		err := a.Revoke(c.Request.Context(), body.Token, models.RevokeReasonAdminRevoke, auth.RevokeMetadata{
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			RevokedBy: c.GetString("username"),
		})
		if err != nil {
			if errors.Is(err, auth.ErrTokenInvalid) || errors.Is(err, auth.ErrMissingToken) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "malformed token"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "revoke failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
