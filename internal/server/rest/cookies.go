package rest

import (
	"net/http"

	"github.com/dmitrijs2005/dsstudio/internal/common"
	"github.com/gin-gonic/gin"
)

func (h *Handler) setAuthCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     common.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.users.TokenTTL(),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearAuthCookie only tells the browser to forget the token; the token
// itself stays valid until it expires.
func (h *Handler) clearAuthCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     common.AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
