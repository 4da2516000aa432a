package httpx

import (
	"net/http"
	"time"

	"github.com/Gunvolt24/techshop/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ProfileCookie = "techshop_profile"
	ProfileHeader = "X-Profile-ID"
)

// ProfileMiddleware — профиль покупателя (пространство имён корзины):
// заголовок X-Profile-ID, иначе cookie, иначе новый UUID в cookie.
// Значение должно быть UUID, иначе выдаётся новый профиль.
func ProfileMiddleware(cookieTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := c.GetHeader(ProfileHeader)
		if profile == "" {
			profile, _ = c.Cookie(ProfileCookie)
		}
		if _, err := uuid.Parse(profile); err != nil {
			profile = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(ProfileCookie, profile, int(cookieTTL.Seconds()), "/", "", false, true)
		}
		c.Header(ProfileHeader, profile)

		c.Request = c.Request.WithContext(ctxmeta.WithProfileID(c.Request.Context(), profile))
		c.Next()
	}
}

// ProfileID — профиль текущего запроса (после ProfileMiddleware).
func ProfileID(c *gin.Context) string {
	profile, _ := ctxmeta.ProfileIDFromContext(c.Request.Context())
	return profile
}
