package server

import (
	"net/http"
	"strings"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/chatterbox/errors"
	"github.com/techagentng/chatterbox/server/response"
)

// Authorize gates every protected HTTP route on the same identity resolver
// the websocket gate uses. The raw Authorization header value goes to the
// resolver untouched; prefix handling is the resolver's business.
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken := c.GetHeader("Authorization")
		identity, err := s.AuthService.ResolveToken(rawToken)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		c.Set("sender", identity)
		c.Set("userID", identity.UserID)
		c.Set("username", identity.Username)
		c.Set("access_token", strings.TrimSpace(strings.TrimPrefix(rawToken, "Bearer ")))
		c.Next()
	}
}

func limitRateForMessagePost(store ratelimit.Store) gin.HandlerFunc {
	mw := ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler:   rateLimitErrorHandler,
		KeyFunc:        keyFuncSender,
		BeforeResponse: nil,
	})
	return mw
}

// keyFuncSender buckets message writes per authenticated sender.
func keyFuncSender(c *gin.Context) string {
	return c.GetString("userID")
}

func rateLimitErrorHandler(c *gin.Context, info ratelimit.Info) {
	respondAndAbort(c, "too many messages", http.StatusTooManyRequests, nil,
		errs.New("rate limit exceeded", http.StatusTooManyRequests))
}

// respondAndAbort calls response.JSON and aborts the Context
func respondAndAbort(c *gin.Context, message string, status int, data interface{}, e *errs.Error) {
	response.JSON(c, message, status, data, e)
	c.Abort()
}

func decode(c *gin.Context, v interface{}) error {
	return c.ShouldBindJSON(v)
}
