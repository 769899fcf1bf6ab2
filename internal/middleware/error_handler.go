package middleware

import (
	"net/http"
	"time"

	"viveiro/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var erroInterno = apierror.New("erro interno")

// requestLog starts an event carrying the fields every request log shares.
func requestLog(ev *zerolog.Event, c *gin.Context) *zerolog.Event {
	ev = ev.Str("request_id", c.GetString(RequestIDKey)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path)
	if claims := GetClaims(c); claims != nil {
		ev = ev.Str("usuario", claims.Username)
	}
	return ev
}

// ErrorHandler answers a generic 500 for errors attached with c.Error when
// the handler wrote nothing. Driver messages stay in the log.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		requestLog(log.Error(), c).Err(c.Errors.Last().Err).Msg("erro não tratado")
		c.AbortWithStatusJSON(http.StatusInternalServerError, erroInterno)
	}
}

// Recovery converts panics into 500 responses.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				requestLog(log.Error(), c).Interface("panic", r).Msg("panic recuperado")
				c.AbortWithStatusJSON(http.StatusInternalServerError, erroInterno)
			}
		}()
		c.Next()
	}
}

// Logger writes one line per request. Health checks are only logged when they fail.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if c.Request.URL.Path == "/health" && status == http.StatusOK {
			return
		}
		ev := log.Info()
		if status >= http.StatusInternalServerError {
			ev = log.Warn()
		}
		requestLog(ev, c).
			Int("status", status).
			Str("ip", c.ClientIP()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
