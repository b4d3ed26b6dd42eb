package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/session"
)

const (
	ContextSession = "session"

	HeaderRefreshToken = "X-Refresh-Token"
	HeaderAccessToken  = "X-Access-Token"
)

// SessionMiddleware builds the request's Session from the bearer token
// and optional refresh token, and attaches it to the request context.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Falta el encabezado Authorization.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			httperr.Unauthorized(c, "invalid_authorization_header", "Encabezado Authorization inválido.")
			return
		}

		attach(c, session.New(strings.TrimSpace(parts[1]), c.GetHeader(HeaderRefreshToken)))
	}
}

// ServiceSession authenticates public endpoints with the clinic's
// service-account token.
func ServiceSession(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		attach(c, session.New(token, ""))
	}
}

func attach(c *gin.Context, s *session.Session) {
	c.Set(ContextSession, s)
	c.Request = c.Request.WithContext(session.WithSession(c.Request.Context(), s))

	c.Writer = &tokenWriter{ResponseWriter: c.Writer, session: s}

	c.Next()
}

// tokenWriter copies refreshed tokens into response headers right
// before the status line goes out.
type tokenWriter struct {
	gin.ResponseWriter
	session *session.Session
	done    bool
}

func (w *tokenWriter) WriteHeader(code int) {
	w.inject()
	w.ResponseWriter.WriteHeader(code)
}

func (w *tokenWriter) Write(b []byte) (int, error) {
	w.inject()
	return w.ResponseWriter.Write(b)
}

func (w *tokenWriter) WriteString(s string) (int, error) {
	w.inject()
	return w.ResponseWriter.WriteString(s)
}

func (w *tokenWriter) WriteHeaderNow() {
	w.inject()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *tokenWriter) inject() {
	if w.done {
		return
	}
	w.done = true
	if w.session.Refreshed() && !w.session.Expired() {
		w.Header().Set(HeaderAccessToken, w.session.AccessToken())
		w.Header().Set(HeaderRefreshToken, w.session.RefreshToken())
	}
}

func SessionFrom(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(ContextSession)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok
}
