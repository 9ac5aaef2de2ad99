package middleware

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/boardhub/board-gateway/internal/core/domain"
	"github.com/boardhub/board-gateway/internal/core/ports"
)

// CookieName is the gateway's own session cookie. It carries a signed
// reference to the session record, never the upstream bearer token.
const CookieName = "board_session"

const sessionKey = "session"

// CookieCodec signs and verifies the session cookie with HS256.
type CookieCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewCookieCodec(secret string, ttl time.Duration) *CookieCodec {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CookieCodec{secret: []byte(secret), ttl: ttl}
}

// Issue builds the Set-Cookie value referencing the session id.
func (cc *CookieCodec) Issue(sessionID string) (*http.Cookie, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sid": sessionID,
		"iat": now.Unix(),
		"exp": now.Add(cc.ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cc.secret)
	if err != nil {
		return nil, err
	}

	return &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Expires:  now.Add(cc.ttl),
	}, nil
}

// Expire builds the cookie that clears the browser's copy on logout.
func (cc *CookieCodec) Expire() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
}

// Decode extracts the session id from the request cookie. A missing, expired
// or tampered cookie yields ok == false; the caller proceeds unauthenticated.
func (cc *CookieCodec) Decode(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return cc.secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", false
	}

	sid, _ := claims["sid"].(string)
	return sid, sid != ""
}

// Session resolves the caller's session on every request: decode the cookie,
// resume the persisted session (which triggers the one-shot profile fetch
// when needed), and restore the project scope without a network call. The
// request proceeds with a nil session when nothing resolves; the guard
// decides what that means for the destination.
func Session(codec *CookieCodec, sessions ports.SessionService, scopes ports.ScopeService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, ok := codec.Decode(c.Request())
			if !ok {
				return next(c)
			}

			session, err := sessions.Resume(c.Request().Context(), sid)
			if err != nil {
				// Stale cookie for a session the store no longer has.
				return next(c)
			}
			if err := scopes.Restore(c.Request().Context(), session); err != nil {
				// A broken snapshot degrades to "no scope", never to a failure.
				session.Project = nil
			}

			c.Set(sessionKey, session)
			return next(c)
		}
	}
}

// SessionFromContext returns the resolved session, or nil when the request
// carries no usable cookie.
func SessionFromContext(c echo.Context) *domain.Session {
	s, _ := c.Get(sessionKey).(*domain.Session)
	return s
}
