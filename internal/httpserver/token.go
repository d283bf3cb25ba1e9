// internal/httpserver/token.go
//
// Game tokens and player identity.
//   - /game/new issues an HS256 JWT bound to the new game's ID and the
//     player's anonymous ID.
//   - /game/{id}/* routes require that token (Authorization: Bearer, or the
//     token cookie) and reject tokens for other games.
//   - Players are anonymous; a long-lived cookie holds a stable player ID
//     used for the daily leaderboard.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenCookieName = "scramble_token"
	anonCookieName  = "scramble_anon"
	tokenIssuerName = "wordscramble"
)

const anonTTL = 180 * 24 * time.Hour

// gameClaims binds a token to one game and one player.
type gameClaims struct {
	GameID   string `json:"gid"`
	PlayerID string `json:"pid"`
	jwt.RegisteredClaims
}

type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newTokenIssuer(secret string, ttl time.Duration, now func() time.Time) *tokenIssuer {
	if secret == "" {
		secret = "dev_secret_change_me"
	}
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &tokenIssuer{secret: []byte(secret), ttl: ttl, now: now}
}

// issue signs a token for gameID and playerID.
func (t *tokenIssuer) issue(gameID, playerID string) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, gameClaims{
		GameID:   gameID,
		PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuerName,
			Subject:   gameID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	ss, err := tok.SignedString(t.secret)
	return ss, exp, err
}

// parse verifies a token and returns its claims.
func (t *tokenIssuer) parse(raw string) (*gameClaims, error) {
	claims := &gameClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuerName),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}
	if !tok.Valid || claims.GameID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ctxClaimsKey is the context key type for storing *gameClaims.
type ctxClaimsKey struct{}

func claimsFrom(ctx context.Context) *gameClaims {
	c, _ := ctx.Value(ctxClaimsKey{}).(*gameClaims)
	return c
}

// requireGameToken enforces a valid token for the {id} in the route and
// injects its claims into the request context.
func (s *Server) requireGameToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerOrCookie(r)
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		claims, err := s.tokens.parse(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		if claims.GameID != chi.URLParam(r, "id") {
			writeError(w, http.StatusForbidden, "wrong_game")
			return
		}
		ctx := context.WithValue(r.Context(), ctxClaimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerOrCookie extracts a bearer token from the Authorization header or
// the token cookie.
func bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(tokenCookieName); err == nil {
		return c.Value
	}
	return ""
}

// setTokenCookie writes the game token cookie.
func setTokenCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

// anonID returns the player ID from the anon cookie, or "" if it is
// missing or malformed.
func anonID(r *http.Request) string {
	c, err := r.Cookie(anonCookieName)
	if err != nil || c.Value == "" {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

// ensureAnonID returns an existing anon cookie or sets a new one that
// expires anonTTL after now.
func ensureAnonID(w http.ResponseWriter, r *http.Request, now time.Time) string {
	if id := anonID(r); id != "" {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  now.Add(anonTTL),
	})
	return id
}
