package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordscramble/assets"
	"github.com/robalobadob/wordscramble/internal/daily"
	"github.com/robalobadob/wordscramble/internal/dictionary"
	"github.com/robalobadob/wordscramble/internal/game"
	"github.com/robalobadob/wordscramble/internal/store"
	"github.com/robalobadob/wordscramble/internal/words"
)

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type testServer struct {
	t   *testing.T
	srv *Server
}

func newTestServer(t *testing.T, opts ...func(*Options)) *testServer {
	t.Helper()
	dict, err := dictionary.NewLexicon("en", []string{"silent", "tinsel", "lens", "list", "lint"})
	require.NoError(t, err)
	src := words.New("test", []string{"listen"})
	o := Options{
		Store:      store.NewMemoryStore(),
		Controller: game.NewController(src, dict, game.WithClock(func() time.Time { return testNow })),
		Words:      src,
		JWTSecret:  "test-secret",
		Now:        func() time.Time { return testNow },
	}
	for _, fn := range opts {
		fn(&o)
	}
	return &testServer{t: t, srv: New(o)}
}

func withDaily(t *testing.T) func(*Options) {
	return func(o *Options) {
		db, err := store.OpenDB(filepath.Join(t.TempDir(), "daily.db"))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		require.NoError(t, store.Migrate(db, assets.Migrations()))
		o.Daily = daily.NewStore(db)
	}
}

// do sends a request with an optional bearer token and JSON body.
func (ts *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	ts.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "192.0.2.1:1234"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)
	return rec
}

// doCookie sends a GET request carrying cookie c.
func (ts *testServer) doCookie(path string, c *http.Cookie) *httptest.ResponseRecorder {
	ts.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "192.0.2.1:1234"
	req.AddCookie(c)
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func (ts *testServer) newGame(body string) newGameRes {
	ts.t.Helper()
	rec := ts.do(http.MethodPost, "/game/new", "", body)
	require.Equal(ts.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[newGameRes](ts.t, rec)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestNewGame(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodPost, "/game/new", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[newGameRes](t, rec)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, res.GameID, res.Game.ID)
	assert.Equal(t, "listen", res.Game.RootWord)
	assert.Equal(t, game.ModeClassic, res.Game.Mode)
	assert.Empty(t, res.Game.UsedWords)

	var names []string
	for _, c := range rec.Result().Cookies() {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{tokenCookieName, anonCookieName}, names)

	anon := cookieNamed(rec, anonCookieName)
	require.NotNil(t, anon)
	assert.True(t, anon.Expires.Equal(testNow.Add(anonTTL)), anon.Expires)
}

func TestNewGameKeepsAnonCookie(t *testing.T) {
	ts := newTestServer(t)
	id := "0b5f2c1e-8f8a-4d7e-9c55-2a1c3b4d5e6f"

	req := httptest.NewRequest(http.MethodPost, "/game/new", nil)
	req.AddCookie(&http.Cookie{Name: anonCookieName, Value: id})
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, cookieNamed(rec, anonCookieName))

	claims, err := ts.srv.tokens.parse(decode[newGameRes](t, rec).Token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.PlayerID)
}

func TestNewGameBadRequests(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/game/new", "", `{"mode":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_json", errorCode(t, rec))

	rec = ts.do(http.MethodPost, "/game/new", "", `{"mode":"blitz"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_mode", errorCode(t, rec))
}

func TestPlayGame(t *testing.T) {
	ts := newTestServer(t)
	g := ts.newGame(`{"mode":"classic"}`)
	path := "/game/" + g.GameID

	rec := ts.do(http.MethodPost, path+"/submit", g.Token, `{"word":"Silent"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[submitRes](t, rec)
	assert.Equal(t, game.OutcomeAccepted, res.Outcome.Status)
	assert.Equal(t, 6, res.Outcome.Points)
	assert.Equal(t, []string{"silent"}, res.Game.UsedWords)
	assert.Equal(t, 6, res.Game.Score)

	rejections := map[string]game.Reason{
		"silent": game.ReasonAlreadyUsed,
		"listen": game.ReasonIsRootWord,
		"xyz":    game.ReasonNotConstructible,
		"it":     game.ReasonTooShort,
		"stile":  game.ReasonNotARealWord,
	}
	for word, reason := range rejections {
		rec := ts.do(http.MethodPost, path+"/submit", g.Token, `{"word":"`+word+`"}`)
		require.Equal(t, http.StatusOK, rec.Code, word)
		res := decode[submitRes](t, rec)
		assert.Equal(t, game.OutcomeRejected, res.Outcome.Status, word)
		assert.Equal(t, reason, res.Outcome.Reason, word)
		assert.NotEmpty(t, res.Outcome.Title, word)
		assert.Equal(t, 6, res.Game.Score, word)
	}

	rec = ts.do(http.MethodGet, path, g.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[gameRes](t, rec).Game
	assert.Equal(t, []string{"silent"}, st.UsedWords)

	rec = ts.do(http.MethodPost, path+"/reset", g.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	st = decode[gameRes](t, rec).Game
	assert.Equal(t, g.GameID, st.ID)
	assert.Empty(t, st.UsedWords)
	assert.Zero(t, st.Score)
	assert.Equal(t, "listen", st.RootWord)
}

func TestSubmitBadJSON(t *testing.T) {
	ts := newTestServer(t)
	g := ts.newGame("")
	rec := ts.do(http.MethodPost, "/game/"+g.GameID+"/submit", g.Token, `word=silent`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_json", errorCode(t, rec))
}

func TestGameRoutesNeedToken(t *testing.T) {
	ts := newTestServer(t)
	a := ts.newGame("")
	b := ts.newGame("")

	rec := ts.do(http.MethodGet, "/game/"+a.GameID, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", errorCode(t, rec))

	rec = ts.do(http.MethodGet, "/game/"+a.GameID, "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_token", errorCode(t, rec))

	rec = ts.do(http.MethodPost, "/game/"+a.GameID+"/submit", b.Token, `{"word":"silent"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "wrong_game", errorCode(t, rec))
}

func TestTokenCookie(t *testing.T) {
	ts := newTestServer(t)
	g := ts.newGame("")

	req := httptest.NewRequest(http.MethodGet, "/game/"+g.GameID, nil)
	req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: g.Token})
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExpiredToken(t *testing.T) {
	ts := newTestServer(t)
	g := ts.newGame("")

	later := newTestServer(t, func(o *Options) {
		o.Store = ts.srv.store
		o.Now = func() time.Time { return testNow.Add(100 * time.Hour) }
	})
	rec := later.do(http.MethodGet, "/game/"+g.GameID, g.Token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnknownGame(t *testing.T) {
	ts := newTestServer(t)
	tok, _, err := ts.srv.tokens.issue("missing", "p1")
	require.NoError(t, err)

	rec := ts.do(http.MethodGet, "/game/missing", tok, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))

	rec = ts.do(http.MethodPost, "/game/missing/submit", tok, `{"word":"silent"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotFoundIsJSON(t *testing.T) {
	rec := newTestServer(t).do(http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))
}

func TestDebugWords(t *testing.T) {
	ts := newTestServer(t, func(o *Options) { o.Dictionary = "kwg:NWL20" })
	ts.newGame("")
	rec := ts.do(http.MethodGet, "/debug/words", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"rootWords":1,"source":"test","dictionary":"kwg:NWL20","games":1}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, func(o *Options) { o.ClientOrigin = "https://scramble.example" })
	rec := ts.do(http.MethodOptions, "/game/new", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://scramble.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, func(o *Options) {
		o.RateLimit = 1
		o.RateBurst = 2
	})
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/health", "", "").Code)

	rec := ts.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limited", errorCode(t, rec))
}

func TestDailyGameAndLeaderboard(t *testing.T) {
	ts := newTestServer(t, withDaily(t))

	g := ts.newGame(`{"mode":"daily"}`)
	assert.Equal(t, game.ModeDaily, g.Game.Mode)
	assert.Equal(t, "2026-10-18", g.Game.Date)

	for _, w := range []string{"silent", "lens"} {
		rec := ts.do(http.MethodPost, "/game/"+g.GameID+"/submit", g.Token, `{"word":"`+w+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := ts.do(http.MethodGet, "/daily/leaderboard", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	lb := decode[lbRes](t, rec)
	assert.Equal(t, "2026-10-18", lb.Date)
	require.Len(t, lb.Top, 1)
	assert.Equal(t, 10, lb.Top[0].Score)
	assert.Equal(t, 2, lb.Top[0].Words)

	rec = ts.do(http.MethodGet, "/daily/leaderboard?date=2026-10-17", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[lbRes](t, rec).Top)

	rec = ts.do(http.MethodGet, "/daily/leaderboard?date=tomorrow", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_date", errorCode(t, rec))
}

func TestLeaderboardDisabled(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/daily/leaderboard", "/daily/me"} {
		rec := ts.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "daily_disabled", errorCode(t, rec), path)
	}
}

func TestMyDailyResult(t *testing.T) {
	ts := newTestServer(t, withDaily(t))

	rec := ts.do(http.MethodPost, "/game/new", "", `{"mode":"daily"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	anon := cookieNamed(rec, anonCookieName)
	require.NotNil(t, anon)
	g := decode[newGameRes](t, rec)

	// Nothing recorded until a word is accepted.
	rec = ts.doCookie("/daily/me", anon)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no_result", errorCode(t, rec))

	for _, w := range []string{"silent", "lens"} {
		rec := ts.do(http.MethodPost, "/game/"+g.GameID+"/submit", g.Token, `{"word":"`+w+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = ts.doCookie("/daily/me", anon)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[daily.Result](t, rec)
	assert.Equal(t, anon.Value, res.PlayerID)
	assert.Equal(t, "2026-10-18", res.Date)
	assert.Equal(t, "listen", res.RootWord)
	assert.Equal(t, 10, res.Score)
	assert.Equal(t, 2, res.Words)

	rec = ts.doCookie("/daily/me?date=2026-10-17", anon)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no_result", errorCode(t, rec))

	rec = ts.doCookie("/daily/me?date=soon", anon)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/daily/me", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no_player", errorCode(t, rec))

	rec = ts.doCookie("/daily/me", &http.Cookie{Name: anonCookieName, Value: "not-a-uuid"})
	assert.Equal(t, "no_player", errorCode(t, rec))
}

func TestClientLimiterForgetsIdleClients(t *testing.T) {
	now := testNow
	cl := newClientLimiter(1, 1, func() time.Time { return now })
	assert.True(t, cl.allow("a"))
	assert.False(t, cl.allow("a"))

	now = now.Add(idleLimiterTTL + time.Minute)
	assert.True(t, cl.allow("b"))
	assert.NotContains(t, cl.clients, "a")
	assert.True(t, cl.allow("a"))
}

func TestBearerOrCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", bytes.NewReader(nil))
	assert.Empty(t, bearerOrCookie(req))

	req.Header.Set("Authorization", "bearer abc")
	assert.Equal(t, "abc", bearerOrCookie(req))
}
