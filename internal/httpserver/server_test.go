package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	answers, err := solver.ParseWords([]string{"ABATE", "ABIDE", "ABUSE", "CRANE", "CRATE"})
	if err != nil {
		t.Fatal(err)
	}
	allowed, err := solver.ParseWords([]string{"ADIEU", "NYMPH"})
	if err != nil {
		t.Fatal(err)
	}
	dict, err := words.New(answers, allowed)
	if err != nil {
		t.Fatal(err)
	}
	st := store.NewMemoryStore()
	srv := New(st, dict, NewTokens("test-secret", time.Hour), Options{DefaultTop: 3})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, st
}

func do(t *testing.T, ts *httptest.Server, method, path, token, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	return res, b
}

func newSession(t *testing.T, ts *httptest.Server) newSessionRes {
	t.Helper()
	res, b := do(t, ts, http.MethodPost, "/session/new", "", "")
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("POST /session/new = %d %s", res.StatusCode, b)
	}
	var out newSessionRes
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if out.SessionID == "" || out.Token == "" {
		t.Fatalf("bad response %s", b)
	}
	return out
}

func decodeState(t *testing.T, b []byte) game.State {
	t.Helper()
	var st game.State
	if err := json.Unmarshal(b, &st); err != nil {
		t.Fatalf("decode %s: %v", b, err)
	}
	return st
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	res, b := do(t, ts, http.MethodGet, "/health", "", "")
	if res.StatusCode != http.StatusOK || !strings.Contains(string(b), `"ok":true`) {
		t.Fatalf("health = %d %s", res.StatusCode, b)
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestSessionFlow(t *testing.T) {
	ts, _ := newTestServer(t)
	sess := newSession(t, ts)

	res, b := do(t, ts, http.MethodGet, "/session", sess.Token, "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("GET /session = %d %s", res.StatusCode, b)
	}
	st := decodeState(t, b)
	if st.Mode != solver.ModeRanked || st.Remaining != 5 || len(st.Picks) != 3 || st.Turn != 1 {
		t.Fatalf("initial state = %+v", st)
	}

	res, b = do(t, ts, http.MethodPost, "/session/guess", sess.Token, `{"guess":"abate","pattern":"ggbbg"}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("guess = %d %s", res.StatusCode, b)
	}
	st = decodeState(t, b)
	if st.Remaining != 2 || st.Turn != 2 || len(st.History) != 1 {
		t.Fatalf("after guess = %+v", st)
	}
	for _, p := range st.Picks {
		if !p.IsCandidate || p.WinProbability != 0.5 {
			t.Errorf("pick = %+v", p)
		}
	}
	if st.History[0].Guess.String() != "ABATE" || st.History[0].Pattern.String() != "ggbbg" {
		t.Errorf("history = %+v", st.History)
	}

	_, b = do(t, ts, http.MethodPost, "/session/guess", sess.Token, `{"guess":"ABUSE","pattern":"ggggg"}`)
	st = decodeState(t, b)
	if st.Mode != solver.ModeSolved || st.Solution == nil || st.Solution.String() != "ABUSE" || !st.Won {
		t.Fatalf("solved state = %+v", st)
	}

	res, _ = do(t, ts, http.MethodPost, "/session/guess", sess.Token, `{"guess":"ABUSE","pattern":"ggggg"}`)
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("guess after win = %d", res.StatusCode)
	}

	res, b = do(t, ts, http.MethodPost, "/session/reset?top=1", sess.Token, "")
	st = decodeState(t, b)
	if res.StatusCode != http.StatusOK || st.Remaining != 5 || len(st.Picks) != 1 || st.Won {
		t.Fatalf("reset = %d %+v", res.StatusCode, st)
	}
}

func TestExhaustedSessionReportsNoPicks(t *testing.T) {
	ts, _ := newTestServer(t)
	sess := newSession(t, ts)
	_, b := do(t, ts, http.MethodPost, "/session/guess", sess.Token, `{"guess":"NYMPH","pattern":"yyyyy"}`)
	st := decodeState(t, b)
	if st.Mode != solver.ModeExhausted || st.Remaining != 0 || len(st.Picks) != 0 {
		t.Fatalf("state = %+v", st)
	}
}

func TestGuessValidation(t *testing.T) {
	ts, _ := newTestServer(t)
	sess := newSession(t, ts)
	cases := []struct {
		body string
		want int
	}{
		{`{"guess":"abc","pattern":"ggggg"}`, http.StatusBadRequest},
		{`{"guess":"crane","pattern":"gg"}`, http.StatusBadRequest},
		{`{"guess":"crane","pattern":"qqqqq"}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
	}
	for _, c := range cases {
		res, b := do(t, ts, http.MethodPost, "/session/guess", sess.Token, c.body)
		if res.StatusCode != c.want {
			t.Errorf("%s: status %d %s", c.body, res.StatusCode, b)
		}
		if !strings.Contains(string(b), `"error"`) {
			t.Errorf("%s: body %s", c.body, b)
		}
	}
	if res, _ := do(t, ts, http.MethodGet, "/session?top=zero", sess.Token, ""); res.StatusCode != http.StatusBadRequest {
		t.Errorf("bad top = %d", res.StatusCode)
	}
}

func TestSessionAuth(t *testing.T) {
	ts, st := newTestServer(t)

	if res, _ := do(t, ts, http.MethodGet, "/session", "", ""); res.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token = %d", res.StatusCode)
	}
	if res, _ := do(t, ts, http.MethodGet, "/session", "garbage", ""); res.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad token = %d", res.StatusCode)
	}

	// Token signed with another secret.
	forged, _, err := NewTokens("other", time.Hour).Sign("abc")
	if err != nil {
		t.Fatal(err)
	}
	if res, _ := do(t, ts, http.MethodGet, "/session", forged, ""); res.StatusCode != http.StatusUnauthorized {
		t.Errorf("forged token = %d", res.StatusCode)
	}

	sess := newSession(t, ts)
	if st.Len() != 1 {
		t.Fatalf("store Len = %d", st.Len())
	}
	if res, _ := do(t, ts, http.MethodDelete, "/session", sess.Token, ""); res.StatusCode != http.StatusOK {
		t.Fatalf("delete = %d", res.StatusCode)
	}
	if res, _ := do(t, ts, http.MethodGet, "/session", sess.Token, ""); res.StatusCode != http.StatusNotFound {
		t.Errorf("deleted session = %d", res.StatusCode)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	ts, _ := newTestServer(t)
	a, b := newSession(t, ts), newSession(t, ts)

	do(t, ts, http.MethodPost, "/session/guess", a.Token, `{"guess":"CRANE","pattern":"ggggg"}`)

	_, body := do(t, ts, http.MethodGet, "/session", b.Token, "")
	if st := decodeState(t, body); st.Remaining != 5 {
		t.Fatalf("session b remaining = %d", st.Remaining)
	}
}

func TestTokensRoundTrip(t *testing.T) {
	tk := NewTokens("", 0)
	tok, exp, err := tk.Sign("sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if time.Until(exp) <= time.Hour {
		t.Errorf("expiry %v too soon", exp)
	}
	id, err := tk.Parse(tok)
	if err != nil || id != "sess-1" {
		t.Fatalf("Parse = %q, %v", id, err)
	}

	expired, _, _ := NewTokens("", time.Nanosecond).Sign("sess-2")
	time.Sleep(1100 * time.Millisecond)
	if _, err := tk.Parse(expired); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestNotFoundIsJSON(t *testing.T) {
	ts, _ := newTestServer(t)
	res, b := do(t, ts, http.MethodGet, "/nope", "", "")
	if res.StatusCode != http.StatusNotFound || !strings.Contains(string(b), "not_found") {
		t.Fatalf("404 = %d %s", res.StatusCode, b)
	}
}

func TestGuessReportsDictionaryMembership(t *testing.T) {
	ts, _ := newTestServer(t)
	sess := newSession(t, ts)

	cases := []struct {
		guess           string
		allowed, answer bool
	}{
		{"CRANE", true, true},
		{"ADIEU", true, false},
		{"QUEUE", false, false},
	}
	for _, c := range cases {
		res, b := do(t, ts, http.MethodPost, "/session/reset", sess.Token, "")
		if res.StatusCode != http.StatusOK {
			t.Fatalf("reset = %d %s", res.StatusCode, b)
		}
		res, b = do(t, ts, http.MethodPost, "/session/guess", sess.Token, `{"guess":"`+c.guess+`","pattern":"bbbbb"}`)
		if res.StatusCode != http.StatusOK {
			t.Fatalf("%s: status %d %s", c.guess, res.StatusCode, b)
		}
		var out guessRes
		if err := json.Unmarshal(b, &out); err != nil {
			t.Fatal(err)
		}
		if out.GuessAllowed != c.allowed || out.GuessIsAnswer != c.answer {
			t.Errorf("%s: allowed=%v answer=%v, want %v %v", c.guess, out.GuessAllowed, out.GuessIsAnswer, c.allowed, c.answer)
		}
		if len(out.History) != 1 || out.History[0].Guess.String() != c.guess {
			t.Errorf("%s: history = %+v", c.guess, out.History)
		}
	}
}

func TestActivityExtendsToken(t *testing.T) {
	ts, _ := newTestServer(t)
	sess := newSession(t, ts)

	// Token expiry has one-second resolution.
	time.Sleep(1100 * time.Millisecond)

	res, b := do(t, ts, http.MethodPost, "/session/guess", sess.Token, `{"guess":"abate","pattern":"ggbbg"}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("guess = %d %s", res.StatusCode, b)
	}
	fresh := res.Header.Get(sessionTokenHeader)
	if fresh == "" {
		t.Fatal("no refreshed token")
	}
	exp, err := time.Parse(time.RFC3339, res.Header.Get(sessionExpiresHeader))
	if err != nil {
		t.Fatal(err)
	}
	if !exp.After(sess.ExpiresAt) {
		t.Errorf("refreshed expiry %v not after %v", exp, sess.ExpiresAt)
	}
	var cookie *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == sessionCookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value != fresh {
		t.Errorf("cookie = %+v, want the refreshed token", cookie)
	}

	res, b = do(t, ts, http.MethodGet, "/session", fresh, "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("GET with refreshed token = %d %s", res.StatusCode, b)
	}
	if st := decodeState(t, b); st.ID != sess.SessionID || st.Remaining != 2 {
		t.Errorf("state = %+v", st)
	}
}
