package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveAndCookie(t *testing.T, s *MemoryStore, values map[interface{}]interface{}) *http.Cookie {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := s.New(r, sessionName)
	require.NoError(t, err)
	for k, v := range values {
		sess.Values[k] = v
	}

	w := httptest.NewRecorder()
	require.NoError(t, sess.Save(r, w))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func requestWith(c *http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(c)
	return r
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	s, err := NewMemoryStore("secret")
	require.NoError(t, err)

	c := saveAndCookie(t, s, map[interface{}]interface{}{"k": "plaintext-value"})
	assert.NotContains(t, c.Value, "plaintext-value", "values stay on the server")

	sess, err := s.New(requestWith(c), sessionName)
	require.NoError(t, err)
	assert.False(t, sess.IsNew)
	assert.Equal(t, "plaintext-value", sess.Values["k"])
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	s, err := NewMemoryStore("secret")
	require.NoError(t, err)
	c := saveAndCookie(t, s, map[interface{}]interface{}{"k": "v"})

	sess, err := s.New(requestWith(c), sessionName)
	require.NoError(t, err)
	sess.Values["k"] = "changed"

	again, err := s.New(requestWith(c), sessionName)
	require.NoError(t, err)
	assert.Equal(t, "v", again.Values["k"], "unsaved changes are not visible")
}

func TestMemoryStore_BadCookieGivesNewSession(t *testing.T) {
	s, err := NewMemoryStore("secret")
	require.NoError(t, err)
	saveAndCookie(t, s, map[interface{}]interface{}{"k": "v"})

	sess, err := s.New(requestWith(&http.Cookie{Name: sessionName, Value: "forged"}), sessionName)
	require.NoError(t, err)
	assert.True(t, sess.IsNew)
	assert.Empty(t, sess.Values)
}

func TestMemoryStore_OtherSecretCannotRead(t *testing.T) {
	a, err := NewMemoryStore("secret")
	require.NoError(t, err)
	b, err := NewMemoryStore("other")
	require.NoError(t, err)

	c := saveAndCookie(t, a, map[interface{}]interface{}{"k": "v"})
	sess, err := b.New(requestWith(c), sessionName)
	require.NoError(t, err)
	assert.True(t, sess.IsNew)
}

func TestMemoryStore_NegativeMaxAgeDeletes(t *testing.T) {
	s, err := NewMemoryStore("secret")
	require.NoError(t, err)
	c := saveAndCookie(t, s, map[interface{}]interface{}{"k": "v"})

	r := requestWith(c)
	sess, err := s.New(r, sessionName)
	require.NoError(t, err)
	sess.Options.MaxAge = -1
	require.NoError(t, s.Save(r, httptest.NewRecorder(), sess))

	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_IdleSessionsExpire(t *testing.T) {
	s, err := NewMemoryStore("secret")
	require.NoError(t, err)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	c := saveAndCookie(t, s, map[interface{}]interface{}{"k": "v"})
	now = now.Add(25 * time.Hour)

	sess, err := s.New(requestWith(c), sessionName)
	require.NoError(t, err)
	assert.True(t, sess.IsNew)
	assert.Equal(t, 0, s.Len())
}

func TestDeriveKeys(t *testing.T) {
	h1, b1, err := deriveKeys("secret")
	require.NoError(t, err)
	h2, b2, err := deriveKeys("secret")
	require.NoError(t, err)
	assert.Len(t, h1, 64)
	assert.Len(t, b1, 32)
	assert.Equal(t, h1, h2)
	assert.Equal(t, b1, b2)

	r1, _, err := deriveKeys("")
	require.NoError(t, err)
	r2, _, err := deriveKeys("")
	require.NoError(t, err)
	assert.NotEqual(t, r1, r2, "an empty secret gets random keys")
}
