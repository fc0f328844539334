package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePosts(t *testing.T) {
	data := json.RawMessage(`[
		{"Alias":{"S":"bob"},"Timestamp":{"S":"1000"},"Message":{"S":"hi"}},
		{"Alias":{"S":"amy"},"Timestamp":{"S":"yesterday"},"Message":{"S":"yo"}}
	]`)

	posts, err := DecodePosts(data)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, Post{Author: "bob", Timestamp: 1000, Text: "hi", ID: "1000"}, posts[0])
	assert.Equal(t, Post{Author: "amy", Text: "yo", ID: "yesterday", Undated: true}, posts[1])
}

func TestDecodePosts_EmptyAndInvalid(t *testing.T) {
	posts, err := DecodePosts(nil)
	require.NoError(t, err)
	assert.Empty(t, posts)

	posts, err = DecodePosts(json.RawMessage("null"))
	require.NoError(t, err)
	assert.Empty(t, posts)

	_, err = DecodePosts(json.RawMessage(`{"Alias":1}`))
	require.Error(t, err)
}

func TestDecodeEnvelope_ObjectBody(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{
		"statusCode":200,
		"headers":{"Content-Type":"application/json"},
		"body":{"result":"failure","error":{"code":"X","message":"bad pw"}}
	}`))
	require.NoError(t, err)

	assert.Equal(t, 200, env.StatusCode)
	assert.Equal(t, "application/json", env.Headers["Content-Type"])
	assert.Equal(t, ResultFailure, env.Body.Result)
	require.NotNil(t, env.Body.Error)
	assert.Equal(t, ErrorInfo{Code: "X", Message: "bad pw"}, *env.Body.Error)
}

func TestDecodeEnvelope_StringBodyAndStringError(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"statusCode":400,"body":"{\"result\":\"failure\",\"error\":\"user exists\"}"}`))
	require.NoError(t, err)

	assert.Equal(t, 400, env.StatusCode)
	require.NotNil(t, env.Body.Error)
	assert.Equal(t, "user exists", env.Body.Error.Message)
	assert.Empty(t, env.Body.Error.Code)
}

func TestDecodeEnvelope_SuccessKeepsRawData(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"statusCode":200,"body":{"result":"success","data":{"AuthenticationResult":{"AccessToken":"t"}}}}`))
	require.NoError(t, err)
	assert.Nil(t, env.Body.Error)
	assert.JSONEq(t, `{"AuthenticationResult":{"AccessToken":"t"}}`, string(env.Body.Data))
}

func TestDecodeEnvelope_Malformed(t *testing.T) {
	for _, payload := range []string{
		``,
		`not json`,
		`[1,2]`,
		`{"body":{"result":"success"}}`,
		`{"statusCode":200,"body":"{broken"}`,
	} {
		_, err := DecodeEnvelope([]byte(payload))
		assert.Error(t, err, payload)
	}
}

func TestSession(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	s := Session{}
	assert.Equal(t, "anonymous", s.DisplayName())
	assert.False(t, s.Expired(now))

	s = Session{SignedIn: true, UserName: "alice", AccessToken: "abcd0123456789wxyz", ExpiresAt: now.Add(time.Minute)}
	assert.Equal(t, "alice", s.DisplayName())
	assert.Equal(t, "abcd...wxyz", s.ShortToken())
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Minute)))

	s.ExpiresAt = time.Time{}
	assert.False(t, s.Expired(now.Add(time.Hour)), "unknown expiry never expires")

	s.Clear()
	assert.Equal(t, Session{}, s)
}

func TestWorkflowKind_String(t *testing.T) {
	assert.Equal(t, "registration", Registration.String())
	assert.Equal(t, "password reset", PasswordReset.String())
	assert.Equal(t, "unknown", WorkflowKind(0).String())
}
