package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/postapp/internal/client/client"
	"github.com/dmitrijs2005/postapp/internal/client/models"
	"github.com/dmitrijs2005/postapp/internal/client/workflow"
	"github.com/dmitrijs2005/postapp/internal/common"
	"github.com/dmitrijs2005/postapp/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	calls []string

	signInUser string
	signInPass string
	auth       AuthResult

	posts []models.Post

	signInErr error
	finishErr error
	startErr  error
	delErr    error
}

func (f *fakeChat) GetPosts(ctx context.Context, limit int) ([]models.Post, error) {
	f.calls = append(f.calls, "GetPosts")
	return f.posts, nil
}

func (f *fakeChat) SignIn(ctx context.Context, userName, password string) (AuthResult, error) {
	f.calls = append(f.calls, "SignIn")
	f.signInUser, f.signInPass = userName, password
	if f.signInErr != nil {
		return AuthResult{}, f.signInErr
	}
	return f.auth, nil
}

func (f *fakeChat) AddPost(ctx context.Context, accessToken, message string) error {
	f.calls = append(f.calls, "AddPost:"+accessToken+":"+message)
	return nil
}

func (f *fakeChat) DeletePost(ctx context.Context, accessToken, postID string) error {
	f.calls = append(f.calls, "DeletePost:"+postID)
	return nil
}

func (f *fakeChat) DeleteUser(ctx context.Context, accessToken string) error {
	f.calls = append(f.calls, "DeleteUser")
	return f.delErr
}

func (f *fakeChat) StartRegistration(ctx context.Context, userName, password, email string) error {
	f.calls = append(f.calls, "StartRegistration")
	return f.startErr
}

func (f *fakeChat) FinishRegistration(ctx context.Context, userName, code string) error {
	f.calls = append(f.calls, "FinishRegistration:"+userName+":"+code)
	return f.finishErr
}

func (f *fakeChat) StartPasswordReset(ctx context.Context, userName string) error {
	f.calls = append(f.calls, "StartPasswordReset")
	return f.startErr
}

func (f *fakeChat) FinishPasswordReset(ctx context.Context, userName, code, newPassword string) error {
	f.calls = append(f.calls, "FinishPasswordReset:"+userName+":"+code+":"+newPassword)
	return f.finishErr
}

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func newAccounts(chat ChatService) *Accounts {
	a := NewAccounts(chat, logging.Discard())
	a.now = func() time.Time { return fixedNow }
	return a
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

func TestAccounts_SignInWithOpaqueToken(t *testing.T) {
	chat := &fakeChat{auth: AuthResult{AccessToken: "opaque-token-value", RefreshToken: "r", ExpiresIn: 60}}
	a := newAccounts(chat)
	var st UserState

	require.NoError(t, a.SignIn(context.Background(), &st, "alice", "pw"))
	assert.True(t, st.Session.SignedIn)
	assert.Equal(t, "alice", st.Session.UserName)
	assert.Equal(t, "r", st.Session.RefreshToken)
	assert.Equal(t, fixedNow.Add(time.Minute), st.Session.ExpiresAt)
}

func TestAccounts_SignInReadsJWTExpiry(t *testing.T) {
	exp := fixedNow.Add(2 * time.Hour).Truncate(time.Second)
	tok := signedToken(t, jwt.MapClaims{"username": "alice", "exp": exp.Unix()})
	chat := &fakeChat{auth: AuthResult{AccessToken: tok, ExpiresIn: 60}}
	a := newAccounts(chat)
	var st UserState

	require.NoError(t, a.SignIn(context.Background(), &st, "alice", "pw"))
	assert.True(t, st.Session.ExpiresAt.Equal(exp))
}

func TestAccounts_SignInTwice(t *testing.T) {
	a := newAccounts(&fakeChat{})
	st := UserState{Session: models.Session{SignedIn: true}}
	require.ErrorIs(t, a.SignIn(context.Background(), &st, "a", "b"), common.ErrAlreadySignedIn)
}

func TestAccounts_SignInFailureLeavesSessionEmpty(t *testing.T) {
	chat := &fakeChat{signInErr: &client.ActionFailure{Action: client.ActionSignIn, Code: "X", Message: "bad pw"}}
	a := newAccounts(chat)
	var st UserState

	err := a.SignIn(context.Background(), &st, "alice", "wrong")
	var af *client.ActionFailure
	require.ErrorAs(t, err, &af)
	assert.False(t, st.Session.SignedIn)
}

func TestAccounts_SignInAbandonsPendingWorkflow(t *testing.T) {
	chat := &fakeChat{auth: AuthResult{AccessToken: "opaque-token-value"}}
	a := newAccounts(chat)
	var st UserState
	require.NoError(t, st.Workflow.Begin(models.PendingWorkflow{Kind: models.PasswordReset, UserName: "alice"}))

	require.NoError(t, a.SignIn(context.Background(), &st, "alice", "pw"))
	assert.Equal(t, workflow.Idle, st.Workflow.State())
}

func TestAccounts_RegistrationFlow(t *testing.T) {
	ctx := context.Background()
	chat := &fakeChat{auth: AuthResult{AccessToken: "opaque-token-value"}}
	a := newAccounts(chat)
	var st UserState

	require.NoError(t, a.StartRegistration(ctx, &st, "bob", "secret1", "bob@example.com"))
	assert.True(t, st.Workflow.PendingKind(models.Registration))

	require.NoError(t, a.FinishRegistration(ctx, &st, "123456"))
	assert.Equal(t, workflow.Idle, st.Workflow.State())
	assert.True(t, st.Session.SignedIn)
	assert.Equal(t, "bob", chat.signInUser)
	assert.Equal(t, "secret1", chat.signInPass, "signs in with the stashed password")
	assert.Equal(t, []string{"StartRegistration", "FinishRegistration:bob:123456", "SignIn"}, chat.calls)
}

func TestAccounts_StartRegistrationFailureStaysIdle(t *testing.T) {
	chat := &fakeChat{startErr: &client.ActionFailure{Action: client.ActionStartRegistration, Message: "exists"}}
	a := newAccounts(chat)
	var st UserState

	require.Error(t, a.StartRegistration(context.Background(), &st, "bob", "secret1", "b@x"))
	assert.Equal(t, workflow.Idle, st.Workflow.State())
}

func TestAccounts_StartWhilePendingIsLocal(t *testing.T) {
	chat := &fakeChat{}
	a := newAccounts(chat)
	var st UserState
	require.NoError(t, st.Workflow.Begin(models.PendingWorkflow{Kind: models.Registration, UserName: "bob"}))

	require.ErrorIs(t, a.StartPasswordReset(context.Background(), &st, "bob"), common.ErrWorkflowPending)
	require.ErrorIs(t, a.StartRegistration(context.Background(), &st, "amy", "secret1", "a@x"), common.ErrWorkflowPending)
	assert.Empty(t, chat.calls)
}

func TestAccounts_FinishFromIdleMakesNoRemoteCall(t *testing.T) {
	chat := &fakeChat{}
	a := newAccounts(chat)
	var st UserState

	require.ErrorIs(t, a.FinishRegistration(context.Background(), &st, "123"), common.ErrNoPendingWorkflow)
	require.ErrorIs(t, a.FinishPasswordReset(context.Background(), &st, "123", "newpass"), common.ErrNoPendingWorkflow)
	assert.Empty(t, chat.calls)
}

func TestAccounts_FinishValidationKeepsWorkflow(t *testing.T) {
	chat := &fakeChat{}
	a := newAccounts(chat)
	var st UserState
	require.NoError(t, st.Workflow.Begin(models.PendingWorkflow{Kind: models.PasswordReset, UserName: "bob"}))

	require.ErrorIs(t, a.FinishPasswordReset(context.Background(), &st, "123", "short"), common.ErrValidation)
	assert.True(t, st.Workflow.PendingKind(models.PasswordReset))
	assert.Empty(t, chat.calls)
}

func TestAccounts_FinishRemoteFailureConsumesWorkflow(t *testing.T) {
	chat := &fakeChat{finishErr: &client.ActionFailure{Action: client.ActionFinishRegistration, Code: "CodeMismatch"}}
	a := newAccounts(chat)
	var st UserState
	require.NoError(t, st.Workflow.Begin(models.PendingWorkflow{Kind: models.Registration, UserName: "bob", StashedPassword: "secret1"}))

	err := a.FinishRegistration(context.Background(), &st, "000000")
	var af *client.ActionFailure
	require.ErrorAs(t, err, &af)
	assert.Equal(t, workflow.Idle, st.Workflow.State())
	assert.False(t, st.Session.SignedIn)
}

func TestAccounts_PasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	chat := &fakeChat{auth: AuthResult{AccessToken: "opaque-token-value"}}
	a := newAccounts(chat)
	var st UserState

	require.NoError(t, a.StartPasswordReset(ctx, &st, "carol"))
	require.NoError(t, a.FinishPasswordReset(ctx, &st, "42", "brandnew"))

	assert.True(t, st.Session.SignedIn)
	assert.Equal(t, "brandnew", chat.signInPass)
	assert.Equal(t, []string{"StartPasswordReset", "FinishPasswordReset:carol:42:brandnew", "SignIn"}, chat.calls)
}

func TestAccounts_AbandonWorkflow(t *testing.T) {
	a := newAccounts(&fakeChat{})
	var st UserState
	require.ErrorIs(t, a.AbandonWorkflow(&st), common.ErrNoPendingWorkflow)

	require.NoError(t, st.Workflow.Begin(models.PendingWorkflow{Kind: models.Registration}))
	require.NoError(t, a.AbandonWorkflow(&st))
	assert.Equal(t, workflow.Idle, st.Workflow.State())
}

func TestAccounts_SignedInGuards(t *testing.T) {
	ctx := context.Background()
	chat := &fakeChat{}
	a := newAccounts(chat)
	var st UserState

	assert.ErrorIs(t, a.Post(ctx, &st, "hi"), common.ErrNotSignedIn)
	assert.ErrorIs(t, a.DeletePost(ctx, &st, "1"), common.ErrNotSignedIn)
	assert.ErrorIs(t, a.DeleteAccount(ctx, &st), common.ErrNotSignedIn)
	assert.ErrorIs(t, a.SignOut(&st), common.ErrNotSignedIn)
	assert.Empty(t, chat.calls)
}

func TestAccounts_SignedInOperations(t *testing.T) {
	ctx := context.Background()
	chat := &fakeChat{posts: []models.Post{{Author: "a"}}}
	a := newAccounts(chat)
	st := UserState{Session: models.Session{SignedIn: true, UserName: "alice", AccessToken: "tok"}}

	posts, err := a.Posts(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	require.NoError(t, a.Post(ctx, &st, "hello"))
	require.NoError(t, a.DeletePost(ctx, &st, "1000"))
	assert.Equal(t, []string{"GetPosts", "AddPost:tok:hello", "DeletePost:1000"}, chat.calls)

	require.NoError(t, a.SignOut(&st))
	assert.False(t, st.Session.SignedIn)
}

func TestAccounts_DeleteAccount(t *testing.T) {
	ctx := context.Background()

	chat := &fakeChat{delErr: errors.New("boom")}
	a := newAccounts(chat)
	st := UserState{Session: models.Session{SignedIn: true, AccessToken: "tok"}}
	require.Error(t, a.DeleteAccount(ctx, &st))
	assert.True(t, st.Session.SignedIn, "failed delete keeps the session")

	chat.delErr = nil
	require.NoError(t, a.DeleteAccount(ctx, &st))
	assert.False(t, st.Session.SignedIn)
}

func TestAccounts_CheckExpiry(t *testing.T) {
	a := newAccounts(&fakeChat{})

	st := UserState{Session: models.Session{SignedIn: true, ExpiresAt: fixedNow.Add(time.Second)}}
	assert.False(t, a.CheckExpiry(&st))
	assert.True(t, st.Session.SignedIn)

	st.Session.ExpiresAt = fixedNow
	assert.True(t, a.CheckExpiry(&st))
	assert.False(t, st.Session.SignedIn)
}

func TestInspectToken(t *testing.T) {
	exp := time.Unix(1900000000, 0)
	tok := signedToken(t, jwt.MapClaims{"cognito:username": "dave", "exp": exp.Unix()})

	info, err := InspectToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "dave", info.UserName)
	assert.True(t, info.ExpiresAt.Equal(exp))

	_, err = InspectToken("not-a-jwt")
	require.Error(t, err)
}
