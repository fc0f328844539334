package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/postapp/internal/client/models"
	"github.com/dmitrijs2005/postapp/internal/client/workflow"
	"github.com/dmitrijs2005/postapp/internal/common"
	"github.com/dmitrijs2005/postapp/internal/logging"
)

// UserState is everything one user of a front-end owns: the signed-in
// session and the pending two-step workflow. The CLI keeps one for the
// process, the web app one per browser session.
type UserState struct {
	Session  models.Session
	Workflow workflow.Tracker
}

// Accounts runs user-facing operations against a UserState. It holds no
// per-user state itself and can be shared.
type Accounts struct {
	chat   ChatService
	logger logging.Logger
	now    func() time.Time
}

func NewAccounts(chat ChatService, logger logging.Logger) *Accounts {
	return &Accounts{chat: chat, logger: logger, now: time.Now}
}

// Posts returns up to limit posts, newest first.
func (a *Accounts) Posts(ctx context.Context, limit int) ([]models.Post, error) {
	return a.chat.GetPosts(ctx, limit)
}

// SignIn authenticates userName and fills st.Session. Any pending workflow
// is abandoned.
func (a *Accounts) SignIn(ctx context.Context, st *UserState, userName, password string) error {
	if st.Session.SignedIn {
		return common.ErrAlreadySignedIn
	}
	return a.signIn(ctx, st, userName, password)
}

func (a *Accounts) signIn(ctx context.Context, st *UserState, userName, password string) error {
	res, err := a.chat.SignIn(ctx, userName, password)
	if err != nil {
		return err
	}

	st.Workflow.Abandon()
	st.Session = models.Session{
		SignedIn:     true,
		UserName:     userName,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}
	if res.ExpiresIn > 0 {
		st.Session.ExpiresAt = a.now().Add(time.Duration(res.ExpiresIn) * time.Second)
	}

	info, err := InspectToken(res.AccessToken)
	if err != nil {
		a.logger.Debug(ctx, "access token is not a readable JWT", "error", err)
		return nil
	}
	if st.Session.UserName == "" {
		st.Session.UserName = info.UserName
	}
	if !info.ExpiresAt.IsZero() {
		st.Session.ExpiresAt = info.ExpiresAt
	}
	return nil
}

// SignOut clears the session.
func (a *Accounts) SignOut(st *UserState) error {
	if !st.Session.SignedIn {
		return common.ErrNotSignedIn
	}
	st.Session.Clear()
	return nil
}

// CheckExpiry signs the user out when the access token has expired and
// reports whether it did.
func (a *Accounts) CheckExpiry(st *UserState) bool {
	if !st.Session.Expired(a.now()) {
		return false
	}
	st.Session.Clear()
	return true
}

// StartRegistration runs step 1 of registration. On success the password is
// stashed so the user can be signed in after confirming.
func (a *Accounts) StartRegistration(ctx context.Context, st *UserState, userName, password, email string) error {
	if st.Session.SignedIn {
		return common.ErrAlreadySignedIn
	}
	if pw, ok := st.Workflow.Pending(); ok {
		return fmt.Errorf("%w: %s for %s", common.ErrWorkflowPending, pw.Kind, pw.UserName)
	}

	if err := a.chat.StartRegistration(ctx, userName, password, email); err != nil {
		return err
	}
	return st.Workflow.Begin(models.PendingWorkflow{
		Kind:            models.Registration,
		UserName:        userName,
		StashedPassword: password,
	})
}

// FinishRegistration confirms the pending registration with code and signs
// the new user in. A missing code is rejected without consuming the
// workflow; any remote outcome does.
func (a *Accounts) FinishRegistration(ctx context.Context, st *UserState, code string) error {
	if err := common.Required("confirmation code", code); err != nil {
		return err
	}
	w, err := st.Workflow.Take(models.Registration)
	if err != nil {
		return err
	}

	if err := a.chat.FinishRegistration(ctx, w.UserName, code); err != nil {
		return err
	}
	return a.signIn(ctx, st, w.UserName, w.StashedPassword)
}

// StartPasswordReset runs step 1 of a forgotten-password reset.
func (a *Accounts) StartPasswordReset(ctx context.Context, st *UserState, userName string) error {
	if pw, ok := st.Workflow.Pending(); ok {
		return fmt.Errorf("%w: %s for %s", common.ErrWorkflowPending, pw.Kind, pw.UserName)
	}

	if err := a.chat.StartPasswordReset(ctx, userName); err != nil {
		return err
	}
	return st.Workflow.Begin(models.PendingWorkflow{Kind: models.PasswordReset, UserName: userName})
}

// FinishPasswordReset sets newPassword using code and signs in with it.
func (a *Accounts) FinishPasswordReset(ctx context.Context, st *UserState, code, newPassword string) error {
	if err := common.FirstError(
		common.Required("confirmation code", code),
		common.CheckPassword("new password", newPassword),
	); err != nil {
		return err
	}
	w, err := st.Workflow.Take(models.PasswordReset)
	if err != nil {
		return err
	}

	if err := a.chat.FinishPasswordReset(ctx, w.UserName, code, newPassword); err != nil {
		return err
	}
	return a.signIn(ctx, st, w.UserName, newPassword)
}

// AbandonWorkflow drops a pending step 1.
func (a *Accounts) AbandonWorkflow(st *UserState) error {
	if st.Workflow.State() == workflow.Idle {
		return common.ErrNoPendingWorkflow
	}
	st.Workflow.Abandon()
	return nil
}

// Post publishes message as the signed-in user.
func (a *Accounts) Post(ctx context.Context, st *UserState, message string) error {
	if !st.Session.SignedIn {
		return common.ErrNotSignedIn
	}
	return a.chat.AddPost(ctx, st.Session.AccessToken, message)
}

// DeletePost removes the post identified by its raw timestamp.
func (a *Accounts) DeletePost(ctx context.Context, st *UserState, postID string) error {
	if !st.Session.SignedIn {
		return common.ErrNotSignedIn
	}
	return a.chat.DeletePost(ctx, st.Session.AccessToken, postID)
}

// DeleteAccount removes the signed-in user and signs out.
func (a *Accounts) DeleteAccount(ctx context.Context, st *UserState) error {
	if !st.Session.SignedIn {
		return common.ErrNotSignedIn
	}
	if err := a.chat.DeleteUser(ctx, st.Session.AccessToken); err != nil {
		return err
	}
	st.Session.Clear()
	return nil
}
