package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/postapp/internal/client/models"
	"github.com/dmitrijs2005/postapp/internal/client/timeline"
	"github.com/dmitrijs2005/postapp/internal/common"
)

// ListPosts fetches the latest posts and prints them oldest first, grouped
// by day.
func (a *App) ListPosts(ctx context.Context) error {
	posts, err := a.accounts.Posts(ctx, a.config.MaxMessages)
	if err != nil {
		return err
	}
	a.lastListed = a.now()

	if len(posts) == 0 {
		a.notice("No posts yet.")
		return nil
	}

	fmt.Fprintln(a.out)
	for l := range timeline.Render(posts, a.loc) {
		fmt.Fprintln(a.out, a.styles.line(l))
		if l.Kind != timeline.PostHeader {
			fmt.Fprintln(a.out)
		}
	}
	return nil
}

// SignIn prompts for credentials.
func (a *App) SignIn(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "User name", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.accounts.SignIn(ctx, &a.state, userName, string(password)); err != nil {
		return err
	}
	a.notice(fmt.Sprintf("Signed in as %s (token %s).", a.state.Session.UserName, a.state.Session.ShortToken()))
	return nil
}

// Register starts a registration, or finishes the pending one.
func (a *App) Register(ctx context.Context) error {
	if w, ok := a.state.Workflow.Pending(); ok && w.Kind == models.Registration {
		return a.finishRegistration(ctx, w)
	}

	userName, err := getSimpleText(a.reader, "User name", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, fmt.Sprintf("Password (at least %d characters)", common.MinPasswordLength), a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	email, err := getSimpleText(a.reader, "Email address", a.out)
	if err != nil {
		return err
	}

	if err := a.accounts.StartRegistration(ctx, &a.state, userName, string(password), email); err != nil {
		return err
	}
	a.notice("A confirmation code was sent to " + email + ". Choose 3 to finish registering.")
	return nil
}

func (a *App) finishRegistration(ctx context.Context, w models.PendingWorkflow) error {
	code, err := getSimpleText(a.reader, fmt.Sprintf("Confirmation code for %s (empty to abandon)", w.UserName), a.out)
	if err != nil {
		return err
	}
	if code == "" {
		a.state.Workflow.Abandon()
		a.notice("Registration abandoned.")
		return nil
	}

	if err := a.accounts.FinishRegistration(ctx, &a.state, code); err != nil {
		return err
	}
	a.notice("Welcome, " + a.state.Session.UserName + "! You are signed in.")
	return nil
}

// ResetPassword starts a forgotten-password reset, or finishes the pending
// one.
func (a *App) ResetPassword(ctx context.Context) error {
	if w, ok := a.state.Workflow.Pending(); ok && w.Kind == models.PasswordReset {
		return a.finishReset(ctx, w)
	}

	userName, err := getSimpleText(a.reader, "User name", a.out)
	if err != nil {
		return err
	}
	if err := a.accounts.StartPasswordReset(ctx, &a.state, userName); err != nil {
		return err
	}
	a.notice("A confirmation code was sent to the email address of " + userName + ". Choose 4 to set a new password.")
	return nil
}

func (a *App) finishReset(ctx context.Context, w models.PendingWorkflow) error {
	code, err := getSimpleText(a.reader, fmt.Sprintf("Confirmation code for %s (empty to abandon)", w.UserName), a.out)
	if err != nil {
		return err
	}
	if code == "" {
		a.state.Workflow.Abandon()
		a.notice("Password reset abandoned.")
		return nil
	}

	password, err := getPassword(a.reader, fmt.Sprintf("New password (at least %d characters)", common.MinPasswordLength), a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.accounts.FinishPasswordReset(ctx, &a.state, code, string(password)); err != nil {
		return err
	}
	a.notice("Password changed. Signed in as " + a.state.Session.UserName + ".")
	return nil
}

// Post publishes a one-line message.
func (a *App) Post(ctx context.Context) error {
	msg, err := getSimpleText(a.reader, "Message", a.out)
	if err != nil {
		return err
	}
	if err := a.accounts.Post(ctx, &a.state, msg); err != nil {
		return err
	}
	a.notice("Posted.")
	return nil
}

func (a *App) SignOut(ctx context.Context) error {
	name := a.state.Session.UserName
	if err := a.accounts.SignOut(&a.state); err != nil {
		return err
	}
	a.notice("Signed out " + name + ".")
	return nil
}

// DeleteAccount asks for confirmation, then deletes the signed-in user.
func (a *App) DeleteAccount(ctx context.Context) error {
	name := a.state.Session.UserName
	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete account %s? Type yes to confirm", name), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		a.notice("Account kept.")
		return nil
	}

	if err := a.accounts.DeleteAccount(ctx, &a.state); err != nil {
		return err
	}
	a.notice("Account " + name + " deleted.")
	return nil
}

// DeletePost removes one of the user's posts by the ID shown in the list.
func (a *App) DeletePost(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "ID of the post to delete (the number in <...>)", a.out)
	if err != nil {
		return err
	}
	if err := a.accounts.DeletePost(ctx, &a.state, id); err != nil {
		return err
	}
	a.notice("Post deleted.")
	return nil
}
