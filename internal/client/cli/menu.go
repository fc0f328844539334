package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/postapp/internal/client/models"
)

// menuView is everything the menu needs to know about the user's state.
// It is derived once per loop iteration.
type menuView struct {
	SignedIn    bool
	UserName    string
	Pending     models.WorkflowKind
	PendingUser string
}

func (v menuView) prompt() string {
	if !v.SignedIn || v.UserName == "" {
		return "(anonymous)> "
	}
	return "(" + v.UserName + ")> "
}

// menuLines renders the option list for v.
func menuLines(v menuView) []string {
	register := "3. Register"
	if v.Pending == models.Registration {
		register = fmt.Sprintf("3. Finish registering %s", v.PendingUser)
	}
	reset := "4. Reset password"
	if v.Pending == models.PasswordReset {
		reset = fmt.Sprintf("4. Finish resetting password for %s", v.PendingUser)
	}

	return []string{
		"1. List posts",
		"2. Sign in",
		register,
		reset,
		"5. Post a message",
		"6. Sign out",
		"7. Delete account",
		"8. Delete a post",
		"q. Quit",
	}
}

// execIface is the command surface the menu loop drives. App implements it;
// tests use a recording fake.
type execIface interface {
	view() menuView
	beforePrompt(ctx context.Context)
	ListPosts(ctx context.Context) error
	SignIn(ctx context.Context) error
	Register(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	Post(ctx context.Context) error
	SignOut(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	DeletePost(ctx context.Context) error
	showMenu(v menuView)
	say(msg string)
	reportError(err error)
}

const (
	msgAlreadySignedIn = "You are already signed in. Sign out first."
	msgMustSignIn      = "You must sign in first."
	msgNotSignedIn     = "You are not signed in."
)

// runMenu shows the menu, reads one choice per line and dispatches it until
// the user quits or input ends. Commands read their own prompts from the
// same reader.
func runMenu(ctx context.Context, a execIface, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		a.beforePrompt(ctx)

		v := a.view()
		a.showMenu(v)

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		choice := strings.TrimSpace(line)

		switch choice {
		case "":
			continue

		case "1":
			err = a.ListPosts(ctx)

		case "2":
			if v.SignedIn {
				a.say(msgAlreadySignedIn)
				continue
			}
			err = a.SignIn(ctx)

		case "3":
			if v.SignedIn {
				a.say(msgAlreadySignedIn)
				continue
			}
			err = a.Register(ctx)

		case "4":
			err = a.ResetPassword(ctx)

		case "5":
			if !v.SignedIn {
				a.say(msgMustSignIn)
				continue
			}
			err = a.Post(ctx)

		case "6":
			if !v.SignedIn {
				a.say(msgNotSignedIn)
				continue
			}
			err = a.SignOut(ctx)

		case "7":
			if !v.SignedIn {
				a.say(msgMustSignIn)
				continue
			}
			err = a.DeleteAccount(ctx)

		case "8":
			if !v.SignedIn {
				a.say(msgMustSignIn)
				continue
			}
			err = a.DeletePost(ctx)

		case "q", "Q":
			a.say("Bye!")
			return

		default:
			a.say("Unknown option: " + choice)
			continue
		}

		if err != nil {
			a.reportError(err)
		}
	}
}
