package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/postapp/internal/client/client"
	"github.com/dmitrijs2005/postapp/internal/client/config"
	"github.com/dmitrijs2005/postapp/internal/client/services"
	"github.com/dmitrijs2005/postapp/internal/client/timeline"
	"github.com/dmitrijs2005/postapp/internal/logging"
)

// Test seams for interactive input.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	accounts *services.Accounts
	state    services.UserState
	loc      *time.Location

	reader *bufio.Reader
	out    io.Writer
	styles styles

	lastListed time.Time
	now        func() time.Time
}

// NewApp wires the Lambda-backed services for cfg.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	inv, err := client.NewLambdaInvokerFromConfig(ctx, cfg.Region, cfg.LambdaEndpoint)
	if err != nil {
		return nil, err
	}
	chat := services.NewChatService(client.NewCaller(inv, logger))

	return newApp(cfg, logger, services.NewAccounts(chat, logger), os.Stdin, os.Stdout)
}

func newApp(cfg *config.Config, logger logging.Logger, accounts *services.Accounts, in io.Reader, out io.Writer) (*App, error) {
	loc, err := timeline.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	return &App{
		config:   cfg,
		logger:   logger,
		accounts: accounts,
		loc:      loc,
		reader:   bufio.NewReader(in),
		out:      out,
		styles:   newStyles(out),
		now:      time.Now,
	}, nil
}

// Run shows the post list and then the menu until the user quits, input
// ends or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, a.styles.title.Render("PostApp"))
	runMenu(ctx, a, a.reader)
}

func (a *App) view() menuView {
	v := menuView{SignedIn: a.state.Session.SignedIn, UserName: a.state.Session.UserName}
	if w, ok := a.state.Workflow.Pending(); ok {
		v.Pending = w.Kind
		v.PendingUser = w.UserName
	}
	return v
}

// beforePrompt signs out an expired session and refreshes the post list
// when the refresh interval has passed.
func (a *App) beforePrompt(ctx context.Context) {
	if a.accounts.CheckExpiry(&a.state) {
		a.notice("Your session has expired. Please sign in again.")
	}

	every := a.config.RefreshInterval
	if every <= 0 || a.now().Sub(a.lastListed) < every {
		return
	}
	if err := a.ListPosts(ctx); err != nil {
		a.reportError(err)
	}
}

func (a *App) showMenu(v menuView) {
	fmt.Fprintln(a.out)
	for _, l := range menuLines(v) {
		fmt.Fprintln(a.out, a.styles.menu.Render(l))
	}
	fmt.Fprintln(a.out, v.prompt())
}

func (a *App) say(msg string) {
	fmt.Fprintln(a.out, msg)
}

func (a *App) notice(msg string) {
	fmt.Fprintln(a.out, a.styles.notice.Render(msg))
}

func (a *App) reportError(err error) {
	a.logger.Debug(context.Background(), "action failed", "error", err)
	fmt.Fprintln(a.out, a.styles.errorText.Render(services.Describe(err)))
}
