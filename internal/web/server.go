// Package web serves PostApp as a browser application. Each browser session
// owns its own signed-in session and pending workflow, kept in memory and
// addressed by a signed cookie.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/nikolalohinski/gonja/v2/exec"

	"github.com/dmitrijs2005/postapp/internal/client/client"
	"github.com/dmitrijs2005/postapp/internal/client/models"
	"github.com/dmitrijs2005/postapp/internal/client/services"
	"github.com/dmitrijs2005/postapp/internal/client/timeline"
	"github.com/dmitrijs2005/postapp/internal/logging"
	"github.com/dmitrijs2005/postapp/internal/web/config"
)

const (
	sessionName = "postapp"
	stateKey    = "state"

	msgExpired = "Your session has expired. Please sign in again."
)

// sessionData is what the store keeps per browser session.
type sessionData struct {
	Session models.Session
	Pending *models.PendingWorkflow
}

type Server struct {
	config   *config.Config
	logger   logging.Logger
	accounts *services.Accounts
	store    sessions.Store
	tpl      *exec.Template
	loc      *time.Location
	now      func() time.Time
}

// NewServer wires the Lambda-backed services for cfg.
func NewServer(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Server, error) {
	inv, err := client.NewLambdaInvokerFromConfig(ctx, cfg.Region, cfg.LambdaEndpoint)
	if err != nil {
		return nil, err
	}
	chat := services.NewChatService(client.NewCaller(inv, logger))

	store, err := NewMemoryStore(cfg.SessionSecret)
	if err != nil {
		return nil, err
	}

	return newServer(cfg, logger, services.NewAccounts(chat, logger), store)
}

func newServer(cfg *config.Config, logger logging.Logger, accounts *services.Accounts, store sessions.Store) (*Server, error) {
	loc, err := timeline.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	tpl, err := parsePage()
	if err != nil {
		return nil, err
	}

	return &Server{
		config:   cfg,
		logger:   logger.With("module", "web"),
		accounts: accounts,
		store:    store,
		tpl:      tpl,
		loc:      loc,
		now:      time.Now,
	}, nil
}

// Handler returns the routed application with request id and logging
// middleware applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/about", s.static(pageAbout, "About")).Methods(http.MethodGet)
	r.HandleFunc("/contact", s.static(pageContact, "Contact")).Methods(http.MethodGet)
	r.HandleFunc("/feed", s.handleFeed).Methods(http.MethodGet)

	r.HandleFunc("/login", s.action(s.login)).Methods(http.MethodPost)
	r.HandleFunc("/register", s.action(s.register)).Methods(http.MethodPost)
	r.HandleFunc("/reset", s.action(s.reset)).Methods(http.MethodPost)
	r.HandleFunc("/post", s.action(s.post)).Methods(http.MethodPost)
	r.HandleFunc("/delete", s.action(s.deletePost)).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.action(s.logout)).Methods(http.MethodPost)
	r.HandleFunc("/unregister", s.action(s.unregister)).Methods(http.MethodPost)
	r.HandleFunc("/abandon", s.action(s.abandon)).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)

	return requestIDMiddleware(loggingMiddleware(s.logger)(r))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping web server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting web server", "address", s.config.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// loadState restores the user state stored for the request's session.
func (s *Server) loadState(r *http.Request) (*sessions.Session, *services.UserState) {
	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		s.logger.Debug(r.Context(), "session lookup failed", "error", err)
	}

	st := &services.UserState{}
	if d, ok := sess.Values[stateKey].(sessionData); ok {
		st.Session = d.Session
		st.Workflow.Restore(d.Pending)
	}
	return sess, st
}

func (s *Server) saveState(w http.ResponseWriter, r *http.Request, sess *sessions.Session, st *services.UserState) {
	sess.Values[stateKey] = sessionData{Session: st.Session, Pending: st.Workflow.Snapshot()}
	if err := sess.Save(r, w); err != nil {
		s.logger.Error(r.Context(), "session save failed", "error", err)
	}
}

// renderMain renders the main page with the current post list.
func (s *Server) renderMain(w http.ResponseWriter, r *http.Request, p page, st *services.UserState) {
	p.Name = pageMain
	posts, err := s.accounts.Posts(r.Context(), s.config.MaxMessages)
	if err != nil {
		s.logger.Debug(r.Context(), "listing posts failed", "error", err)
		if p.Error == "" {
			p.Error = services.Describe(err)
		}
	}
	p.Days = timeline.Group(posts, s.loc)
	s.render(w, r, http.StatusOK, p, st)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, st := s.loadState(r)
	var p page
	if s.accounts.CheckExpiry(st) {
		p.Notice = msgExpired
	}
	s.saveState(w, r, sess, st)
	s.renderMain(w, r, p, st)
}

func (s *Server) static(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, st := s.loadState(r)
		s.render(w, r, http.StatusOK, page{Name: name, Title: title}, st)
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	_, st := s.loadState(r)
	s.render(w, r, http.StatusNotFound, page{Name: pageNotFound, Title: "Not found", Path: r.URL.Path}, st)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	posts, err := s.accounts.Posts(r.Context(), s.config.MaxMessages)
	if err != nil {
		s.logger.Error(r.Context(), "feed: listing posts failed", "error", err)
		http.Error(w, services.Describe(err), http.StatusBadGateway)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	rss, err := buildFeed(posts, scheme+"://"+r.Host, s.now())
	if err != nil {
		s.logger.Error(r.Context(), "feed: render failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	_, _ = w.Write([]byte(rss))
}

// actionFunc runs one form submission against st and returns the notice
// shown on success.
type actionFunc func(ctx context.Context, r *http.Request, st *services.UserState) (string, error)

// action wraps fn: restore the session, sign out an expired token, run fn,
// store the new state and re-render the main page.
func (s *Server) action(fn actionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, st := s.loadState(r)

		var p page
		if s.accounts.CheckExpiry(st) {
			p.Notice = msgExpired
		}

		if err := r.ParseForm(); err != nil {
			p.Error = "Could not read the form."
		} else if notice, err := fn(r.Context(), r, st); err != nil {
			s.logger.Debug(r.Context(), "action failed", "path", r.URL.Path, "error", err)
			p.Error = services.Describe(err)
		} else if p.Notice != "" {
			p.Notice += " " + notice
		} else {
			p.Notice = notice
		}

		s.saveState(w, r, sess, st)
		s.renderMain(w, r, p, st)
	}
}

func (s *Server) login(ctx context.Context, r *http.Request, st *services.UserState) (string, error) {
	if err := s.accounts.SignIn(ctx, st, r.PostFormValue("username"), r.PostFormValue("password")); err != nil {
		return "", err
	}
	return "Signed in as " + st.Session.UserName + ".", nil
}

// register runs step 2 when a registration is pending and step 1 otherwise.
func (s *Server) register(ctx context.Context, r *http.Request, st *services.UserState) (string, error) {
	if st.Workflow.PendingKind(models.Registration) {
		if err := s.accounts.FinishRegistration(ctx, st, r.PostFormValue("code")); err != nil {
			return "", err
		}
		return "Registration confirmed. Signed in as " + st.Session.UserName + ".", nil
	}

	err := s.accounts.StartRegistration(ctx, st,
		r.PostFormValue("username"), r.PostFormValue("password"), r.PostFormValue("email"))
	if err != nil {
		return "", err
	}
	return "A confirmation code has been sent to " + r.PostFormValue("email") + ".", nil
}

// reset runs step 2 when a password reset is pending and step 1 otherwise.
func (s *Server) reset(ctx context.Context, r *http.Request, st *services.UserState) (string, error) {
	if st.Workflow.PendingKind(models.PasswordReset) {
		if err := s.accounts.FinishPasswordReset(ctx, st, r.PostFormValue("code"), r.PostFormValue("password")); err != nil {
			return "", err
		}
		return "Password changed. Signed in as " + st.Session.UserName + ".", nil
	}

	if err := s.accounts.StartPasswordReset(ctx, st, r.PostFormValue("username")); err != nil {
		return "", err
	}
	return "A confirmation code has been sent to the email address of " + r.PostFormValue("username") + ".", nil
}

func (s *Server) post(ctx context.Context, r *http.Request, st *services.UserState) (string, error) {
	if err := s.accounts.Post(ctx, st, r.PostFormValue("message")); err != nil {
		return "", err
	}
	return "Posted.", nil
}

func (s *Server) deletePost(ctx context.Context, r *http.Request, st *services.UserState) (string, error) {
	if err := s.accounts.DeletePost(ctx, st, r.PostFormValue("id")); err != nil {
		return "", err
	}
	return "Post deleted.", nil
}

func (s *Server) logout(_ context.Context, _ *http.Request, st *services.UserState) (string, error) {
	if err := s.accounts.SignOut(st); err != nil {
		return "", err
	}
	return "Signed out.", nil
}

func (s *Server) unregister(ctx context.Context, _ *http.Request, st *services.UserState) (string, error) {
	if err := s.accounts.DeleteAccount(ctx, st); err != nil {
		return "", err
	}
	return "Your account has been deleted.", nil
}

func (s *Server) abandon(_ context.Context, _ *http.Request, st *services.UserState) (string, error) {
	if err := s.accounts.AbandonWorkflow(st); err != nil {
		return "", err
	}
	return "The pending step was abandoned.", nil
}
