package web

import (
	"github.com/dmitrijs2005/postapp/internal/client/models"
	"github.com/dmitrijs2005/postapp/internal/client/services"
)

// View is the screen shown on the main page.
type View int

const (
	ViewStart View = iota
	ViewHome
	ViewFinishRegistration
	ViewFinishReset
)

func (v View) String() string {
	switch v {
	case ViewHome:
		return "home"
	case ViewFinishRegistration:
		return "finish_registration"
	case ViewFinishReset:
		return "finish_reset"
	default:
		return "start"
	}
}

// viewFor picks the screen for st. A pending workflow wins over a signed-in
// session so that a reset started while signed in can be finished.
func viewFor(st *services.UserState) View {
	switch {
	case st.Workflow.PendingKind(models.Registration):
		return ViewFinishRegistration
	case st.Workflow.PendingKind(models.PasswordReset):
		return ViewFinishReset
	case st.Session.SignedIn:
		return ViewHome
	default:
		return ViewStart
	}
}
