package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/postapp/internal/client/client"
	"github.com/dmitrijs2005/postapp/internal/common"
)

// Describe turns an error from Accounts or ChatService into the line shown
// to the user.
func Describe(err error) string {
	var (
		af *client.ActionFailure
		te *client.TransportError
		me *client.MalformedResponseError
		ue *client.UnexpectedResponseError
		ve *common.ValidationError
	)

	switch {
	case errors.As(err, &ve):
		return "Invalid input: " + ve.Error()
	case errors.As(err, &af):
		if af.Message != "" {
			return "Error: " + af.Message
		}
		return "Error: " + af.Error()
	case errors.As(err, &te):
		return "Could not reach the service: " + te.Err.Error()
	case errors.As(err, &me):
		return "The service sent an unreadable response."
	case errors.As(err, &ue):
		return fmt.Sprintf("The service sent an unexpected response (status %d).", ue.StatusCode)
	case errors.Is(err, common.ErrNoPendingWorkflow):
		return "There is nothing to finish."
	case errors.Is(err, common.ErrWorkflowPending):
		return "Finish or abandon the pending step first."
	default:
		return "Error: " + err.Error()
	}
}
