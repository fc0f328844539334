package client

import (
	"net/http"

	"github.com/dmitrijs2005/postapp/internal/client/models"
)

// Kind is the classification of a response envelope.
type Kind int

const (
	Unexpected Kind = iota
	Success
	Failure
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unexpected"
	}
}

// Outcome is the classified result of one remote call.
type Outcome struct {
	Action     string
	Kind       Kind
	Data       []byte
	Code       string
	Message    string
	StatusCode int
	Result     string
}

// Classify interprets env, which came back from action.
//
//	200 + "success"          -> Success, data attached
//	200 + "failure"          -> Failure with the embedded error, possibly empty
//	200 + anything else      -> Unexpected
//	other status + error     -> Failure
//	other status, no error   -> Unexpected
func Classify(action string, env *models.ResponseEnvelope) Outcome {
	out := Outcome{Action: action, Kind: Unexpected}
	if env == nil {
		return out
	}
	out.StatusCode = env.StatusCode
	out.Result = env.Body.Result

	if env.Body.Error != nil {
		out.Code = env.Body.Error.Code
		out.Message = env.Body.Error.Message
	}

	if env.StatusCode == http.StatusOK {
		switch env.Body.Result {
		case models.ResultSuccess:
			out.Kind = Success
			out.Data = env.Body.Data
		case models.ResultFailure:
			out.Kind = Failure
		}
		return out
	}

	if env.Body.Error != nil {
		out.Kind = Failure
	}
	return out
}

// Err returns nil for Success, *ActionFailure for Failure and
// *UnexpectedResponseError otherwise.
func (o Outcome) Err() error {
	switch o.Kind {
	case Success:
		return nil
	case Failure:
		return &ActionFailure{Action: o.Action, Code: o.Code, Message: o.Message}
	default:
		return &UnexpectedResponseError{Action: o.Action, StatusCode: o.StatusCode, Result: o.Result}
	}
}
