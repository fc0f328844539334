package client

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/postapp/internal/client/models"
	"github.com/dmitrijs2005/postapp/internal/logging"
)

// Caller binds an Invoker to a logger.
type Caller struct {
	inv    Invoker
	logger logging.Logger
}

func NewCaller(inv Invoker, logger logging.Logger) *Caller {
	return &Caller{inv: inv, logger: logger}
}

// Call marshals request, invokes action and decodes the envelope.
func (c *Caller) Call(ctx context.Context, action string, request any) (*models.ResponseEnvelope, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, &TransportError{Action: action, Err: err}
	}

	c.logger.Debug(ctx, "invoking function", "action", action)

	raw, err := c.inv.Invoke(ctx, action, payload)
	if err != nil {
		c.logger.Debug(ctx, "invoke failed", "action", action, "error", err)
		return nil, &TransportError{Action: action, Err: err}
	}

	c.logger.Debug(ctx, "raw response", "action", action, "payload", string(raw))

	env, err := models.DecodeEnvelope(raw)
	if err != nil {
		return nil, &MalformedResponseError{Action: action, Err: err}
	}

	c.logger.Debug(ctx, "function returned", "action", action, "status", env.StatusCode, "result", env.Body.Result)
	return env, nil
}

// CallAndClassify calls action and returns the data of a successful
// response, or the error describing why it was not successful.
func (c *Caller) CallAndClassify(ctx context.Context, action string, request any) ([]byte, error) {
	env, err := c.Call(ctx, action, request)
	if err != nil {
		return nil, err
	}

	out := Classify(action, env)
	if err := out.Err(); err != nil {
		return nil, err
	}
	return out.Data, nil
}
