package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/dmitrijs2005/postapp/internal/awsx"
)

// Invoker sends payload to the named remote function and returns its
// response payload.
type Invoker interface {
	Invoke(ctx context.Context, action string, payload []byte) ([]byte, error)
}

// LambdaAPI is the part of *lambda.Client used by LambdaInvoker.
type LambdaAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaInvoker calls functions synchronously (RequestResponse).
type LambdaInvoker struct {
	api LambdaAPI
}

func NewLambdaInvoker(api LambdaAPI) *LambdaInvoker {
	return &LambdaInvoker{api: api}
}

var newLambdaClient = func(cfg aws.Config, optFns ...func(*lambda.Options)) LambdaAPI {
	return lambda.NewFromConfig(cfg, optFns...)
}

// NewLambdaInvokerFromConfig loads AWS settings for region and, when
// endpoint is set, points the client at it (LocalStack and similar).
func NewLambdaInvokerFromConfig(ctx context.Context, region, endpoint string) (*LambdaInvoker, error) {
	cfg, err := awsx.Load(ctx, awsx.Options{Region: region})
	if err != nil {
		return nil, err
	}

	api := newLambdaClient(cfg, func(o *lambda.Options) {
		o.BaseEndpoint = awsx.Endpoint(endpoint)
	})
	return NewLambdaInvoker(api), nil
}

var errFunctionFailed = errors.New("function error")

func (l *LambdaInvoker) Invoke(ctx context.Context, action string, payload []byte) ([]byte, error) {
	out, err := l.api.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(action),
		InvocationType: types.InvocationTypeRequestResponse,
		Payload:        payload,
	})
	if err != nil {
		return nil, err
	}

	if out.FunctionError != nil {
		return nil, fmt.Errorf("%w: %s: %s", errFunctionFailed, aws.ToString(out.FunctionError), string(out.Payload))
	}
	return out.Payload, nil
}
