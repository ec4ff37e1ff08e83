package appsync

import (
	"context"

	"blog-backend/application/dispatch"
	pkgerrors "blog-backend/pkg/errors"

	"github.com/aws/aws-lambda-go/lambda/messages"
	"go.uber.org/zap"
)

// Info identifies the resolved GraphQL field
type Info struct {
	FieldName      string `json:"fieldName"`
	ParentTypeName string `json:"parentTypeName,omitempty"`
}

// Event is the payload AppSync sends to a direct Lambda resolver
type Event struct {
	Info      Info               `json:"info"`
	Arguments dispatch.Arguments `json:"arguments"`
	Identity  *dispatch.Identity `json:"identity,omitempty"`
}

// Request converts the event into a router request
func (e Event) Request() dispatch.Request {
	return dispatch.Request{
		Operation: e.Info.FieldName,
		Arguments: e.Arguments,
		Identity:  e.Identity,
	}
}

// Dispatcher runs one router request
type Dispatcher interface {
	Dispatch(ctx context.Context, req dispatch.Request) (interface{}, error)
}

// Handler resolves AppSync fields through the dispatch router
type Handler struct {
	router Dispatcher
	logger *zap.Logger
}

// NewHandler creates a new AppSync resolver handler
func NewHandler(router Dispatcher, logger *zap.Logger) *Handler {
	return &Handler{router: router, logger: logger}
}

// Handle is the Lambda entry point. Failures come back as typed Lambda errors,
// which AppSync reports with data null and errorType set to the error kind.
func (h *Handler) Handle(ctx context.Context, event Event) (interface{}, error) {
	result, err := h.router.Dispatch(ctx, event.Request())
	if err != nil {
		return nil, ToLambdaError(err)
	}
	return result, nil
}

// ToLambdaError maps an error to the Lambda error shape AppSync understands
func ToLambdaError(err error) error {
	appErr := pkgerrors.GetAppError(err)
	if appErr == nil {
		return messages.InvokeResponse_Error{
			Message: "internal error",
			Type:    string(pkgerrors.ErrorTypeInternal),
		}
	}

	message := appErr.Message
	// Store and internal failures are logged in full; callers get the kind only
	switch appErr.Type {
	case pkgerrors.ErrorTypeDatabase, pkgerrors.ErrorTypeInternal:
		message = "the operation could not be completed"
	}

	return messages.InvokeResponse_Error{
		Message: message,
		Type:    string(appErr.Type),
	}
}
