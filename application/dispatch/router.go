package dispatch

import (
	"context"
	"encoding/json"
	"time"

	"blog-backend/application/commands"
	cbus "blog-backend/application/commands/bus"
	"blog-backend/application/ports"
	"blog-backend/application/queries"
	qbus "blog-backend/application/queries/bus"
	"blog-backend/domain/config"
	"blog-backend/domain/core/valueobjects"
	pkgerrors "blog-backend/pkg/errors"

	"go.uber.org/zap"
)

// Operation names accepted by the router, as registered on the GraphQL schema
const (
	OpGetPostByID     = "getPostById"
	OpListPosts       = "listPosts"
	OpPostsByUsername = "postsByUsername"
	OpCreatePost      = "createPost"
	OpUpdatePost      = "updatePost"
	OpDeletePost      = "deletePost"
)

// Outcome label recorded for successful operations
const OutcomeOK = "OK"

// Arguments carries the operation arguments. Post stays raw so that the
// attribute order of an update is the order the client sent.
type Arguments struct {
	PostID   string          `json:"postId,omitempty"`
	Post     json.RawMessage `json:"post,omitempty"`
	Username string          `json:"username,omitempty"`
}

// Identity is the authenticated caller, as vouched for by the identity provider
type Identity struct {
	Username string `json:"username"`
}

// Request is one invocation of the router
type Request struct {
	Operation string
	Arguments Arguments
	Identity  *Identity
}

// Tracer wraps an operation in a trace span
type Tracer interface {
	TraceFunction(ctx context.Context, name string, fn func(context.Context) error) error
	AddAnnotation(ctx context.Context, key string, value string)
}

// Router is the single entry point mapping an operation name to its command or query.
// It keeps no state between calls.
type Router struct {
	commandBus *cbus.CommandBus
	queryBus   *qbus.QueryBus
	metrics    ports.OperationMetrics
	tracer     Tracer
	limits     *config.DomainConfig
	logger     *zap.Logger
}

// Option configures a Router
type Option func(*Router)

// WithMetrics records every dispatched operation
func WithMetrics(metrics ports.OperationMetrics) Option {
	return func(r *Router) { r.metrics = metrics }
}

// WithTracer traces every dispatched operation
func WithTracer(tracer Tracer) Option {
	return func(r *Router) { r.tracer = tracer }
}

// WithDomainConfig sets the limits post payloads are validated against
func WithDomainConfig(limits *config.DomainConfig) Option {
	return func(r *Router) { r.limits = limits }
}

// NewRouter creates a router over the given buses
func NewRouter(commandBus *cbus.CommandBus, queryBus *qbus.QueryBus, logger *zap.Logger, opts ...Option) *Router {
	r := &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		limits:     config.DefaultDomainConfig(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dispatch runs one operation. On failure the result is nil and the error is an
// *errors.AppError whose Type tells callers what went wrong.
func (r *Router) Dispatch(ctx context.Context, req Request) (interface{}, error) {
	start := time.Now()

	var result interface{}
	run := func(ctx context.Context) error {
		var err error
		result, err = r.route(ctx, req)
		err = r.classify(req, err)
		if r.tracer != nil {
			operation, outcome := labels(req.Operation, err)
			r.tracer.AddAnnotation(ctx, "operation", operation)
			r.tracer.AddAnnotation(ctx, "outcome", outcome)
		}
		return err
	}

	var err error
	if r.tracer != nil {
		err = r.tracer.TraceFunction(ctx, "dispatch."+req.Operation, run)
	} else {
		err = run(ctx)
	}

	r.record(ctx, req.Operation, err, time.Since(start))

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Router) route(ctx context.Context, req Request) (interface{}, error) {
	args := req.Arguments

	switch req.Operation {
	case OpGetPostByID:
		return r.queryBus.Ask(ctx, queries.GetPostQuery{PostID: args.PostID})

	case OpListPosts:
		return r.queryBus.Ask(ctx, queries.ListPostsQuery{})

	case OpPostsByUsername:
		owner := args.Username
		if owner == "" {
			owner = req.username()
		}
		if owner == "" {
			return nil, pkgerrors.NewUnauthorizedError("username or caller identity is required")
		}
		return r.queryBus.Ask(ctx, queries.ListPostsByOwnerQuery{Owner: owner})

	case OpCreatePost:
		caller, err := req.caller()
		if err != nil {
			return nil, err
		}
		input, err := valueobjects.ParsePostInput(args.Post, r.limits)
		if err != nil {
			return nil, err
		}
		// A client-supplied owner is ignored; the caller always owns what they create
		return r.commandBus.Send(ctx, commands.CreatePostCommand{
			PostID:  input.ID,
			Owner:   caller,
			Changes: input.Changes,
		})

	case OpUpdatePost:
		caller, err := req.caller()
		if err != nil {
			return nil, err
		}
		input, err := valueobjects.ParsePostInput(args.Post, r.limits)
		if err != nil {
			return nil, err
		}
		if input.OwnerSupplied {
			return nil, pkgerrors.NewValidationError("owner cannot be updated")
		}
		postID, err := resolvePostID(input.ID, args.PostID)
		if err != nil {
			return nil, err
		}
		return r.commandBus.Send(ctx, commands.UpdatePostCommand{
			PostID:  postID,
			Caller:  caller,
			Changes: input.Changes,
		})

	case OpDeletePost:
		caller, err := req.caller()
		if err != nil {
			return nil, err
		}
		return r.commandBus.Send(ctx, commands.DeletePostCommand{
			PostID: args.PostID,
			Caller: caller,
		})

	default:
		return nil, pkgerrors.NewUnsupportedOperationError(req.Operation)
	}
}

func (req Request) username() string {
	if req.Identity == nil {
		return ""
	}
	return req.Identity.Username
}

// caller returns the identity required by mutations
func (req Request) caller() (string, error) {
	if u := req.username(); u != "" {
		return u, nil
	}
	return "", pkgerrors.NewUnauthorizedError("mutations require an authenticated caller")
}

// resolvePostID picks the target of an update from post.id or postId
func resolvePostID(fromPost, fromArgs string) (string, error) {
	switch {
	case fromPost == "":
		return fromArgs, nil
	case fromArgs == "" || fromArgs == fromPost:
		return fromPost, nil
	default:
		return "", pkgerrors.NewValidationError("post.id and postId refer to different posts")
	}
}

// classify turns any failure into an AppError and logs it once
func (r *Router) classify(req Request, err error) error {
	if err == nil {
		return nil
	}

	appErr := pkgerrors.GetAppError(err)
	if appErr == nil {
		appErr = pkgerrors.NewInternalError("operation failed").WithCause(err)
	}

	fields := []zap.Field{
		zap.String("operation", req.Operation),
		zap.String("errorType", string(appErr.Type)),
		zap.String("caller", req.username()),
		zap.Error(err),
	}
	if req.Arguments.PostID != "" {
		fields = append(fields, zap.String("postID", req.Arguments.PostID))
	}

	switch appErr.Type {
	case pkgerrors.ErrorTypeDatabase, pkgerrors.ErrorTypeInternal, pkgerrors.ErrorTypeUnavailable:
		r.logger.Error("Operation failed", fields...)
	default:
		r.logger.Info("Operation rejected", fields...)
	}

	return appErr
}

func (r *Router) record(ctx context.Context, operation string, err error, duration time.Duration) {
	if r.metrics == nil {
		return
	}
	operation, outcome := labels(operation, err)
	r.metrics.RecordOperation(ctx, operation, outcome, duration)
}

// labels returns the operation and outcome reported to metrics and traces
func labels(operation string, err error) (string, string) {
	outcome := OutcomeOK
	if err != nil {
		outcome = string(pkgerrors.TypeOf(err))
	}
	// Unknown names are caller input; keep them out of labels
	if pkgerrors.IsUnsupported(err) {
		operation = "unsupported"
	}
	return operation, outcome
}
