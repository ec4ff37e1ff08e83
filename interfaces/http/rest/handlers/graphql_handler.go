package handlers

import (
	"encoding/json"
	"net/http"

	"blog-backend/application/dispatch"
	"blog-backend/pkg/auth"
	pkgerrors "blog-backend/pkg/errors"

	"go.uber.org/zap"
)

// ResolveRequest mirrors the AppSync resolver event, minus the identity,
// which always comes from the verified token
type ResolveRequest struct {
	Info struct {
		FieldName string `json:"fieldName"`
	} `json:"info"`
	Arguments dispatch.Arguments `json:"arguments"`
}

// GraphQLError is one entry of a GraphQL errors list
type GraphQLError struct {
	Message   string `json:"message"`
	ErrorType string `json:"errorType"`
}

// ResolveResponse is a GraphQL-shaped result
type ResolveResponse struct {
	Data   interface{}    `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// GraphQLHandler lets local clients call the resolver the way AppSync does
type GraphQLHandler struct {
	router Dispatcher
	logger *zap.Logger
}

// NewGraphQLHandler creates a new resolver handler
func NewGraphQLHandler(router Dispatcher, logger *zap.Logger) *GraphQLHandler {
	return &GraphQLHandler{router: router, logger: logger}
}

// Resolve handles POST /graphql/resolve
func (h *GraphQLHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ResolveResponse{
			Errors: []GraphQLError{{Message: "invalid request body", ErrorType: string(pkgerrors.ErrorTypeValidation)}},
		})
		return
	}

	dreq := dispatch.Request{Operation: req.Info.FieldName, Arguments: req.Arguments}
	if username, ok := auth.IdentityFromContext(r.Context()); ok {
		dreq.Identity = &dispatch.Identity{Username: username}
	}

	result, err := h.router.Dispatch(r.Context(), dreq)
	if err != nil {
		appErr := pkgerrors.GetAppError(err)
		gqlErr := GraphQLError{Message: "internal error", ErrorType: string(pkgerrors.ErrorTypeInternal)}
		if appErr != nil {
			gqlErr = GraphQLError{Message: appErr.Message, ErrorType: string(appErr.Type)}
			if appErr.Type == pkgerrors.ErrorTypeDatabase {
				gqlErr.Message = "the operation could not be completed"
			}
		}
		// GraphQL reports resolver failures in the body with a 200 status
		writeJSON(w, http.StatusOK, ResolveResponse{Errors: []GraphQLError{gqlErr}})
		return
	}

	writeJSON(w, http.StatusOK, ResolveResponse{Data: result})
}
