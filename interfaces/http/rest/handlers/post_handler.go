package handlers

import (
	"context"
	"io"
	"net/http"

	"blog-backend/application/dispatch"
	"blog-backend/pkg/auth"
	pkgerrors "blog-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies; posts are far smaller
const maxBodyBytes = 1 << 20

// Dispatcher runs one router request
type Dispatcher interface {
	Dispatch(ctx context.Context, req dispatch.Request) (interface{}, error)
}

// PostHandler exposes the post operations as REST routes
type PostHandler struct {
	router Dispatcher
	logger *zap.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(router Dispatcher, logger *zap.Logger) *PostHandler {
	return &PostHandler{router: router, logger: logger}
}

// ListPosts handles GET /posts and GET /posts?owner=name
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	if owner := r.URL.Query().Get("owner"); owner != "" {
		h.dispatch(w, r, dispatch.OpPostsByUsername, dispatch.Arguments{Username: owner}, http.StatusOK)
		return
	}
	h.dispatch(w, r, dispatch.OpListPosts, dispatch.Arguments{}, http.StatusOK)
}

// ListUserPosts handles GET /users/{username}/posts
func (h *PostHandler) ListUserPosts(w http.ResponseWriter, r *http.Request) {
	args := dispatch.Arguments{Username: chi.URLParam(r, "username")}
	h.dispatch(w, r, dispatch.OpPostsByUsername, args, http.StatusOK)
}

// ListMyPosts handles GET /me/posts
func (h *PostHandler) ListMyPosts(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, dispatch.OpPostsByUsername, dispatch.Arguments{}, http.StatusOK)
}

// GetPost handles GET /posts/{postID}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	args := dispatch.Arguments{PostID: chi.URLParam(r, "postID")}
	result, err := h.router.Dispatch(r.Context(), h.request(r, dispatch.OpGetPostByID, args))
	if err != nil {
		RespondAppError(w, err, h.logger)
		return
	}
	if result == nil {
		RespondAppError(w, pkgerrors.NewNotFoundError("post"), h.logger)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

// CreatePost handles POST /posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	h.dispatch(w, r, dispatch.OpCreatePost, dispatch.Arguments{Post: body}, http.StatusCreated)
}

// UpdatePost handles PATCH /posts/{postID}
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	args := dispatch.Arguments{PostID: chi.URLParam(r, "postID"), Post: body}
	h.dispatch(w, r, dispatch.OpUpdatePost, args, http.StatusOK)
}

// DeletePost handles DELETE /posts/{postID}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	args := dispatch.Arguments{PostID: chi.URLParam(r, "postID")}
	h.dispatch(w, r, dispatch.OpDeletePost, args, http.StatusOK)
}

func (h *PostHandler) dispatch(w http.ResponseWriter, r *http.Request, op string, args dispatch.Arguments, status int) {
	result, err := h.router.Dispatch(r.Context(), h.request(r, op, args))
	if err != nil {
		RespondAppError(w, err, h.logger)
		return
	}
	RespondJSON(w, status, result)
}

func (h *PostHandler) request(r *http.Request, op string, args dispatch.Arguments) dispatch.Request {
	req := dispatch.Request{Operation: op, Arguments: args}
	if username, ok := auth.IdentityFromContext(r.Context()); ok {
		req.Identity = &dispatch.Identity{Username: username}
	}
	return req
}

func (h *PostHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		RespondAppError(w, pkgerrors.NewValidationError("invalid request body").WithCause(err), h.logger)
		return nil, false
	}
	return body, true
}
