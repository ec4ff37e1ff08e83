package middleware

import (
	"net/http"
	"strings"

	"blog-backend/pkg/auth"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// GatewayUserHeader carries the username verified by the API Gateway JWT authorizer
const GatewayUserHeader = "X-Gateway-Username"

// ApplyAuthorizerIdentity rewrites an API Gateway request so that the only
// identity left on it is the one the JWT authorizer verified. Client-sent
// bearer tokens and identity headers are dropped. Returns the username, or ""
// for an anonymous request.
func ApplyAuthorizerIdentity(req *events.APIGatewayV2HTTPRequest) string {
	for name := range req.Headers {
		if strings.EqualFold(name, "Authorization") || strings.EqualFold(name, GatewayUserHeader) {
			delete(req.Headers, name)
		}
	}

	username := authorizerIdentity(req.RequestContext.Authorizer)
	if username == "" {
		return ""
	}
	if req.Headers == nil {
		req.Headers = map[string]string{}
	}
	req.Headers[GatewayUserHeader] = username
	return username
}

func authorizerIdentity(authorizer *events.APIGatewayV2HTTPRequestContextAuthorizerDescription) string {
	if authorizer == nil || authorizer.JWT == nil {
		return ""
	}
	return auth.IdentityFromClaimMap(authorizer.JWT.Claims)
}

// GatewayIdentity attaches the username set by ApplyAuthorizerIdentity.
// Only mount it behind that rewrite; the header is trusted as is.
func GatewayIdentity(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username := r.Header.Get(GatewayUserHeader)
			if username == "" {
				next.ServeHTTP(w, r)
				return
			}

			logger.Debug("Caller verified by API Gateway",
				zap.String("path", r.URL.Path),
				zap.String("caller", username),
			)
			ctx := auth.WithIdentity(r.Context(), username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
