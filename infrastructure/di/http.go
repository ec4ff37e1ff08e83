package di

import (
	"net/http"

	"blog-backend/interfaces/http/rest"
	"blog-backend/interfaces/http/rest/middleware"
	"blog-backend/pkg/auth"
)

// NewHTTPHandler builds the REST surface over the container's router.
// Behind API Gateway the caller comes from the JWT authorizer, see
// middleware.ApplyAuthorizerIdentity; otherwise bearer tokens are verified here.
func NewHTTPHandler(c *Container, behindGateway bool) (http.Handler, error) {
	opts := rest.Options{
		TrustGatewayIdentity: behindGateway,
		Metrics:              c.Collector,
		MetricsHandler:       c.Collector.Handler(),
		Health:               c.Health,
		EnableCORS:           c.Config.EnableCORS,
		CORSAllowedOrigins:   c.Config.CORSAllowedOrigins,
	}

	if !behindGateway {
		parser, err := tokenParser(c)
		if err != nil {
			return nil, err
		}
		opts.TokenParser = parser
	}

	return rest.NewRouter(c.Router, c.Logger, opts).Setup(), nil
}

func tokenParser(c *Container) (middleware.TokenParser, error) {
	var jwtCfg auth.JWTConfig
	switch {
	case c.Config.JWTPublicKey != "":
		jwtCfg = auth.JWTConfig{SigningMethod: "RS256", PublicKey: c.Config.JWTPublicKey, Issuer: c.Config.JWTIssuer}
	case c.Config.JWTSecret != "":
		jwtCfg = auth.JWTConfig{SigningMethod: "HS256", SecretKey: c.Config.JWTSecret, Issuer: c.Config.JWTIssuer}
	default:
		// every caller is anonymous; only reads succeed
		c.Logger.Warn("No JWT key configured, mutations will be rejected")
		return nil, nil
	}

	validator, err := auth.NewJWTValidator(jwtCfg)
	if err != nil {
		return nil, err
	}
	return middleware.ValidatorParser(validator), nil
}
