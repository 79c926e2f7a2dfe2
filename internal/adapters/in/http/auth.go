package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	tokenCookie = "jwt"
	tokenQuery  = "token"
	userIDClaim = "id"
	userIDKey   = "user_id"

	msgNoToken     = "Not authorized, no token"
	msgTokenFailed = "Not authorized, token failed"
)

var errNoUserClaim = errors.New("token carries no user id")

// TokenVerifier checks HS256 tokens issued by the account service and
// extracts the caller's user id from the "id" claim.
type TokenVerifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// Verify returns the user id carried by a valid token. Expiry is enforced
// only when the token carries an exp claim.
func (v *TokenVerifier) Verify(token string) (kernel.UUID, error) {
	claims := jwt.MapClaims{}
	if _, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}); err != nil {
		return kernel.UUID{}, fmt.Errorf("invalid token: %w", err)
	}

	raw, isString := claims[userIDClaim].(string)
	if !isString || raw == "" {
		return kernel.UUID{}, errNoUserClaim
	}
	return kernel.UUIDFromString(raw)
}

// Issue signs a token for userID. The account service owns issuance in
// production; tests and local tooling use this to mint callers.
func (v *TokenVerifier) Issue(userID kernel.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		userIDClaim: userID.String(),
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	})
	return token.SignedString(v.secret)
}

// Authenticate rejects requests without a valid token and stores the caller's
// id in the echo context. The cookie wins over the header, the header over
// the query parameter; EventSource clients can only use the latter.
func Authenticate(verifier *TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token := tokenFrom(ctx)
			if token == "" {
				return fail(ctx, http.StatusUnauthorized, msgNoToken)
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				return fail(ctx, http.StatusUnauthorized, msgTokenFailed)
			}

			ctx.Set(userIDKey, userID)
			return next(ctx)
		}
	}
}

func tokenFrom(ctx echo.Context) string {
	if cookie, err := ctx.Cookie(tokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if header := ctx.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		if scheme, token, found := strings.Cut(header, " "); found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}

	return ctx.QueryParam(tokenQuery)
}

// callerID returns the id stored by Authenticate.
func callerID(ctx echo.Context) (kernel.UUID, bool) {
	id, found := ctx.Get(userIDKey).(kernel.UUID)
	return id, found
}
