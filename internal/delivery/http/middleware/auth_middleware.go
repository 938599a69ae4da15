package middleware

import (
	"context"
	"net/http"
	"strings"

	"go-telehealth/internal/domain/entity"
	"go-telehealth/internal/service"
	"go-telehealth/pkg/jwt"
	"go-telehealth/pkg/response"
	"go-telehealth/pkg/validator"
)

type contextKey string

const (
	SessionKey contextKey = "session"
	TokenIDKey contextKey = "token_id"
)

// WalletHeader carries the wallet address the client currently has connected.
const WalletHeader = "X-Wallet-Address"

type AuthMiddleware struct {
	jwtService *jwt.JWTService
	tokenStore service.TokenStore
	validator  *validator.CustomValidator
}

func NewAuthMiddleware(jwtService *jwt.JWTService, tokenStore service.TokenStore, validator *validator.CustomValidator) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		tokenStore: tokenStore,
		validator:  validator,
	}
}

// Authenticate validates the bearer token and attaches the request Session.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		if claims.TokenType != jwt.AccessToken {
			response.Unauthorized(w, "Invalid token type")
			return
		}
		if !claims.Role.IsValid() {
			response.Unauthorized(w, "Invalid token role")
			return
		}

		// Check if token exists in Redis (not revoked)
		exists, err := m.tokenStore.Exists(r.Context(), service.AccessTokenKind, claims.UserID, claims.TokenID)
		if err != nil {
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if !exists {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		// The connected wallet is optional but must be a wallet address when sent
		wallet := strings.TrimSpace(r.Header.Get(WalletHeader))
		if wallet != "" {
			if err := m.validator.ValidateVar(wallet, "eth_addr"); err != nil {
				response.BadRequest(w, WalletHeader+" must be a valid wallet address")
				return
			}
		}

		session := &entity.Session{
			UserID:          claims.UserID,
			Email:           claims.Email,
			Role:            claims.Role,
			ConnectedWallet: wallet,
		}

		ctx := WithSession(r.Context(), session)
		ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithSession stores the request Session in ctx.
func WithSession(ctx context.Context, session *entity.Session) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

// GetSessionFromContext extracts the request Session from context
func GetSessionFromContext(ctx context.Context) (*entity.Session, bool) {
	session, ok := ctx.Value(SessionKey).(*entity.Session)
	return session, ok && session != nil
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}
