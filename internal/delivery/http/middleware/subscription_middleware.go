package middleware

import (
	"context"
	"net/http"

	"go-telehealth/internal/delivery/dto"
	"go-telehealth/internal/domain/entity"
	"go-telehealth/pkg/response"

	"github.com/sirupsen/logrus"
)

// AccessChecker answers whether a session may use subscription features.
type AccessChecker interface {
	CheckAccess(ctx context.Context, session *entity.Session) (*dto.SubscriptionStatusResponse, error)
}

type SubscriptionMiddleware struct {
	checker AccessChecker
	log     *logrus.Logger
}

func NewSubscriptionMiddleware(checker AccessChecker, log *logrus.Logger) *SubscriptionMiddleware {
	return &SubscriptionMiddleware{checker: checker, log: log}
}

// RequireActiveSubscription denies with 402 when the session has no active
// subscription and with 503 when access cannot be determined.
func (m *SubscriptionMiddleware) RequireActiveSubscription(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := GetSessionFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "Session not found")
			return
		}

		status, err := m.checker.CheckAccess(r.Context(), session)
		if err != nil {
			m.log.Warnf("Subscription check failed for %s: %+v", session.UserID, err)
			response.ServiceUnavailable(w, "Unable to verify subscription")
			return
		}
		if !status.Active {
			response.PaymentRequired(w, "An active subscription is required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
