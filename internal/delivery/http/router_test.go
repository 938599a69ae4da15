package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go-telehealth/config"
	"go-telehealth/internal/delivery/dto"
	"go-telehealth/internal/delivery/http/handler"
	"go-telehealth/internal/delivery/http/middleware"
	"go-telehealth/internal/domain/entity"
	"go-telehealth/internal/service"
	"go-telehealth/internal/usecase"
	"go-telehealth/pkg/jwt"
	"go-telehealth/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type tokenSet struct {
	mu     sync.Mutex
	tokens map[string]bool
}

func (s *tokenSet) Store(ctx context.Context, kind service.TokenKind, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[string(kind)+tokenID] = true
	return nil
}

func (s *tokenSet) Exists(ctx context.Context, kind service.TokenKind, userID uuid.UUID, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[string(kind)+tokenID], nil
}

func (s *tokenSet) Revoke(ctx context.Context, kind service.TokenKind, userID uuid.UUID, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	live := s.tokens[string(kind)+tokenID]
	delete(s.tokens, string(kind)+tokenID)
	return live, nil
}

type stubAppointments struct {
	usecase.AppointmentUsecase
}

func (stubAppointments) UpdateStatus(ctx context.Context, session *entity.Session, id uuid.UUID, target entity.AppointmentStatus) (*dto.AppointmentResponse, error) {
	return &dto.AppointmentResponse{ID: id, Status: string(target)}, nil
}

type stubSubscriptions struct {
	usecase.SubscriptionUsecase
	active bool
}

func (s stubSubscriptions) CheckAccess(ctx context.Context, session *entity.Session) (*dto.SubscriptionStatusResponse, error) {
	return &dto.SubscriptionStatusResponse{Active: s.active, WalletAddress: session.ConnectedWallet}, nil
}

func (s stubSubscriptions) ChatSession(ctx context.Context, session *entity.Session) (*dto.ChatSessionResponse, error) {
	return &dto.ChatSessionResponse{}, nil
}

type testServer struct {
	handler http.Handler
	jwt     *jwt.JWTService
	tokens  *tokenSet
}

func newTestServer(t *testing.T, origins []string, subscribed bool) *testServer {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	v := validator.NewValidator()
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "router-secret", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})
	tokens := &tokenSet{tokens: make(map[string]bool)}
	subs := stubSubscriptions{active: subscribed}

	router := NewRouter(
		handler.NewAuthHandler(nil, v),
		handler.NewProfileHandler(nil, v),
		handler.NewDoctorHandler(nil),
		handler.NewAppointmentHandler(stubAppointments{}, v),
		handler.NewTransactionHandler(nil),
		handler.NewSubscriptionHandler(subs),
		middleware.NewAuthMiddleware(jwtService, tokens, v),
		middleware.NewSubscriptionMiddleware(subs, log),
		middleware.NewCORSMiddleware(origins),
	)

	return &testServer{handler: router.Setup(), jwt: jwtService, tokens: tokens}
}

func (s *testServer) login(t *testing.T, role entity.Role) string {
	t.Helper()
	userID := uuid.New()
	token, tokenID, err := s.jwt.GenerateAccessToken(userID, "someone@example.com", role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	s.tokens.Store(context.Background(), service.AccessTokenKind, userID, tokenID, time.Minute)
	return token
}

func (s *testServer) do(method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set(middleware.WalletHeader, "0x52908400098527886E0F7030069857D2E4169EE7")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Preflight(t *testing.T) {
	srv := newTestServer(t, nil, false)
	id := uuid.NewString()

	for _, path := range []string{
		"/api/v1/appointments/" + id + "/pay",
		"/api/v1/auth/login",
		"/api/v1/subscriptions",
		"/api/v1/chat/session",
	} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		req.Header.Set("Origin", "https://app.example.org")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "authorization,x-wallet-address")
		rec := httptest.NewRecorder()
		srv.handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("%s: status = %d, want 204", path, rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("%s: allow-origin = %q", path, got)
		}
		if !strings.Contains(rec.Header().Get("Access-Control-Allow-Headers"), middleware.WalletHeader) {
			t.Errorf("%s: wallet header not allowed", path)
		}
	}
}

func TestRouter_PreflightRestrictedOrigin(t *testing.T) {
	srv := newTestServer(t, []string{"https://app.example.org"}, false)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/appointments", nil)
	req.Header.Set("Origin", "https://app.example.org")
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.org" {
		t.Errorf("allow-origin = %q", got)
	}

	rec = srv.do(http.MethodGet, "/api/v1/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
}

func TestRouter_RoleGates(t *testing.T) {
	srv := newTestServer(t, nil, false)
	id := uuid.NewString()
	patient := srv.login(t, entity.RolePatient)
	doctor := srv.login(t, entity.RoleDoctor)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   int
	}{
		{"patient cannot set status", http.MethodPatch, "/api/v1/appointments/" + id + "/status", patient, `{"status":"accepted"}`, http.StatusForbidden},
		{"patient cannot complete", http.MethodPost, "/api/v1/appointments/" + id + "/complete", patient, "", http.StatusForbidden},
		{"doctor cannot pay", http.MethodPost, "/api/v1/appointments/" + id + "/pay", doctor, `{"amount":"5"}`, http.StatusForbidden},
		{"doctor cannot book", http.MethodPost, "/api/v1/appointments", doctor, `{}`, http.StatusForbidden},
		{"doctor sets status", http.MethodPatch, "/api/v1/appointments/" + id + "/status", doctor, `{"status":"accepted"}`, http.StatusOK},
		{"anonymous", http.MethodGet, "/api/v1/appointments", "", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(tt.method, tt.path, tt.token, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRouter_ChatRequiresSubscription(t *testing.T) {
	srv := newTestServer(t, nil, false)
	rec := srv.do(http.MethodGet, "/api/v1/chat/session", srv.login(t, entity.RolePatient), "")
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402", rec.Code)
	}

	srv = newTestServer(t, nil, true)
	rec = srv.do(http.MethodGet, "/api/v1/chat/session", srv.login(t, entity.RolePatient), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
