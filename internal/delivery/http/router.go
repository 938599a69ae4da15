package http

import (
	"net/http"

	"go-telehealth/internal/delivery/http/handler"
	"go-telehealth/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router                 *mux.Router
	authHandler            *handler.AuthHandler
	profileHandler         *handler.ProfileHandler
	doctorHandler          *handler.DoctorHandler
	appointmentHandler     *handler.AppointmentHandler
	transactionHandler     *handler.TransactionHandler
	subscriptionHandler    *handler.SubscriptionHandler
	authMiddleware         *middleware.AuthMiddleware
	subscriptionMiddleware *middleware.SubscriptionMiddleware
	corsMiddleware         *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	doctorHandler *handler.DoctorHandler,
	appointmentHandler *handler.AppointmentHandler,
	transactionHandler *handler.TransactionHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	authMiddleware *middleware.AuthMiddleware,
	subscriptionMiddleware *middleware.SubscriptionMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:                 mux.NewRouter(),
		authHandler:            authHandler,
		profileHandler:         profileHandler,
		doctorHandler:          doctorHandler,
		appointmentHandler:     appointmentHandler,
		transactionHandler:     transactionHandler,
		subscriptionHandler:    subscriptionHandler,
		authMiddleware:         authMiddleware,
		subscriptionMiddleware: subscriptionMiddleware,
		corsMiddleware:         corsMiddleware,
	}
}

// Setup registers every route and returns the root handler. CORS wraps the
// whole mux because preflight OPTIONS requests match no registered route.
func (r *Router) Setup() http.Handler {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/patient", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/register/doctor", r.authHandler.RegisterDoctor).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Chat (active subscription only)
	chat := api.PathPrefix("/chat").Subrouter()
	chat.Use(r.authMiddleware.Authenticate)
	chat.Use(r.subscriptionMiddleware.RequireActiveSubscription)
	chat.HandleFunc("/session", r.subscriptionHandler.ChatSession).Methods(http.MethodGet)

	// Everything below requires a valid access token
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/me", r.profileHandler.GetMe).Methods(http.MethodGet)
	protected.HandleFunc("/me", r.profileHandler.UpdateMe).Methods(http.MethodPatch)

	protected.HandleFunc("/doctors", r.doctorHandler.ListDoctors).Methods(http.MethodGet)
	protected.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)

	// Appointments: any party may read, role gates guard the writes
	protected.HandleFunc("/appointments", r.appointmentHandler.ListAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}/meeting", r.appointmentHandler.JoinMeeting).Methods(http.MethodGet)
	protected.Handle("/appointments",
		middleware.RequirePatient(http.HandlerFunc(r.appointmentHandler.CreateAppointment))).Methods(http.MethodPost)
	protected.Handle("/appointments/{id}/pay",
		middleware.RequirePatient(http.HandlerFunc(r.appointmentHandler.PayAppointment))).Methods(http.MethodPost)
	protected.Handle("/appointments/{id}/status",
		middleware.RequireDoctor(http.HandlerFunc(r.appointmentHandler.UpdateStatus))).Methods(http.MethodPatch)
	protected.Handle("/appointments/{id}/complete",
		middleware.RequireDoctor(http.HandlerFunc(r.appointmentHandler.CompleteAppointment))).Methods(http.MethodPost)

	protected.HandleFunc("/transactions", r.transactionHandler.ListTransactions).Methods(http.MethodGet)
	protected.HandleFunc("/transactions/{id}/receipt", r.transactionHandler.GetReceipt).Methods(http.MethodGet)

	protected.HandleFunc("/subscriptions/status", r.subscriptionHandler.GetStatus).Methods(http.MethodGet)
	protected.HandleFunc("/subscriptions", r.subscriptionHandler.Subscribe).Methods(http.MethodPost)

	return r.corsMiddleware.Handle(r.router)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
