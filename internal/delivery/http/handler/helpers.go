package handler

import (
	"net/http"

	"go-telehealth/internal/delivery/http/middleware"
	"go-telehealth/internal/domain/entity"
	"go-telehealth/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// currentSession writes 401 and returns false when the request carries no session.
func currentSession(w http.ResponseWriter, r *http.Request) (*entity.Session, bool) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return nil, false
	}
	return session, true
}

// pathID parses the {id} route variable, writing 400 when it is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}
