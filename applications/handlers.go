package applications

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/user/jobtrack-go/apperror"
	"github.com/user/jobtrack-go/logger"
)

const maxBodyBytes = 1 << 20

// Handlers serves the job application endpoints.
type Handlers struct{}

// NewHandlers creates Handlers. The store comes from the request's Scope.
func NewHandlers() *Handlers {
	return &Handlers{}
}

// RegisterRoutes mounts the CRUD routes on router, which must already carry the bearer
// and scope middleware.
func (h *Handlers) RegisterRoutes(router chi.Router) {
	router.Get("/", h.list)
	router.Post("/", h.create)
	router.Get("/{id}", h.get)
	router.Put("/{id}", h.update)
	router.Delete("/{id}", h.delete)
}

// ParsePage reads offset and limit from the query string, defaulting to 0 and DefaultLimit.
func ParsePage(q url.Values) (Page, error) {
	page := Page{Offset: 0, Limit: DefaultLimit}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, apperror.NewInvalidInputError("offset must be an integer", err)
		}
		page.Offset = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, apperror.NewInvalidInputError("limit must be an integer", err)
		}
		page.Limit = n
	}
	return page, page.Validate()
}

// scope fetches the request's Scope and reports a 401 when there is none.
func scope(w http.ResponseWriter, r *http.Request) (*Scope, bool) {
	sc, ok := ScopeFromContext(r.Context())
	if !ok {
		apperror.WriteError(w, r, apperror.NewUnauthenticatedError(apperror.MsgUnauthenticated, nil))
	}
	return sc, ok
}

// pathID parses the {id} URL parameter. Anything that is not a uuid cannot name a record.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperror.NewNotFoundError("Job application not found", err)
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.NewInvalidInputError("Invalid request body: "+err.Error(), err)
	}
	return nil
}

// list godoc
// @Summary List job applications
// @Description Lists the caller's job applications ordered by application date.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param offset query int false "Records to skip" default(0) minimum(0)
// @Param limit query int false "Records to return" default(10) minimum(1) maximum(100)
// @Success 200 {array} Application
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Router / [get]
func (h *Handlers) list(w http.ResponseWriter, r *http.Request) {
	sc, ok := scope(w, r)
	if !ok {
		return
	}
	page, err := ParsePage(r.URL.Query())
	if err != nil {
		apperror.WriteError(w, r, err)
		return
	}
	apps, err := sc.List(r.Context(), page)
	if err != nil {
		apperror.WriteError(w, r, err)
		return
	}
	apperror.WriteJSON(w, http.StatusOK, apps)
}

// get godoc
// @Summary Get a job application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application id" format(uuid)
// @Success 200 {object} Application
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /{id} [get]
func (h *Handlers) get(w http.ResponseWriter, r *http.Request) {
	sc, ok := scope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		apperror.WriteError(w, r, err)
		return
	}
	app, err := sc.Get(r.Context(), id)
	if err != nil {
		apperror.WriteError(w, r, err)
		return
	}
	apperror.WriteJSON(w, http.StatusOK, app)
}

// create godoc
// @Summary Create a job application
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param application body CreateRequest true "New application"
// @Success 201 {object} Application
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Router / [post]
func (h *Handlers) create(w http.ResponseWriter, r *http.Request) {
	sc, ok := scope(w, r)
	if !ok {
		return
	}
	var req CreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apperror.WriteError(w, r, err)
		return
	}
	app, err := sc.Create(r.Context(), req)
	if err != nil {
		apperror.WriteError(w, r, err)
		return
	}
	logger.From(r.Context()).Debug("application created", logger.Component("applications"))
	apperror.WriteJSON(w, http.StatusCreated, app)
}

// update godoc
// @Summary Update a job application
// @Description Changes only the fields present in the body. "url": null clears the URL.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application id" format(uuid)
// @Param application body UpdateRequest true "Fields to change"
// @Success 200 {object} Application
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /{id} [put]
func (h *Handlers) update(w http.ResponseWriter, r *http.Request) {
	sc, ok := scope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		apperror.WriteError(w, r, err)
		return
	}
	var req UpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apperror.WriteError(w, r, err)
		return
	}
	app, err := sc.Update(r.Context(), id, req)
	if err != nil {
		apperror.WriteError(w, r, err)
		return
	}
	apperror.WriteJSON(w, http.StatusOK, app)
}

// delete godoc
// @Summary Delete a job application
// @Tags applications
// @Security BearerAuth
// @Param id path string true "Application id" format(uuid)
// @Success 204
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /{id} [delete]
func (h *Handlers) delete(w http.ResponseWriter, r *http.Request) {
	sc, ok := scope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		apperror.WriteError(w, r, err)
		return
	}
	if err := sc.Delete(r.Context(), id); err != nil {
		apperror.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
