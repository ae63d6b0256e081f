package events

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"tomodachi-calendar/internal/middleware"
	"tomodachi-calendar/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}

	r.Route("/events", func(er chi.Router) {
		er.Get("/", listEventsHandler(svc, log))
		er.Post("/", createEventHandler(svc, log))

		// Compatibilidad con el cliente viejo: DELETE /events?id=
		er.Delete("/", deleteEventByQueryHandler(svc, log))

		er.Get("/{eventID}", getEventHandler(svc, log))

		// Solo el autor
		er.Put("/{eventID}", updateEventHandler(svc, log))
		er.Patch("/{eventID}", updateEventHandler(svc, log))
		er.Delete("/{eventID}", deleteEventHandler(svc, log))
	})

	r.Get("/me", meHandler())
}

// createEventRequest es el cuerpo para crear un evento.
// El autor sale de la sesión; userId/userName en el body se ignoran.
type createEventRequest struct {
	Title  string `json:"title"`
	Start  string `json:"start"` // RFC3339 o YYYY-MM-DD
	End    string `json:"end"`   // RFC3339 o YYYY-MM-DD
	Color  string `json:"color"` // opcional; si falta se deriva del usuario
	AllDay *bool  `json:"allDay"`
}

// updateEventRequest: punteros para PATCH real, nil = no tocar.
type updateEventRequest struct {
	Title  *string `json:"title"`
	Start  *string `json:"start"`
	End    *string `json:"end"`
	AllDay *bool   `json:"allDay"`
}

// eventResponse representa un evento del calendario devuelto por la API.
type eventResponse struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	UserID   string    `json:"userId"`
	UserName string    `json:"userName"`
	Color    string    `json:"color"`
	AllDay   bool      `json:"allDay"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type meResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// listEventsHandler godoc
// @Summary Listar eventos
// @Description Devuelve la colección completa en orden de almacenamiento. Con `from`/`to` devuelve solo los eventos que tocan ese rango de días. No requiere sesión.
// @Tags events
// @Produce json
// @Param from query string false "Primer día del rango (YYYY-MM-DD o RFC3339)"
// @Param to query string false "Último día del rango (YYYY-MM-DD o RFC3339)"
// @Success 200 {array} eventResponse
// @Failure 400 {object} errorResponse "invalid range"
// @Failure 500 {object} errorResponse "internal error"
// @Router /events [get]
func listEventsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		fromRaw := strings.TrimSpace(q.Get("from"))
		toRaw := strings.TrimSpace(q.Get("to"))

		var (
			items []Event
			err   error
		)
		if fromRaw == "" && toRaw == "" {
			items, err = svc.List(r.Context())
		} else {
			from, to, perr := parseRange(fromRaw, toRaw, svc.Location())
			if perr != nil {
				writeError(w, http.StatusBadRequest, "invalid range")
				return
			}
			items, err = svc.ListRange(r.Context(), from, to)
		}
		if err != nil {
			writeServiceError(w, r, log, err)
			return
		}

		out := make([]eventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEventResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createEventHandler godoc
// @Summary Crear evento
// @Description Crea un evento de días completos. El autor (userId/userName) sale de la sesión. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` / cookie de sesión (prod).
// @Tags events
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param X-Debug-User-Name header string false "Solo en modo dev, nombre visible"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createEventRequest true "title, start y end son obligatorios"
// @Success 201 {object} eventResponse
// @Failure 400 {object} errorResponse "invalid body"
// @Failure 401 {object} errorResponse "unauthorized"
// @Router /events [post]
func createEventHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who := identityFrom(r)
		if who == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createEventRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}

		e, err := svc.Create(r.Context(), who, CreateInput{
			Title:  req.Title,
			Start:  req.Start,
			End:    req.End,
			Color:  req.Color,
			AllDay: req.AllDay,
		})
		if err != nil {
			writeServiceError(w, r, log, err)
			return
		}

		writeJSON(w, http.StatusCreated, toEventResponse(e))
	}
}

// getEventHandler godoc
// @Summary Obtener evento
// @Tags events
// @Produce json
// @Param eventID path string true "ID del evento"
// @Success 200 {object} eventResponse
// @Failure 404 {object} errorResponse "not found"
// @Router /events/{eventID} [get]
func getEventHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.Get(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			writeServiceError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

// updateEventHandler godoc
// @Summary Editar evento
// @Description Solo el autor puede editar. Se aplican únicamente title, start, end y allDay; un campo ausente o vacío no cambia el valor guardado.
// @Tags events
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param eventID path string true "ID del evento"
// @Param payload body updateEventRequest true "Campos a cambiar"
// @Success 200 {object} eventResponse
// @Failure 400 {object} errorResponse "invalid body"
// @Failure 401 {object} errorResponse "unauthorized"
// @Failure 403 {object} errorResponse "forbidden"
// @Failure 404 {object} errorResponse "not found"
// @Failure 409 {object} errorResponse "conflict"
// @Router /events/{eventID} [put]
func updateEventHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who := identityFrom(r)
		if who == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req updateEventRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}

		updated, err := svc.Update(r.Context(), who, chi.URLParam(r, "eventID"), Patch{
			Title:  req.Title,
			Start:  req.Start,
			End:    req.End,
			AllDay: req.AllDay,
		})
		if err != nil {
			writeServiceError(w, r, log, err)
			return
		}

		writeJSON(w, http.StatusOK, toEventResponse(updated))
	}
}

// deleteEventHandler godoc
// @Summary Borrar evento
// @Description Solo el autor puede borrar.
// @Tags events
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param eventID path string true "ID del evento"
// @Success 200 {object} okResponse
// @Failure 401 {object} errorResponse "unauthorized"
// @Failure 403 {object} errorResponse "forbidden"
// @Failure 404 {object} errorResponse "not found"
// @Router /events/{eventID} [delete]
func deleteEventHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleteEvent(w, r, svc, log, chi.URLParam(r, "eventID"))
	}
}

// deleteEventByQueryHandler godoc
// @Summary Borrar evento (por query)
// @Description Igual que DELETE /events/{eventID}, con el id en la query. Exige sesión y autoría.
// @Tags events
// @Produce json
// @Param id query string true "ID del evento"
// @Success 200 {object} okResponse
// @Failure 400 {object} errorResponse "id required"
// @Failure 401 {object} errorResponse "unauthorized"
// @Failure 403 {object} errorResponse "forbidden"
// @Failure 404 {object} errorResponse "not found"
// @Router /events [delete]
func deleteEventByQueryHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.URL.Query().Get("id"))
		if id == "" {
			writeError(w, http.StatusBadRequest, "id required")
			return
		}
		deleteEvent(w, r, svc, log, id)
	}
}

func deleteEvent(w http.ResponseWriter, r *http.Request, svc *Service, log logger.Logger, id string) {
	who := identityFrom(r)
	if who == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := svc.Delete(r.Context(), who, id); err != nil {
		writeServiceError(w, r, log, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// meHandler godoc
// @Summary Usuario actual
// @Description Identidad de la sesión con su color derivado.
// @Tags session
// @Produce json
// @Success 200 {object} meResponse
// @Failure 401 {object} errorResponse "unauthorized"
// @Router /me [get]
func meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who := identityFrom(r)
		if who == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeJSON(w, http.StatusOK, meResponse{
			ID:    who.ID,
			Name:  who.Name,
			Color: ColorFromID(who.ID),
		})
	}
}

// identityFrom traduce los claims de la sesión. nil = anónimo.
func identityFrom(r *http.Request) *Identity {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return nil
	}
	name := strings.TrimSpace(claims.Name)
	if name == "" {
		name = "User"
	}
	return &Identity{ID: strings.TrimSpace(claims.UserID), Name: name}
}

func parseRange(fromRaw, toRaw string, loc *time.Location) (time.Time, time.Time, error) {
	// Extremo faltante = sin límite
	from := time.Time{}
	to := time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

	if fromRaw != "" {
		t, err := ParseDayStart(fromRaw, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	if toRaw != "" {
		t, err := ParseDayEnd(toRaw, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("to before from")
	}
	return from, to, nil
}

func toEventResponse(e Event) eventResponse {
	return eventResponse{
		ID:       e.ID,
		Title:    e.Title,
		Start:    e.Start,
		End:      e.End,
		UserID:   e.UserID,
		UserName: e.UserName,
		Color:    e.Color,
		AllDay:   e.AllDay,
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid body")
	case errors.Is(err, ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	default:
		log.Error("events request failed", map[string]any{
			"method": r.Method,
			"path":   r.URL.Path,
			"err":    err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// maxBodyBytes acota el body de create/update; un evento real ocupa unos cientos de bytes.
const maxBodyBytes = 64 << 10

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, errorResponse{Error: reason})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
