package events

import (
	"strings"
	"time"
)

// Event es una entrada del calendario compartido que cubre uno o más días completos.
// Los tags JSON definen el formato persistido en la key del store (events:v1).
type Event struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	// Start se normaliza al inicio del día y End al final del día.
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	// Autor: se congela al crear, ancla de la autorización.
	UserID   string `json:"userId"`
	UserName string `json:"userName"`

	Color  string `json:"color"`
	AllDay bool   `json:"allDay"`
}

// OwnedBy indica si userID es el autor del evento.
func (e Event) OwnedBy(userID string) bool {
	return strings.TrimSpace(userID) != "" && e.UserID == userID
}

// Overlaps indica si el evento toca el rango [from, to].
func (e Event) Overlaps(from, to time.Time) bool {
	return !e.End.Before(from) && !e.Start.After(to)
}

// Identity es el usuario actuante resuelto desde la sesión.
type Identity struct {
	ID   string
	Name string
}

// Snapshot es la lista completa leída del store más la revisión observada.
// Revision 0 = la key nunca fue escrita.
type Snapshot struct {
	Events   []Event
	Revision int64
}
