package events

import (
	"fmt"
	"unicode/utf16"
)

// ColorFromID deriva el color de un usuario a partir de su id.
// Mismo hash que usa el cliente web (31*h + unidad UTF-16, mod 2^32),
// así un evento sin color queda igual que uno creado desde la UI.
func ColorFromID(id string) string {
	if id == "" {
		id = "x"
	}

	var h uint32
	for _, u := range utf16.Encode([]rune(id)) {
		h = h*31 + uint32(u)
	}

	r := (h & 0xff0000) >> 16
	g := (h & 0x00ff00) >> 8
	b := h & 0x0000ff
	return fmt.Sprintf("rgba(%d, %d, %d, 0.45)", r, g, b)
}
