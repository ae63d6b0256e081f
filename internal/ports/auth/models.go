package auth

// Claims representa la identidad extraída de la sesión.
type Claims struct {
	UserID string
	Name   string
	Email  string
}
