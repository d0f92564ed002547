package auth

// Claims es la identidad resuelta a partir del bearer token.
// UserID es el único campo obligatorio; es el dueño de los perfiles de césped.
type Claims struct {
	UserID string
	Email  string
	Role   string
}
