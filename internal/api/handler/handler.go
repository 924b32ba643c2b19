package handler

import "github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/chathub"

// Handler carries the chat hub and the admin credential/signing material
// into the gin routes.
type Handler struct {
	Hub *chathub.Hub

	JWTSecret     []byte
	AdminUser     string
	AdminPassword string
}

func NewHandler(hub *chathub.Hub, jwtSecret []byte, adminUser, adminPassword string) *Handler {
	return &Handler{
		Hub:           hub,
		JWTSecret:     jwtSecret,
		AdminUser:     adminUser,
		AdminPassword: adminPassword,
	}
}
