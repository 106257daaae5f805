// Package auth contiene los controllers de registro y autenticación.
package auth

import svc "github.com/skycast-dev/skycast/internal/http/services/auth"

// Límite común para los bodies de auth; ningún request legítimo se acerca.
const maxBodySize = 64 * 1024 // 64KB

// Controllers agrupa los controllers del dominio auth.
type Controllers struct {
	Register *RegisterController
	Login    *LoginController
	Google   *GoogleController
}

// Services son las dependencias que el router inyecta.
type Services struct {
	Register svc.RegisterService
	Login    svc.LoginService
	Google   svc.GoogleService
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(s Services) *Controllers {
	return &Controllers{
		Register: NewRegisterController(s.Register),
		Login:    NewLoginController(s.Login),
		Google:   NewGoogleController(s.Google),
	}
}
