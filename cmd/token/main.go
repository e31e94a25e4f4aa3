// Command token emite un JWT para un usuario del punto de venta. La gestión de
// usuarios y contraseñas vive fuera de este servicio; este comando firma con
// JWT_SECRET para que cajas y administradores puedan llamar a la API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/pos-api/pkg/config"
	"github.com/jhoicas/pos-api/pkg/jwt"
	"github.com/jhoicas/pos-api/pkg/logger"
)

func main() {
	userID := flag.Int64("user", 0, "id del usuario (obligatorio)")
	username := flag.String("username", "", "nombre mostrado en los logs")
	role := flag.String("role", jwt.RoleCashier, "admin | cashier")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "token", Output: os.Stderr})

	if *userID <= 0 {
		log.Fatal().Msg("-user debe ser mayor que cero")
	}
	if *role != jwt.RoleAdmin && *role != jwt.RoleCashier {
		log.Fatal().Str("role", *role).Msg("rol desconocido")
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, *userID, *username, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		log.Fatal().Err(err).Msg("firmar token")
	}
	log.Info().Int64("user_id", *userID).Str("role", *role).Int("expires_in_min", cfg.JWT.Expiration).Msg("token emitido")
	fmt.Println(tok)
}
