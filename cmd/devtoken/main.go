// devtoken emite un JWT firmado con JWT_SECRET para probar la API en local.
// La API solo valida tokens; la emisión real vive en el servicio de identidad.
//
// Uso: go run ./cmd/devtoken -user <id> [-email ana@example.com] [-minutes 60]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/CRM-api/pkg/config"
	"github.com/jhoicas/CRM-api/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "id del usuario propietario (obligatorio)")
	email := flag.String("email", "", "email incluido en los claims")
	minutes := flag.Int("minutes", 60, "minutos de validez")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "falta -user")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *userID, *email, cfg.JWT.Issuer, *minutes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
