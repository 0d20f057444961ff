// seed_catalog genera un script SQL con los clientes y productos iniciales
// a partir de un XML de catálogo (UTF-8 o ISO-8859-1).
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.xml] [salida.sql]
// Por defecto lee catalogo.xml y escribe internal/infrastructure/postgres/migrations/002_seed_catalog.sql,
// que se aplica con DB_MIGRATE=true.
package main

import (
	"os"
	"path/filepath"

	"github.com/jhoicas/ventas-api/pkg/logger"
)

func main() {
	log := logger.New(logger.Config{Env: "development", Level: "info", Out: os.Stderr})

	xmlPath := "catalogo.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}
	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "002_seed_catalog.sql")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	f, err := os.Open(xmlPath)
	if err != nil {
		log.Fatal().Err(err).Str("file", xmlPath).Msg("abrir XML")
	}
	defer f.Close()

	c, err := parseCatalog(f)
	if err != nil {
		log.Fatal().Err(err).Str("file", xmlPath).Msg("catálogo inválido")
	}

	out, err := os.Create(outPath)
	if err != nil {
		log.Fatal().Err(err).Str("file", outPath).Msg("crear archivo")
	}
	defer out.Close()
	if err := writeSQL(out, c, filepath.Base(xmlPath)); err != nil {
		log.Fatal().Err(err).Msg("escribir SQL")
	}

	log.Info().
		Str("file", outPath).
		Int("clientes", len(c.Clients)).
		Int("productos", len(c.Products)).
		Msg("script generado")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
