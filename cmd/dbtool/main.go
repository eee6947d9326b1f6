package main

import (
	"database/sql"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"slot-pricing-service/internal/adapters/repositories"
	"slot-pricing-service/internal/config"
	"slot-pricing-service/internal/platform/db"
)

// dbtool prepares a database out of band: schema plus product seeds. Useful
// for Postgres targets where the deploy pipeline runs migrations before the
// server boots.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment variables")
	}

	databaseURL := config.Get("DATABASE_URL", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/products.json")

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer conn.Close()

	if err := initAndSeed(conn, databaseURL, seedPath); err != nil {
		log.Fatal().Err(err).Msg("init and seed")
	}
	log.Info().Msg("database ready")
}

func initAndSeed(conn *sql.DB, databaseURL, seedPath string) error {
	if err := repositories.InitSchema(conn); err != nil {
		return err
	}
	return repositories.SeedProductsFromJSON(conn, seedPath, db.DialectFor(databaseURL))
}
