package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/fortytwohn/kickerboard/internal/database"
	"github.com/fortytwohn/kickerboard/internal/elo"
	"github.com/fortytwohn/kickerboard/internal/players"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":        "kickerboard.db",
		"MIGRATIONS_DIR": "migrations",
	}
	for key := range config {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	// Optional, only set when seeding a remote primary.
	config["TURSO_PRIMARY_URL"] = os.Getenv("TURSO_PRIMARY_URL")
	config["TURSO_AUTH_TOKEN"] = os.Getenv("TURSO_AUTH_TOKEN")
	return config
}

func firstNameFor(login string) string {
	name := strings.TrimPrefix(login, "seed-")
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

type seedPlayer struct {
	id      string
	login   string
	ratings map[players.Sport]int
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"], cfg["MIGRATIONS_DIR"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()
	defer db.Close()

	log.Info("Successfully connected to the database.")

	logins := []string{"seed-alice", "seed-bob", "seed-carol", "seed-dave"}
	seeded := make([]*seedPlayer, 0, len(logins))
	now := time.Now().Unix()

	for i, login := range logins {
		p := &seedPlayer{
			id:    uuid.NewString(),
			login: login,
			ratings: map[players.Sport]int{
				players.TableSoccer:   elo.DefaultBaseRating,
				players.TableFootball: elo.DefaultBaseRating,
			},
		}
		_, err := db.Exec(`INSERT OR IGNORE INTO players (id, intra_id, login, first_name, campus, table_soccer_elo, table_football_elo, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.id, 100000+i, p.login, firstNameFor(login), "Heilbronn",
			elo.DefaultBaseRating, elo.DefaultBaseRating, now, now)
		if err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", login, err)
		}
		seeded = append(seeded, p)
	}
	log.Info("Ensured dummy players exist.")

	engine := elo.NewEngine(elo.DefaultKFactor, elo.DefaultFloor)

	const batchSize = 100
	const numMatches = 1000

	log.Info("Preparing to insert dummy matches...", "total", numMatches, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*13) // 13 columns per match

	for i := 0; i < numMatches; i++ {
		p1 := seeded[rand.Intn(len(seeded))]
		p2 := seeded[rand.Intn(len(seeded))]
		for p2 == p1 {
			p2 = seeded[rand.Intn(len(seeded))]
		}
		sport := players.Sports[rand.Intn(len(players.Sports))]
		p1Won := rand.Intn(2) == 0

		winnerID := p1.id
		if !p1Won {
			winnerID = p2.id
		}

		before1, before2 := p1.ratings[sport], p2.ratings[sport]
		after1, after2 := engine.ApplyMatch(before1, before2, p1Won)
		p1.ratings[sport] = after1
		p2.ratings[sport] = after2

		matchTime := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			p1.id,
			p2.id,
			winnerID,
			string(sport),
			fmt.Sprintf("10:%d", rand.Intn(10)),
			"confirmed",
			before1,
			before2,
			after1,
			after2,
			matchTime.Unix(),
			matchTime.Add(10*time.Minute).Unix(),
		)

		if (i+1)%batchSize == 0 || (i+1) == numMatches {
			stmt := fmt.Sprintf(`
				INSERT INTO matches (id, player1_id, player2_id, winner_id, sport, score, status,
					player1_elo_before, player2_elo_before, player1_elo_after, player2_elo_after,
					submitted_at, confirmed_at)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*13)
			log.Info("Inserted batch", "completed", i+1, "total", numMatches)
		}
	}

	// Bring the player rows in line with the accumulated match history.
	for _, p := range seeded {
		_, err := tx.Exec("UPDATE players SET table_soccer_elo = ?, table_football_elo = ?, updated_at = ? WHERE id = ?",
			p.ratings[players.TableSoccer], p.ratings[players.TableFootball], time.Now().Unix(), p.id)
		if err != nil {
			tx.Rollback()
			log.Fatalf("Failed to update ratings for %s: %s", p.login, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy matches.", "duration", duration)
}
