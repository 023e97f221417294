package database

import (
	"database/sql"
	"log"

	_ "github.com/lib/pq"
)

var AppDB *sql.DB

// InitAppDB opens the application's Postgres connection.
func InitAppDB(dbURL string) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatal("Failed to connect app DB:", err)
	}
	AppDB = db
	if err := AppDB.Ping(); err != nil {
		log.Fatal("Failed to ping app DB:", err)
	}
	log.Println("App DB connected successfully")
}
