package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

var db *sql.DB

var ErrNotInitialized = errors.New("storage: database is not initialized")

// InitDB 는 sqlite 파일을 열고 테이블을 준비한다.
func InitDB(path string) error {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("InitDB(): failed to open database: %w", err)
	}
	// sqlite 단일 writer
	conn.SetMaxOpenConns(1)

	if err = conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("InitDB(): failed to connect to database: %w", err)
	}

	createSessionTable := `
	CREATE TABLE IF NOT EXISTS session_kv (
			"key" TEXT PRIMARY KEY,
			"value" TEXT NOT NULL,
			"updated_at" INTEGER NOT NULL
	);`
	createMeasurementsTable := `
	CREATE TABLE IF NOT EXISTS measurements (
			"id" INTEGER PRIMARY KEY AUTOINCREMENT,
			"session_id" TEXT NOT NULL,
			"kind" TEXT NOT NULL,
			"avg" REAL NOT NULL,
			"min" REAL NOT NULL,
			"max" REAL NOT NULL,
			"detail" TEXT,
			"created_at" INTEGER NOT NULL
	);`

	if _, err := conn.Exec(createSessionTable); err != nil {
		conn.Close()
		return fmt.Errorf("InitDB(): failed to create session_kv table: %w", err)
	}
	if _, err := conn.Exec(createMeasurementsTable); err != nil {
		conn.Close()
		return fmt.Errorf("InitDB(): failed to create measurements table: %w", err)
	}

	if db != nil {
		db.Close()
	}
	db = conn
	log.Println("InitDB(): Init and create table successfully!")
	return nil
}

// CloseDB 는 열린 데이터베이스를 닫는다.
func CloseDB() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// Ready 는 InitDB 가 성공했는지 알려준다.
func Ready() bool {
	return db != nil
}
