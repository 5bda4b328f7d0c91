package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetValue 는 키에 해당하는 값을 돌려준다. 키가 없으면 ok=false, err=nil.
func GetValue(key string) (string, bool, error) {
	if db == nil {
		return "", false, ErrNotInitialized
	}
	var value string
	row := db.QueryRow("SELECT value FROM session_kv WHERE key = ?", key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// GetAllValues 는 저장된 모든 키/값을 읽는다.
func GetAllValues() (map[string]string, error) {
	if db == nil {
		return nil, ErrNotInitialized
	}
	rows, err := db.Query("SELECT key, value FROM session_kv")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		values[k] = v
	}
	return values, rows.Err()
}

// SetValues 는 여러 키를 하나의 트랜잭션으로 기록한다.
func SetValues(values map[string]string) error {
	if db == nil {
		return ErrNotInitialized
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO session_kv(key, value, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for k, v := range values {
		if _, err := stmt.Exec(k, v, now); err != nil {
			tx.Rollback()
			return fmt.Errorf("SetValues(): failed to write %s: %w", k, err)
		}
	}
	return tx.Commit()
}

// DeleteValues 는 주어진 키들을 지운다.
func DeleteValues(keys ...string) error {
	if db == nil {
		return ErrNotInitialized
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	for _, k := range keys {
		if _, err := tx.Exec("DELETE FROM session_kv WHERE key = ?", k); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// ClearValues 는 세션 테이블 전체를 비운다.
func ClearValues() error {
	if db == nil {
		return ErrNotInitialized
	}
	_, err := db.Exec("DELETE FROM session_kv")
	return err
}
