/* Copyright 2025 notectl Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package database provides the local SQLite state for notectl. It plays the
// role that localStorage plays for the web client: it persists the bearer
// token and the serialized current user across runs.
package database

import (
	"database/sql"

	"github.com/pkg/errors"
)

// DB is a database connection
type DB struct {
	*sql.DB
}

// Open opens the connection with the database file at the given path
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrapf(err, "opening the database at %s", dbPath)
	}

	return &DB{db}, nil
}

// Queryable is an interface for either a database connection or a transaction
type Queryable interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// InitSchema creates the tables for the local state if they are missing
func InitSchema(db *DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS system
		(
			key text NOT NULL UNIQUE,
			value text NOT NULL
		)`)
	if err != nil {
		return errors.Wrap(err, "creating system table")
	}

	return nil
}

// GetSystem scans the value of the system configuration with the given key
// into the destination
func GetSystem(q Queryable, key string, dest interface{}) error {
	if err := q.QueryRow("SELECT value FROM system WHERE key = ?", key).Scan(dest); err != nil {
		return err
	}

	return nil
}

// UpsertSystem inserts or updates a system configuration with the given key
func UpsertSystem(q Queryable, key string, val interface{}) error {
	var count int
	if err := q.QueryRow("SELECT count(*) FROM system WHERE key = ?", key).Scan(&count); err != nil {
		return errors.Wrap(err, "counting system configuration")
	}

	if count == 0 {
		if _, err := q.Exec("INSERT INTO system (key, value) VALUES (?, ?)", key, val); err != nil {
			return errors.Wrapf(err, "inserting system configuration for %s", key)
		}
	} else {
		if _, err := q.Exec("UPDATE system SET value = ? WHERE key = ?", val, key); err != nil {
			return errors.Wrapf(err, "updating system configuration for %s", key)
		}
	}

	return nil
}

// DeleteSystem removes the system configuration with the given key
func DeleteSystem(q Queryable, key string) error {
	if _, err := q.Exec("DELETE FROM system WHERE key = ?", key); err != nil {
		return errors.Wrapf(err, "deleting system configuration for %s", key)
	}

	return nil
}
