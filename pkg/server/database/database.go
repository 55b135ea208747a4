/* Copyright 2025 Cardbox Authors
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

package database

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cardbox/cardbox/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitSchema migrates database schema to reflect the latest model definition
func InitSchema(db *gorm.DB) {
	if err := db.AutoMigrate(
		&User{},
		&Session{},
		&Flashcard{},
		&Generation{},
		&GenerationErrorLog{},
	); err != nil {
		panic(err)
	}
}

// Open initializes the database connection. If databaseURL is non-empty it
// connects to Postgres; otherwise it opens a SQLite database at dbPath.
func Open(dbPath, databaseURL string) *gorm.DB {
	if databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			panic(errors.Wrap(err, "opening postgres connection"))
		}

		return db
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		panic(errors.Wrapf(err, "creating database directory at %s", dir))
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		panic(errors.Wrap(err, "opening database connection"))
	}

	return db
}

// StartWALCheckpointing periodically checkpoints the SQLite write-ahead log
// so that it does not grow unbounded. It is a no-op for non-SQLite databases.
func StartWALCheckpointing(db *gorm.DB, interval time.Duration) {
	if db.Dialector.Name() != "sqlite" {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			if err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
				log.ErrorWrap(err, "checkpointing WAL")
			}
		}
	}()
}

// StartPeriodicVacuum periodically vacuums the SQLite database to reclaim
// space. It is a no-op for non-SQLite databases.
func StartPeriodicVacuum(db *gorm.DB, interval time.Duration) {
	if db.Dialector.Name() != "sqlite" {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			if err := db.Exec("VACUUM").Error; err != nil {
				log.ErrorWrap(err, "vacuuming database")
			}
		}
	}()
}
