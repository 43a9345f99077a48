// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles the local token store database.

All business data lives in the FormGuard REST API. The only local table is
the durable copy of each browser's bearer token, which lets a session
survive a lost or expired cookie.

# Drivers

Open accepts either backend:

	conn, err := db.Open(db.TypeSQLite, "file:formguard.db")
	conn, err := db.Open(db.TypePostgres, "postgres://...")

SQLite uses modernc.org/sqlite (no CGO) in WAL mode with a 5s busy
timeout. PostgreSQL uses github.com/lib/pq.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS.

# Tables

  - session_token: device_id (PK) → token, updated_at

# Placeholders

Queries are written with '?' and passed through Rebind, which rewrites
them as $N for PostgreSQL:

	q := db.Rebind(dbType, "DELETE FROM session_token WHERE device_id = ?")
*/
package db
