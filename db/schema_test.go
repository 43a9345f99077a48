// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"testing"
	"time"
)

func TestCreateSchema_Idempotent(t *testing.T) {
	conn, err := Open(TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	for i := 0; i < 2; i++ {
		if err := CreateSchema(conn); err != nil {
			t.Fatalf("CreateSchema() call %d error = %v", i+1, err)
		}
	}

	_, err = conn.Exec(
		Rebind(TypeSQLite, `INSERT INTO session_token (device_id, token, updated_at) VALUES (?, ?, ?)`),
		"device-1", "tok", time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("insert into session_token failed: %v", err)
	}

	var token string
	err = conn.QueryRow(Rebind(TypeSQLite, `SELECT token FROM session_token WHERE device_id = ?`), "device-1").Scan(&token)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if token != "tok" {
		t.Errorf("Expected token 'tok', got %q", token)
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name   string
		dbType string
		query  string
		want   string
	}{
		{"sqlite unchanged", TypeSQLite, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = ? AND b = ?"},
		{"postgres numbered", TypePostgres, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = $1 AND b = $2"},
		{"postgres no params", TypePostgres, "SELECT 1", "SELECT 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rebind(tt.dbType, tt.query); got != tt.want {
				t.Errorf("Rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}
