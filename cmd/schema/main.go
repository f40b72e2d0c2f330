// Command schema applies the database schema required by the brief service.
// It connects through database/sql so it can run against any Postgres,
// including managed instances where migration tooling is unavailable.
package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

var statements = []string{
	`create table if not exists creative_briefs (
	id         text primary key,
	user_id    text not null default '',
	payload    jsonb not null,
	status     text not null default 'COMPLETE',
	created_at timestamptz not null default now()
)`,
	`create index if not exists idx_creative_briefs_user on creative_briefs(user_id, created_at desc)`,
	`create table if not exists usage_events (
	id         uuid primary key,
	user_id    text not null default '',
	brief_id   text,
	event_type text not null,
	success    boolean not null default true,
	latency_ms int not null default 0,
	created_at timestamptz not null default now(),
	properties jsonb not null default '{}'::jsonb
)`,
	`create index if not exists idx_usage_events_user on usage_events(user_id, created_at desc)`,
}

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "schema: DATABASE_URL is required")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "schema: open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	for i, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			fmt.Fprintf(os.Stderr, "schema: statement %d failed: %v\n", i+1, err)
			os.Exit(1)
		}
	}
	fmt.Println("schema: applied", len(statements), "statements")
}
