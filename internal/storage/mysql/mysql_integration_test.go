//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"smarttravel/internal/domain"
	mysqlrepo "smarttravel/internal/storage/mysql"
)

func migrationsDir(t *testing.T) string {
	t.Helper()
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir(t)

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir %s: %v", dir, err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=travel"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/travel?parseTime=true&multiStatements=true&charset=utf8mb4&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_InsightLog(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if err := repo.LogMiss(ctx, "  atlantis  ", "no_results"); err != nil {
		t.Fatalf("LogMiss: %v", err)
	}
	var q, reason string
	if err := db.QueryRow(`SELECT query, reason FROM lookup_misses ORDER BY id DESC LIMIT 1`).Scan(&q, &reason); err != nil {
		t.Fatalf("select miss: %v", err)
	}
	if q != "atlantis" || reason != "no_results" {
		t.Fatalf("unexpected miss row: %q %q", q, reason)
	}

	if err := repo.LogMiss(ctx, strings.Repeat("東", 600), "no_results"); err != nil {
		t.Fatalf("LogMiss multibyte: %v", err)
	}
	var chars int
	if err := db.QueryRow(`SELECT CHAR_LENGTH(query) FROM lookup_misses ORDER BY id DESC LIMIT 1`).Scan(&chars); err != nil {
		t.Fatalf("select multibyte miss: %v", err)
	}
	if chars != 512 {
		t.Fatalf("expected 512 characters, got %d", chars)
	}

	rep := domain.SentimentReport{
		PlaceID:       "p-1",
		NumReviews:    3,
		Summary:       "66.7% of reviews are positive with an average score of +0.37.",
		AvgScore:      0.37,
		PositiveRatio: 66.7,
		Keywords:      []string{"view", "queue"},
		HumanSummary:  "Great views, long queues.",
		Samples:       []domain.Review{{Text: "Great view", Label: domain.Positive, Score: 0.9}},
	}
	if err := repo.UpsertSentiment(ctx, rep); err != nil {
		t.Fatalf("UpsertSentiment: %v", err)
	}
	rep.NumReviews = 5
	rep.Keywords = nil
	if err := repo.UpsertSentiment(ctx, rep); err != nil {
		t.Fatalf("UpsertSentiment (update): %v", err)
	}

	var n, rows int
	var kw string
	if err := db.QueryRow(`SELECT num_reviews, keywords FROM sentiment_snapshots WHERE place_id = ?`, "p-1").Scan(&n, &kw); err != nil {
		t.Fatalf("select snapshot: %v", err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM sentiment_snapshots`).Scan(&rows); err != nil {
		t.Fatalf("count snapshots: %v", err)
	}
	var keywords []string
	_ = json.Unmarshal([]byte(kw), &keywords)
	if n != 5 || rows != 1 || len(keywords) != 0 {
		t.Fatalf("unexpected snapshot: n=%d rows=%d keywords=%v", n, rows, keywords)
	}
}
