//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	server "tripchat/internal/adapters/http_server"
	"tripchat/internal/app"
	"tripchat/internal/domain"
	mysqlrepo "tripchat/internal/storage/mysql"
)

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
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
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=tripchat",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "tripchat")

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

func TestConversationStore_RoundTrip(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	user := domain.IdentifiedUser("e2e-user")
	convID, err := repo.FindOrCreate(ctx, user)
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	again, err := repo.FindOrCreate(ctx, user)
	if err != nil || again != convID {
		t.Fatalf("FindOrCreate not idempotent: %d vs %d (%v)", convID, again, err)
	}

	if err := repo.Append(ctx, convID, domain.RoleUser, "hello"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := repo.Append(ctx, convID, domain.RoleAssistant, "hi, where to?"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	msgs, err := repo.ListMessages(ctx, user)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 2 ||
		msgs[0].Role != domain.RoleUser || msgs[0].Content != "hello" ||
		msgs[1].Role != domain.RoleAssistant {
		t.Fatalf("unexpected log: %+v", msgs)
	}

	// anonymous turns land in their own bucket
	anonID, err := repo.FindOrCreate(ctx, domain.AnonymousUser())
	if err != nil {
		t.Fatalf("FindOrCreate anon: %v", err)
	}
	if anonID == convID {
		t.Fatal("anonymous bucket shares a conversation with an identified user")
	}
	anonMsgs, err := repo.ListMessages(ctx, domain.AnonymousUser())
	if err != nil {
		t.Fatalf("ListMessages anon: %v", err)
	}
	if len(anonMsgs) != 0 {
		t.Fatalf("anonymous bucket not empty: %+v", anonMsgs)
	}
}

func TestHTTP_EndToEnd_ChatAndHistory(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)

	// no model and no inventory: the deterministic fallback path end to end
	chat := app.NewChatService(app.NewQueryParser(nil), nil, nil, repo)
	srv := server.New()
	srv.MountHandlers(&server.Handlers{Chat: chat})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	res, err := http.Post(ts.URL+"/chat", "application/json",
		strings.NewReader(`{"message":"planning a trip","user":{"_id":"e2e-http"}}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	var chatBody struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(res.Body).Decode(&chatBody); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if chatBody.Response == "" {
		t.Fatal("empty response")
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/chat/history", nil)
	req.Header.Set("X-User-ID", "e2e-http")
	hres, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer hres.Body.Close()
	var histBody struct {
		Messages []domain.Message `json:"messages"`
	}
	if err := json.NewDecoder(hres.Body).Decode(&histBody); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(histBody.Messages) != 2 ||
		histBody.Messages[0].Role != domain.RoleUser || histBody.Messages[0].Content != "planning a trip" ||
		histBody.Messages[1].Role != domain.RoleAssistant || histBody.Messages[1].Content != chatBody.Response {
		t.Fatalf("unexpected history: %+v", histBody.Messages)
	}
}
