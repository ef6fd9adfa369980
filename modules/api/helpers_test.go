package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	domain "github.com/ekoc03/pokedex/domain/user"
	"github.com/ekoc03/pokedex/modules/activity"
	"github.com/ekoc03/pokedex/modules/auth"
	"github.com/ekoc03/pokedex/modules/catalog"
	"github.com/ekoc03/pokedex/modules/task"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

var (
	ash   = &domain.Identity{UserID: 1, Username: "ash"}
	misty = &domain.Identity{UserID: 2, Username: "misty"}
)

// mockAuthPort implements auth.AuthPort for testing
type mockAuthPort struct {
	mu          sync.Mutex
	tokens      map[string]*domain.Identity
	loggedOut   []string
	validateErr error
}

func newMockAuthPort() *mockAuthPort {
	return &mockAuthPort{
		tokens: map[string]*domain.Identity{
			"ash-token":   ash,
			"misty-token": misty,
		},
	}
}

func (m *mockAuthPort) ValidateToken(_ context.Context, token string) (*domain.Identity, error) {
	if m.validateErr != nil {
		return nil, m.validateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.tokens[token]; ok {
		return id, nil
	}
	return nil, auth.ErrInvalidOrExpired
}

func (m *mockAuthPort) Login(_ context.Context, username, password string) (*auth.LoginResult, error) {
	if username == "ash" && password == "pikachu" {
		return &auth.LoginResult{Token: "ash-token", Username: "ash"}, nil
	}
	return nil, auth.ErrInvalidCredentials
}

func (m *mockAuthPort) Logout(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loggedOut = append(m.loggedOut, token)
	delete(m.tokens, token)
	return nil
}

type pageCall struct {
	page, limit int
	search      string
}

// mockCatalog implements CatalogService for testing
type mockCatalog struct {
	calls     []pageCall
	listErr   error
	detailErr error
}

func (m *mockCatalog) ListPage(_ context.Context, page, limit int, search string) (*catalog.PaginatedResponse[catalog.Pokemon], error) {
	m.calls = append(m.calls, pageCall{page: page, limit: limit, search: search})
	if m.listErr != nil {
		return nil, m.listErr
	}
	return &catalog.PaginatedResponse[catalog.Pokemon]{
		Data:       []catalog.Pokemon{{ID: 25, Name: "pikachu", Number: "025", Types: []string{"electric"}}},
		Total:      1,
		Page:       page,
		Limit:      limit,
		TotalPages: catalog.TotalPages(1, limit),
	}, nil
}

func (m *mockCatalog) GetDetail(_ context.Context, id int) (*catalog.PokemonDetail, error) {
	if m.detailErr != nil {
		return nil, m.detailErr
	}
	if id != 25 {
		return nil, catalog.ErrNotFound
	}
	return &catalog.PokemonDetail{
		Pokemon: catalog.Pokemon{ID: 25, Name: "pikachu", Number: "025", Types: []string{"electric"}},
		Height:  4,
		Weight:  60,
	}, nil
}

// mockFeed implements ActivityFeed for testing
type mockFeed struct {
	entries map[uint][]activity.Entry
}

func (m *mockFeed) Recent(userID uint, limit int) []activity.Entry {
	list := m.entries[userID]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	if list == nil {
		return []activity.Entry{}
	}
	return list
}

type testEnv struct {
	app     *fiber.App
	auth    *mockAuthPort
	catalog *mockCatalog
	feed    *mockFeed
}

func setupTestTaskService(t *testing.T) *task.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo := task.NewGormRepository(db)
	require.NoError(t, repo.Migrate())
	return task.NewService(repo, nil, &mockLogger{})
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithOptions(t, AppOptions{AllowedOrigins: "*"})
}

func newTestEnvWithOptions(t *testing.T, opts AppOptions) *testEnv {
	t.Helper()

	env := &testEnv{
		auth:    newMockAuthPort(),
		catalog: &mockCatalog{},
		feed:    &mockFeed{entries: map[uint][]activity.Entry{}},
	}
	h := NewHandlers(env.auth, setupTestTaskService(t), env.catalog, env.feed, 100, "test", &mockLogger{})
	env.app = NewApp(h, auth.NewAuthenticator(env.auth), opts, &mockLogger{})
	return env
}

// do sends a request and decodes the JSON reply into a generic map.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func createTask(t *testing.T, env *testEnv, token, title, due string) uint {
	t.Helper()
	status, body := env.do(t, "POST", "/api/tasks", token, map[string]any{
		"title":       title,
		"description": "desc",
		"dueDate":     due,
	})
	require.Equal(t, 201, status, body)
	return uint(body["task"].(map[string]any)["id"].(float64))
}


func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
