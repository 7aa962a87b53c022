package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"specter/internal/config"
	"specter/internal/models"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	home string
	cfg  *config.Config
}

// newTestEnv points HOME at a temp dir and the backend at handler
func newTestEnv(t *testing.T, handler http.HandlerFunc) *testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	interactive := isInteractive
	isInteractive = func() bool { return false }
	t.Cleanup(func() { isInteractive = interactive })

	cfg := config.DefaultConfig()
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		cfg.BackendURLProd = srv.URL
	}
	return &testEnv{home: home, cfg: cfg}
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	store := models.NewTokenStore(filepath.Join(e.home, ".specter"))
	_, err := store.SaveSession("tok", "user-1", time.Now())
	require.NoError(t, err)
}

func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := Execute(context.Background(), e.cfg)
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestCommandTree(t *testing.T) {
	paths := [][]string{
		{"login"}, {"logout"}, {"whoami"}, {"auth", "verify"},
		{"project", "list"}, {"project", "create"}, {"project", "show"},
		{"project", "update"}, {"project", "delete"},
		{"project", "add-user"}, {"project", "remove-user"},
		{"user", "search"},
		{"configuration", "list"}, {"configuration", "create"},
		{"configuration", "update"}, {"configuration", "delete"},
		{"report", "list"}, {"report", "upload"}, {"report", "download"},
		{"report", "update"}, {"report", "delete"},
		{"theme", "show"}, {"theme", "toggle"}, {"theme", "set"},
		{"config", "get"}, {"config", "set"}, {"config", "paths"}, {"config", "init"},
		{"dashboard"}, {"pull"},
	}
	for _, p := range paths {
		cmd, _, err := rootCmd.Find(p)
		require.NoError(t, err, strings.Join(p, " "))
		assert.Equal(t, p[len(p)-1], cmd.Name())
	}
}

func TestCommandsRequireLogin(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})

	_, err := env.run(t, "", "project", "list")
	assert.ErrorIs(t, err, models.ErrNotLoggedIn)
}

func TestWhoAmI(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/whoami", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"user_id":"user-1","email":"ana@example.com","username":"ana"}`))
	})

	out, err := env.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "You are not logged in")

	env.login(t)
	out, err = env.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as: ana <ana@example.com>")
	assert.Contains(t, out, "User ID: user-1")
}

func TestLoginSavesSession(t *testing.T) {
	var verified atomic.Bool
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/magic-link":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ana@example.com", body["email"])
		case "/api/auth/verify-otp":
			verified.Store(true)
		case "/api/auth/poll":
			if verified.Load() {
				w.Write([]byte(`{"status":"completed","token":"fresh","id":"user-9"}`))
				return
			}
			w.Write([]byte(`{"status":"pending"}`))
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
		}
	})

	out, err := env.run(t, "", "login", "--email", "ana@example.com", "--code", "123456")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully logged in as ana@example.com")

	session, err := models.NewTokenStore(filepath.Join(env.home, ".specter")).GetSession()
	require.NoError(t, err)
	assert.Equal(t, "fresh", session.AccessToken)
	assert.Equal(t, "user-9", session.UserID)

	_, err = env.run(t, "", "logout")
	require.NoError(t, err)
	_, err = models.NewTokenStore(filepath.Join(env.home, ".specter")).GetSession()
	assert.ErrorIs(t, err, models.ErrNotLoggedIn)
}

func TestLoginRejectsBadEmail(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.run(t, "", "login", "--email", "not-an-email")
	assert.Error(t, err)
}

func TestProjectList(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects", r.URL.Path)
		w.Write([]byte(`[{"id":1,"title":"Alpha","users":[{"id":"u1"}]},{"id":2,"title":"Beta"}]`))
	})
	env.login(t)

	out, err := env.run(t, "", "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "Beta")
}

func TestProjectUpdateRequiresTitle(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})
	env.login(t)

	_, err := env.run(t, "", "project", "update", "3", "   ")
	assert.ErrorIs(t, err, models.ErrEmptyTitle)
}

func TestProjectDeleteNeedsForceWithoutTerminal(t *testing.T) {
	var deleted atomic.Int32
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/projects/3", r.URL.Path)
		deleted.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	env.login(t)

	_, err := env.run(t, "", "project", "delete", "3")
	assert.ErrorIs(t, err, errNeedsForce)
	assert.Equal(t, int32(0), deleted.Load())

	out, err := env.run(t, "", "project", "delete", "3", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Project deleted")
	assert.Equal(t, int32(1), deleted.Load())
}

func TestProjectInvalidID(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.run(t, "", "project", "show", "abc")
	assert.ErrorContains(t, err, "invalid id")
}

func TestProjectAddUser(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/projects/4/users", r.URL.Path)
		var body models.AddUserRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u-7", body.UserID)
		w.Write([]byte(`{"id":4,"title":"Gamma","users":[{"id":"u-7","username":"bo"}]}`))
	})
	env.login(t)

	out, err := env.run(t, "", "project", "add-user", "4", "u-7")
	require.NoError(t, err)
	assert.Contains(t, out, "User added to project")
	assert.Contains(t, out, "bo")
}

func TestUserSearchTooShort(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})
	env.login(t)

	_, err := env.run(t, "", "user", "search", " a ")
	assert.ErrorIs(t, err, models.ErrQueryTooShort)
}

func TestConfigurationCreateReadsStdin(t *testing.T) {
	var got string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/configs/5", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		got = body["context"]
		w.Write([]byte(`{"id":9,"context":"# Rules"}`))
	})
	env.login(t)

	out, err := env.run(t, "# Rules\n", "configuration", "create", "--project", "5")
	require.NoError(t, err)
	assert.Equal(t, "# Rules\n", got)
	assert.Contains(t, out, "Configuration created (id 9)")

	_, err = env.run(t, "  \n", "configuration", "create", "--project", "5")
	assert.ErrorIs(t, err, models.ErrEmptyContext)

	_, err = env.run(t, "", "configuration", "create", "--context", "x")
	assert.ErrorContains(t, err, "--project is required")
}

func TestConfigurationUpdateFromFile(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/configs/9", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "from file", body["context"])
		w.Write([]byte(`{"id":9}`))
	})
	env.login(t)

	path := filepath.Join(t.TempDir(), "ctx.md")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0644))

	out, err := env.run(t, "", "configuration", "update", "9", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration updated")
}

func TestReportUploadAndDownload(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/reports":
			f, header, err := r.FormFile("file")
			require.NoError(t, err)
			data, _ := io.ReadAll(f)
			assert.Equal(t, "scan.bin", header.Filename)
			assert.Equal(t, "payload", string(data))
			w.Write([]byte(`{"id":12,"size":7}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/reports/12/download":
			w.Write([]byte("payload"))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	env.login(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "scan.bin")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0644))

	out, err := env.run(t, "", "report", "upload", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Report uploaded successfully (id 12)")

	outDir := filepath.Join(dir, "out")
	out, err = env.run(t, "", "report", "download", "12", "--output", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "report_12.bin")

	data, err := os.ReadFile(filepath.Join(outDir, "report_12.bin"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestReportList(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"data":"aGVsbG8="}]`))
	})
	env.login(t)

	out, err := env.run(t, "", "report", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "5 B")
}

func TestPullPrintsJSON(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"title":"Alpha"}]`))
	})
	env.login(t)

	out, err := env.run(t, "", "pull")
	require.NoError(t, err)

	var projects []models.Project
	require.NoError(t, json.Unmarshal([]byte(out), &projects))
	require.Len(t, projects, 1)
	assert.Equal(t, "Alpha", projects[0].Title)
}

func TestThemeCommands(t *testing.T) {
	env := newTestEnv(t, nil)

	out, err := env.run(t, "", "theme", "show")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	_, err = env.run(t, "", "theme", "set", "dark")
	require.NoError(t, err)
	out, err = env.run(t, "", "theme", "show")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	out, err = env.run(t, "", "theme", "toggle")
	require.NoError(t, err)
	assert.Contains(t, out, "light")

	data, err := os.ReadFile(filepath.Join(env.home, ".specter", "storage.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"themeMode": "light"`)

	_, err = env.run(t, "", "theme", "set", "blue")
	assert.Error(t, err)
}

func TestConfigSetAndGet(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.run(t, "", "config", "set", "app_mode", "dev")
	require.NoError(t, err)

	cfg, err := config.LoadGlobalConfig()
	require.NoError(t, err)
	assert.Equal(t, config.ModeDev, cfg.AppMode)

	env.cfg = cfg
	out, err := env.run(t, "", "config", "get", "app_mode")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)

	_, err = env.run(t, "", "config", "set", "app_mode", "staging")
	assert.ErrorContains(t, err, "invalid app_mode")

	_, err = env.run(t, "", "config", "set", "nope", "1")
	assert.ErrorContains(t, err, "unknown configuration key")
}

func TestConfigInit(t *testing.T) {
	env := newTestEnv(t, nil)

	out, err := env.run(t, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized")

	out, err = env.run(t, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestConfigSetKeepsEnvironmentOutOfFile(t *testing.T) {
	env := newTestEnv(t, nil)
	t.Setenv("SPECTER_APP_MODE", "dev")

	_, err := env.run(t, "", "config", "set", "log_level", "debug")
	require.NoError(t, err)

	path, err := config.GetGlobalConfigPath()
	require.NoError(t, err)
	saved, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.ModeProd, saved.AppMode)
	assert.Equal(t, "debug", saved.LogLevel)
}

func TestAuthVerifyUsesAuthURL(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("backend should not serve %s", r.URL.Path)
	})

	var verified atomic.Bool
	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/verify-otp", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body["email"])
		assert.Equal(t, "123456", body["otp"])
		verified.Store(true)
	}))
	t.Cleanup(auth.Close)
	env.cfg.AuthURL = auth.URL

	out, err := env.run(t, "", "auth", "verify", "--email", "ana@example.com", "--code", "123456")
	require.NoError(t, err)
	assert.True(t, verified.Load())
	assert.Contains(t, out, "Code accepted for ana@example.com")
}
