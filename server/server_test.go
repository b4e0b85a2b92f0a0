package server

import (
	"context"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-link-shortener/config"
	"go-link-shortener/storage"
	"go.uber.org/zap"
)

func TestSetupStorage(t *testing.T) {
	logger := zap.NewNop()

	t.Run("Memory Driver", func(t *testing.T) {
		cfg := config.DefaultConfig()

		store, err := setupStorage(cfg, logger)

		require.NoError(t, err)
		assert.IsType(t, &storage.InMemoryStorage{}, store)
	})

	t.Run("SQLite Driver", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.DatabaseDriver = config.DriverSQLite
		cfg.SQLitePath = ":memory:"

		store, err := setupStorage(cfg, logger)

		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &storage.SQLiteStorage{}, store)
	})
}

func TestSetupChecker(t *testing.T) {
	logger := zap.NewNop()

	t.Run("Disabled Without An API Key", func(t *testing.T) {
		cfg := config.DefaultConfig()

		checker := setupChecker(context.Background(), cfg, logger)

		assert.Nil(t, checker, "No API key should disable the reputation stage")
	})

	t.Run("Enabled With An API Key", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.ReputationAPIKey = "wot-key"

		checker := setupChecker(context.Background(), cfg, logger)

		assert.NotNil(t, checker)
	})
}

func TestSetupVerdictCache(t *testing.T) {
	logger := zap.NewNop()

	t.Run("Disabled Without A Redis URL", func(t *testing.T) {
		cfg := config.DefaultConfig()

		assert.Nil(t, setupVerdictCache(context.Background(), cfg, logger))
	})

	t.Run("Unreachable Redis Degrades To No Cache", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.RedisURL = "redis://127.0.0.1:1/0"

		assert.Nil(t, setupVerdictCache(context.Background(), cfg, logger))
	})
}

func TestSetupURLHandler(t *testing.T) {
	cfg := config.DefaultConfig()
	logger := zap.NewNop()
	store := storage.NewInMemoryStorage(cfg.StorageCapacity, logger)

	handler, err := setupURLHandler(context.Background(), cfg, store, logger)

	assert.NoError(t, err)
	assert.NotNil(t, handler)
}

func TestSetupRouter(t *testing.T) {
	cfg := config.DefaultConfig()
	logger := zap.NewNop()
	store := storage.NewInMemoryStorage(cfg.StorageCapacity, logger)

	handler, err := setupURLHandler(context.Background(), cfg, store, logger)
	require.NoError(t, err)

	router := setupRouter(handler, logger)

	assert.NotNil(t, router)

	// Check if the expected routes are registered
	routes := router.Routes()
	expectedPaths := []string{
		"/api/v1/shorten",
		"/api/v1/reverse",
		"/api/v1/qrcode/:code",
		"/health",
		"/metrics",
		"/:code",
	}

	for _, path := range expectedPaths {
		found := false
		for _, route := range routes {
			if route.Path == path {
				found = true
				break
			}
		}
		assert.True(t, found, "Expected route %s not found", path)
	}
}

func TestSetupServer(t *testing.T) {
	cfg := config.DefaultConfig()
	router := gin.New()

	srv := setupServer(cfg, router)

	assert.NotNil(t, srv)
	assert.Equal(t, cfg.ServerPort, srv.Addr)
	assert.Equal(t, router, srv.Handler)
}

func TestRun(t *testing.T) {
	logger := zap.NewNop()

	cfg := config.DefaultConfig()
	cfg.ServerPort = ":3001" // Use a different port to avoid conflicts

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, cfg, logger)
	}()

	// Give the server a moment to start
	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get("http://localhost" + cfg.ServerPort + "/health")
	require.NoError(t, err, "Failed to reach the running server")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	// Cancel the context to stop the server
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not shut down within the expected time")
	}
}

func TestStartServer(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ServerPort = ":3002"
	router := gin.New()
	srv := setupServer(cfg, router)
	logger := zap.NewNop()

	go startServer(srv, logger)

	// Give the server a moment to start
	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get("http://localhost" + cfg.ServerPort + "/")
	assert.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, srv.Shutdown(ctx))
}

func TestWaitForShutdown(t *testing.T) {
	logger := zap.NewNop()

	t.Run("Stops On Context Cancel", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.ServerPort = ":3003"
		srv := setupServer(cfg, gin.New())
		go startServer(srv, logger)

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- waitForShutdown(ctx, srv, logger)
		}()

		time.Sleep(100 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("waitForShutdown did not finish within the expected time")
		}
	})

	t.Run("Stops On Interrupt", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.ServerPort = ":3004"
		srv := setupServer(cfg, gin.New())
		go startServer(srv, logger)

		// Simulate SIGINT
		go func() {
			time.Sleep(100 * time.Millisecond)
			p, _ := os.FindProcess(os.Getpid())
			if err := p.Signal(os.Interrupt); err != nil {
				return
			}
		}()

		done := make(chan error, 1)
		go func() {
			done <- waitForShutdown(context.Background(), srv, logger)
		}()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("waitForShutdown did not finish within the expected time")
		}
	})
}
