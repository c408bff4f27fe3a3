package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"brewbook/internal/config"
	"brewbook/internal/index"
	"brewbook/internal/logging"
	"brewbook/internal/srm"
	"brewbook/internal/storage"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckStorage opens the configured backend and lists its documents.
func CheckStorage(ctx context.Context, cfg *config.Config) Result {
	name := "Recipe storage (" + cfg.Storage.Driver + ")"

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	backend, err := storage.Open(checkCtx, cfg)
	if err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	slugs, err := backend.List(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d documents", len(slugs))}
}

// CheckIndex opens the summary index and counts its rows.
func CheckIndex(ctx context.Context, cfg *config.Config) Result {
	name := "Search index (" + cfg.Index.Driver + ")"

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	idx, err := index.Open(checkCtx, cfg, nil, logging.NewNop())
	if err != nil {
		if errors.Is(err, index.ErrSchemaMismatch) {
			return Result{Name: name, Detail: "schema is outdated; run 'brewbook index rebuild'"}
		}
		return Result{Name: name, Detail: summarizeError(err)}
	}
	defer idx.Close()
	count, err := idx.Count(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d recipes indexed", count)}
}

// CheckColorTable loads the configured SRM table, or the built-in one when
// path is empty.
func CheckColorTable(path string) Result {
	const name = "SRM color table"
	src := srm.EmbeddedSource()
	label := "built-in"
	if strings.TrimSpace(path) != "" {
		src = srm.FileSource(path)
		label = path
	}
	table, err := srm.LoadSource(src)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v; lookups fall back to %s)", label, err, srm.FallbackHex)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d entries)", label, table.Len())}
}

// CheckServer contacts a running API server. It is informational: a stopped
// server is not a failure.
func CheckServer(ctx context.Context, bind, token string) Result {
	const name = "API server"

	addr := strings.TrimSpace(bind)
	if addr == "" {
		return Result{Name: name, Optional: true, Detail: "no bind address configured"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 2 * time.Second}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, "http://"+addr+"/api/status", nil)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("status check failed (%v)", err)}
	}
	if token = strings.TrimSpace(token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("not running at %s", addr)}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return Result{Name: name, Passed: true, Optional: true, Detail: "running at " + addr}
	case http.StatusUnauthorized, http.StatusForbidden:
		return Result{Name: name, Optional: true, Detail: "auth failed (check server.api_token)"}
	default:
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("status check failed (%d)", resp.StatusCode)}
	}
}

func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out (backend unreachable)"
	}
	return err.Error()
}
