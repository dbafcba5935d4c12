package tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/magicoss/m2/internal/platform/db"
	"github.com/magicoss/m2/internal/platform/node"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tokenized/pkg/logger"
)

// Success and Failed markers for test output.
const (
	Success = "✓"
	Failed  = "✗"
)

// Test bundles the pieces every package test needs: an isolated standalone
// database and a logging context builder.
type Test struct {
	logConfig *logger.Config
	DB        *db.DB
	root      string
}

func (test *Test) Setup(ctx context.Context) error {
	test.logConfig = logger.NewDevelopmentConfig()
	test.logConfig.Main.SetWriter(os.Stdout)
	test.logConfig.Main.Format |= logger.IncludeSystem | logger.IncludeMicro
	test.logConfig.Main.MinLevel = logger.LevelDebug

	// Each fixture gets its own root so tests don't see each other's
	// records.
	test.root = filepath.Join("./tmp", uuid.New().String())

	var err error
	test.DB, err = db.New(&db.StorageConfig{
		Bucket: "standalone",
		Root:   test.root,
	})
	if err != nil {
		return errors.Wrap(err, "Failed to create DB")
	}

	return nil
}

func (test *Test) Close(ctx context.Context) {
	if test.DB != nil {
		test.DB.Close()
	}
	if len(test.root) != 0 {
		os.RemoveAll(test.root)
	}
}

// Recover reports a panic as a test failure instead of crashing the run.
func Recover(t testing.TB) {
	if r := recover(); r != nil {
		t.Fatalf("Unhandled panic : %v", r)
	}
}

// Context returns a context carrying request values and the test logger,
// pinned to the current time.
func (test *Test) Context(ctx context.Context, traceID string) context.Context {
	return test.ContextAt(ctx, traceID, time.Now())
}

// ContextAt is Context with an explicit clock, for expiry tests.
func (test *Test) ContextAt(ctx context.Context, traceID string, now time.Time) context.Context {
	v := node.Values{
		TraceID: traceID,
		Now:     now,
	}
	ctx = context.WithValue(ctx, node.KeyValues, &v)

	return logger.ContextWithLogConfig(ctx, test.logConfig)
}
