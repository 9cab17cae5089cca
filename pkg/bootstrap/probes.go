package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/abgdnv/mangahaven/pkg/config"
)

// RunProbes marks the process ready by creating the readiness file and then touches the
// liveness file every interval until ctx is done. Both files are removed on return.
func RunProbes(ctx context.Context, cfg config.ProbesConfig, logger *slog.Logger) error {
	if err := touch(cfg.ReadinessFileName); err != nil {
		return fmt.Errorf("failed to create readiness file: %w", err)
	}
	defer remove(cfg.ReadinessFileName, logger)
	defer remove(cfg.LivenessFileName, logger)

	if err := touch(cfg.LivenessFileName); err != nil {
		return fmt.Errorf("failed to create liveness file: %w", err)
	}
	ticker := time.NewTicker(cfg.LivenessInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := touch(cfg.LivenessFileName); err != nil {
				logger.Warn("failed to touch liveness file", "file", cfg.LivenessFileName, "error", err)
			}
		}
	}
}

func touch(name string) error {
	now := time.Now()
	if err := os.Chtimes(name, now, now); err == nil {
		return nil
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	return f.Close()
}

func remove(name string, logger *slog.Logger) {
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to remove probe file", "file", name, "error", err)
	}
}
