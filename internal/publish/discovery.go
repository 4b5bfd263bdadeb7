package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jmylchreest/stylist/internal/event"
	"github.com/jmylchreest/stylist/internal/observability"
	"github.com/jmylchreest/stylist/internal/theme"
)

// DiscoveryListener returns a publishing listener that discovers themes
// under each of roots. Roots that do not exist are logged and skipped. A nil
// logger means the logger carried by the dispatch context.
func DiscoveryListener(roots []string, logger *slog.Logger) event.Listener {
	return func(ctx context.Context, e event.Event) error {
		log := logger
		if log == nil {
			log = observability.LoggerFromContext(ctx)
		}

		locator, ok := e.Payload.(*theme.Locator)
		if !ok {
			return fmt.Errorf("unexpected %s payload %T", e.Name, e.Payload)
		}

		for _, root := range roots {
			n, err := locator.Discover(root)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					observability.WithError(log, err).WarnContext(ctx, "theme root does not exist",
						slog.String("path", root))
					continue
				}
				return err
			}
			log.DebugContext(ctx, "discovered themes",
				slog.String("path", root),
				slog.Int("count", n))
		}
		return nil
	}
}

// PathsListener returns a publishing listener that adds each dir as a
// theme directory without discovery.
func PathsListener(dirs ...string) event.Listener {
	return func(_ context.Context, e event.Event) error {
		locator, ok := e.Payload.(*theme.Locator)
		if !ok {
			return fmt.Errorf("unexpected %s payload %T", e.Name, e.Payload)
		}
		for _, dir := range dirs {
			if _, err := locator.AddPath(dir); err != nil {
				return err
			}
		}
		return nil
	}
}
