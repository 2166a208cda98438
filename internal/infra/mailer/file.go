package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"techwatch/internal/observability/logging"
)

// FileSink writes the rendered digest to a local file instead of sending
// it. Used for dry runs and for previewing template changes.
type FileSink struct {
	Path string
}

// Deliver writes the HTML body to the configured path.
func (f FileSink) Deliver(ctx context.Context, subject, htmlBody string) error {
	if f.Path == "" {
		return fmt.Errorf("file sink: no output path configured")
	}

	if err := os.WriteFile(f.Path, []byte(htmlBody), 0o644); err != nil {
		return fmt.Errorf("write digest to %s: %w", f.Path, err)
	}

	logging.FromContext(ctx).Info("digest written to file",
		slog.String("path", f.Path),
		slog.String("subject", subject),
		slog.Int("body_bytes", len(htmlBody)))
	return nil
}
