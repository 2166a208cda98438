package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// DefaultJob is the Pushgateway job name for digest runs.
const DefaultJob = "techwatch_digest"

// Push sends every sample collected during this process to the Pushgateway
// at url under the given job name (DefaultJob when empty). The digest binary
// is a one-shot process, so pushing at run end is the only way its samples
// outlive it.
func Push(ctx context.Context, url, job string) error {
	if job == "" {
		job = DefaultJob
	}

	err := push.New(url, job).
		Gatherer(prometheus.DefaultGatherer).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
