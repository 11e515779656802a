package monitoring

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/prometheus/common/expfmt"
)

// Push replaces the metrics stored for job on the Pushgateway at url with
// everything g gathers.
func Push(ctx context.Context, url, job string, g prometheus.Gatherer) error {
	return push.New(url, job).
		Gatherer(g).
		Format(expfmt.NewFormat(expfmt.TypeTextPlain)).
		PushContext(ctx)
}
