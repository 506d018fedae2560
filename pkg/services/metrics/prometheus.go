package metrics

import (
	"time"

	"github.com/nspcc-dev/psv/pkg/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const readHeaderTimeout = 5 * time.Second

// NewPrometheusService creates a new service exposing benchmark metrics
// registered in the default prometheus registry.
func NewPrometheusService(cfg config.BasicService, log *zap.Logger) *Service {
	if log == nil {
		return nil
	}
	return NewService("Prometheus", newServers(cfg, promhttp.Handler()), cfg, log)
}
