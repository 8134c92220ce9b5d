package httpclient

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/mcpscan/mcpscan/pkg/shared/config"
)

// HclogAdapter adapts an hclog.Logger to the resty log.Logger interface.
type HclogAdapter struct {
	logger hclog.Logger
}

func NewHclogAdapter(logger hclog.Logger) resty.Logger {
	return &HclogAdapter{logger: logger}
}

func (a *HclogAdapter) Errorf(format string, v ...interface{}) {
	a.logger.Error(fmt.Sprintf(format, v...))
}

func (a *HclogAdapter) Warnf(format string, v ...interface{}) {
	a.logger.Warn(fmt.Sprintf(format, v...))
}

func (a *HclogAdapter) Debugf(format string, v ...interface{}) {
	a.logger.Debug(fmt.Sprintf(format, v...))
}

// NewRestyClient initializes and configures a resty client based on the
// provided configuration.
func NewRestyClient(logger hclog.Logger, cfg *config.Config) *resty.Client {
	client := resty.New()
	if logger != nil {
		client.SetLogger(NewHclogAdapter(logger))
	}

	httpCfg := cfg.HTTPClient
	client.SetDebug(httpCfg.Debug)
	client.SetRetryCount(config.SetThen(httpCfg.RetryCount, 5))
	client.SetRetryWaitTime(config.SetThen(httpCfg.RetryWaitTime, 1*time.Second))
	client.SetRetryMaxWaitTime(config.SetThen(httpCfg.RetryMaxWaitTime, 5*time.Second))
	client.SetTimeout(config.SetThen(httpCfg.Timeout, 30*time.Second))

	if proxy := httpCfg.Proxy.Address(); proxy != "" {
		client.SetProxy(proxy)
	}

	return client
}

// NewHTTPClient returns the underlying *http.Client of a configured resty
// client, for libraries that take a standard client.
func NewHTTPClient(logger hclog.Logger, cfg *config.Config) *http.Client {
	return NewRestyClient(logger, cfg).GetClient()
}
