package doctor

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/steveyegge/hrs/internal/config"
)

const probeTimeout = 5 * time.Second

// ConfigCheck verifies the loaded configuration and provider catalog.
type ConfigCheck struct {
	BaseCheck
}

// NewConfigCheck creates a new config check.
func NewConfigCheck() *ConfigCheck {
	return &ConfigCheck{
		BaseCheck: BaseCheck{
			CheckName:        "config",
			CheckDescription: "Verify configuration and provider catalog",
		},
	}
}

// Run validates the configuration.
func (c *ConfigCheck) Run(ctx *CheckContext) *CheckResult {
	if err := ctx.Config.Validate(); err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: err.Error(),
			FixHint: "Fix the config file or run 'hrs config init' for a fresh one",
		}
	}

	source := "built-in defaults"
	if ctx.Config.Path != "" {
		source = ctx.Config.Path
	}
	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: fmt.Sprintf("%d providers from %s", len(ctx.Config.Providers), source),
	}
}

// ProxyCheck verifies the proxy prefix, if any, can be prepended to an
// absolute URL.
type ProxyCheck struct {
	BaseCheck
}

// NewProxyCheck creates a new proxy check.
func NewProxyCheck() *ProxyCheck {
	return &ProxyCheck{
		BaseCheck: BaseCheck{
			CheckName:        "proxy",
			CheckDescription: "Verify the proxy prefix",
		},
	}
}

// Run inspects the proxy prefix.
func (c *ProxyCheck) Run(ctx *CheckContext) *CheckResult {
	prefix := ctx.Config.ProxyURL
	if prefix == "" {
		return &CheckResult{Name: c.Name(), Status: StatusOK, Message: "no proxy configured"}
	}

	u, err := url.Parse(prefix)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: fmt.Sprintf("proxy prefix %q is not an absolute URL", prefix),
			FixHint: "Set " + config.EnvProxyURL + " or proxy_url to e.g. https://proxy.example.com/",
		}
	}
	if !strings.HasSuffix(prefix, "/") {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: fmt.Sprintf("proxy prefix %q does not end with '/'", prefix),
			FixHint: "The prefix is prepended verbatim; most proxies expect a trailing slash",
		}
	}
	return &CheckResult{Name: c.Name(), Status: StatusOK, Message: prefix}
}

// APICheck verifies the sandbox host answers through the proxy.
type APICheck struct {
	BaseCheck
}

// NewAPICheck creates a new API reachability check.
func NewAPICheck() *APICheck {
	return &APICheck{
		BaseCheck: BaseCheck{
			CheckName:        "api",
			CheckDescription: "Verify the sandbox API is reachable",
		},
	}
}

// Run probes the API host.
func (c *APICheck) Run(ctx *CheckContext) *CheckResult {
	target := ctx.Config.ProxyURL + strings.TrimRight(ctx.Config.BaseURL, "/") + "/"

	probeCtx, cancel := context.WithTimeout(ctx.Ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, target, nil)
	if err != nil {
		return &CheckResult{Name: c.Name(), Status: StatusError, Message: err.Error()}
	}

	client := ctx.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: fmt.Sprintf("%s unreachable: %v", target, err),
			FixHint: "Check network access, base_url and the proxy prefix",
		}
	}
	resp.Body.Close()

	if resp.StatusCode >= 500 {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: fmt.Sprintf("%s answered %d", target, resp.StatusCode),
		}
	}
	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: fmt.Sprintf("%s answered %d", target, resp.StatusCode),
	}
}
