package cli

import (
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"finsight-api/internal/config"
)

// ConfigSummaryLines returns human readable lines describing the loaded app config.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	lines := []string{
		fmt.Sprintf("Environment: %s", cfg.Env),
		fmt.Sprintf("Listen: %s:%d", cfg.Host, cfg.Port),
	}

	switch {
	case strings.TrimSpace(cfg.Market.File) != "":
		lines = append(lines, fmt.Sprintf("Market config: %s", cfg.Market.File))
	case cfg.Market.Value != nil:
		lines = append(lines, "Market config: inline")
	default:
		lines = append(lines, "Market config: not configured")
	}

	if mc := cfg.Market.Value; mc != nil {
		lines = append(lines, fmt.Sprintf("Crypto provider: %s", mc.Crypto))
		lines = append(lines, fmt.Sprintf("Equity provider: %s", mc.Equity))
		if mc.EquitySecondary != "" {
			lines = append(lines, fmt.Sprintf("Equity secondary: %s", mc.EquitySecondary))
		}
	}

	return lines
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	lines := ConfigSummaryLines(cfg)
	if len(lines) == 0 {
		return
	}
	logx.Info("configuration summary")
	for _, line := range lines {
		logx.Infof("config • %s", line)
	}
}
