package observability

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Logging returns a bundle that reports every event to logger at debug level.
// Failures are logged at warn level.
func Logging(logger *log.Logger) Hooks {
	if logger == nil {
		logger = log.Default()
	}
	l := logHooks{logger: logger}
	return Hooks{Engine: l, Cache: l, Git: l}
}

type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnAnalysisStart(_ context.Context, project string, ruleCount int) {
	h.logger.Debug("analyzing project", "project", project, "rules", ruleCount)
}

func (h logHooks) OnAnalysisComplete(_ context.Context, project string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("analysis aborted", "project", project, "duration", d, "err", err)
		return
	}
	h.logger.Debug("analyzed project", "project", project, "duration", d)
}

func (h logHooks) OnRuleStart(_ context.Context, project, rule string) {
	h.logger.Debug("verifying rule", "project", project, "rule", rule)
}

func (h logHooks) OnRuleComplete(_ context.Context, project, rule string, passed bool, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("rule errored", "project", project, "rule", rule, "err", err)
		return
	}
	h.logger.Debug("verified rule", "project", project, "rule", rule, "passed", passed, "duration", d)
}

func (h logHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", key)
}

func (h logHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "key", key)
}

func (h logHooks) OnCacheError(_ context.Context, key string, err error) {
	h.logger.Warn("cache producer failed", "key", key, "err", err)
}

func (h logHooks) OnCommand(_ context.Context, dir string, args []string, d time.Duration, err error) {
	cmd := "git " + strings.Join(args, " ")
	if err != nil {
		h.logger.Debug("git command failed", "dir", dir, "cmd", cmd, "duration", d, "err", err)
		return
	}
	h.logger.Debug("ran git command", "dir", dir, "cmd", cmd, "duration", d)
}
