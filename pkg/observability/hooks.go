// Package observability provides hooks for logging and metrics around rule
// execution, data cache access, and git operations.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Hooks are bundled in a
// [Hooks] value that callers pass explicitly to the engine, the data cache,
// and the repository provider; there is no process-wide registry.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Let the entrypoint choose an implementation per run
//
// # Usage
//
//	hooks := observability.Noop()
//	if verbose {
//	    hooks = observability.Logging(logger)
//	}
//	engine.Analyze(ctx, repo, tree, engine.Options{Hooks: hooks})
//
// Libraries call hooks to emit events:
//
//	hooks.Engine.OnRuleStart(ctx, project, rule)
//	// ... verify ...
//	hooks.Engine.OnRuleComplete(ctx, project, rule, passed, duration, err)
package observability

import (
	"context"
	"time"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from project analysis and rule execution.
type EngineHooks interface {
	// Analysis events
	OnAnalysisStart(ctx context.Context, project string, ruleCount int)
	OnAnalysisComplete(ctx context.Context, project string, duration time.Duration, err error)

	// Rule events
	OnRuleStart(ctx context.Context, project, rule string)
	OnRuleComplete(ctx context.Context, project, rule string, passed bool, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from data cache lookups.
type CacheHooks interface {
	// OnCacheHit records a lookup served from memory.
	OnCacheHit(ctx context.Context, key string)

	// OnCacheMiss records a lookup that ran the key's producer.
	OnCacheMiss(ctx context.Context, key string)

	// OnCacheError records a producer failure.
	OnCacheError(ctx context.Context, key string, err error)
}

// =============================================================================
// Git Hooks
// =============================================================================

// GitHooks receives events from git invocations made by the repository provider.
type GitHooks interface {
	// OnCommand records a completed git command.
	OnCommand(ctx context.Context, dir string, args []string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnAnalysisStart(context.Context, string, int)                       {}
func (NoopEngineHooks) OnAnalysisComplete(context.Context, string, time.Duration, error)   {}
func (NoopEngineHooks) OnRuleStart(context.Context, string, string)                        {}
func (NoopEngineHooks) OnRuleComplete(context.Context, string, string, bool, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)          {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)         {}
func (NoopCacheHooks) OnCacheError(context.Context, string, error) {}

// NoopGitHooks is a no-op implementation of GitHooks.
type NoopGitHooks struct{}

func (NoopGitHooks) OnCommand(context.Context, string, []string, time.Duration, error) {}

// =============================================================================
// Hook Bundle
// =============================================================================

// Hooks bundles one implementation per event category.
// Nil fields are treated as no-ops by [Hooks.Normalize].
type Hooks struct {
	Engine EngineHooks
	Cache  CacheHooks
	Git    GitHooks
}

// Noop returns a bundle whose hooks do nothing.
func Noop() Hooks {
	return Hooks{
		Engine: NoopEngineHooks{},
		Cache:  NoopCacheHooks{},
		Git:    NoopGitHooks{},
	}
}

// Normalize returns h with every nil field replaced by its no-op implementation.
func (h Hooks) Normalize() Hooks {
	if h.Engine == nil {
		h.Engine = NoopEngineHooks{}
	}
	if h.Cache == nil {
		h.Cache = NoopCacheHooks{}
	}
	if h.Git == nil {
		h.Git = NoopGitHooks{}
	}
	return h
}
