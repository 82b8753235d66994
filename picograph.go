package picograph

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/picograph/internal/cache"
	"github.com/aretw0/picograph/internal/compiler"
	"github.com/aretw0/picograph/internal/metrics"
	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/graph"
	"github.com/aretw0/picograph/pkg/nodes"
	"github.com/aretw0/picograph/pkg/registry"
	"golang.org/x/sync/singleflight"
)

// Version is the picograph release.
const Version = "0.1.0"

// Cache stores compiled sources keyed by graph digest.
type Cache = cache.Store

// Engine is the high-level entry point of the library.
// It wraps the compiler with caching, metrics and deduplication of concurrent requests.
type Engine struct {
	compiler  *compiler.Compiler
	catalogue *registry.Registry
	cache     Cache
	metrics   *metrics.Recorder
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	group     singleflight.Group

	maxDepth int
	indent   string
	preamble []string
	verify   bool
	nodeIDs  string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCatalogue replaces the built-in node catalogue.
func WithCatalogue(r *registry.Registry) Option {
	return func(e *Engine) {
		e.catalogue = r
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithCache enables the compiled-source cache.
func WithCache(c Cache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithMetrics records compiles in the given recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithMaxDepth overrides the recursion ceiling (default 4096).
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		e.maxDepth = depth
	}
}

// WithIndent sets the text of one indentation level (default two spaces).
func WithIndent(indent string) Option {
	return func(e *Engine) {
		e.indent = indent
	}
}

// WithPreamble emits the given lines before the first function.
func WithPreamble(lines ...string) Option {
	return func(e *Engine) {
		e.preamble = append([]string(nil), lines...)
	}
}

// WithVerification parses every generated program before returning it.
func WithVerification(enabled bool) Option {
	return func(e *Engine) {
		e.verify = enabled
	}
}

// New initializes an Engine. Without WithCatalogue it uses the built-in nodes.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxDepth: compiler.DefaultMaxDepth,
		indent:   compiler.DefaultIndent,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.catalogue == nil {
		e.catalogue = nodes.Catalogue()
	}
	ids := make([]string, 0, e.catalogue.Len())
	for _, m := range e.catalogue.List() {
		ids = append(ids, m.Definition.ID)
	}
	e.nodeIDs = strings.Join(ids, ",")
	if e.logger == nil {
		e.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	hooks := e.hooks
	if e.metrics != nil {
		hooks = chainHooks(hooks, e.metrics.Hooks())
	}
	e.compiler = compiler.New(e.catalogue,
		compiler.WithLogger(e.logger),
		compiler.WithLifecycleHooks(hooks),
		compiler.WithMaxDepth(e.maxDepth),
		compiler.WithIndent(e.indent),
		compiler.WithPreamble(e.preamble...),
		compiler.WithVerification(e.verify),
	)
	return e
}

// Catalogue returns the node catalogue in use.
func (e *Engine) Catalogue() *registry.Registry {
	return e.catalogue
}

// Validate reports structural errors in g without emitting code.
func (e *Engine) Validate(g domain.Graph) error {
	return graph.Validate(g, e.catalogue)
}

// Compile emits the Lua program for g.
// Identical graphs compiled concurrently share one compilation.
func (e *Engine) Compile(ctx context.Context, g domain.Graph) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key, err := cache.Key(g, e.settings()...)
	if err != nil {
		// Graphs that cannot be digested skip the cache and dedupe.
		e.logger.Debug("graph not cacheable", "error", err)
		return e.compile(g)
	}

	if e.cache != nil {
		src, ok, err := e.cache.Get(ctx, key)
		if err != nil {
			e.logger.Warn("cache read failed", "error", err)
		}
		if e.metrics != nil && err == nil {
			e.metrics.ObserveCache(ok)
		}
		if ok {
			return src, nil
		}
	}

	v, err, shared := e.group.Do(key, func() (any, error) {
		src, err := e.compile(g)
		if err != nil {
			return "", err
		}
		if e.cache != nil {
			if err := e.cache.Set(ctx, key, src); err != nil {
				e.logger.Warn("cache write failed", "error", err)
			}
		}
		return src, nil
	})
	if shared {
		e.logger.Debug("compile shared", "key", key)
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// CompileDocument decodes a JSON or YAML graph document and compiles it.
func (e *Engine) CompileDocument(ctx context.Context, data []byte) (string, error) {
	g, err := graph.Decode(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidGraph, err)
	}
	return e.Compile(ctx, g)
}

func (e *Engine) compile(g domain.Graph) (string, error) {
	start := time.Now()
	src, err := e.compiler.Compile(g)
	if e.metrics != nil {
		e.metrics.ObserveDuration(time.Since(start))
	}
	return src, err
}

// settings distinguishes cache entries produced with different output options.
func (e *Engine) settings() []string {
	return []string{
		"version=" + Version,
		"indent=" + e.indent,
		fmt.Sprintf("max_depth=%d", e.maxDepth),
		"preamble=" + strings.Join(e.preamble, "\n"),
		fmt.Sprintf("verify=%t", e.verify),
		"catalogue=" + e.nodeIDs,
	}
}

func chainHooks(a, b domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEmit: func(ev *domain.NodeEvent) {
			if a.OnNodeEmit != nil {
				a.OnNodeEmit(ev)
			}
			if b.OnNodeEmit != nil {
				b.OnNodeEmit(ev)
			}
		},
		OnCompileFinish: func(ev *domain.CompileEvent) {
			if a.OnCompileFinish != nil {
				a.OnCompileFinish(ev)
			}
			if b.OnCompileFinish != nil {
				b.OnCompileFinish(ev)
			}
		},
	}
}
