package core

import (
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-drift/vdom/pkg/config"
	"github.com/go-drift/vdom/pkg/dom"
	"github.com/go-drift/vdom/pkg/errors"
)

// Observer receives lifecycle notifications, e.g. for metrics.
type Observer interface {
	ComponentMounted(component string)
	ComponentUpdated(component string, rendered bool, elapsed time.Duration)
	ComponentUnmounted(component string)
	RenderFailed(component string)
}

type nopObserver struct{}

func (nopObserver) ComponentMounted(string)                      {}
func (nopObserver) ComponentUpdated(string, bool, time.Duration) {}
func (nopObserver) ComponentUnmounted(string)                    {}
func (nopObserver) RenderFailed(string)                          {}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger. V(1) logs mount, replace and unmount
// decisions; V(2) logs child moves.
func WithLogger(log logr.Logger) Option {
	return func(r *Reconciler) { r.log = log }
}

// WithObserver registers a lifecycle observer.
func WithObserver(o Observer) Option {
	return func(r *Reconciler) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithDebug enables prop type validation.
func WithDebug(debug bool) Option {
	return func(r *Reconciler) { r.debug = debug }
}

// WithConfig applies a loaded configuration. A positive log.verbosity
// enables stderr logging unless a logger was already set.
func WithConfig(cfg *config.Config) Option {
	return func(r *Reconciler) {
		if cfg == nil {
			return
		}
		r.debug = cfg.Debug
		if cfg.Log.Verbosity > 0 && r.log.GetSink() == nil {
			r.log = errors.NewLogHandler(cfg.Log.Verbosity).Logger.WithName("reconciler")
		}
		if cfg.Placeholder.Prefix != "" {
			r.placeholderPrefix = cfg.Placeholder.Prefix
		}
	}
}

// Reconciler diffs descriptor trees and applies the result to a host tree.
//
// A Reconciler is NOT safe for concurrent use; all calls, including
// SetState on the components it mounted, must come from one goroutine.
type Reconciler struct {
	host     dom.Host
	listener dom.Listener
	log      logr.Logger
	observer Observer
	tracer   trace.Tracer

	debug             bool
	placeholderPrefix string

	table  map[dom.Node]*nodeState
	roots  map[dom.Node]*Root
	mounts MountQueue

	// depth counts nested reconciliation passes; mount callbacks flush
	// when it returns to zero.
	depth    int
	batching bool
	dirty    []*updater
}

// New creates a Reconciler driving host.
func New(host dom.Host, opts ...Option) *Reconciler {
	r := &Reconciler{
		host:              host,
		log:               logr.Discard(),
		observer:          nopObserver{},
		tracer:            defaultTracer(),
		placeholderPrefix: config.DefaultPlaceholderPrefix,
		table:             make(map[dom.Node]*nodeState),
		roots:             make(map[dom.Node]*Root),
	}
	r.listener, _ = host.(dom.Listener)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Host returns the host adapter.
func (r *Reconciler) Host() dom.Host {
	return r.host
}

// Mount creates a detached host node for n. Mount callbacks of components
// inside n run before Mount returns unless it is called during another pass.
func (r *Reconciler) Mount(n Node, ctx Context) (dom.Node, error) {
	var node dom.Node
	err := r.pass(func() error {
		var err error
		node, err = r.mount(n, ctx, nil, "")
		return err
	})
	return node, err
}

// Diff reconciles host, currently reflecting old, to next. It returns the
// node now occupying the position, which differs from host when the node
// was replaced and is nil when next is nil.
func (r *Reconciler) Diff(old, next Node, host dom.Node, ctx Context) (dom.Node, error) {
	var node dom.Node
	err := r.pass(func() error {
		var err error
		node, err = r.diff(old, next, host, ctx, nil)
		return err
	})
	return node, err
}

// Destroy tears down n, which was mounted at host, running unmount hooks.
// The caller is responsible for detaching host.
func (r *Reconciler) Destroy(n Node, host dom.Node) {
	r.destroy(n, host)
	r.forget(host)
}

// pass runs fn as a reconciliation pass. Only the outermost pass flushes the
// mount-completion queue.
func (r *Reconciler) pass(fn func() error) error {
	r.depth++
	err := func() error {
		defer func() { r.depth-- }()
		return fn()
	}()
	if r.depth == 0 {
		if ferr := r.flushMounts(); err == nil {
			err = ferr
		}
	}
	return err
}

func (r *Reconciler) mount(n Node, ctx Context, owner Refs, ns string) (dom.Node, error) {
	switch n := n.(type) {
	case Text:
		return r.host.CreateText(string(n)), nil
	case Comment:
		return r.host.CreateComment(string(n)), nil
	case *Element:
		return r.mountElement(n, ctx, owner, ns)
	case *StatelessNode:
		return r.mountStateless(n, ctx, owner, ns)
	case *ComponentNode:
		return r.mountComponent(n, ctx, owner, ns)
	default:
		panic(fmt.Sprintf("core: unknown node %T", n))
	}
}

func (r *Reconciler) diff(old, next Node, host dom.Node, ctx Context, owner Refs) (dom.Node, error) {
	if isNilNode(next) {
		r.log.V(1).Info("remove node", "node", describe(old))
		r.destroy(old, host)
		if parent := r.host.Parent(host); parent != nil {
			r.host.RemoveChild(parent, host)
		}
		r.forget(host)
		return nil, nil
	}
	if !sameNode(old, next) {
		r.log.V(1).Info("replace node", "from", describe(old), "to", describe(next))
		parent := r.host.Parent(host)
		ns := ""
		if parent != nil {
			ns = r.host.Namespace(parent)
		}
		r.destroy(old, host)
		node, err := r.mount(next, ctx, owner, ns)
		if err != nil {
			return host, err
		}
		if parent != nil {
			r.host.ReplaceChild(parent, node, host)
		}
		r.migrate(host, node)
		return node, nil
	}
	if old == next {
		return host, nil
	}
	return r.update(old, next, host, ctx, owner)
}

// update reconciles two descriptors of the same logical node in place.
func (r *Reconciler) update(old, next Node, host dom.Node, ctx Context, owner Refs) (dom.Node, error) {
	switch next := next.(type) {
	case Text:
		r.host.SetText(host, string(next))
		return host, nil
	case Comment:
		return host, nil
	case *Element:
		return r.updateElement(old.(*Element), next, host, ctx, owner)
	case *StatelessNode:
		return r.updateStateless(old.(*StatelessNode), next, host, ctx, owner)
	case *ComponentNode:
		return r.updateComponent(old.(*ComponentNode), next, host, ctx, owner)
	default:
		panic(fmt.Sprintf("core: unknown node %T", next))
	}
}

func (r *Reconciler) destroy(n Node, host dom.Node) {
	switch n := n.(type) {
	case Text, Comment:
	case *Element:
		r.destroyElement(n, host)
	case *StatelessNode:
		r.destroyStateless(n, host)
	case *ComponentNode:
		r.destroyComponent(n, host)
	default:
		panic(fmt.Sprintf("core: unknown node %T", n))
	}
}
