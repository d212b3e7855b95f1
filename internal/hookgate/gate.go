package hookgate

import (
	"errors"
	"fmt"
)

// ErrNoHooks is returned by HookEvent for a key without a hook.
var ErrNoHooks = errors.New("no hooks")

//go:generate go run go.uber.org/mock/mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

// IGate runs hooks once the keys they require have been seen.
type IGate[K comparable, S any, T any] interface {
	IsHookExist(key K) bool
	HookEvent(key K, value S) (bool, error)
	KeyEvent(key K) error
}

// Gate runs a hook event directly when all of its required keys have been seen.
// Otherwise the event is converted by the defer func and replayed once the last
// required key arrives.
type Gate[K comparable, S any, T any] struct {
	deferFunc DeferFunc[S, T]
	ready     map[K]func(S) error
	waiting   map[K][]*waitHook[K, S, T]
	hooks     map[K]*waitHook[K, S, T]
}

// DeferFunc turns an event that cannot run yet into a value that can be replayed later.
type DeferFunc[S any, T any] func(S) (T, error)

type waitHook[K comparable, S any, T any] struct {
	key        K
	runFunc    func(S) error
	replayFunc func(T) error
	deferred   []T
	missing    int
}

type Hook[K comparable, S any, T any] interface {
	// Run handles an event whose requirements are satisfied.
	Run(S) error
	// Replay handles an event that was deferred.
	Replay(T) error
	Requirements() []K
}

func NewGate[K comparable, S any, T any](hookMap map[K]Hook[K, S, T], deferFunc DeferFunc[S, T]) *Gate[K, S, T] {
	ready := make(map[K]func(S) error, len(hookMap))
	waiting := make(map[K][]*waitHook[K, S, T])
	hooks := make(map[K]*waitHook[K, S, T], len(hookMap))
	for key, hook := range hookMap {
		requirements := unique(hook.Requirements())

		if len(requirements) == 0 {
			ready[key] = hook.Run
			continue
		}

		wh := &waitHook[K, S, T]{
			key:        key,
			runFunc:    hook.Run,
			replayFunc: hook.Replay,
			missing:    len(requirements),
		}
		hooks[key] = wh
		for _, required := range requirements {
			waiting[required] = append(waiting[required], wh)
		}
	}

	return &Gate[K, S, T]{
		deferFunc: deferFunc,
		ready:     ready,
		waiting:   waiting,
		hooks:     hooks,
	}
}

// IsHookExist reports whether a hook is registered for key.
func (g *Gate[K, S, T]) IsHookExist(key K) bool {
	if _, ok := g.ready[key]; ok {
		return true
	}
	_, ok := g.hooks[key]

	return ok
}

// HookEvent runs the hook of key with value if it is ready and reports whether it ran.
// A hook that is still waiting gets the deferred value queued instead.
func (g *Gate[K, S, T]) HookEvent(key K, value S) (bool, error) {
	if fn := g.ready[key]; fn != nil {
		err := fn(value)
		if err != nil {
			return false, fmt.Errorf("failed to execute hook: %w", err)
		}

		return true, nil
	}

	wh, ok := g.hooks[key]
	if !ok {
		return false, ErrNoHooks
	}

	deferred, err := g.deferFunc(value)
	if err != nil {
		return false, fmt.Errorf("failed to defer: %w", err)
	}
	wh.deferred = append(wh.deferred, deferred)

	return false, nil
}

// KeyEvent records that key has been seen. Hooks whose last requirement was key
// become ready and their deferred events are replayed in order.
// Seeing the same key again has no effect.
func (g *Gate[K, S, T]) KeyEvent(key K) error {
	hooks, ok := g.waiting[key]
	if !ok {
		return nil
	}
	delete(g.waiting, key)

	var errs []error
	for _, wh := range hooks {
		wh.missing--
		if wh.missing > 0 {
			continue
		}

		g.ready[wh.key] = wh.runFunc
		delete(g.hooks, wh.key)

		for _, value := range wh.deferred {
			err := wh.replayFunc(value)
			if err != nil {
				errs = append(errs, fmt.Errorf("failed to execute hook(%v): %w", wh.key, err))
			}
		}
		wh.deferred = nil
	}
	if len(errs) != 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Pending returns the deferred values of hooks that never became ready.
func (g *Gate[K, S, T]) Pending() map[K][]T {
	pending := make(map[K][]T)
	for key, wh := range g.hooks {
		if len(wh.deferred) != 0 {
			pending[key] = wh.deferred
		}
	}

	return pending
}

func unique[K comparable](keys []K) []K {
	seen := make(map[K]struct{}, len(keys))
	res := make([]K, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		res = append(res, k)
	}

	return res
}
