package tackle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/Azhovan/tackle/node"
)

// Loader loads and validates configuration from multiple sources.
//
// Load builds a defaults tree from T (tag defaults, or the value given to
// WithDefaults), merges every source's tree over it in order (later sources
// override earlier ones), decodes the result into a T and runs tag-based and
// custom validation. Loaders are not safe for concurrent configuration
// changes.
type Loader[T any] struct {
	reg        *Registry
	sources    []Source
	validators []Validator[T]
	defaults   *T
	strict     bool // Fail on unknown keys (default: true)
	logger     *slog.Logger
}

// DebounceDelay is how long Watch waits after the last change before reloading.
const DebounceDelay = 100 * time.Millisecond

// NewLoader creates a Loader with no sources/validators and strict mode enabled.
func NewLoader[T any]() *Loader[T] {
	return &Loader[T]{
		sources:    make([]Source, 0),
		validators: make([]Validator[T], 0),
		strict:     true,
	}
}

// WithRegistry sets the serializer registry. Default: DefaultRegistry().
func (l *Loader[T]) WithRegistry(reg *Registry) *Loader[T] {
	l.reg = reg
	return l
}

// WithSource adds a source. Sources are processed in order (later override earlier).
func (l *Loader[T]) WithSource(src Source) *Loader[T] {
	l.sources = append(l.sources, src)
	return l
}

// WithValidator adds a custom validator (executed after tag-based validation).
func (l *Loader[T]) WithValidator(v Validator[T]) *Loader[T] {
	l.validators = append(l.validators, v)
	return l
}

// WithDefaults replaces tag defaults with the fields of cfg. Required
// fields left at their zero value still have to come from a source.
func (l *Loader[T]) WithDefaults(cfg *T) *Loader[T] {
	l.defaults = cfg
	return l
}

// WithLogger sets the logger. Default: slog.Default().
func (l *Loader[T]) WithLogger(logger *slog.Logger) *Loader[T] {
	l.logger = logger
	return l
}

// Strict controls whether unknown keys cause errors. Default: true.
func (l *Loader[T]) Strict(strict bool) *Loader[T] {
	l.strict = strict
	return l
}

func (l *Loader[T]) registry() *Registry { return orDefault(l.reg) }

func (l *Loader[T]) log() *slog.Logger {
	if l.logger != nil {
		return l.logger
	}
	return slog.Default()
}

// Defaults returns the defaults tree: T's tag defaults, or the WithDefaults
// value, with required members that are still zero left out.
func (l *Loader[T]) Defaults() (*node.Node, error) {
	reg := l.registry()
	t := TypeFor[T]()

	var base reflect.Value
	if l.defaults != nil {
		base = reflect.ValueOf(l.defaults).Elem()
	} else {
		ctx := &DecodeContext{reg: reg, lenient: true}
		v, err := ctx.Decode(node.Mapping(), t)
		if err != nil {
			return nil, fmt.Errorf("apply defaults: %w", err)
		}
		base = v
	}
	return reg.encode(base, t, true)
}

// Tree returns the merged tree of defaults and all sources without decoding it.
func (l *Loader[T]) Tree(ctx context.Context) (*node.Node, error) {
	merged, err := l.Defaults()
	if err != nil {
		return nil, err
	}

	for _, source := range l.sources {
		loaded, err := source.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load source %s: %w", source.Name(), err)
		}
		if loaded == nil {
			loaded = node.Mapping()
		}
		l.log().Debug("source loaded", slog.String("source", source.Name()), slog.Int("keys", loaded.Len()))
		merged = node.Merge(merged, loaded)
	}
	return merged, nil
}

// Load loads, merges, binds, and validates configuration from all sources.
// Returns populated config or ValidationError with all field errors.
func (l *Loader[T]) Load(ctx context.Context) (*T, error) {
	tree, err := l.Tree(ctx)
	if err != nil {
		return nil, err
	}

	reg := l.registry()
	v, err := reg.decode(tree, TypeFor[T](), []DecodeOption{Strict(l.strict)})
	if err != nil {
		return nil, err
	}
	cfg := new(T)
	reflect.ValueOf(cfg).Elem().Set(v)

	var allErrors []FieldError
	if v.Kind() == reflect.Struct && reg.isRecord(TypeOf(v.Type())) {
		allErrors = reg.validateRecord(v, nil)
	}

	for i, validator := range l.validators {
		err := validator.Validate(ctx, cfg)
		if err == nil {
			continue
		}
		if valErr, ok := err.(*ValidationError); ok {
			allErrors = append(allErrors, valErr.FieldErrors...)
		} else {
			return nil, fmt.Errorf("validator %d failed: %w", i, err)
		}
	}

	if len(allErrors) > 0 {
		return nil, &ValidationError{FieldErrors: allErrors}
	}

	l.log().Debug("configuration loaded", slog.Int("sources", len(l.sources)))
	return cfg, nil
}

// Save extracts cfg and writes it to sink. When sink is also a Source its
// current tree is merged underneath, so keys, order and comments the user
// added survive; values from cfg win. A comment already in the sink takes
// precedence over a member's comment tag.
func (l *Loader[T]) Save(ctx context.Context, cfg *T, sink Sink) error {
	reg := l.registry()
	extracted, err := reg.encode(reflect.ValueOf(cfg).Elem(), TypeFor[T](), false)
	if err != nil {
		return fmt.Errorf("extract config: %w", err)
	}

	out := extracted
	if src, ok := sink.(Source); ok {
		current, err := src.Load(ctx)
		if err != nil {
			return fmt.Errorf("load source %s: %w", src.Name(), err)
		}
		keepComments(current, extracted)
		out = node.Merge(current, extracted)
	}

	if err := sink.Save(ctx, out); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	l.log().Debug("configuration saved")
	return nil
}

// keepComments copies every non-empty comment in current onto the node at
// the same path in extracted.
func keepComments(current, extracted *node.Node) {
	if current == nil || current.IsVirtual() || extracted == nil {
		return
	}
	if c := current.Comment(); c != "" {
		extracted.WithComment(c)
	}
	switch extracted.Kind() {
	case node.MappingKind:
		for _, k := range extracted.Keys() {
			if current.Has(node.Key(k)) {
				keepComments(current.Get(node.Key(k)), extracted.Get(node.Key(k)))
			}
		}
	case node.SequenceKind:
		for i := 0; i < extracted.Len(); i++ {
			if current.Has(node.Index(i)) {
				keepComments(current.Get(node.Index(i)), extracted.Get(node.Index(i)))
			}
		}
	}
}

// Watch monitors sources implementing Watcher and reloads on change.
// Returns: snapshots channel, errors channel, initial load error.
// Changes are debounced (DebounceDelay). Both channels are closed when ctx
// is done or every watched source has stopped.
func (l *Loader[T]) Watch(ctx context.Context) (<-chan Snapshot[T], <-chan error, error) {
	initialCfg, err := l.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("initial load failed: %w", err)
	}

	snapshotCh := make(chan Snapshot[T])
	errorCh := make(chan error)

	go l.watchLoop(ctx, initialCfg, snapshotCh, errorCh)

	return snapshotCh, errorCh, nil
}

// watchLoop emits the initial snapshot, then one snapshot or error per
// debounced burst of change events.
func (l *Loader[T]) watchLoop(ctx context.Context, initialCfg *T, snapshotCh chan<- Snapshot[T], errorCh chan<- error) {
	defer close(snapshotCh)
	defer close(errorCh)

	version := int64(1)
	if !send(ctx, snapshotCh, Snapshot[T]{Config: initialCfg, Version: version, LoadedAt: time.Now(), Source: "initial"}) {
		return
	}

	changes, err := l.watchSources(ctx, errorCh)
	if err != nil || changes == nil {
		return
	}

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		cause   string
		stopped bool
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-changes:
			if !ok {
				stopped = true
				changes = nil
				if timerC == nil {
					return
				}
				continue
			}
			cause = event.Cause
			if timer == nil {
				timer = time.NewTimer(DebounceDelay)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(DebounceDelay)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			newCfg, err := l.Load(ctx)
			if err != nil {
				l.log().Warn("configuration reload failed", slog.String("cause", cause), slog.Any("error", err))
				if !send(ctx, errorCh, fmt.Errorf("reload failed: %w", err)) {
					return
				}
			} else {
				version++
				if !send(ctx, snapshotCh, Snapshot[T]{Config: newCfg, Version: version, LoadedAt: time.Now(), Source: cause}) {
					return
				}
			}
			if stopped {
				return
			}
		}
	}
}

// watchSources starts every Watcher source and fans their events into one
// channel. It returns a nil channel when no source can be watched.
func (l *Loader[T]) watchSources(ctx context.Context, errorCh chan<- error) (<-chan ChangeEvent, error) {
	var inputs []<-chan ChangeEvent
	for _, source := range l.sources {
		w, ok := source.(Watcher)
		if !ok {
			continue
		}
		ch, err := w.Watch(ctx)
		if errors.Is(err, ErrWatchNotSupported) {
			continue
		}
		if err != nil {
			if !send(ctx, errorCh, fmt.Errorf("watch source %s: %w", source.Name(), err)) {
				return nil, ctx.Err()
			}
			continue
		}
		inputs = append(inputs, ch)
	}
	if len(inputs) == 0 {
		return nil, nil
	}

	merged := make(chan ChangeEvent)
	var wg sync.WaitGroup
	for _, in := range inputs {
		wg.Add(1)
		go func(in <-chan ChangeEvent) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-in:
					if !ok || !send(ctx, merged, ev) {
						return
					}
				}
			}
		}(in)
	}
	go func() {
		wg.Wait()
		close(merged)
	}()
	return merged, nil
}

func send[V any](ctx context.Context, ch chan<- V, v V) bool {
	select {
	case ch <- v:
		return true
	case <-ctx.Done():
		return false
	}
}
