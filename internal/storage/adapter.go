package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Opener opens a backend. It is called at most once per adapter.
type Opener func(ctx context.Context) (Backend, error)

// Observer receives the outcome of storage operations.
type Observer interface {
	StorageOp(op, backend string, err error)
	StorageFallback(from, to string)
}

type nopObserver struct{}

func (nopObserver) StorageOp(string, string, error) {}
func (nopObserver) StorageFallback(string, string)  {}

// Adapter saves and loads JSON documents. The backend is chosen on first use:
// the primary opener is tried, and if it fails the fallback opener is used.
// The choice is cached for the life of the adapter.
type Adapter struct {
	primary  Opener
	fallback Opener
	log      *slog.Logger
	obs      Observer
	now      func() time.Time

	once    sync.Once
	backend Backend
	initErr error
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithObserver reports operations to o.
func WithObserver(o Observer) Option {
	return func(a *Adapter) {
		if o != nil {
			a.obs = o
		}
	}
}

// WithClock overrides the timestamp source for writes.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

// NewAdapter creates an adapter over a primary and a fallback backend. Either
// opener may be nil.
func NewAdapter(primary, fallback Opener, log *slog.Logger, opts ...Option) *Adapter {
	a := &Adapter{
		primary:  primary,
		fallback: fallback,
		log:      log,
		obs:      nopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) init(ctx context.Context) error {
	a.once.Do(func() {
		var primaryErr error
		if a.primary != nil {
			a.backend, primaryErr = a.primary(ctx)
			if primaryErr == nil {
				a.log.Info("storage ready", "backend", a.backend.Name())
				return
			}
			a.log.Warn("primary storage unavailable, using fallback", "error", primaryErr)
		}
		if a.fallback == nil {
			a.initErr = fmt.Errorf("opening storage: %w", errors.Join(primaryErr, errors.New("no fallback configured")))
			return
		}
		b, err := a.fallback(ctx)
		if err != nil {
			a.initErr = fmt.Errorf("opening fallback storage: %w", errors.Join(primaryErr, err))
			return
		}
		a.backend = b
		if a.primary != nil {
			a.obs.StorageFallback("primary", b.Name())
		}
		a.log.Info("storage ready", "backend", b.Name())
	})
	return a.initErr
}

// Backend returns the name of the selected backend, opening it if needed.
func (a *Adapter) Backend(ctx context.Context) (string, error) {
	if err := a.init(ctx); err != nil {
		return "", err
	}
	return a.backend.Name(), nil
}

// Save marshals value and overwrites key with it.
func (a *Adapter) Save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return a.SaveRaw(ctx, key, data)
}

// SaveRaw stores already-encoded JSON under key.
func (a *Adapter) SaveRaw(ctx context.Context, key string, data []byte) error {
	if err := a.init(ctx); err != nil {
		return err
	}
	err := a.backend.Put(ctx, key, data, a.now())
	a.obs.StorageOp("save", a.backend.Name(), err)
	if err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// Load decodes the value stored under key into dst. It reports false with a nil
// error when the key has never been written.
func (a *Adapter) Load(ctx context.Context, key string, dst any) (bool, error) {
	data, _, err := a.LoadRaw(ctx, key)
	if err != nil || data == nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

// LoadRaw returns the stored JSON and its write time, or nil data for a missing key.
func (a *Adapter) LoadRaw(ctx context.Context, key string) ([]byte, time.Time, error) {
	if err := a.init(ctx); err != nil {
		return nil, time.Time{}, err
	}
	data, at, err := a.backend.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		a.obs.StorageOp("load", a.backend.Name(), nil)
		return nil, time.Time{}, nil
	}
	a.obs.StorageOp("load", a.backend.Name(), err)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("loading %s: %w", key, err)
	}
	return data, at, nil
}

// Export collects every document into one envelope.
func (a *Adapter) Export(ctx context.Context) (*Document, error) {
	doc := &Document{ExportedAt: a.now().UTC()}
	for _, key := range Keys {
		data, _, err := a.LoadRaw(ctx, key)
		if err != nil {
			return nil, err
		}
		*doc.field(key) = data
	}
	return doc, nil
}

// Import writes every field present in doc and leaves the others untouched.
func (a *Adapter) Import(ctx context.Context, doc *Document) error {
	for _, key := range Keys {
		raw := *doc.field(key)
		if !present(raw) {
			continue
		}
		if !json.Valid(raw) {
			return fmt.Errorf("importing %s: invalid JSON", key)
		}
		if err := a.SaveRaw(ctx, key, raw); err != nil {
			return err
		}
	}
	return nil
}

// ClearAll removes every stored document.
func (a *Adapter) ClearAll(ctx context.Context) error {
	if err := a.init(ctx); err != nil {
		return err
	}
	err := a.backend.Clear(ctx)
	a.obs.StorageOp("clear", a.backend.Name(), err)
	if err != nil {
		return fmt.Errorf("clearing storage: %w", err)
	}
	return nil
}

// Close releases the selected backend, if one was opened.
func (a *Adapter) Close() error {
	if a.backend == nil {
		return nil
	}
	return a.backend.Close()
}
