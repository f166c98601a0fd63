package locate

import (
	"context"
	"errors"
	"time"
)

// DefaultPollInterval is the default interval between attempts of WaitOne and
// WaitMany.
var DefaultPollInterval = 100 * time.Millisecond

// WaitOne retries FindOne until an element matches or ctx is done.
//
// Only ErrNoSuchElement is retried: invalid selectors and stale scopes are
// returned on the attempt that produced them. When ctx is done first, the
// returned error is ctx.Err().
func (f *Finder) WaitOne(ctx context.Context, l Locator, opts ...FindOption) (ElementHandle, error) {
	var h ElementHandle
	err := f.poll(ctx, l, func() (bool, error) {
		var err error
		h, err = f.FindOne(ctx, l, opts...)
		if errors.Is(err, ErrNoSuchElement) {
			return false, nil
		}
		return err == nil, err
	})
	return h, err
}

// WaitMany retries FindMany until at least one element matches, or at least
// the number given with AtLeast, or ctx is done.
func (f *Finder) WaitMany(ctx context.Context, l Locator, opts ...FindOption) ([]ElementHandle, error) {
	p := findParams{min: 1}
	for _, o := range opts {
		o(&p)
	}

	var handles []ElementHandle
	err := f.poll(ctx, l, func() (bool, error) {
		var err error
		handles, err = f.FindMany(ctx, l, opts...)
		if err != nil {
			return false, err
		}
		return len(handles) >= p.min, nil
	})
	if err != nil {
		return nil, err
	}
	return handles, nil
}

// poll calls check until it reports done, returns an error, or ctx is done.
func (f *Finder) poll(ctx context.Context, l Locator, check func() (bool, error)) error {
	interval := f.interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		done, err := check()
		if err != nil || done {
			return err
		}
		if attempt == 1 {
			f.logf("waiting for %s", l)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
