package aggregate

import (
	"context"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/zpnet/internal/logging"
)

// Func fetches a result for one device address.
type Func[T any] func(ctx context.Context, addr string) (T, error)

// Result is the outcome for one device address. Value is the zero value
// whenever Err is set.
type Result[T any] struct {
	Addr  string
	Value T
	Err   error
}

// Infallible adapts a fetch that degrades internally instead of failing.
func Infallible[T any](fn func(ctx context.Context, addr string) T) Func[T] {
	return func(ctx context.Context, addr string) (T, error) {
		return fn(ctx, addr), nil
	}
}

// Run calls fetch for every address concurrently, one worker per address,
// and blocks until all of them return. results[i] belongs to addrs[i].
//
// A failing or panicking fetch only affects its own slot. Nothing is
// retried and no worker cancels another.
func Run[T any](ctx context.Context, addrs []string, fetch Func[T]) []Result[T] {
	results := make([]Result[T], len(addrs))
	if len(addrs) == 0 {
		return results
	}

	var wg errgroup.Group
	wg.SetLimit(len(addrs))

	for i, addr := range addrs {
		wg.Go(func() error {
			results[i] = runOne(ctx, addr, fetch)
			return nil
		})
	}
	_ = wg.Wait()

	return results
}

func runOne[T any](ctx context.Context, addr string, fetch Func[T]) (result Result[T]) {
	result.Addr = addr

	defer func() {
		if r := recover(); r != nil {
			logging.Error("Device fetch panicked",
				zap.String("device_ip", addr),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			var zero T
			result.Value = zero
			result.Err = fmt.Errorf("fetch for %s panicked: %v", addr, r)
		}
	}()

	value, err := fetch(ctx, addr)
	if err != nil {
		logging.Debug("Device fetch failed", zap.String("device_ip", addr), zap.Error(err))
		var zero T
		return Result[T]{Addr: addr, Value: zero, Err: err}
	}

	return Result[T]{Addr: addr, Value: value}
}

// ByAddr re-keys results by device address. Failed devices map to the zero
// value so that every input address is present.
func ByAddr[T any](results []Result[T]) map[string]T {
	out := make(map[string]T, len(results))
	for _, r := range results {
		out[r.Addr] = r.Value
	}
	return out
}

// Errors returns the failed results' errors keyed by address.
func Errors[T any](results []Result[T]) map[string]error {
	out := make(map[string]error)
	for _, r := range results {
		if r.Err != nil {
			out[r.Addr] = r.Err
		}
	}
	return out
}
