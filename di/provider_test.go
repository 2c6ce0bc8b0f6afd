package di_test

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocrud/impose/di"
)

func TestDistance(t *testing.T) {
	explainer := di.TypeOf[Explainer]()

	tests := []struct {
		name     string
		provider di.Provider
		want     int
	}{
		{"exact", di.NewTransient(explainer, nil), 0},
		{"one method", di.NewTransient(di.TypeOf[*plainDependency](), nil), 1},
		{"interface refinement", di.NewTransient(di.TypeOf[DetailedExplainer](), nil), 2},
		{"three methods", di.NewTransient(di.TypeOf[*fullDependency](), nil), 3},
		{"unrelated", di.NewTransient(di.TypeOf[fmt.Stringer](), nil), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, di.Distance(tt.provider, explainer))
		})
	}

	// 潜在匹配：声明为 Explainer，请求更具体的 *fullDependency
	assert.Equal(t, 3, di.Distance(di.NewTransient(explainer, nil), di.TypeOf[*fullDependency]()))
}

func TestRank(t *testing.T) {
	explainer := di.TypeOf[Explainer]()
	plain := di.NewTransient(di.TypeOf[*plainDependency](), nil)
	full := di.NewTransient(di.TypeOf[*fullDependency](), nil)

	assert.Negative(t, di.Rank(plain, full, explainer))
	assert.Positive(t, di.Rank(full, plain, explainer))
	assert.Zero(t, di.Rank(plain, di.NewTransient(di.TypeOf[*otherPlainDependency](), nil), explainer))
}

func TestMatches(t *testing.T) {
	p := di.NewTransient(di.TypeOf[*fullDependency](), nil)

	assert.True(t, p.Matches(di.TypeOf[*fullDependency]()))
	assert.True(t, p.Matches(di.TypeOf[Explainer]()))
	assert.True(t, p.Matches(di.TypeOf[DetailedExplainer]()))
	assert.False(t, p.Matches(di.TypeOf[fmt.Stringer]()))
	assert.False(t, p.IsPotentialMatch(di.TypeOf[Explainer]()))

	iface := di.NewTransient(di.TypeOf[Explainer](), nil)
	assert.True(t, iface.IsPotentialMatch(di.TypeOf[*fullDependency]()))
	assert.True(t, iface.IsPotentialMatch(di.TypeOf[DetailedExplainer]()))
	assert.False(t, iface.IsPotentialMatch(di.TypeOf[Explainer]()))
	assert.False(t, iface.IsPotentialMatch(di.TypeOf[fmt.Stringer]()))
}

func TestSingletonProvider(t *testing.T) {
	var calls atomic.Int32
	p := di.NewSingleton(di.TypeOf[*plainDependency](), func() (any, error) {
		calls.Add(1)
		return &plainDependency{name: "once"}, nil
	})

	assert.False(t, p.CastableTo(di.TypeOf[Explainer]()), "not materialized yet")

	first, err := p.Produce()
	require.NoError(t, err)
	second, err := p.Produce()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, di.Singleton, p.Lifetime())
	assert.True(t, p.CastableTo(di.TypeOf[Explainer]()))
}

func TestSingletonProviderConcurrentFirstProduce(t *testing.T) {
	var calls atomic.Int32
	p := di.NewSingleton(di.TypeOf[*plainDependency](), func() (any, error) {
		calls.Add(1)
		time.Sleep(5 * time.Millisecond)
		return &plainDependency{}, nil
	})

	const goroutines = 32
	results := make([]any, goroutines)
	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = p.Produce()
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestSingletonProviderRetriesAfterError(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32
	p := di.NewSingleton(di.TypeOf[*plainDependency](), func() (any, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}
		return &plainDependency{}, nil
	})

	_, err := p.Produce()
	require.ErrorIs(t, err, boom)

	var factoryErr *di.FactoryError
	require.ErrorAs(t, err, &factoryErr)
	assert.Equal(t, di.TypeOf[*plainDependency](), factoryErr.Type)

	v, err := p.Produce()
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestTransientProvider(t *testing.T) {
	var calls atomic.Int32
	p := di.NewTransient(di.TypeOf[*plainDependency](), func() (any, error) {
		calls.Add(1)
		return &plainDependency{}, nil
	})

	first, _ := p.Produce()
	second, _ := p.Produce()

	assert.NotSame(t, first, second)
	assert.EqualValues(t, 2, calls.Load())
	assert.False(t, p.CastableTo(di.TypeOf[Explainer]()))
}

func TestValueProvider(t *testing.T) {
	dep := &namedDependency{name: "value"}
	p := di.NewValue(dep)

	assert.Equal(t, di.TypeOf[*namedDependency](), p.Type())
	assert.True(t, p.CastableTo(di.TypeOf[Explainer]()))

	v, err := p.Produce()
	require.NoError(t, err)
	assert.Same(t, dep, v)
}

func TestWeakSingletonProvider(t *testing.T) {
	var calls atomic.Int32
	p := di.NewWeakSingleton(func() (*payload, error) {
		return &payload{id: int(calls.Add(1))}, nil
	})
	require.Equal(t, di.TypeOf[*payload](), p.Type())
	require.Equal(t, di.WeakSingleton, p.Lifetime())

	first, err := p.Produce()
	require.NoError(t, err)
	second, err := p.Produce()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, calls.Load())
	assert.True(t, p.CastableTo(di.TypeOf[*payload]()))
	runtime.KeepAlive(first)
	runtime.KeepAlive(second)

	// 不再持有强引用后，实例可被回收，下次 Produce 重新创建
	assert.Eventually(t, func() bool {
		runtime.GC()
		v, err := p.Produce()
		return err == nil && v.(*payload).id > 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScopedProviderStateMachine(t *testing.T) {
	var calls atomic.Int32
	var disposed atomic.Int32
	s := di.NewScope()
	defer runtime.KeepAlive(s)
	p := s.CreateScoped(di.TypeOf[*disposable](), func() (any, error) {
		return &disposable{id: int(calls.Add(1)), disposed: &disposed}, nil
	}).(di.Releasable)

	// Empty --release--> Empty
	p.Release()
	assert.Zero(t, disposed.Load())

	first, _ := p.Produce()
	again, _ := p.Produce()
	assert.Same(t, first, again)

	p.Release()
	assert.EqualValues(t, 1, disposed.Load())

	second, _ := p.Produce()
	assert.NotSame(t, first, second)
	assert.EqualValues(t, 2, calls.Load())

	p.Release()
	p.Release()
	assert.EqualValues(t, 2, disposed.Load())
}
