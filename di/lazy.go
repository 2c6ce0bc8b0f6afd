package di

import "sync"

// Lazy 延迟到第一次使用时才解析 T。
//
// 两个单例互相依赖时，让其中一方持有 Lazy 即可打破循环：
//
//	type A struct{ b *di.Lazy[*B] }
//	di.Register(c, di.Singleton, func() *A { return &A{b: di.NewLazy[*B](c)} })
//
// 解析成功后结果被缓存；失败不缓存，下次调用会重试。
type Lazy[T any] struct {
	c *Container

	mu    sync.Mutex
	done  bool
	value T
}

// NewLazy 创建从 c 解析 T 的 Lazy
func NewLazy[T any](c *Container) *Lazy[T] {
	return &Lazy[T]{c: c}
}

// Get 返回解析结果
func (l *Lazy[T]) Get() (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done {
		return l.value, nil
	}
	v, err := Resolve[T](l.c)
	if err != nil {
		return v, err
	}
	l.value, l.done = v, true
	return v, nil
}

// Value 与 Get 相同，失败时 panic
func (l *Lazy[T]) Value() T {
	v, err := l.Get()
	if err != nil {
		panic(err)
	}
	return v
}
