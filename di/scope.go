package di

import (
	"reflect"
	"runtime"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Scope 是一组 Scoped 提供者的生命周期上下文。
//
// Release 会清除其创建的所有提供者缓存的实例，之后再解析会重新调用工厂。
// Scope 不可达时会被自动释放；提供者和工厂不应持有 Scope 本身的引用，
// 否则自动释放不会发生。
type Scope struct {
	state *scopeState
}

type scopeState struct {
	id        string
	mu        sync.Mutex
	providers []*scopedProvider
}

// NewScope 创建一个新作用域
func NewScope() *Scope {
	st := &scopeState{id: uuid.NewString()}
	s := &Scope{state: st}
	runtime.AddCleanup(s, func(st *scopeState) { st.release() }, st)
	return s
}

// ID 返回作用域的唯一标识
func (s *Scope) ID() string {
	return s.state.id
}

// Len 返回作用域创建的提供者数量
func (s *Scope) Len() int {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return len(s.state.providers)
}

// CreateScoped 创建归属于该作用域的 Scoped 提供者。
//
// 提供者注册到容器后，最后一个引用它的键被删除或覆盖时，
// 它会离开作用域，缓存的实例随之释放。
func (s *Scope) CreateScoped(typ reflect.Type, factory Factory) Provider {
	p := newScopedProvider(typ, factory, s.state)
	s.state.add(p)
	return p
}

// Release 清除所有提供者缓存的实例，可重复调用。
// 实现了 Disposable 的实例会被调用 Dispose。
func (s *Scope) Release() {
	s.state.release()
}

// Close 实现 io.Closer
func (s *Scope) Close() error {
	s.Release()
	return nil
}

func (st *scopeState) release() {
	st.mu.Lock()
	providers := slices.Clone(st.providers)
	st.mu.Unlock()

	// 在锁外释放，Dispose 可能再次访问作用域
	for _, p := range providers {
		p.Release()
	}
}

func (st *scopeState) add(p *scopedProvider) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if !slices.Contains(st.providers, p) {
		st.providers = append(st.providers, p)
	}
}

func (st *scopeState) remove(p *scopedProvider) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.providers = slices.DeleteFunc(st.providers, func(x *scopedProvider) bool { return x == p })
}
