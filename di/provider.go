package di

import (
	"cmp"
	"reflect"
	"sync"
	"sync/atomic"
	"weak"
)

// Factory 是零参数工厂函数，返回的 error 会被包装为 *FactoryError。
type Factory func() (any, error)

// Provider 将工厂与实例化策略绑定在一起。
type Provider interface {
	// Lifetime 返回实例化策略
	Lifetime() Lifetime

	// Type 返回声明的产出类型
	Type() reflect.Type

	// Produce 按策略返回实例，可能调用工厂并缓存结果
	Produce() (any, error)

	// Matches 声明的产出类型等于 requested 或可赋值给 requested（实现了接口）
	Matches(requested reflect.Type) bool

	// IsPotentialMatch 声明的产出类型是比 requested 更宽泛的接口，
	// 只有实例化后的运行时检查才能确定是否满足
	IsPotentialMatch(requested reflect.Type) bool

	// CastableTo 已实例化的缓存值满足 requested；不会触发实例化
	CastableTo(requested reflect.Type) bool
}

// Releasable 可被 Scope 清除缓存实例的提供者
type Releasable interface {
	Provider
	Release()
}

// Disposable 实例在所属作用域释放时会被调用 Dispose
type Disposable interface {
	Dispose()
}

type baseProvider struct {
	typ reflect.Type
}

func (b *baseProvider) Type() reflect.Type {
	return b.typ
}

func (b *baseProvider) Matches(requested reflect.Type) bool {
	if requested == nil {
		return false
	}
	return b.typ == requested || b.typ.AssignableTo(requested)
}

func (b *baseProvider) IsPotentialMatch(requested reflect.Type) bool {
	if requested == nil || b.typ == requested || b.typ.Kind() != reflect.Interface {
		return false
	}
	return requested.AssignableTo(b.typ)
}

func (b *baseProvider) invoke(factory Factory) (any, error) {
	v, err := factory()
	if err != nil {
		return nil, &FactoryError{Type: b.typ, Err: err}
	}
	return v, nil
}

// singletonProvider 工厂最多成功调用一次；并发的首次调用者等待同一次创建
type singletonProvider struct {
	baseProvider
	factory Factory

	mu       sync.Mutex
	done     atomic.Bool
	instance any
}

// NewSingleton 创建单例提供者，typ 为声明的产出类型
func NewSingleton(typ reflect.Type, factory Factory) Provider {
	return &singletonProvider{baseProvider: baseProvider{typ: typ}, factory: factory}
}

// NewValue 创建已经实例化的单例提供者，v 的动态类型即声明的产出类型，v 不能为 nil
func NewValue(v any) Provider {
	if v == nil {
		panic("di: NewValue called with nil value")
	}
	return newValueProvider(reflect.TypeOf(v), v)
}

func newValueProvider(typ reflect.Type, v any) *singletonProvider {
	p := &singletonProvider{baseProvider: baseProvider{typ: typ}, instance: v}
	p.done.Store(true)
	return p
}

func (p *singletonProvider) Lifetime() Lifetime { return Singleton }

func (p *singletonProvider) Produce() (any, error) {
	// 快速路径
	if p.done.Load() {
		return p.instance, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done.Load() {
		return p.instance, nil
	}

	v, err := p.invoke(p.factory)
	if err != nil {
		return nil, err
	}
	p.instance = v
	p.done.Store(true)
	return v, nil
}

func (p *singletonProvider) CastableTo(requested reflect.Type) bool {
	return p.done.Load() && isInstanceOf(p.instance, requested)
}

// transientProvider 每次都调用工厂
type transientProvider struct {
	baseProvider
	factory Factory
}

// NewTransient 创建瞬态提供者
func NewTransient(typ reflect.Type, factory Factory) Provider {
	return &transientProvider{baseProvider: baseProvider{typ: typ}, factory: factory}
}

func (p *transientProvider) Lifetime() Lifetime { return Transient }

func (p *transientProvider) Produce() (any, error) {
	return p.invoke(p.factory)
}

func (p *transientProvider) CastableTo(reflect.Type) bool { return false }

// weakProvider 只持有实例的弱引用
type weakProvider[T any] struct {
	baseProvider
	factory func() (*T, error)

	mu  sync.Mutex
	ptr weak.Pointer[T]
}

// NewWeakSingleton 创建弱单例提供者，声明的产出类型为 *T。
//
// 实例只在调用方仍持有强引用时被复用；被 GC 回收后下次 Produce 重新调用工厂。
func NewWeakSingleton[T any](factory func() (*T, error)) Provider {
	return &weakProvider[T]{baseProvider: baseProvider{typ: TypeOf[*T]()}, factory: factory}
}

func (p *weakProvider[T]) Lifetime() Lifetime { return WeakSingleton }

func (p *weakProvider[T]) Produce() (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v := p.ptr.Value(); v != nil {
		return v, nil
	}

	v, err := p.factory()
	if err != nil {
		return nil, &FactoryError{Type: p.typ, Err: err}
	}
	if v != nil {
		p.ptr = weak.Make(v)
	}
	return v, nil
}

func (p *weakProvider[T]) CastableTo(requested reflect.Type) bool {
	v := p.ptr.Value()
	return v != nil && isInstanceOf(v, requested)
}

// scopedProvider 状态机：Empty --Produce--> Cached --Release--> Empty
type scopedProvider struct {
	baseProvider
	factory Factory

	scope *scopeState
	// 引用该提供者的注册数，跨容器计数
	refs atomic.Int32

	mu       sync.Mutex
	cached   bool
	instance any
}

func newScopedProvider(typ reflect.Type, factory Factory, scope *scopeState) *scopedProvider {
	return &scopedProvider{baseProvider: baseProvider{typ: typ}, factory: factory, scope: scope}
}

func (p *scopedProvider) Lifetime() Lifetime { return Scoped }

func (p *scopedProvider) Produce() (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached {
		return p.instance, nil
	}

	v, err := p.invoke(p.factory)
	if err != nil {
		return nil, err
	}
	p.instance, p.cached = v, true
	return v, nil
}

func (p *scopedProvider) CastableTo(requested reflect.Type) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cached && isInstanceOf(p.instance, requested)
}

// Release 清除缓存实例；Empty 状态下为空操作
func (p *scopedProvider) Release() {
	p.mu.Lock()
	instance, had := p.instance, p.cached
	p.instance, p.cached = nil, false
	p.mu.Unlock()

	if !had {
		return
	}
	if d, ok := instance.(Disposable); ok {
		d.Dispose()
	}
}

func (p *scopedProvider) retain() {
	if p.refs.Add(1) == 1 && p.scope != nil {
		p.scope.add(p)
	}
}

// drop 最后一个注册被删除或覆盖后，提供者离开作用域并释放实例
func (p *scopedProvider) drop() {
	if p.refs.Add(-1) > 0 {
		return
	}
	if p.scope != nil {
		p.scope.remove(p)
	}
	p.Release()
}

// Distance 返回 p 的产出类型与 requested 之间的距离，不相关时返回 -1。
//
// 同一类型距离为 0。Go 没有继承链，这里以方法集的差作为跳数：
// 实现 requested 的类型每多一个方法就离 requested 远一步，
// 潜在匹配（requested 比产出类型更具体）取对偶。
func Distance(p Provider, requested reflect.Type) int {
	typ := p.Type()
	switch {
	case typ == requested:
		return 0
	case p.Matches(requested):
		return 1 + methodDelta(typ, requested)
	case p.IsPotentialMatch(requested):
		return 1 + methodDelta(requested, typ)
	default:
		return -1
	}
}

// Rank 比较 a、b 相对 requested 的远近：a 更近返回负数，更远返回正数，相同返回 0
func Rank(a, b Provider, requested reflect.Type) int {
	return cmp.Compare(Distance(a, requested), Distance(b, requested))
}

func methodDelta(specific, general reflect.Type) int {
	return max(specific.NumMethod()-general.NumMethod(), 0)
}

func isInstanceOf(v any, typ reflect.Type) bool {
	return v != nil && reflect.TypeOf(v).AssignableTo(typ)
}

// satisfies 与 isInstanceOf 相同，但允许 nil 赋给可为 nil 的类型；
// 只用于精确注册和缓存命中，此时声明类型就是请求类型
func satisfies(v any, typ reflect.Type) bool {
	if v != nil {
		return reflect.TypeOf(v).AssignableTo(typ)
	}
	switch typ.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
