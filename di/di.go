package di

import (
	"fmt"
	"reflect"
)

// Register 以 lifetime 注册类型 T 的工厂。
//
// 支持 Singleton、Transient 与 Scoped；WeakSingleton 只能缓存指针，
// 请使用 RegisterWeak。
//
// 示例：
//
//	di.Register(c, di.Singleton, func() *UserService { return &UserService{} }, di.As[Service]())
func Register[T any](c *Container, lifetime Lifetime, factory func() T, opts ...Option) {
	RegisterE(c, lifetime, func() (T, error) { return factory(), nil }, opts...)
}

// RegisterE 与 Register 相同，但工厂可以返回错误
func RegisterE[T any](c *Container, lifetime Lifetime, factory func() (T, error), opts ...Option) {
	typ := TypeOf[T]()
	r := buildRegistration(typ, opts)
	f := func() (any, error) {
		v, err := factory()
		if err != nil {
			return nil, err
		}
		return v, nil
	}

	var p Provider
	switch lifetime {
	case Singleton:
		p = NewSingleton(typ, f)
	case Transient:
		p = NewTransient(typ, f)
	case Scoped:
		s := r.scope
		if s == nil {
			s = c.DefaultScope()
		}
		p = s.CreateScoped(typ, f)
	case WeakSingleton:
		panic(fmt.Sprintf("di: %v cannot be registered as %v, use RegisterWeak with a pointer factory", typ, lifetime))
	default:
		panic(fmt.Sprintf("di: unknown lifetime %v", lifetime))
	}
	c.Register(p, r.keys...)
}

// RegisterValue 将已有的值注册为单例
func RegisterValue[T any](c *Container, v T, opts ...Option) {
	typ := TypeOf[T]()
	r := buildRegistration(typ, opts)
	c.Register(newValueProvider(typ, v), r.keys...)
}

// RegisterWeak 以弱单例注册 *T 的工厂
func RegisterWeak[T any](c *Container, factory func() *T, opts ...Option) {
	RegisterWeakE(c, func() (*T, error) { return factory(), nil }, opts...)
}

// RegisterWeakE 与 RegisterWeak 相同，但工厂可以返回错误
func RegisterWeakE[T any](c *Container, factory func() (*T, error), opts ...Option) {
	p := NewWeakSingleton(factory)
	r := buildRegistration(p.Type(), opts)
	c.Register(p, r.keys...)
}

// RegisterScoped 在作用域 s 中创建 T 的 Scoped 提供者并注册
func RegisterScoped[T any](c *Container, s *Scope, factory func() T, opts ...Option) {
	Register(c, Scoped, factory, append(opts, InScope(s))...)
}

// Resolve 解析类型 T 的实例
func Resolve[T any](c *Container) (T, error) {
	var zero T
	typ := TypeOf[T]()

	v, err := c.Resolve(typ)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}

	t, ok := v.(T)
	if !ok {
		return zero, &TypeMismatchError{Want: typ, Got: reflect.TypeOf(v)}
	}
	return t, nil
}

// MustResolve 与 Resolve 相同，失败时 panic
func MustResolve[T any](c *Container) T {
	v, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return v
}

// ResolveOrDefault 解析失败时返回 fallback 的结果，fallback 只在需要时调用
func ResolveOrDefault[T any](c *Container, fallback func() T) T {
	v, err := Resolve[T](c)
	if err != nil {
		return fallback()
	}
	return v
}

// Has 判断容器能否提供类型 T
func Has[T any](c *Container) bool {
	return c.Has(TypeOf[T]())
}

// Remove 删除类型 T 的精确注册
func Remove[T any](c *Container) bool {
	return c.Remove(KeyOf[T]())
}
