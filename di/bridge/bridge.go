// Package bridge 连接 di.Container 与 samber/do 注入器，两套容器可以互相取用服务。
package bridge

import (
	"github.com/samber/do/v2"

	"github.com/gocrud/impose/di"
)

// Bridge 桥接器，连接 di.Container 和 samber/do
//
// Export 让容器中的服务可以被 do 访问；Import 让 do 中的服务可以从容器解析。
// 同一个类型不要既 Export 又 Import，否则解析会在两边之间无限递归。
type Bridge struct {
	container *di.Container
	injector  do.Injector
}

// New 创建桥接器，injector 可以是 do.New() 返回的根作用域或其子作用域
func New(c *di.Container, injector do.Injector) *Bridge {
	return &Bridge{
		container: c,
		injector:  injector,
	}
}

// Container 获取 di 容器
func (b *Bridge) Container() *di.Container {
	return b.container
}

// Injector 获取 samber/do 注入器
func (b *Bridge) Injector() do.Injector {
	return b.injector
}

// Export 将容器中的 T 暴露给 samber/do
//
// 以 do 的瞬态服务注册，每次 Invoke 都回到容器解析，实例的生命周期仍由容器决定。
//
// 示例：
//
//	bridge.Export[Logger](b)
//	logger := do.MustInvoke[Logger](b.Injector())
func Export[T any](b *Bridge) {
	do.ProvideTransient(b.injector, func(do.Injector) (T, error) {
		return di.Resolve[T](b.container)
	})
}

// ExportNamed 以名称 name 将容器中的 T 暴露给 samber/do
func ExportNamed[T any](b *Bridge, name string) {
	do.ProvideNamedTransient(b.injector, name, func(do.Injector) (T, error) {
		return di.Resolve[T](b.container)
	})
}

// Import 将 samber/do 中的 T 注册到容器
//
// 以 Transient 注册；do 默认以懒加载单例提供服务，缓存由 do 负责。
func Import[T any](b *Bridge, opts ...di.Option) {
	di.RegisterE(b.container, di.Transient, func() (T, error) {
		return do.Invoke[T](b.injector)
	}, opts...)
}

// ImportNamed 将 samber/do 中名为 name 的 T 注册到容器
func ImportNamed[T any](b *Bridge, name string, opts ...di.Option) {
	di.RegisterE(b.container, di.Transient, func() (T, error) {
		return do.InvokeNamed[T](b.injector, name)
	}, opts...)
}
