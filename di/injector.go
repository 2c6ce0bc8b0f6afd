package di

import (
	"sync"
	"sync/atomic"
)

var (
	builtinDefault = sync.OnceValue(func() *Container { return New() })
	customDefault  atomic.Pointer[Container]
)

// Default 返回全局默认容器，首次使用时创建
func Default() *Container {
	if c := customDefault.Load(); c != nil {
		return c
	}
	return builtinDefault()
}

// SetDefault 替换全局默认容器，传 nil 恢复为内置容器
func SetDefault(c *Container) {
	customDefault.Store(c)
}

// ResetDefault 清空全局默认容器的所有注册
func ResetDefault() {
	Default().Reset()
}

// Inject 从默认容器中注入类型T的实例，失败时 panic
func Inject[T any]() T {
	instance, err := Resolve[T](Default())
	if err != nil {
		panic("di.Inject failed: " + err.Error())
	}
	return instance
}

// TryInject 从默认容器中注入实例，返回实例和错误
func TryInject[T any]() (T, error) {
	return Resolve[T](Default())
}

// InjectOrDefault 从默认容器中注入实例，如果不存在则返回默认值
func InjectOrDefault[T any](defaultValue T) T {
	instance, err := TryInject[T]()
	if err != nil {
		return defaultValue
	}
	return instance
}
