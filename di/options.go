package di

import (
	"reflect"

	"github.com/gocrud/impose/logging"
)

// ContainerOption 配置容器
type ContainerOption func(*Container)

// WithMatchRule 设置兼容匹配规则，默认 MatchNearest
func WithMatchRule(rule MatchRule) ContainerOption {
	return func(c *Container) {
		c.rule = rule
	}
}

// WithCastable 允许在没有静态或潜在匹配时，采用已实例化且满足请求类型的提供者
func WithCastable(enabled bool) ContainerOption {
	return func(c *Container) {
		c.castable = enabled
	}
}

// WithLogger 设置容器的日志记录器
func WithLogger(logger logging.Logger) ContainerOption {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// registration 是泛型注册函数的选项集合
type registration struct {
	keys  []TypeKey
	scope *Scope
}

// Option 配置一次注册
type Option func(*registration)

// As 额外以接口 I 注册
//
// 示例：
//
//	di.Register(c, di.Singleton, NewConsoleLogger, di.As[Logger]())
func As[I any]() Option {
	return AsType(TypeOf[I]())
}

// AsType 额外以 typ 注册
func AsType(typ reflect.Type) Option {
	return func(r *registration) {
		r.keys = append(r.keys, KeyFor(typ))
	}
}

// InScope 指定 Scoped 注册所属的作用域，未指定时使用容器的默认作用域
func InScope(s *Scope) Option {
	return func(r *registration) {
		r.scope = s
	}
}

func buildRegistration(typ reflect.Type, opts []Option) *registration {
	r := &registration{keys: []TypeKey{KeyFor(typ)}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
