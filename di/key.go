package di

import (
	"reflect"
)

// TypeKey 是注册表中类型的唯一键。
//
// 相同的类型总是得到相等的键，可直接用作 map 键；键之间没有有意义的顺序。
type TypeKey struct {
	typ reflect.Type
}

// KeyOf 返回类型 T 的键，T 可以是接口。
//
// 示例：
//
//	c.Register(p, di.KeyOf[Logger](), di.KeyOf[*ConsoleLogger]())
func KeyOf[T any]() TypeKey {
	return TypeKey{typ: TypeOf[T]()}
}

// KeyFor 返回 typ 的键
func KeyFor(typ reflect.Type) TypeKey {
	return TypeKey{typ: typ}
}

// Type 返回键对应的类型
func (k TypeKey) Type() reflect.Type {
	return k.typ
}

func (k TypeKey) String() string {
	if k.typ == nil {
		return "<nil>"
	}
	return k.typ.String()
}

// TypeOf 获取类型 T 的 reflect.Type（泛型辅助函数）
//
// 与 reflect.TypeOf(v) 不同，T 为接口时返回接口类型本身。
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
