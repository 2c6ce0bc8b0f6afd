package di

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNotFound 没有任何已注册或可匹配的提供者满足请求类型
	ErrNotFound = errors.New("di: service not found")
	// ErrTypeMismatch 提供者产出的实例不满足请求类型
	ErrTypeMismatch = errors.New("di: type mismatch")
)

// NotFoundError 描述未找到的请求类型，errors.Is(err, ErrNotFound) 为 true
type NotFoundError struct {
	Type reflect.Type
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("di: no compatible provider for %v", e.Type)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// TypeMismatchError 提供者已找到，但实例化后的值未通过运行时类型检查
type TypeMismatchError struct {
	Want reflect.Type
	Got  reflect.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("di: provider for %v produced incompatible %v", e.Want, e.Got)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// FactoryError 包装工厂返回的错误
type FactoryError struct {
	Type reflect.Type
	Err  error
}

func (e *FactoryError) Error() string {
	return fmt.Sprintf("di: factory for %v failed: %v", e.Type, e.Err)
}

func (e *FactoryError) Unwrap() error {
	return e.Err
}
