package di

import (
	"fmt"
	"strings"
)

// Lifetime 定义了提供者的实例化策略。
type Lifetime int

const (
	// Singleton 工厂最多调用一次，之后总是返回同一个实例
	Singleton Lifetime = iota

	// Transient 每次解析都调用工厂，不缓存
	Transient

	// WeakSingleton 以弱引用缓存实例
	// 没有其他强引用时实例可被回收，下次解析会重新创建
	WeakSingleton

	// Scoped 作用域内单例
	// 缓存的实例可以被所属 Scope 的 Release 清除，清除后下次解析重新创建
	Scoped
)

func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	case WeakSingleton:
		return "weak-singleton"
	case Scoped:
		return "scoped"
	default:
		return fmt.Sprintf("Lifetime(%d)", int(l))
	}
}

// MatchRule 决定没有精确注册时如何在多个兼容提供者中选择。
type MatchRule int

const (
	// MatchNearest 选择产出类型离请求类型最近的提供者（默认）
	MatchNearest MatchRule = iota
	// MatchFurthest 选择产出类型离请求类型最远的提供者
	MatchFurthest
)

func (r MatchRule) String() string {
	switch r {
	case MatchNearest:
		return "nearest"
	case MatchFurthest:
		return "furthest"
	default:
		return fmt.Sprintf("MatchRule(%d)", int(r))
	}
}

// ParseMatchRule 解析配置中的匹配规则名称，空字符串视为 nearest
func ParseMatchRule(s string) (MatchRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nearest":
		return MatchNearest, nil
	case "furthest":
		return MatchFurthest, nil
	}
	return MatchNearest, fmt.Errorf("di: unknown match rule %q", s)
}
