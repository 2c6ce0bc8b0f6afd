package di

import (
	"sync"

	"github.com/gocrud/impose/logging"
)

// entry 是注册表中的一条记录；同一个提供者以多个键注册时共享同一个 entry
type entry struct {
	provider Provider
	seq      uint64
	// 本容器中指向该 entry 的键数
	keys int
}

// registered 由需要感知注册状态的提供者实现，目前只有 Scoped 提供者
type registered interface {
	retain()
	drop()
}

func retainProvider(p Provider) {
	if r, ok := p.(registered); ok {
		r.retain()
	}
}

func dropProvider(p Provider) {
	if r, ok := p.(registered); ok {
		r.drop()
	}
}

// Container 是类型到提供者的注册表，同时负责兼容类型的解析。
//
// 没有精确注册时，Resolve 按 MatchRule 在已注册的提供者中查找兼容的一个，
// 并将结果记入兼容缓存；任何注册表变更都会清空该缓存。
// Container 可以被多个 goroutine 并发使用。
type Container struct {
	mu         sync.RWMutex
	providers  map[TypeKey]*entry
	cache      map[TypeKey]*entry
	generation uint64
	seq        uint64

	rule     MatchRule
	castable bool
	logger   logging.Logger

	scopeOnce    sync.Once
	defaultScope *Scope
}

// New 创建一个空容器
func New(opts ...ContainerOption) *Container {
	c := &Container{
		providers: make(map[TypeKey]*entry),
		cache:     make(map[TypeKey]*entry),
		rule:      MatchNearest,
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithCategory("di")
	return c
}

// Register 以 keys 注册 p，未指定键时使用 p.Type()。
// 已存在的键被覆盖，兼容缓存被清空。
// 被覆盖的 Scoped 提供者不再被任何键引用时离开其作用域。
func (c *Container) Register(p Provider, keys ...TypeKey) {
	if p == nil {
		panic("di: Register called with nil provider")
	}
	if len(keys) == 0 {
		keys = []TypeKey{KeyFor(p.Type())}
	}

	retainProvider(p)

	c.mu.Lock()
	c.seq++
	e := &entry{provider: p, seq: c.seq}
	var dropped []*entry
	for _, key := range keys {
		if old := c.putLocked(key, e); old != nil {
			dropped = append(dropped, old)
		}
	}
	c.invalidateLocked()
	c.mu.Unlock()

	for _, old := range dropped {
		dropProvider(old.provider)
	}

	if c.logger.Enabled(logging.LogLevelDebug) {
		c.logger.Debug("provider registered",
			logging.F("type", p.Type()),
			logging.F("lifetime", p.Lifetime()),
			logging.F("keys", keyNames(keys)),
		)
	}
}

// Remove 删除 key 的注册，返回之前是否存在
func (c *Container) Remove(key TypeKey) bool {
	c.mu.Lock()
	old, ok := c.providers[key]
	last := false
	if ok {
		delete(c.providers, key)
		old.keys--
		last = old.keys == 0
		c.invalidateLocked()
	}
	c.mu.Unlock()

	if !ok {
		return false
	}
	if last {
		dropProvider(old.provider)
	}
	c.logger.Debug("provider removed", logging.F("key", key))
	return true
}

// Reset 删除所有注册
func (c *Container) Reset() {
	c.mu.Lock()
	entries := c.uniqueEntriesLocked()
	clear(c.providers)
	c.invalidateLocked()
	c.mu.Unlock()

	for _, e := range entries {
		dropProvider(e.provider)
	}

	c.logger.Debug("container reset")
}

// Len 返回注册的键数
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.providers)
}

// Child 创建子容器。
//
// 子容器从父容器复制当前的精确注册（共享同一批提供者实例，单例因此也是共享的），
// 之后两者互不影响：子容器中的注册和删除不会改变父容器，反之亦然。
func (c *Container) Child() *Container {
	c.mu.RLock()
	defer c.mu.RUnlock()

	child := &Container{
		providers: make(map[TypeKey]*entry, len(c.providers)),
		cache:     make(map[TypeKey]*entry),
		seq:       c.seq,
		rule:      c.rule,
		castable:  c.castable,
		logger:    c.logger,
	}
	clones := make(map[*entry]*entry, len(c.providers))
	for key, e := range c.providers {
		ce, ok := clones[e]
		if !ok {
			ce = &entry{provider: e.provider, seq: e.seq}
			clones[e] = ce
			retainProvider(e.provider)
		}
		ce.keys++
		child.providers[key] = ce
	}
	return child
}

// DefaultScope 返回容器自有的作用域，未指定作用域的 Scoped 注册归属于它
func (c *Container) DefaultScope() *Scope {
	c.scopeOnce.Do(func() {
		c.defaultScope = NewScope()
	})
	return c.defaultScope
}

// Use 依次让每个模块向容器注册提供者
func (c *Container) Use(modules ...Module) *Container {
	for _, m := range modules {
		m.Provide(c)
	}
	return c
}

// putLocked 以 key 写入 e，返回因此不再被任何键引用的旧 entry
func (c *Container) putLocked(key TypeKey, e *entry) *entry {
	old := c.providers[key]
	if old == e {
		return nil
	}
	c.providers[key] = e
	e.keys++
	if old == nil {
		return nil
	}
	old.keys--
	if old.keys > 0 {
		return nil
	}
	return old
}

// invalidateLocked 清空兼容缓存，调用方必须持有写锁
func (c *Container) invalidateLocked() {
	c.generation++
	if len(c.cache) > 0 {
		clear(c.cache)
		c.logger.Trace("compatibility cache cleared", logging.F("generation", c.generation))
	}
}

func keyNames(keys []TypeKey) []string {
	names := make([]string, len(keys))
	for i, key := range keys {
		names[i] = key.String()
	}
	return names
}
