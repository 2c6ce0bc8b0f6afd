package di

import (
	"errors"
	"reflect"
	"slices"

	"github.com/gocrud/impose/logging"
)

// Resolve 返回 typ 的实例。
//
// 查找顺序：精确注册、兼容缓存、全量扫描。扫描时先按 MatchRule 选出静态匹配
// （产出类型实现了 typ）；没有静态匹配时依次尝试潜在匹配，以及开启 castable
// 时已实例化且满足 typ 的提供者，第一个通过运行时检查的被采用。
// 被采用的提供者记入兼容缓存。
func (c *Container) Resolve(typ reflect.Type) (any, error) {
	if typ == nil {
		return nil, errors.New("di: Resolve called with nil type")
	}
	key := KeyFor(typ)

	c.mu.RLock()
	e, ok := c.providers[key]
	if !ok {
		e, ok = c.cache[key]
	}
	c.mu.RUnlock()

	if ok {
		return produce(e.provider, typ)
	}
	return c.resolveCompatible(key)
}

// Has 判断 typ 是否有精确注册、缓存的兼容匹配或静态兼容的提供者
func (c *Container) Has(typ reflect.Type) bool {
	if typ == nil {
		return false
	}
	key := KeyFor(typ)

	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, ok := c.providers[key]; ok {
		return true
	}
	if _, ok := c.cache[key]; ok {
		return true
	}
	for _, e := range c.providers {
		if e.provider.Matches(typ) {
			return true
		}
	}
	return false
}

func (c *Container) resolveCompatible(key TypeKey) (any, error) {
	typ := key.Type()

	c.mu.RLock()
	gen := c.generation
	candidates := c.uniqueEntriesLocked()
	rule, castable := c.rule, c.castable
	c.mu.RUnlock()

	if best := selectStatic(candidates, typ, rule); best != nil {
		c.remember(key, best, gen)
		return produce(best.provider, typ)
	}

	for _, e := range selectDynamic(candidates, typ, rule, castable) {
		v, err := e.provider.Produce()
		if err != nil {
			return nil, err
		}
		// nil 不能证明满足 typ，继续尝试下一个
		if !isInstanceOf(v, typ) {
			continue
		}
		c.remember(key, e, gen)
		return v, nil
	}

	c.logger.Debug("no compatible provider", logging.F("type", typ))
	return nil, &NotFoundError{Type: typ}
}

// remember 写入兼容缓存；扫描期间注册表发生过变更时放弃写入
func (c *Container) remember(key TypeKey, e *entry, gen uint64) {
	c.mu.Lock()
	stored := c.generation == gen
	if stored {
		c.cache[key] = e
	}
	c.mu.Unlock()

	if stored && c.logger.Enabled(logging.LogLevelDebug) {
		c.logger.Debug("compatible provider resolved",
			logging.F("requested", key),
			logging.F("provider", e.provider.Type()),
			logging.F("distance", Distance(e.provider, key.Type())),
			logging.F("rule", c.rule),
		)
	}
}

// uniqueEntriesLocked 返回去重后的 entry，调用方必须持有读锁
func (c *Container) uniqueEntriesLocked() []*entry {
	seen := make(map[*entry]struct{}, len(c.providers))
	entries := make([]*entry, 0, len(c.providers))
	for _, e := range c.providers {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		entries = append(entries, e)
	}
	return entries
}

// selectStatic 按规则选出最近或最远的静态匹配；距离相同时后注册的优先
func selectStatic(entries []*entry, typ reflect.Type, rule MatchRule) *entry {
	var best *entry
	for _, e := range entries {
		if !e.provider.Matches(typ) {
			continue
		}
		if best == nil || better(e, best, typ, rule) {
			best = e
		}
	}
	return best
}

// selectDynamic 收集潜在匹配与可转换的提供者，按规则排序
func selectDynamic(entries []*entry, typ reflect.Type, rule MatchRule, castable bool) []*entry {
	var potential, cast []*entry
	for _, e := range entries {
		switch {
		case e.provider.IsPotentialMatch(typ):
			potential = append(potential, e)
		case castable && e.provider.CastableTo(typ):
			cast = append(cast, e)
		}
	}

	order := func(a, b *entry) int {
		if better(a, b, typ, rule) {
			return -1
		}
		if better(b, a, typ, rule) {
			return 1
		}
		return 0
	}
	slices.SortFunc(potential, order)
	slices.SortFunc(cast, order)
	return append(potential, cast...)
}

// better 判断 a 是否应当优先于 b
func better(a, b *entry, typ reflect.Type, rule MatchRule) bool {
	r := Rank(a.provider, b.provider, typ)
	if rule == MatchFurthest {
		r = -r
	}
	if r != 0 {
		return r < 0
	}
	return a.seq > b.seq
}

func produce(p Provider, typ reflect.Type) (any, error) {
	v, err := p.Produce()
	if err != nil {
		return nil, err
	}
	if !satisfies(v, typ) {
		return nil, &TypeMismatchError{Want: typ, Got: reflect.TypeOf(v)}
	}
	return v, nil
}
