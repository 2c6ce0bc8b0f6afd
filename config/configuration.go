package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Configuration 配置接口（类似于 .NET Core IConfiguration）
//
// 键支持 "a:b:c" 与 "a.b.c" 两种分隔写法。
type Configuration interface {
	// Get 获取配置值
	Get(key string) string
	// GetWithDefault 获取配置值，如果不存在则返回默认值
	GetWithDefault(key, defaultValue string) string
	// GetInt 获取整数配置值
	GetInt(key string) (int, error)
	// GetBool 获取布尔配置值
	GetBool(key string) (bool, error)
	// Has 判断键是否存在
	Has(key string) bool
	// GetSection 获取配置节
	GetSection(key string) Configuration
	// Bind 绑定配置到结构体（按 yaml 标签）
	Bind(key string, target any) error
	// GetAll 获取所有配置的副本
	GetAll() map[string]any
}

// ConfigurationBuilder 配置构建器，后添加的源覆盖先添加的源
type ConfigurationBuilder struct {
	sources []ConfigurationSource
	mu      sync.RWMutex
}

// NewConfigurationBuilder 创建配置构建器
func NewConfigurationBuilder() *ConfigurationBuilder {
	return &ConfigurationBuilder{
		sources: make([]ConfigurationSource, 0),
	}
}

// Add 添加配置源
func (b *ConfigurationBuilder) Add(source ConfigurationSource) *ConfigurationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sources = append(b.sources, source)
	return b
}

// AddJsonFile 添加 JSON 文件配置源
func (b *ConfigurationBuilder) AddJsonFile(path string, optional ...bool) *ConfigurationBuilder {
	return b.Add(&JsonFileSource{Path: path, Optional: len(optional) > 0 && optional[0]})
}

// AddYamlFile 添加 YAML 文件配置源
func (b *ConfigurationBuilder) AddYamlFile(path string, optional ...bool) *ConfigurationBuilder {
	return b.Add(&YamlFileSource{Path: path, Optional: len(optional) > 0 && optional[0]})
}

// AddEnvironmentVariables 添加环境变量配置源
func (b *ConfigurationBuilder) AddEnvironmentVariables(prefix string) *ConfigurationBuilder {
	return b.Add(&EnvironmentVariableSource{Prefix: prefix})
}

// AddInMemory 添加内存配置源
func (b *ConfigurationBuilder) AddInMemory(data map[string]any) *ConfigurationBuilder {
	return b.Add(&InMemorySource{Data: data})
}

// Build 按顺序加载所有配置源并合并
func (b *ConfigurationBuilder) Build() (Configuration, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data := make(map[string]any)
	for _, source := range b.sources {
		loaded, err := source.Load()
		if err != nil {
			return nil, fmt.Errorf("config: failed to load source %s: %w", source.Name(), err)
		}
		mergeMaps(data, loaded)
	}

	return &configuration{data: data}, nil
}

// configuration 配置实现；构建后只读
type configuration struct {
	data map[string]any
}

// FromMap 直接用 map 构造 Configuration（多用于测试）
func FromMap(data map[string]any) Configuration {
	cp := make(map[string]any, len(data))
	mergeMaps(cp, data)
	return &configuration{data: cp}
}

func (c *configuration) Get(key string) string {
	value := c.lookup(key)
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (c *configuration) GetWithDefault(key, defaultValue string) string {
	if !c.Has(key) {
		return defaultValue
	}
	return c.Get(key)
}

func (c *configuration) GetInt(key string) (int, error) {
	switch v := c.lookup(key).(type) {
	case nil:
		return 0, fmt.Errorf("config: key %s not found", key)
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		return strconv.Atoi(v)
	default:
		return 0, fmt.Errorf("config: cannot convert %v to int", v)
	}
}

func (c *configuration) GetBool(key string) (bool, error) {
	switch v := c.lookup(key).(type) {
	case nil:
		return false, fmt.Errorf("config: key %s not found", key)
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(v)
	default:
		return false, fmt.Errorf("config: cannot convert %v to bool", v)
	}
}

func (c *configuration) Has(key string) bool {
	return c.lookup(key) != nil
}

func (c *configuration) GetSection(key string) Configuration {
	if m, ok := c.lookup(key).(map[string]any); ok {
		return &configuration{data: m}
	}
	return &configuration{data: make(map[string]any)}
}

// Bind 先把节编码为 YAML 再解码到 target，因此 target 使用 yaml 标签
func (c *configuration) Bind(key string, target any) error {
	data := c.lookup(key)
	if data == nil {
		return fmt.Errorf("config: key %s not found", key)
	}

	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("config: failed to encode %s: %w", key, err)
	}
	if err := yaml.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("config: failed to bind %s: %w", key, err)
	}
	return nil
}

func (c *configuration) GetAll() map[string]any {
	result := make(map[string]any, len(c.data))
	mergeMaps(result, c.data)
	return result
}

func (c *configuration) lookup(path string) any {
	if path == "" {
		return c.data
	}

	current := any(c.data)
	for _, part := range splitPath(path) {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[part]
	}
	return current
}

func splitPath(path string) []string {
	return strings.Split(strings.ReplaceAll(path, ":", "."), ".")
}

// mergeMaps 深度合并 src 到 dst，嵌套 map 会被复制而不是共享
func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]any)
		if !srcIsMap {
			dst[k] = v
			continue
		}
		dstMap, ok := dst[k].(map[string]any)
		if !ok {
			dstMap = make(map[string]any, len(srcMap))
			dst[k] = dstMap
		}
		mergeMaps(dstMap, srcMap)
	}
}
