package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigurationSource 配置源接口
type ConfigurationSource interface {
	Load() (map[string]any, error)
	Name() string
}

// JsonFileSource JSON 文件配置源
type JsonFileSource struct {
	Path     string
	Optional bool
}

func (s *JsonFileSource) Name() string {
	return fmt.Sprintf("JsonFile(%s)", s.Path)
}

func (s *JsonFileSource) Load() (map[string]any, error) {
	data, err := readOptional(s.Path, s.Optional)
	if err != nil || data == nil {
		return map[string]any{}, err
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return result, nil
}

// YamlFileSource YAML 文件配置源
type YamlFileSource struct {
	Path     string
	Optional bool
}

func (s *YamlFileSource) Name() string {
	return fmt.Sprintf("YamlFile(%s)", s.Path)
}

func (s *YamlFileSource) Load() (map[string]any, error) {
	data, err := readOptional(s.Path, s.Optional)
	if err != nil || data == nil {
		return map[string]any{}, err
	}

	var result map[string]any
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if result == nil {
		result = map[string]any{}
	}
	return result, nil
}

// readOptional 读取文件；Optional 且文件不存在时返回 nil, nil
func readOptional(path string, optional bool) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// EnvironmentVariableSource 环境变量配置源
//
// IMPOSE_DI__MATCH=furthest 在前缀 "IMPOSE_" 下映射为 di:match；
// 双下划线表示层级，单下划线保留在键名中（log_level）。
type EnvironmentVariableSource struct {
	Prefix string
}

func (s *EnvironmentVariableSource) Name() string {
	return fmt.Sprintf("EnvironmentVariables(%s)", s.Prefix)
}

func (s *EnvironmentVariableSource) Load() (map[string]any, error) {
	result := make(map[string]any)

	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if s.Prefix != "" {
			if !strings.HasPrefix(key, s.Prefix) {
				continue
			}
			key = strings.TrimPrefix(key, s.Prefix)
		}
		if key == "" {
			continue
		}

		key = strings.ToLower(strings.ReplaceAll(key, "__", ":"))
		setNestedValue(result, key, value)
	}

	return result, nil
}

// InMemorySource 内存配置源
type InMemorySource struct {
	Data map[string]any
}

func (s *InMemorySource) Name() string {
	return "InMemory"
}

func (s *InMemorySource) Load() (map[string]any, error) {
	result := make(map[string]any)
	mergeMaps(result, s.Data)
	return result, nil
}

// setNestedValue 按 ":" 分隔的路径写入值，字符串会尝试转换为 int/float/bool
func setNestedValue(data map[string]any, path string, value string) {
	parts := strings.Split(path, ":")
	current := data

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			if _, exists := current[part]; exists {
				return
			}
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}

	current[parts[len(parts)-1]] = parseScalar(value)
}

func parseScalar(value string) any {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(value, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseBool(value); err == nil {
		return v
	}
	return value
}
