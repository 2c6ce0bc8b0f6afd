package di

import (
	"os"

	"github.com/gocrud/impose/config"
	"github.com/gocrud/impose/logging"
)

// Settings 是可以从配置绑定的容器设置
//
//	di:
//	  match: furthest
//	  castable: true
//	  log_level: debug
type Settings struct {
	Match    string `yaml:"match" json:"match"`
	Castable bool   `yaml:"castable" json:"castable"`
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// Options 将设置转换为容器选项；LogLevel 为空时不设置日志记录器
func (s Settings) Options() ([]ContainerOption, error) {
	rule, err := ParseMatchRule(s.Match)
	if err != nil {
		return nil, err
	}
	opts := []ContainerOption{WithMatchRule(rule), WithCastable(s.Castable)}

	if s.LogLevel != "" {
		level, err := logging.ParseLogLevel(s.LogLevel)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithLogger(logging.NewConsoleLogger(logging.ConsoleLoggerOptions{
			MinimumLevel: level,
			Output:       os.Stderr,
		})))
	}
	return opts, nil
}

// NewFromConfig 按配置节 section 创建容器，节不存在时使用默认设置。
// opts 在配置之后应用，可以覆盖配置中的值。
func NewFromConfig(cfg config.Configuration, section string, opts ...ContainerOption) (*Container, error) {
	var settings Settings
	if cfg.Has(section) {
		var err error
		if settings, err = config.Load[Settings](cfg, section); err != nil {
			return nil, err
		}
	}

	base, err := settings.Options()
	if err != nil {
		return nil, err
	}
	return New(append(base, opts...)...), nil
}
