package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel 日志级别
type LogLevel int

const (
	LogLevelTrace LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	// LogLevelOff 关闭全部输出
	LogLevelOff
)

// String 返回日志级别的字符串表示
func (l LogLevel) String() string {
	switch l {
	case LogLevelTrace:
		return "TRACE"
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel 从配置字符串解析日志级别（不区分大小写）
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LogLevelTrace, nil
	case "debug":
		return LogLevelDebug, nil
	case "", "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	case "off", "none":
		return LogLevelOff, nil
	}
	return LogLevelInfo, fmt.Errorf("logging: unknown level %q", s)
}

// Field 日志字段
type Field struct {
	Key   string
	Value any
}

// F 构造一个字段
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger 日志接口（类似于 .NET Core ILogger）
type Logger interface {
	Trace(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Log(level LogLevel, msg string, fields ...Field)
	Enabled(level LogLevel) bool
	WithFields(fields ...Field) Logger
	WithCategory(category string) Logger
}

// Nop 返回丢弃所有输出的 Logger
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Trace(string, ...Field)         {}
func (nopLogger) Debug(string, ...Field)         {}
func (nopLogger) Info(string, ...Field)          {}
func (nopLogger) Warn(string, ...Field)          {}
func (nopLogger) Error(string, ...Field)         {}
func (nopLogger) Log(LogLevel, string, ...Field) {}
func (nopLogger) Enabled(LogLevel) bool          { return false }
func (n nopLogger) WithFields(...Field) Logger   { return n }
func (n nopLogger) WithCategory(string) Logger   { return n }

// compositeLogger 组合日志记录器（将日志发送到多个记录器）
type compositeLogger struct {
	loggers []Logger
}

// NewCompositeLogger 创建组合日志记录器
func NewCompositeLogger(loggers ...Logger) Logger {
	return &compositeLogger{loggers: loggers}
}

func (l *compositeLogger) Trace(msg string, fields ...Field) { l.Log(LogLevelTrace, msg, fields...) }
func (l *compositeLogger) Debug(msg string, fields ...Field) { l.Log(LogLevelDebug, msg, fields...) }
func (l *compositeLogger) Info(msg string, fields ...Field)  { l.Log(LogLevelInfo, msg, fields...) }
func (l *compositeLogger) Warn(msg string, fields ...Field)  { l.Log(LogLevelWarn, msg, fields...) }
func (l *compositeLogger) Error(msg string, fields ...Field) { l.Log(LogLevelError, msg, fields...) }

func (l *compositeLogger) Log(level LogLevel, msg string, fields ...Field) {
	for _, logger := range l.loggers {
		logger.Log(level, msg, fields...)
	}
}

func (l *compositeLogger) Enabled(level LogLevel) bool {
	for _, logger := range l.loggers {
		if logger.Enabled(level) {
			return true
		}
	}
	return false
}

func (l *compositeLogger) WithFields(fields ...Field) Logger {
	next := make([]Logger, len(l.loggers))
	for i, logger := range l.loggers {
		next[i] = logger.WithFields(fields...)
	}
	return &compositeLogger{loggers: next}
}

func (l *compositeLogger) WithCategory(category string) Logger {
	next := make([]Logger, len(l.loggers))
	for i, logger := range l.loggers {
		next[i] = logger.WithCategory(category)
	}
	return &compositeLogger{loggers: next}
}

// LogEntry 一条待格式化的记录，Category 为 WithCategory 设置的分类（容器使用 "di"）
type LogEntry struct {
	Time     time.Time
	Level    LogLevel
	Category string
	Message  string
	Fields   []Field
}

// Formatter 将记录编码为一行输出，由控制台日志使用
type Formatter interface {
	Format(entry *LogEntry) ([]byte, error)
}

// FormatterFunc 让普通函数实现 Formatter
type FormatterFunc func(entry *LogEntry) ([]byte, error)

func (f FormatterFunc) Format(entry *LogEntry) ([]byte, error) {
	return f(entry)
}

// ConsoleLoggerOptions 控制台日志选项
type ConsoleLoggerOptions struct {
	MinimumLevel LogLevel
	// Formatter 为空时使用 TextFormatter
	Formatter Formatter
	Output    io.Writer
}

// consoleLogger 控制台日志实现，同一 Output 的派生记录器共享写锁
type consoleLogger struct {
	category     string
	minimumLevel LogLevel
	formatter    Formatter
	output       io.Writer
	fields       []Field
	mu           *sync.Mutex
}

// NewConsoleLogger 创建控制台日志记录器
func NewConsoleLogger(options ConsoleLoggerOptions) Logger {
	if options.Output == nil {
		options.Output = os.Stdout
	}
	if options.Formatter == nil {
		options.Formatter = NewTextFormatter()
	}
	return &consoleLogger{
		minimumLevel: options.MinimumLevel,
		formatter:    options.Formatter,
		output:       options.Output,
		mu:           &sync.Mutex{},
	}
}

func (l *consoleLogger) Trace(msg string, fields ...Field) { l.Log(LogLevelTrace, msg, fields...) }
func (l *consoleLogger) Debug(msg string, fields ...Field) { l.Log(LogLevelDebug, msg, fields...) }
func (l *consoleLogger) Info(msg string, fields ...Field)  { l.Log(LogLevelInfo, msg, fields...) }
func (l *consoleLogger) Warn(msg string, fields ...Field)  { l.Log(LogLevelWarn, msg, fields...) }
func (l *consoleLogger) Error(msg string, fields ...Field) { l.Log(LogLevelError, msg, fields...) }

func (l *consoleLogger) Enabled(level LogLevel) bool {
	return level >= l.minimumLevel && level < LogLevelOff
}

func (l *consoleLogger) Log(level LogLevel, msg string, fields ...Field) {
	if !l.Enabled(level) {
		return
	}

	entry := &LogEntry{
		Time:     time.Now(),
		Level:    level,
		Category: l.category,
		Message:  msg,
		Fields:   mergeFields(l.fields, fields),
	}

	data, err := l.formatter.Format(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: format error: %v\n", err)
		return
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.output.Write(data)
}

func (l *consoleLogger) WithFields(fields ...Field) Logger {
	next := *l
	next.fields = mergeFields(l.fields, fields)
	return &next
}

func (l *consoleLogger) WithCategory(category string) Logger {
	next := *l
	next.category = category
	return &next
}

// mergeFields 返回新切片，避免派生记录器之间共享底层数组
func mergeFields(base, extra []Field) []Field {
	if len(extra) == 0 {
		return base
	}
	out := make([]Field, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}

// colorize 为日志级别添加颜色
func colorize(level LogLevel, text string) string {
	const (
		reset  = "\033[0m"
		gray   = "\033[90m"
		cyan   = "\033[36m"
		green  = "\033[32m"
		yellow = "\033[33m"
		red    = "\033[31m"
	)

	switch level {
	case LogLevelTrace:
		return gray + text + reset
	case LogLevelDebug:
		return cyan + text + reset
	case LogLevelInfo:
		return green + text + reset
	case LogLevelWarn:
		return yellow + text + reset
	case LogLevelError:
		return red + text + reset
	default:
		return text
	}
}
