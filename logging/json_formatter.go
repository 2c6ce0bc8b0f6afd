package logging

import (
	"encoding/json"
	"fmt"
)

// JsonFormatter JSON 格式化器
type JsonFormatter struct {
	TimestampFormat string
}

// NewJsonFormatter 创建 JSON 格式化器
func NewJsonFormatter() *JsonFormatter {
	return &JsonFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	}
}

// Format 格式化日志
func (f *JsonFormatter) Format(entry *LogEntry) ([]byte, error) {
	data := make(map[string]any)

	data["time"] = entry.Time.Format(f.TimestampFormat)
	data["level"] = entry.Level.String()
	if entry.Category != "" {
		data["category"] = entry.Category
	}
	data["msg"] = entry.Message

	if len(entry.Fields) > 0 {
		fields := make(map[string]any, len(entry.Fields))
		for _, field := range entry.Fields {
			fields[field.Key] = jsonValue(field.Value)
		}
		data["fields"] = fields
	}

	return json.Marshal(data)
}

// jsonValue 把 reflect.Type、error 等不可序列化的值转为字符串
func jsonValue(v any) any {
	switch val := v.(type) {
	case nil, string, bool, int, int64, uint64, float64:
		return val
	case error:
		return val.Error()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
