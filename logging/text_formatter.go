package logging

import (
	"fmt"
	"strings"
)

// TextFormatter 文本格式化器
type TextFormatter struct {
	IncludeTimestamp bool
	TimestampFormat  string
	ColorOutput      bool
}

// NewTextFormatter 创建文本格式化器
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{
		IncludeTimestamp: true,
		TimestampFormat:  "2006-01-02 15:04:05",
	}
}

// Format 格式化日志，输出形如 `2006-01-02 15:04:05 DEBUG [di] msg {k=v, k2=v2}`
func (f *TextFormatter) Format(entry *LogEntry) ([]byte, error) {
	var b strings.Builder

	if f.IncludeTimestamp {
		b.WriteString(entry.Time.Format(f.TimestampFormat))
		b.WriteByte(' ')
	}

	levelStr := entry.Level.String()
	if f.ColorOutput {
		b.WriteString(colorize(entry.Level, levelStr))
	} else {
		b.WriteString(levelStr)
	}

	if entry.Category != "" {
		b.WriteString(" [")
		b.WriteString(entry.Category)
		b.WriteString("]")
	}

	b.WriteByte(' ')
	b.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		b.WriteString(" {")
		for i, field := range entry.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(field.Key)
			b.WriteByte('=')
			fmt.Fprintf(&b, "%v", field.Value)
		}
		b.WriteByte('}')
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}
