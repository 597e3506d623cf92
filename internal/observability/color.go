// File: internal/observability/color.go
package observability

import (
	"strconv"

	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/folio/internal/config"
)

const colorReset = "\x1b[0m"

// foreground maps colour names accepted in config to ANSI foreground codes.
var foreground = map[string]int{
	"black": 30, "red": 31, "green": 32, "yellow": 33,
	"blue": 34, "magenta": 35, "cyan": 36, "white": 37,
}

// ansi returns the escape sequence for a named colour, or "" if unknown.
func ansi(name string) string {
	code, ok := foreground[name]
	if !ok {
		return ""
	}
	return "\x1b[" + strconv.Itoa(code) + "m"
}

func levelPalette(c config.ColorConfig) map[zapcore.Level]string {
	return map[zapcore.Level]string{
		zapcore.DebugLevel:  ansi(c.Debug),
		zapcore.InfoLevel:   ansi(c.Info),
		zapcore.WarnLevel:   ansi(c.Warn),
		zapcore.ErrorLevel:  ansi(c.Error),
		zapcore.DPanicLevel: ansi(c.DPanic),
		zapcore.PanicLevel:  ansi(c.Panic),
		zapcore.FatalLevel:  ansi(c.Fatal),
	}
}

func paletteEncoder(palette map[zapcore.Level]string) zapcore.LevelEncoder {
	return func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		if color := palette[l]; color != "" {
			enc.AppendString(color + l.CapitalString() + colorReset)
			return
		}
		enc.AppendString(l.CapitalString())
	}
}
