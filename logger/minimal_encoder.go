package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Color palettes for different themes
const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// Gruvbox Dark color palette (warm, muted, easy on eyes)
type gruvboxColors struct {
	fg       string
	aqua     string
	orange   string
	yellow   string
	green    string
	blue     string
	red      string
	redBg    string
	yellowBg string
}

var gruvbox = gruvboxColors{
	fg:       "\x1b[38;5;223m", // Soft cream (#ebdbb2)
	aqua:     "\x1b[38;5;108m", // Muted cyan-green (#8ec07c)
	orange:   "\x1b[38;5;208m", // Warm orange (#fe8019)
	yellow:   "\x1b[38;5;214m", // Soft yellow (#fabd2f)
	green:    "\x1b[38;5;142m", // Muted green (#b8bb26)
	blue:     "\x1b[38;5;109m", // Soft blue (#83a598)
	red:      "\x1b[38;5;167m", // Warm red (#fb4934)
	redBg:    "\x1b[48;5;88m",  // Dark red background
	yellowBg: "\x1b[48;5;58m",  // Dark yellow background
}

// Everforest Dark color palette (natural forest greens)
var everforest = gruvboxColors{
	fg:       "\x1b[38;5;223m", // Soft beige (#d3c6aa)
	aqua:     "\x1b[38;5;109m", // Blue-green (#7fbbb3)
	orange:   "\x1b[38;5;208m", // Warm orange (#e69875)
	yellow:   "\x1b[38;5;179m", // Soft yellow (#dbbc7f)
	green:    "\x1b[38;5;108m", // Bright green (#a7c080)
	blue:     "\x1b[38;5;65m",  // Deep green (#7fbbb3)
	red:      "\x1b[38;5;167m", // Warm red (#e67e80)
	redBg:    "\x1b[48;5;52m",
	yellowBg: "\x1b[48;5;58m",
}

// Current active theme (set by logger.Initialize from env)
var currentTheme = "gruvbox"

// SetTheme configures the color scheme for log output
func SetTheme(theme string) {
	if theme == "everforest" || theme == "gruvbox" {
		currentTheme = theme
	}
}

func palette() gruvboxColors {
	if currentTheme == "everforest" {
		return everforest
	}
	return gruvbox
}

// colorComponent hashes a component name to a stable color for visual grouping
func colorComponent(name string) string {
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	p := palette()
	if hash%2 == 0 {
		return p.orange
	}
	return p.yellow
}

// minimalEncoder implements a calm, compact console encoder with theme support
// Format: "13:04:35  inspect  Checking merge state  #142"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
	buf             *buffer.Buffer
}

func newMinimalEncoder() *minimalEncoder {
	// Create a base JSON encoder for field serialization (internal use only)
	baseEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	return &minimalEncoder{
		Encoder: baseEncoder,
		buf:     buffer.NewPool().Get(),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		buf:     buffer.NewPool().Get(),
	}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := buffer.NewPool().Get()
	p := palette()

	// Time
	final.AppendString(p.aqua)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only show for WARN/ERROR with bold + background
	if ent.Level != zapcore.InfoLevel && ent.Level != zapcore.DebugLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	// Component name (abbreviated) for visual grouping
	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorComponent(ent.LoggerName))
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	// Message
	final.AppendString("  ")
	final.AppendString(p.fg)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	// Fields: extract and color values
	if len(fields) > 0 {
		if extracted := extractFieldValues(fields); extracted != "" {
			final.AppendString("  ")
			final.AppendString(extracted)
		}
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for WARN/ERROR
func levelColorString(level zapcore.Level) string {
	p := palette()
	switch level {
	case zapcore.WarnLevel:
		return colorBold + p.yellowBg + p.yellow + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + p.redBg + p.red + "ERROR" + colorReset
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return colorBold + p.redBg + p.red + level.CapitalString() + colorReset
	default:
		return ""
	}
}

// abbreviateName shortens component names: inspect.checks -> i.checks
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// getFieldValue extracts the value from a zap field, handling different field types
func getFieldValue(field zapcore.Field) string {
	if field.Type == zapcore.StringType {
		return field.String
	}

	if field.Type == zapcore.Int64Type || field.Type == zapcore.Int32Type ||
		field.Type == zapcore.Int16Type || field.Type == zapcore.Int8Type ||
		field.Type == zapcore.Uint64Type || field.Type == zapcore.Uint32Type ||
		field.Type == zapcore.Uint16Type || field.Type == zapcore.Uint8Type {
		return fmt.Sprintf("%d", field.Integer)
	}

	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}

	return ""
}

// extractFieldValues pulls just the values that matter for the inspection
// workflow from structured fields, with theme-aware colors.
// Input: {"pr": "142", "check": "lint", "duration_ms": 412}
// Output: "#142 lint 412ms" (with colored IDs and numbers)
func extractFieldValues(fields []zapcore.Field) string {
	var values []string
	p := palette()

	for _, field := range fields {
		switch field.Key {
		case FieldPR:
			val := getFieldValue(field)
			if val != "" {
				values = append(values, p.blue+"#"+strings.TrimPrefix(val, "#")+colorReset)
			}
		case FieldCheck, FieldThread, FieldMode, FieldBranch:
			val := getFieldValue(field)
			if val != "" {
				values = append(values, p.blue+val+colorReset)
			}
		case FieldDurationMS:
			val := getFieldValue(field)
			if val != "" {
				values = append(values, p.green+val+colorReset+"ms")
			}
		case FieldCount:
			val := getFieldValue(field)
			if val != "" {
				values = append(values, p.green+val+colorReset)
			}
		case FieldError:
			val := getFieldValue(field)
			if val != "" {
				values = append(values, p.red+val+colorReset)
			}
		}
	}

	return strings.Join(values, " ")
}
