package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/BrandRap-LLC/scorecards-sub002/schema"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Color variables for console output, one per performance level.
var (
	BestColor    = color.New(color.FgGreen, color.Bold) // BestColor marks the top band of a comparison set.
	GoodColor    = color.New(color.FgGreen)
	AverageColor = color.New(color.FgYellow)
	BelowColor   = color.New(color.FgMagenta)
	WorstColor   = color.New(color.FgRed, color.Bold) // WorstColor marks the bottom band after inversion.
	NeutralColor = color.New(color.FgYellow, color.Faint)
	NoDataColor  = color.New(color.FgHiBlack)
)

// Logger is the process-wide logger. It writes to stderr so stdout stays
// reserved for rendered output and the MCP stdio transport.
var Logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.WarnLevel)
	return l
}

// LevelColor returns the console color for a performance level.
func LevelColor(level schema.PerformanceLevel) *color.Color {
	switch level {
	case schema.BestLevel:
		return BestColor
	case schema.GoodLevel:
		return GoodColor
	case schema.AverageLevel:
		return AverageColor
	case schema.BelowLevel:
		return BelowColor
	case schema.WorstLevel:
		return WorstColor
	case schema.NeutralLevel:
		return NeutralColor
	default:
		return NoDataColor
	}
}

// GetPlainLabel returns a plain text label for a performance level. This is
// the text used for CSV, JSON, and table printing.
func GetPlainLabel(level schema.PerformanceLevel) string {
	switch level {
	case schema.BestLevel:
		return "Best"
	case schema.GoodLevel:
		return "Good"
	case schema.AverageLevel:
		return "Average"
	case schema.BelowLevel:
		return "Below"
	case schema.WorstLevel:
		return "Worst"
	case schema.NeutralLevel:
		return "Neutral"
	default:
		return "No Data"
	}
}

// GetColorLabel returns a colored label for console output (table).
func GetColorLabel(level schema.PerformanceLevel) string {
	return ColorizeText(level, GetPlainLabel(level))
}

// ColorizeText paints arbitrary text with the color of a performance level.
func ColorizeText(level schema.PerformanceLevel, text string) string {
	return LevelColor(level).Sprint(text)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// SetLogLevel changes the level of the process-wide logger.
func SetLogLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger.SetLevel(lvl)
	return nil
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger.WithError(err).Fatal(msg)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Logger.WithError(err).Warn(msg)
}

// LogInfo logs an informational message with structured fields.
func LogInfo(msg string, fields logrus.Fields) {
	Logger.WithFields(fields).Info(msg)
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
