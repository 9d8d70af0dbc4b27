package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	logger    *slog.Logger
	logLevel  slog.Level
	logFormat string
	logFile   string
	tuiMode   bool
	output    *os.File
	once      sync.Once
	mu        sync.RWMutex
)

// Config controls logger initialization.
type Config struct {
	Level   string
	Format  string
	File    string
	TUIMode bool
}

func init() {
	Initialize()
}

// Initialize configures the logger from LOG_LEVEL, DATESEL_DEBUG and LOG_FORMAT.
func Initialize() {
	once.Do(func() {
		_ = InitializeWithConfig(Config{
			Level:  LevelFromEnv(),
			Format: os.Getenv("LOG_FORMAT"),
		})
	})
}

// LevelFromEnv reads LOG_LEVEL, falling back to DATESEL_DEBUG.
func LevelFromEnv() string {
	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		levelStr = os.Getenv("DATESEL_DEBUG")
		if levelStr == "1" || levelStr == "true" {
			levelStr = "DEBUG"
		} else {
			levelStr = "INFO"
		}
	}
	return levelStr
}

// InitializeWithConfig (re)configures the logger.
// In TUI mode logs must go to a file since stderr belongs to the screen;
// File defaults to ~/.datesel/logs/datesel.log.
func InitializeWithConfig(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	level := parseLevel(cfg.Level)

	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = "text"
	}

	file := cfg.File
	if cfg.TUIMode && file == "" {
		var err error
		file, err = defaultLogFile()
		if err != nil {
			return fmt.Errorf("TUI mode requires file-based logging: %w", err)
		}
	}

	var out io.Writer = os.Stderr
	var opened *os.File
	if file != "" {
		f, err := openLogFile(file)
		if err != nil {
			if cfg.TUIMode {
				return fmt.Errorf("TUI mode requires file-based logging: %w", err)
			}
			return err
		}
		out = f
		opened = f
	}

	if output != nil {
		output.Close()
	}
	output = opened

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	logger = slog.New(handler)
	logLevel = level
	logFormat = format
	logFile = file
	tuiMode = cfg.TUIMode
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func parseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// defaultLogFile mirrors config.LogDir without importing config.
func defaultLogFile() (string, error) {
	dataDir := os.Getenv("DATESEL_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".datesel")
	}
	return filepath.Join(dataDir, "logs", "datesel.log"), nil
}

// Close closes the log file, if any. Safe to call more than once.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if output == nil {
		return nil
	}
	err := output.Close()
	output = nil
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	return err
}

func GetLogger() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l == nil {
		Initialize()
		mu.RLock()
		l = logger
		mu.RUnlock()
	}
	return l
}

func GetLevel() slog.Level {
	mu.RLock()
	defer mu.RUnlock()
	return logLevel
}

func GetFormat() string {
	mu.RLock()
	defer mu.RUnlock()
	return logFormat
}

func GetLogFile() string {
	mu.RLock()
	defer mu.RUnlock()
	return logFile
}

func IsTUIMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return tuiMode
}

func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}
