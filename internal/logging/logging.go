// Package logging provides the structured debug logger shared by all packages.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Logger is the public logger instance accessible from all packages.
// It discards everything until Initialize enables debug output.
var Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))

// maxLogFiles bounds how many debug logs are kept in the log directory.
const maxLogFiles = 20

// Initialize sets up the logger. With debug off and no file, logs are
// discarded. FAST_DEBUG=1 and FAST_DEBUG_FILE override the arguments.
func Initialize(debug bool, debugFile string) error {
	if os.Getenv("FAST_DEBUG") == "1" {
		debug = true
	}
	if envFile := os.Getenv("FAST_DEBUG_FILE"); envFile != "" && debugFile == "" {
		debugFile = envFile
	}

	if !debug && debugFile == "" {
		Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
		return nil
	}

	logFilePath := debugFile
	if logFilePath == "" {
		logDir, err := getLogDir()
		if err != nil {
			return fmt.Errorf("failed to get log directory: %w", err)
		}
		if err := os.MkdirAll(logDir, 0750); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		if err := rotateLogs(logDir, maxLogFiles); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: log rotation failed: %v\n", err)
		}
		logFilePath = filepath.Join(logDir, time.Now().Format("20060102-150405")+".log")
	} else if err := os.MkdirAll(filepath.Dir(logFilePath), 0750); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	Logger = slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))
	Logger.Info("debug logging initialized", "log_file", logFilePath)

	return nil
}

// rotateLogs removes the oldest log files so at most max-1 remain.
func rotateLogs(logDir string, max int) error {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	type logFileInfo struct {
		path    string
		modTime time.Time
	}
	var logFiles []logFileInfo
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".log" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		logFiles = append(logFiles, logFileInfo{
			path:    filepath.Join(logDir, entry.Name()),
			modTime: info.ModTime(),
		})
	}

	if len(logFiles) < max {
		return nil
	}

	sort.Slice(logFiles, func(i, j int) bool {
		return logFiles[i].modTime.Before(logFiles[j].modTime)
	})

	for i := 0; i < len(logFiles)-max+1; i++ {
		if err := os.Remove(logFiles[i].path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to delete old log file %s: %v\n", logFiles[i].path, err)
		}
	}

	return nil
}

// getLogDir returns ~/.fast/logs.
func getLogDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".fast", "logs"), nil
}
