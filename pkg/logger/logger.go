package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Leveled logger shared by the catalog service, its CLI and middleware.
// Output goes to stdout unless SetOutput is called.

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelFatal: "fatal",
}

var (
	mu     sync.RWMutex
	logger *log.Logger = log.New(os.Stdout, "", 0)
	level  Level       = LevelInfo
)

// ParseLevel maps a case-insensitive name to a Level. Unknown names are Info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	}
	return LevelInfo
}

// Init sets the global log level. Call early during startup.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	level = ParseLevel(l)
}

// SetOutput redirects all log lines, e.g. to a buffer in tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = log.New(w, "", 0)
}

func enabled(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= level
}

func output(l Level, component, msg string) {
	var b strings.Builder
	b.WriteString(time.Now().Format(time.RFC3339))
	b.WriteString(" [")
	b.WriteString(strings.ToUpper(levelNames[l]))
	b.WriteString("] ")
	if component != "" {
		b.WriteString(component)
		b.WriteString(": ")
	}
	b.WriteString(msg)
	mu.RLock()
	out := logger
	mu.RUnlock()
	out.Print(b.String())
}

func logf(l Level, component, format string, v ...interface{}) {
	if !enabled(l) {
		return
	}
	output(l, component, fmt.Sprintf(format, v...))
}

func Debugf(format string, v ...interface{}) { logf(LevelDebug, "", format, v...) }
func Infof(format string, v ...interface{})  { logf(LevelInfo, "", format, v...) }
func Warnf(format string, v ...interface{})  { logf(LevelWarn, "", format, v...) }
func Errorf(format string, v ...interface{}) { logf(LevelError, "", format, v...) }

func Fatalf(format string, v ...interface{}) {
	output(LevelFatal, "", fmt.Sprintf(format, v...))
	os.Exit(1)
}

// Println maps to Info.
func Println(v ...interface{}) {
	if !enabled(LevelInfo) {
		return
	}
	output(LevelInfo, "", strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	return levelNames[level]
}

// Component prefixes every line with a subsystem name, e.g. "catalog" or
// "assets". It shares the global level and output.
type Component struct {
	name string
}

func Named(name string) Component { return Component{name: name} }

func (c Component) Debugf(format string, v ...interface{}) { logf(LevelDebug, c.name, format, v...) }
func (c Component) Infof(format string, v ...interface{})  { logf(LevelInfo, c.name, format, v...) }
func (c Component) Warnf(format string, v ...interface{})  { logf(LevelWarn, c.name, format, v...) }
func (c Component) Errorf(format string, v ...interface{}) { logf(LevelError, c.name, format, v...) }
