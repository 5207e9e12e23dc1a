package logger

import (
	"log"
	"strings"
	"sync/atomic"
)

const (
	levelDebug int32 = 1
	levelInfo  int32 = 2
)

var logLevel atomic.Int32

func init() {
	logLevel.Store(levelInfo)
}

func SetLevel(level string) {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		logLevel.Store(levelDebug)
		return
	}

	logLevel.Store(levelInfo)
}

func IsDebugEnabled() bool {
	return logLevel.Load() == levelDebug
}

func Debugf(format string, v ...any) {
	if !IsDebugEnabled() {
		return
	}

	log.Printf("[DEBUG] "+format, v...)
}

func Infof(format string, v ...any) {
	log.Printf("[INFO] "+format, v...)
}

// Warnf is used for conditions that are tolerated but must stay visible to
// operators, such as a failed best-effort cleanup of on-disk data.
func Warnf(format string, v ...any) {
	log.Printf("[WARN] "+format, v...)
}
