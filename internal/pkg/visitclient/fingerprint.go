package visitclient

import (
	"fmt"
	"hash/fnv"
	"os"
	"runtime"
	"strings"
	"time"
)

// Fingerprint derives a short identity string from stable machine
// signals, the same way the browser fallback combines rendering-surface
// hash, screen size, timezone offset, language and hardware concurrency.
// It is a best-effort dedup heuristic, not a security identifier, and
// collisions across similar machines are expected.
func Fingerprint() string {
	hostname, _ := os.Hostname()
	_, tzOffset := time.Now().Zone()

	signals := []string{
		hostname,
		runtime.GOOS,
		runtime.GOARCH,
		fmt.Sprintf("%d", runtime.NumCPU()),
		fmt.Sprintf("%d", tzOffset),
		os.Getenv("LANG"),
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.Join(signals, "|")))
	return fmt.Sprintf("%08x", h.Sum32())
}
