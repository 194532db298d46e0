package commands

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// LastSync is the most recent "sync completed" entry found in a log file
type LastSync struct {
	Time    time.Time
	Written int
}

// ParseLogFile scans the last maxLines lines of the log file for the most
// recent completed sync. It returns nil when the file cannot be read or has
// no such entry.
func ParseLogFile(logPath string, maxLines int) *LastSync {
	content, err := os.ReadFile(logPath)
	if err != nil {
		return nil
	}

	lines := strings.Split(string(content), "\n")

	startIdx := 0
	if len(lines) > maxLines {
		startIdx = len(lines) - maxLines
	}
	recentLines := lines[startIdx:]

	for i := len(recentLines) - 1; i >= 0; i-- {
		line := recentLines[i]
		if !strings.Contains(line, "sync completed") {
			continue
		}

		last := &LastSync{}
		// Format: 2025-11-27 14:11:57 INFO sync completed articles_written=3 ...
		if len(line) > 19 {
			if t, err := time.ParseInLocation(time.DateTime, line[:19], time.Local); err == nil {
				last.Time = t
			}
		}
		if idx := strings.Index(line, "articles_written="); idx != -1 {
			_, _ = fmt.Sscanf(line[idx:], "articles_written=%d", &last.Written) //nolint:errcheck // best effort parsing
		}
		return last
	}

	return nil
}
