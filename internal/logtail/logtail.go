package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A missing
// file yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one parsed log record.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]string
}

// String renders the entry on one line: time, level, message, then
// attributes sorted by key.
func (e Entry) String() string {
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Format("15:04:05"))
		b.WriteString(" ")
	}
	b.WriteString(fmt.Sprintf("%-5s ", e.Level.String()))
	b.WriteString(e.Message)
	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(e.Attrs[k])
	}
	return b.String()
}

// Parse decodes a slog JSON line. Non-JSON lines become INFO entries whose
// message is the raw line.
func Parse(line string) Entry {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{Level: slog.LevelInfo, Message: strings.TrimSpace(line)}
	}

	entry := Entry{Level: slog.LevelInfo, Attrs: map[string]string{}}
	for k, v := range raw {
		switch k {
		case slog.TimeKey:
			if s, ok := v.(string); ok {
				if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
					entry.Time = ts
				}
			}
		case slog.LevelKey:
			if s, ok := v.(string); ok {
				var lvl slog.Level
				if err := lvl.UnmarshalText([]byte(s)); err == nil {
					entry.Level = lvl
				}
			}
		case slog.MessageKey:
			entry.Message = fmt.Sprint(v)
		default:
			entry.Attrs[k] = formatValue(v)
		}
	}
	return entry
}

// Entries returns up to maxEntries of the newest records at or above
// minLevel, oldest first.
func Entries(path string, maxEntries int, minLevel slog.Level) ([]Entry, error) {
	if maxEntries <= 0 {
		return nil, nil
	}
	// Over-read so filtering by level still fills the window in most cases.
	lines, err := Read(path, maxEntries*8)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, maxEntries)
	for _, line := range lines {
		e := Parse(line)
		if e.Level < minLevel {
			continue
		}
		out = append(out, e)
	}
	if len(out) > maxEntries {
		out = out[len(out)-maxEntries:]
	}
	return out, nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return "null"
	case map[string]any, []any:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	default:
		return fmt.Sprint(val)
	}
}
