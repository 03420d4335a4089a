package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
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

// Entry is one decoded zerolog JSON line.
type Entry struct {
	Time    time.Time
	Level   zerolog.Level
	Message string
	Fields  map[string]string
	Raw     string
}

// Parse decodes a zerolog JSON line. Lines that are not JSON objects come
// back with Level NoLevel and the raw text as Message.
func Parse(line string) Entry {
	entry := Entry{Level: zerolog.NoLevel, Message: line, Raw: line}
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return entry
	}
	entry.Message = ""
	entry.Fields = map[string]string{}
	for k, v := range raw {
		switch k {
		case zerolog.TimestampFieldName:
			if s, ok := v.(string); ok {
				if ts, err := time.Parse(time.RFC3339, s); err == nil {
					entry.Time = ts
				}
			}
		case zerolog.LevelFieldName:
			if s, ok := v.(string); ok {
				if lvl, err := zerolog.ParseLevel(s); err == nil {
					entry.Level = lvl
				}
			}
		case zerolog.MessageFieldName:
			entry.Message = fmt.Sprint(v)
		default:
			entry.Fields[k] = fmt.Sprint(v)
		}
	}
	return entry
}

// Filter keeps entries at or above min. Unstructured lines are always kept.
func Filter(lines []string, min zerolog.Level) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		e := Parse(line)
		if e.Level != zerolog.NoLevel && e.Level < min {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Format renders an entry as "15:04:05 WARN  message key=value".
func (e Entry) Format() string {
	if e.Level == zerolog.NoLevel && len(e.Fields) == 0 {
		return e.Raw
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s %s", strings.ToUpper(e.Level.String()), e.Message)
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, e.Fields[k])
	}
	return b.String()
}
