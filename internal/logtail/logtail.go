package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. maxLines <= 0
// returns the whole file. A missing file is not an error.
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

// Entry is one slog text-handler line split into its display parts.
type Entry struct {
	Time    string
	Level   string
	Message string
	Attrs   string
	Raw     string
}

// Parse splits a line of the form
//
//	time=2026-01-02T15:04:05.000Z level=INFO msg="listings loaded" count=3
//
// Lines that do not follow the format come back with only Message and Raw set.
func Parse(line string) Entry {
	e := Entry{Raw: line}
	rest := line
	for _, key := range []string{"time", "level", "msg"} {
		val, tail, ok := cutField(rest, key)
		if !ok {
			if e.Level == "" && e.Time == "" {
				e.Message = line
				return e
			}
			break
		}
		switch key {
		case "time":
			e.Time = val
		case "level":
			e.Level = strings.ToUpper(val)
		case "msg":
			e.Message = val
		}
		rest = tail
	}
	e.Attrs = strings.TrimSpace(rest)
	return e
}

func cutField(s, key string) (value, rest string, ok bool) {
	s = strings.TrimLeft(s, " ")
	prefix := key + "="
	if !strings.HasPrefix(s, prefix) {
		return "", s, false
	}
	s = s[len(prefix):]
	if strings.HasPrefix(s, `"`) {
		quoted, err := strconv.QuotedPrefix(s)
		if err != nil {
			return "", s, false
		}
		unq, err := strconv.Unquote(quoted)
		if err != nil {
			return "", s, false
		}
		return unq, s[len(quoted):], true
	}
	end := strings.IndexByte(s, ' ')
	if end < 0 {
		return s, "", true
	}
	return s[:end], s[end:], true
}

var levelRank = map[string]int{"DEBUG": 0, "INFO": 1, "WARN": 2, "ERROR": 3}

// Filter keeps lines at or above minLevel. An empty minLevel keeps everything.
// Lines without a recognised level are kept.
func Filter(lines []string, minLevel string) []string {
	min, ok := levelRank[strings.ToUpper(strings.TrimSpace(minLevel))]
	if !ok {
		return lines
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		rank, known := levelRank[Parse(line).Level]
		if !known || rank >= min {
			out = append(out, line)
		}
	}
	return out
}
