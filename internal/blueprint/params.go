package blueprint

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Value grammars for config parameter defaults. The grammar is fixed here
// rather than delegated to a config library so that parsing is never
// locale sensitive.

var (
	durationValuePattern = regexp.MustCompile(`^([+-]?[0-9]+(?:\.[0-9]+)?)\s*([a-zµ]*)$`)
	memoryValuePattern   = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*([a-zA-Z]*)$`)
)

var durationUnits = map[string]time.Duration{
	"":             time.Millisecond,
	"ns":           time.Nanosecond,
	"nano":         time.Nanosecond,
	"nanos":        time.Nanosecond,
	"nanosecond":   time.Nanosecond,
	"nanoseconds":  time.Nanosecond,
	"us":           time.Microsecond,
	"µs":           time.Microsecond,
	"micro":        time.Microsecond,
	"micros":       time.Microsecond,
	"microsecond":  time.Microsecond,
	"microseconds": time.Microsecond,
	"ms":           time.Millisecond,
	"milli":        time.Millisecond,
	"millis":       time.Millisecond,
	"millisecond":  time.Millisecond,
	"milliseconds": time.Millisecond,
	"s":            time.Second,
	"second":       time.Second,
	"seconds":      time.Second,
	"m":            time.Minute,
	"minute":       time.Minute,
	"minutes":      time.Minute,
	"h":            time.Hour,
	"hour":         time.Hour,
	"hours":        time.Hour,
	"d":            24 * time.Hour,
	"day":          24 * time.Hour,
	"days":         24 * time.Hour,
}

var memoryUnits = map[string]int64{
	"":          1,
	"b":         1,
	"byte":      1,
	"bytes":     1,
	"k":         1000,
	"kb":        1000,
	"kilobyte":  1000,
	"kilobytes": 1000,
	"ki":        1 << 10,
	"kib":       1 << 10,
	"kibibyte":  1 << 10,
	"kibibytes": 1 << 10,
	"m":         1000 * 1000,
	"mb":        1000 * 1000,
	"megabyte":  1000 * 1000,
	"megabytes": 1000 * 1000,
	"mi":        1 << 20,
	"mib":       1 << 20,
	"mebibyte":  1 << 20,
	"mebibytes": 1 << 20,
	"g":         1000 * 1000 * 1000,
	"gb":        1000 * 1000 * 1000,
	"gigabyte":  1000 * 1000 * 1000,
	"gigabytes": 1000 * 1000 * 1000,
	"gi":        1 << 30,
	"gib":       1 << 30,
	"gibibyte":  1 << 30,
	"gibibytes": 1 << 30,
	"t":         1000 * 1000 * 1000 * 1000,
	"tb":        1000 * 1000 * 1000 * 1000,
	"terabyte":  1000 * 1000 * 1000 * 1000,
	"terabytes": 1000 * 1000 * 1000 * 1000,
	"ti":        1 << 40,
	"tib":       1 << 40,
	"tebibyte":  1 << 40,
	"tebibytes": 1 << 40,
	"p":         1000 * 1000 * 1000 * 1000 * 1000,
	"pb":        1000 * 1000 * 1000 * 1000 * 1000,
	"petabyte":  1000 * 1000 * 1000 * 1000 * 1000,
	"petabytes": 1000 * 1000 * 1000 * 1000 * 1000,
	"pi":        1 << 50,
	"pib":       1 << 50,
	"pebibyte":  1 << 50,
	"pebibytes": 1 << 50,
	"e":         1000 * 1000 * 1000 * 1000 * 1000 * 1000,
	"eb":        1000 * 1000 * 1000 * 1000 * 1000 * 1000,
	"exabyte":   1000 * 1000 * 1000 * 1000 * 1000 * 1000,
	"exabytes":  1000 * 1000 * 1000 * 1000 * 1000 * 1000,
	"ei":        1 << 60,
	"eib":       1 << 60,
	"exbibyte":  1 << 60,
	"exbibytes": 1 << 60,
}

// ParseDurationValue parses a duration literal of the form "<number> <unit>"
// with units ns/us/ms/s/m/h/d or their word equivalents. A bare number is
// milliseconds.
func ParseDurationValue(s string) (time.Duration, error) {
	m := durationValuePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	unit, ok := durationUnits[m[2]]
	if !ok {
		return 0, fmt.Errorf("invalid duration unit %q in %q", m[2], s)
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return time.Duration(value * float64(unit)), nil
}

// ParseMemorySizeValue parses a byte-size literal of the form
// "<number> <unit>" with power-of-1000 (K, M, G, ...) or power-of-1024
// (Ki, Mi, Gi, ...) units. A bare number is bytes.
func ParseMemorySizeValue(s string) (int64, error) {
	m := memoryValuePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("invalid memory size %q", s)
	}
	unit, ok := memoryUnits[strings.ToLower(m[2])]
	if !ok {
		return 0, fmt.Errorf("invalid memory size unit %q in %q", m[2], s)
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid memory size %q: %w", s, err)
	}
	return int64(value * float64(unit)), nil
}

// parseBoolValue accepts the config booleans true/false, yes/no, on/off.
func parseBoolValue(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

// validateDefaultValue checks a default value against the parameter's kind.
// For string parameters, pattern is the already-compiled validation regex
// (nil when none is declared).
func validateDefaultValue(kind ConfigParameterKind, value string, pattern *regexp.Regexp) error {
	switch kind {
	case KindString:
		if pattern != nil {
			loc := pattern.FindStringIndex(value)
			if loc == nil || loc[0] != 0 || loc[1] != len(value) {
				return fmt.Errorf("value %q does not match the validation pattern", value)
			}
		}
		return nil
	case KindInt:
		_, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		return err
	case KindBool:
		_, err := parseBoolValue(value)
		return err
	case KindDouble:
		_, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		return err
	case KindDuration:
		_, err := ParseDurationValue(value)
		return err
	case KindMemorySize:
		_, err := ParseMemorySizeValue(value)
		return err
	case KindRegexp:
		_, err := regexp.Compile(value)
		return err
	}
	return fmt.Errorf("unknown config parameter kind %q", kind)
}
