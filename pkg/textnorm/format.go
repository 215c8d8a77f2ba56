package textnorm

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// NameFormat selects how a full name is displayed in a greeting.
type NameFormat int

const (
	// FormatFull keeps every part: "Иванов Пётр Сергеевич".
	FormatFull NameFormat = iota
	// FormatLastFirst keeps surname and given name: "Иванов Пётр".
	FormatLastFirst
	// FormatShort keeps the surname plus initials: "Иванов П.С.".
	FormatShort
)

func (f NameFormat) String() string {
	switch f {
	case FormatLastFirst:
		return "last-first"
	case FormatShort:
		return "short"
	default:
		return "full"
	}
}

// ParseNameFormat accepts the names produced by String plus a few aliases.
func ParseNameFormat(s string) (NameFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full", "fio":
		return FormatFull, nil
	case "last-first", "last_first", "surname-given":
		return FormatLastFirst, nil
	case "short", "initials", "surname-initials":
		return FormatShort, nil
	}
	return FormatFull, fmt.Errorf("unknown name format %q", s)
}

// FormatName renders a "Surname Given Patronymic" string in the requested
// format. Inputs with fewer than two parts are returned unchanged.
func FormatName(fio string, f NameFormat) string {
	parts := strings.Fields(fio)
	if len(parts) < 2 {
		return fio
	}
	switch f {
	case FormatLastFirst:
		return parts[0] + " " + parts[1]
	case FormatShort:
		s := parts[0] + " " + initial(parts[1])
		if len(parts) >= 3 {
			s += initial(parts[2])
		}
		return s
	default:
		return strings.Join(parts, " ")
	}
}

// initial keeps parts that are already initials ("П." or "П.С.") as written.
func initial(part string) string {
	if strings.HasSuffix(part, ".") {
		return part
	}
	r, _ := utf8.DecodeRuneInString(part)
	return string(r) + "."
}
