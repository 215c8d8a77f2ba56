package fio

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

var backupRe = regexp.MustCompile(`(\d{2}\.\d{2}\.\d{4})\s+(\d{2}:\d{2})`)

const backupLayout = "02.01.2006 15:04"

// ParseBackupTime extracts the "DD.MM.YYYY HH:MM" timestamp embedded in a
// leader label, in local time.
func ParseBackupTime(label string) (time.Time, bool) {
	m := backupRe.FindStringSubmatch(label)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(backupLayout, m[1]+" "+m[2], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// LabelName returns the name part of a leader label: its first non-blank
// line, cut before the first digit so an inline timestamp is dropped.
func LabelName(label string) string {
	var line string
	for _, l := range SplitLines(label) {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}
	if i := strings.IndexFunc(line, unicode.IsDigit); i >= 0 {
		line = line[:i]
	}
	return strings.TrimRight(strings.TrimSpace(line), " ,;:-–—(")
}
