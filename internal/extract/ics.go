package extract

import (
	"bytes"
	"fmt"
	"strings"

	ics "github.com/arran4/golang-ical"
)

// ICSText flattens the events of a calendar into one line per distinct event summary.
// Recurring class meetings exported as separate events collapse into one line.
func ICSText(data []byte) (string, error) {
	calendar, err := ics.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse calendar: %w", err)
	}

	seen := make(map[string]bool)
	var lines []string
	for _, event := range calendar.Events() {
		summary := propertyValue(event, ics.ComponentPropertySummary)
		if summary == "" || seen[summary] {
			continue
		}
		seen[summary] = true

		line := summary
		if description := propertyValue(event, ics.ComponentPropertyDescription); description != "" {
			line += " | " + description
		}
		if location := propertyValue(event, ics.ComponentPropertyLocation); location != "" {
			line += " | " + location
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"), nil
}

func propertyValue(event *ics.VEvent, property ics.ComponentProperty) string {
	p := event.GetProperty(property)
	if p == nil {
		return ""
	}
	value := strings.NewReplacer(`\,`, ",", `\;`, ";", `\n`, " ", `\N`, " ").Replace(p.Value)
	return strings.TrimSpace(value)
}
