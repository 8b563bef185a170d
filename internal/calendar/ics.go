// Package calendar renders the tournament dataset as an iCalendar feed,
// so players can subscribe from a calendar app instead of polling the
// API.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/txbeach/sandcal/internal/tournament"
)

// GenerateICS renders the aggregate as an iCalendar document with one
// all-day event per tournament.
func GenerateICS(agg tournament.Aggregate) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//sandcal//sandcal//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	ics.WriteString("X-WR-CALNAME:Texas Beach Volleyball Tournaments\r\n")

	now := time.Now().UTC()
	for _, tour := range agg.Tournaments {
		writeEvent(&ics, tour, now)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeEvent(ics *strings.Builder, tour tournament.Tournament, stamp time.Time) {
	ics.WriteString("BEGIN:VEVENT\r\n")

	// The identity key is stable across refreshes, so calendar apps see
	// updates instead of duplicates.
	ics.WriteString(fmt.Sprintf("UID:%s@sandcal\r\n", uidToken(tour.Key())))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp.Format("20060102T150405Z")))

	// All-day event: DTEND is the exclusive next day.
	ics.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", tour.Date.Format("20060102")))
	ics.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", tour.Date.AddDays(1).Format("20060102")))

	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(tour.Title)))

	description := fmt.Sprintf("Hosted by %s", tour.Source)
	if tour.Link != "" {
		description += "\nRegister at: " + tour.Link
	}
	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(description)))

	if tour.Location != "" {
		ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(tour.Location)))
	}
	if tour.Link != "" {
		ics.WriteString(fmt.Sprintf("URL:%s\r\n", tour.Link))
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// uidToken flattens an identity key into UID-safe characters.
func uidToken(key string) string {
	replacer := strings.NewReplacer(" ", "-", "|", ".", ",", "")
	return replacer.Replace(strings.ToLower(key))
}

// escapeICS escapes special characters per RFC 5545.
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
