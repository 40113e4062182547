// Package boardingpass decodes a scanned or pasted boarding-pass payload
// into calendar facts: a boundary timestamp plus trip identifiers. Extraction
// is best-effort and never fails structurally; fields that cannot be
// confidently recovered are left empty and explained in the notes.
package boardingpass

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Field offsets of the structured (fixed-width) payload variant. These were
// inferred from sample payloads, not a verified external standard, so the
// structured decode stays best-effort with the generic scan as fallback.
const (
	minStructuredLen = 60

	pnrStart     = 23
	pnrEnd       = 30
	originStart  = 30
	originEnd    = 33
	destStart    = 33
	destEnd      = 36
	carrierStart = 36
	carrierEnd   = 39
	flightStart  = 39
	flightEnd    = 44
	dayStart     = 44
	dayEnd       = 47
)

// nearestOccurrenceWindow is the maximum distance from now at which a
// day-of-year candidate is accepted, handling year-boundary wraparound.
const nearestOccurrenceWindow = 183 * 24 * time.Hour

// ArriveByLead is the non-binding lead time suggested before the boundary.
const ArriveByLead = 120 * time.Minute

// Extraction is the decoded result. Absent fields are zero values plus a
// note; the extraction itself always succeeds.
type Extraction struct {
	// Structured reports whether the fixed-width decode succeeded.
	Structured bool

	FlightNumber     string
	DepartureAirport string
	ArrivalAirport   string
	BookingReference string
	LegCount         int

	// Date is the extracted calendar date at midnight UTC; zero when not found.
	Date time.Time
	// TimeOfDay is the extracted boarding/departure time as "HH:MM"; empty
	// when not found.
	TimeOfDay string

	// Boundary combines date and time, filling missing halves from the
	// caller's fallback so it is always constructible once either is found.
	Boundary time.Time
	// ArriveBy is the suggested arrival time: boundary minus 120 minutes.
	ArriveBy time.Time

	// Notes explain every inference the extractor could not confirm.
	Notes []string
}

var (
	timeLabelPattern  = regexp.MustCompile(`(?:BOARD|BRD|BT|DEP)[:\s]*(\d{2}):?(\d{2})`)
	isoDatePattern    = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	slashYMDPattern   = regexp.MustCompile(`\b(\d{4})/(\d{1,2})/(\d{1,2})\b`)
	slashDMYPattern   = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	clockPattern      = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	bookingRefPattern = regexp.MustCompile(`(?:REF|PNR|BOOKING|CONFIRMATION|CONF|LOCATOR)[:#\s]+([A-Z0-9]{5,8})\b`)
	flightPattern     = regexp.MustCompile(`\b([A-Z]{2,3}|[A-Z]\d[A-Z]?|\d[A-Z]{1,2})\s?(\d{1,4})\b`)
	airportPattern    = regexp.MustCompile(`\b[A-Z]{3}\b`)
)

// airportStopwords are 3-letter tokens that look like airport codes but are
// known labels in pass payloads.
var airportStopwords = map[string]bool{
	"REF": true, "PNR": true, "DEP": true, "BRD": true,
	"VIA": true, "AND": true, "THE": true, "FOR": true,
}

// Parse decodes one payload string. fallback supplies missing boundary
// halves; now anchors the day-of-year nearest-occurrence resolution.
func Parse(raw string, fallback, now time.Time) Extraction {
	var ex Extraction

	upper := strings.ToUpper(strings.TrimSpace(raw))
	condensed := stripWhitespace(upper)

	if upper == "" {
		ex.Notes = append(ex.Notes, "empty payload")
		composeBoundary(&ex, fallback)
		return ex
	}

	if tryStructured(&ex, upper, now) {
		ex.Structured = true
	} else {
		genericScan(&ex, upper)
	}

	// Boarding/departure time is located separately via label-prefixed
	// heuristics regardless of which decode path produced the date.
	if ex.TimeOfDay == "" {
		if hhmm, ok := findLabeledTime(condensed); ok {
			ex.TimeOfDay = hhmm
		}
	}
	if ex.TimeOfDay == "" {
		ex.Notes = append(ex.Notes, "boarding time could not be located")
	}

	composeBoundary(&ex, fallback)
	return ex
}

// tryStructured attempts the fixed-width decode. It reports false when the
// payload cannot be a structured variant, leaving ex untouched except for a
// possible out-of-range day note.
func tryStructured(ex *Extraction, upper string, now time.Time) bool {
	if len(upper) < minStructuredLen {
		return false
	}

	legs, err := strconv.Atoi(string(upper[1]))
	if err != nil || legs <= 0 {
		return false
	}

	origin := upper[originStart:originEnd]
	dest := upper[destStart:destEnd]
	if !isAlpha(origin) || !isAlpha(dest) {
		return false
	}

	carrier := strings.TrimSpace(upper[carrierStart:carrierEnd])
	if carrier == "" || !isAlnum(carrier) {
		return false
	}

	flightDigits := strings.TrimSpace(upper[flightStart:flightEnd])
	if flightDigits == "" || !isDigits(flightDigits) {
		return false
	}

	ex.LegCount = legs
	ex.DepartureAirport = origin
	ex.ArrivalAirport = dest
	ex.FlightNumber = carrier + strings.TrimLeft(flightDigits, "0")

	pnr := strings.TrimSpace(upper[pnrStart:pnrEnd])
	if pnr != "" && isAlnum(pnr) {
		ex.BookingReference = pnr
	} else {
		ex.Notes = append(ex.Notes, "booking reference field was not extractable")
	}

	dayField := strings.TrimSpace(upper[dayStart:dayEnd])
	if doy, err := strconv.Atoi(dayField); err == nil {
		if doy < 1 || doy > 366 {
			ex.Notes = append(ex.Notes, fmt.Sprintf("day-of-year %d is out of range [1,366]", doy))
		} else if date, ok := nearestOccurrence(doy, now); ok {
			ex.Date = date
		} else {
			ex.Notes = append(ex.Notes, fmt.Sprintf("day-of-year %d has no occurrence within %d days", doy, int(nearestOccurrenceWindow.Hours()/24)))
		}
	} else {
		ex.Notes = append(ex.Notes, "flight date field was not extractable")
	}

	return true
}

// nearestOccurrence converts a day-of-year into a concrete date by picking
// whichever of {previous, this, next} year places it closest to now, within
// the wraparound window.
func nearestOccurrence(doy int, now time.Time) (time.Time, bool) {
	anchor := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var best time.Time
	var bestDiff time.Duration
	found := false
	for _, year := range []int{now.Year() - 1, now.Year(), now.Year() + 1} {
		candidate := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, doy-1)
		// AddDate normalizes day 366 of a non-leap year into January; that
		// candidate no longer represents the requested day-of-year.
		if candidate.YearDay() != doy {
			continue
		}
		diff := candidate.Sub(anchor)
		if diff < 0 {
			diff = -diff
		}
		if diff > nearestOccurrenceWindow {
			continue
		}
		if !found || diff < bestDiff {
			best, bestDiff, found = candidate, diff, true
		}
	}
	return best, found
}

// genericScan is the fallback decode over free-form payload text.
func genericScan(ex *Extraction, upper string) {
	ex.Notes = append(ex.Notes, "structured decode failed; generic scan applied")

	working := upper

	if m := bookingRefPattern.FindStringSubmatchIndex(working); m != nil {
		ex.BookingReference = working[m[2]:m[3]]
		working = blankSpan(working, m[0], m[1])
	}

	if date, ok := findDate(working); ok {
		ex.Date = date
	}

	foundFlight := false
	for _, m := range flightPattern.FindAllStringSubmatchIndex(working, -1) {
		prefix := working[m[2]:m[3]]
		// BRD/BT/DEP followed by digits is a labeled boarding time, not a
		// flight number.
		if prefix == "BRD" || prefix == "BT" || prefix == "DEP" {
			continue
		}
		ex.FlightNumber = prefix + strings.TrimSpace(working[m[4]:m[5]])
		working = blankSpan(working, m[0], m[1])
		foundFlight = true
		break
	}
	if !foundFlight {
		ex.Notes = append(ex.Notes, "flight number could not be located")
	}

	var airports []string
	for _, loc := range airportPattern.FindAllStringIndex(working, -1) {
		token := working[loc[0]:loc[1]]
		if airportStopwords[token] {
			continue
		}
		airports = append(airports, token)
		if len(airports) == 2 {
			break
		}
	}
	switch len(airports) {
	case 2:
		ex.DepartureAirport = airports[0]
		ex.ArrivalAirport = airports[1]
	case 1:
		ex.DepartureAirport = airports[0]
		ex.Notes = append(ex.Notes, "only one airport code found")
	default:
		ex.Notes = append(ex.Notes, "airport codes could not be located")
	}

	if ts, ok := findClockTime(upper); ok {
		ex.TimeOfDay = ts
	}
}

// findDate locates an ISO-like or slash-formatted date.
func findDate(s string) (time.Time, bool) {
	if m := isoDatePattern.FindStringSubmatch(s); m != nil {
		return buildDate(m[1], m[2], m[3])
	}
	if m := slashYMDPattern.FindStringSubmatch(s); m != nil {
		return buildDate(m[1], m[2], m[3])
	}
	if m := slashDMYPattern.FindStringSubmatch(s); m != nil {
		// Read as month/day/year; swap when the first component cannot be
		// a month.
		month, day := m[1], m[2]
		if v, _ := strconv.Atoi(month); v > 12 {
			month, day = day, month
		}
		return buildDate(m[3], month, day)
	}
	return time.Time{}, false
}

func buildDate(y, m, d string) (time.Time, bool) {
	year, _ := strconv.Atoi(y)
	month, _ := strconv.Atoi(m)
	day, _ := strconv.Atoi(d)
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// findLabeledTime scans for a label-prefixed boarding/departure time in the
// whitespace-condensed payload.
func findLabeledTime(condensed string) (string, bool) {
	m := timeLabelPattern.FindStringSubmatch(condensed)
	if m == nil {
		return "", false
	}
	return validClock(m[1], m[2])
}

// findClockTime scans for any HH:MM token.
func findClockTime(s string) (string, bool) {
	for _, m := range clockPattern.FindAllStringSubmatch(s, -1) {
		if ts, ok := validClock(m[1], m[2]); ok {
			return ts, true
		}
	}
	return "", false
}

func validClock(hh, mm string) (string, bool) {
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	if h > 23 || m > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, m), true
}

// composeBoundary combines date and time into a boundary timestamp, filling
// either missing half from the fallback, and derives the arrive-by
// suggestion.
func composeBoundary(ex *Extraction, fallback time.Time) {
	hasDate := !ex.Date.IsZero()
	hasTime := ex.TimeOfDay != ""

	var h, m int
	if hasTime {
		fmt.Sscanf(ex.TimeOfDay, "%d:%d", &h, &m)
	}

	switch {
	case hasDate && hasTime:
		ex.Boundary = time.Date(ex.Date.Year(), ex.Date.Month(), ex.Date.Day(), h, m, 0, 0, time.UTC)
	case hasDate:
		if fallback.IsZero() {
			ex.Boundary = ex.Date
			ex.Notes = append(ex.Notes, "no time found and no fallback boundary; using midnight")
		} else {
			ex.Boundary = time.Date(ex.Date.Year(), ex.Date.Month(), ex.Date.Day(),
				fallback.Hour(), fallback.Minute(), 0, 0, fallback.Location())
			ex.Notes = append(ex.Notes, "time of day taken from fallback boundary")
		}
	case hasTime:
		if fallback.IsZero() {
			ex.Notes = append(ex.Notes, "time found but no date and no fallback boundary")
			return
		}
		ex.Boundary = time.Date(fallback.Year(), fallback.Month(), fallback.Day(), h, m, 0, 0, fallback.Location())
		ex.Notes = append(ex.Notes, "date taken from fallback boundary")
	default:
		if fallback.IsZero() {
			ex.Notes = append(ex.Notes, "no boundary could be constructed")
			return
		}
		ex.Boundary = fallback
		ex.Notes = append(ex.Notes, "neither date nor time found; boundary taken from fallback")
	}

	ex.ArriveBy = ex.Boundary.Add(-ArriveByLead)
}

// blankSpan replaces [start, end) with spaces so later scans skip it.
func blankSpan(s string, start, end int) string {
	return s[:start] + strings.Repeat(" ", end-start) + s[end:]
}

func stripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return s != ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return s != ""
}
