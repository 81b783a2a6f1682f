package livetv

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/netpersona/popcorn/internal/models"
	"github.com/netpersona/popcorn/internal/timeline"
)

// TimeFormat is the XMLTV timestamp layout; the space before the zone is required by Plex
const TimeFormat = "20060102150405 -0700"

// GuideDays is how far ahead the EPG reaches
const GuideDays = 7

// TV is the XMLTV document root
type TV struct {
	XMLName       xml.Name    `xml:"tv"`
	GeneratorName string      `xml:"generator-info-name,attr,omitempty"`
	Channels      []XChannel  `xml:"channel"`
	Programmes    []Programme `xml:"programme"`
}

// XChannel is an XMLTV channel definition
type XChannel struct {
	ID          string   `xml:"id,attr"`
	DisplayName []string `xml:"display-name"`
}

// Programme is one XMLTV listing
type Programme struct {
	Start    string  `xml:"start,attr"`
	Stop     string  `xml:"stop,attr"`
	Channel  string  `xml:"channel,attr"`
	Title    Text    `xml:"title"`
	Desc     *Text   `xml:"desc,omitempty"`
	Category *Text   `xml:"category,omitempty"`
	Date     string  `xml:"date,omitempty"`
	Rating   *Rating `xml:"rating,omitempty"`
	Icon     *Icon   `xml:"icon,omitempty"`
	Length   *Length `xml:"length,omitempty"`
}

// Text is character data with a language
type Text struct {
	Lang  string `xml:"lang,attr,omitempty"`
	Value string `xml:",chardata"`
}

// Rating is a content rating under a rating system
type Rating struct {
	System string `xml:"system,attr,omitempty"`
	Value  string `xml:"value"`
}

// Icon points at artwork
type Icon struct {
	Src string `xml:"src,attr"`
}

// Length is a programme length
type Length struct {
	Units string `xml:"units,attr"`
	Value int    `xml:",chardata"`
}

// WeekSchedule holds a channel's slots keyed by day index (Monday = 0)
type WeekSchedule map[int][]*models.ScheduleSlot

// GroupByDay splits a channel's slots into a WeekSchedule
func GroupByDay(slots []*models.ScheduleSlot) WeekSchedule {
	week := make(WeekSchedule, models.DaysPerWeek)
	for _, s := range slots {
		week[s.Day] = append(week[s.Day], s)
	}
	return week
}

// BuildGuide lays each channel's weekly schedule over the dates starting at
// from's calendar day for GuideDays days. Times are emitted in UTC.
// posterURL maps a catalog entry to its artwork address; nil omits icons.
func BuildGuide(channels []Channel, schedules map[string]WeekSchedule, from time.Time, posterURL func(*models.CatalogEntry) string) *TV {
	tv := &TV{
		GeneratorName: "Popcorn",
		Channels:      make([]XChannel, 0, len(channels)),
	}

	for _, ch := range channels {
		tv.Channels = append(tv.Channels, XChannel{
			ID:          strconv.Itoa(ch.Number),
			DisplayName: []string{ch.Name, strconv.Itoa(ch.Number)},
		})
	}

	midnight := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for offset := 0; offset < GuideDays; offset++ {
		date := midnight.AddDate(0, 0, offset)
		day := timeline.DayOfWeek(date)

		for _, ch := range channels {
			for _, slot := range schedules[ch.Name][day] {
				if slot.Entry == nil {
					continue
				}
				tv.Programmes = append(tv.Programmes, programme(ch, date, slot, posterURL))
			}
		}
	}

	return tv
}

func programme(ch Channel, date time.Time, slot *models.ScheduleSlot, posterURL func(*models.CatalogEntry) string) Programme {
	start, stop := timeline.SlotTimes(date, slot)
	entry := slot.Entry

	p := Programme{
		Start:    start.UTC().Format(TimeFormat),
		Stop:     stop.UTC().Format(TimeFormat),
		Channel:  strconv.Itoa(ch.Number),
		Title:    Text{Lang: "en", Value: entry.Title},
		Category: &Text{Lang: "en", Value: entry.Genre},
	}
	if summary := strings.TrimSpace(entry.SummaryText()); summary != "" {
		p.Desc = &Text{Lang: "en", Value: summary}
	}
	if entry.Year != nil && *entry.Year > 0 {
		p.Date = strconv.Itoa(*entry.Year)
	}
	if rating := entry.Rating(); rating != "" {
		p.Rating = &Rating{System: "MPAA", Value: rating}
	}
	if posterURL != nil {
		if src := posterURL(entry); src != "" {
			p.Icon = &Icon{Src: src}
		}
	}
	if entry.Duration > 0 {
		p.Length = &Length{Units: "minutes", Value: entry.Duration}
	}
	return p
}

// WriteXML writes the document with an XML declaration
func WriteXML(w io.Writer, tv *TV) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(tv); err != nil {
		return fmt.Errorf("failed to encode xmltv: %w", err)
	}
	return enc.Flush()
}
