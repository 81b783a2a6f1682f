// Package livetv exports the channel guide in the formats network tuner
// clients expect: HDHomeRun discovery and lineup, M3U and XMLTV.
package livetv

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/netpersona/popcorn/internal/config"
)

const (
	modelNumber  = "HDHR-Popcorn"
	firmwareName = "hdhomerun_popcorn"
	firmwareVer  = "1.0.0"
	manufacturer = "Popcorn"
)

// Channel is a guide channel with its display number
type Channel struct {
	Name   string `json:"name"`
	Number int    `json:"number"`
}

// DiscoverResponse represents HDHomeRun discovery response
type DiscoverResponse struct {
	FriendlyName    string `json:"FriendlyName"`
	Manufacturer    string `json:"Manufacturer"`
	ModelNumber     string `json:"ModelNumber"`
	FirmwareName    string `json:"FirmwareName"`
	FirmwareVersion string `json:"FirmwareVersion"`
	DeviceID        string `json:"DeviceID"`
	DeviceAuth      string `json:"DeviceAuth"`
	BaseURL         string `json:"BaseURL"`
	LineupURL       string `json:"LineupURL"`
	TunerCount      int    `json:"TunerCount"`
}

// LineupStatus represents tuner scan status
type LineupStatus struct {
	ScanInProgress int      `json:"ScanInProgress"`
	ScanPossible   int      `json:"ScanPossible"`
	Source         string   `json:"Source"`
	SourceList     []string `json:"SourceList"`
}

// LineupEntry represents a channel in the lineup
type LineupEntry struct {
	GuideNumber string `json:"GuideNumber"`
	GuideName   string `json:"GuideName"`
	URL         string `json:"URL"`
}

// Discover builds the device description for baseURL
func Discover(cfg config.LiveTVConfig, baseURL string) DiscoverResponse {
	baseURL = strings.TrimRight(baseURL, "/")
	return DiscoverResponse{
		FriendlyName:    cfg.FriendlyName,
		Manufacturer:    manufacturer,
		ModelNumber:     modelNumber,
		FirmwareName:    firmwareName,
		FirmwareVersion: firmwareVer,
		DeviceID:        cfg.DeviceID,
		DeviceAuth:      "popcorn",
		BaseURL:         baseURL,
		LineupURL:       baseURL + "/lineup.json",
		TunerCount:      cfg.TunerCount,
	}
}

// Status reports a finished scan so clients do not wait on one
func Status() LineupStatus {
	return LineupStatus{
		ScanInProgress: 0,
		ScanPossible:   1,
		Source:         "Cable",
		SourceList:     []string{"Cable"},
	}
}

// Lineup lists channels with their tuner URLs
func Lineup(channels []Channel, baseURL string) []LineupEntry {
	lineup := make([]LineupEntry, 0, len(channels))
	for _, ch := range channels {
		lineup = append(lineup, LineupEntry{
			GuideNumber: strconv.Itoa(ch.Number),
			GuideName:   ch.Name,
			URL:         StreamURL(baseURL, ch.Number),
		})
	}
	return lineup
}

// StreamURL is the tuner address for a channel number
func StreamURL(baseURL string, number int) string {
	return fmt.Sprintf("%s/livetv/stream/%d", strings.TrimRight(baseURL, "/"), number)
}

// M3U renders an extended M3U playlist for IPTV clients
func M3U(channels []Channel, baseURL string) string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	for _, ch := range channels {
		name := strings.ReplaceAll(ch.Name, `"`, "'")
		fmt.Fprintf(&b, "#EXTINF:-1 tvg-id=\"%d\" tvg-name=\"%s\" tvg-chno=\"%d\" group-title=\"Popcorn\",%s\n",
			ch.Number, name, ch.Number, ch.Name)
		b.WriteString(StreamURL(baseURL, ch.Number))
		b.WriteString("\n")
	}
	return b.String()
}
