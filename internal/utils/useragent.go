package utils

import (
	"strings"

	ua "github.com/mssola/user_agent"
)

// DeviceInfo holds parsed information from a User-Agent string
type DeviceInfo struct {
	DeviceType string `json:"device_type"` // mobile, tablet, desktop
	OS         string `json:"os"`
	Browser    string `json:"browser"`
	Platform   string `json:"platform"` // android, ios, windows, mac, linux
	IsBot      bool   `json:"is_bot"`
}

var tabletIndicators = []string{"ipad", "tablet", "kindle", "nexus 7", "nexus 9", "sm-t"}

// ParseUserAgent extracts device information for request logging
func ParseUserAgent(userAgent string) DeviceInfo {
	if userAgent == "" {
		return DeviceInfo{DeviceType: "unknown", OS: "Unknown", Browser: "Unknown", Platform: "unknown"}
	}

	parser := ua.New(userAgent)
	browser, _ := parser.Browser()
	if browser == "" {
		browser = "Unknown"
	}
	os := parser.OS()
	if os == "" {
		os = "Unknown"
	}

	return DeviceInfo{
		DeviceType: deviceType(parser),
		OS:         os,
		Browser:    browser,
		Platform:   platform(parser),
		IsBot:      parser.Bot(),
	}
}

func deviceType(parser *ua.UserAgent) string {
	if !parser.Mobile() {
		return "desktop"
	}
	lower := strings.ToLower(parser.UA())
	for _, indicator := range tabletIndicators {
		if strings.Contains(lower, indicator) {
			return "tablet"
		}
	}
	return "mobile"
}

func platform(parser *ua.UserAgent) string {
	os := strings.ToLower(parser.OS())
	switch {
	case strings.Contains(os, "android"):
		return "android"
	case strings.Contains(os, "iphone"), strings.Contains(os, "ipad"), strings.Contains(os, "ios"):
		return "ios"
	case strings.Contains(os, "windows"):
		return "windows"
	case strings.Contains(os, "mac"):
		return "mac"
	case strings.Contains(os, "linux"):
		return "linux"
	default:
		return "unknown"
	}
}
