package useragent

import (
	"fmt"
	"os"
	"strings"

	"github.com/ua-parser/uap-go/uaparser"
	"go.uber.org/zap"
)

// Device types reported in DeviceInfo.DeviceType.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	DeviceBot     = "bot"
	DeviceUnknown = "unknown"
)

// botPatterns are matched case-insensitively against the raw User-Agent.
var botPatterns = []string{
	"bot", "crawler", "spider", "scraper",
	"googlebot", "bingbot", "facebookexternalhit",
	"twitterbot", "linkedinbot", "slackbot",
}

// Parser classifies User-Agent strings. A nil *Parser is usable and falls back to
// pattern-only bot detection with unknown browser, OS and device type.
type Parser struct {
	parser *uaparser.Parser
	log    *zap.Logger
}

// DeviceInfo represents parsed device information
type DeviceInfo struct {
	DeviceType string // mobile, desktop, tablet, bot, unknown
	Browser    string // Chrome, Firefox, Safari, etc.
	OS         string // Windows, iOS, Android, etc.
	IsBot      bool
	Raw        string
}

// NewParser creates a parser from a uap-core regexes.yaml file. An empty path uses the
// definitions bundled with uap-go.
func NewParser(regexFilePath string, log *zap.Logger) (*Parser, error) {
	if regexFilePath == "" {
		log.Info("User-Agent parser initialized with bundled regexes")
		return &Parser{parser: uaparser.NewFromSaved(), log: log}, nil
	}

	regexBytes, err := os.ReadFile(regexFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read regexes file %s: %w", regexFilePath, err)
	}

	parser, err := uaparser.NewFromBytes(regexBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create User-Agent parser: %w", err)
	}

	log.Info("User-Agent parser initialized successfully", zap.String("regexes_file", regexFilePath))

	return &Parser{
		parser: parser,
		log:    log,
	}, nil
}

// IsBot reports whether the User-Agent matches one of the known crawler patterns.
// An empty User-Agent is not a bot.
func IsBot(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, pattern := range botPatterns {
		if strings.Contains(ua, pattern) {
			return true
		}
	}
	return false
}

// Parse classifies a User-Agent string.
func (p *Parser) Parse(userAgent string) *DeviceInfo {
	info := &DeviceInfo{
		DeviceType: DeviceUnknown,
		Browser:    DeviceUnknown,
		OS:         DeviceUnknown,
		IsBot:      IsBot(userAgent),
		Raw:        userAgent,
	}
	if info.IsBot {
		info.DeviceType = DeviceBot
	}
	if p == nil || p.parser == nil || userAgent == "" {
		return info
	}

	client := p.parser.Parse(userAgent)

	info.Browser = formatFamily(client.UserAgent.Family)
	info.OS = formatFamily(client.Os.Family)
	if client.Device.Family == "Spider" {
		info.IsBot = true
	}
	info.DeviceType = determineDeviceType(client, userAgent, info.IsBot)

	p.log.Debug("parsed User-Agent",
		zap.String("device_type", info.DeviceType),
		zap.String("browser", info.Browser),
		zap.String("os", info.OS),
		zap.Bool("is_bot", info.IsBot),
	)

	return info
}

func determineDeviceType(client *uaparser.Client, userAgent string, isBot bool) string {
	if isBot {
		return DeviceBot
	}

	if family := client.Device.Family; family != "" && family != "Other" {
		if containsAny(family, "iPad", "Tablet", "Kindle", "Surface") {
			return DeviceTablet
		}
		if containsAny(family, "iPhone", "Android", "BlackBerry", "Windows Phone", "Mobile", "Phone") {
			return DeviceMobile
		}
	}

	osFamily := client.Os.Family
	switch {
	case containsAny(osFamily, "iOS", "Android", "Windows Phone", "BlackBerry OS", "Firefox OS", "Sailfish OS"):
		if isTabletOS(osFamily, userAgent) {
			return DeviceTablet
		}
		return DeviceMobile
	case containsAny(osFamily, "Windows", "Mac OS X", "macOS", "Linux", "Ubuntu", "Chrome OS", "FreeBSD", "OpenBSD", "NetBSD"):
		return DeviceDesktop
	}
	return DeviceUnknown
}

// isTabletOS separates tablets from phones on mobile operating systems.
func isTabletOS(osFamily, userAgent string) bool {
	if containsAny(osFamily, "iOS") {
		return containsAny(userAgent, "iPad")
	}
	// Android tablets typically don't have "Mobile" in User-Agent
	if containsAny(osFamily, "Android") {
		return !containsAny(userAgent, "Mobile")
	}
	return false
}

func containsAny(s string, substrs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

func formatFamily(s string) string {
	if s == "" || s == "Other" {
		return DeviceUnknown
	}
	return s
}
