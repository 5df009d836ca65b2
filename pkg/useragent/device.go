package useragent

import (
	"strings"
)

// keywordSet holds substrings any of which identifies a class of user agents.
type keywordSet map[string]struct{}

func newKeywordSet(keywords ...string) keywordSet {
	result := make(keywordSet, len(keywords))
	for _, word := range keywords {
		result[word] = struct{}{}
	}
	return result
}

func (k keywordSet) contains(s string) bool {
	for keyword := range k {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

var (
	botKeywords     = newKeywordSet("bot", "spider", "crawler", "archiver", "lighthouse", "slurp", "daum", "sogou", "yeti", "facebookexternalhit", "camo asset", "monitor", "validator", "fetcher", "scraper", "google-structured-data")
	tvKeywords      = newKeywordSet("smart-tv", "smarttv", "appletv", "googletv", "android tv", "webos", "tizen", "hbbtv")
	consoleKeywords = newKeywordSet("playstation", "xbox", "nintendo", "wiiu")
	tabletKeywords  = newKeywordSet("tablet", "kindle", "silk")
	mobileKeywords  = newKeywordSet("mobile", "iphone", "windows phone", "iemobile", "blackberry", "nokia")
	desktopKeywords = newKeywordSet("windows", "macintosh", "mac os x", "linux", "x11", "ubuntu", "fedora", "debian", "chromeos", "cros")

	samsungMobileWords = newKeywordSet("samsung", "sm-g", "sm-a", "sm-n", "sm-s", "samsungbrowser")
	huaweiMobileWords  = newKeywordSet("huawei", "hwa-", "honor", "h60-", "h30-")
	xiaomiMobileWords  = newKeywordSet("xiaomi", "redmi", "miui", "mi ")
	oppoMobileWords    = newKeywordSet("oppo", "cph1", "cph2")
	vivoMobileWords    = newKeywordSet("vivo ", "viv-", "v1730", "v1731")

	samsungTabletWords = newKeywordSet("samsung", "sm-t", "gt-p", "sm-p")
	huaweiTabletWords  = newKeywordSet("huawei", "mediapad", "agassi")
	kindleWords        = newKeywordSet("kindle", "silk", "kftt", "kfjwi")
)

// DeviceClass classifies a lower-cased user agent into one of the
// DeviceType constants. iOS identifiers are checked first because they are
// unambiguous; Android tablets are told apart by the missing "mobile" token.
func DeviceClass(lowerUA string) string {
	switch {
	case lowerUA == "":
		return DeviceTypeUnknown
	case strings.Contains(lowerUA, "ipad"):
		return DeviceTypeTablet
	case strings.Contains(lowerUA, "iphone"):
		return DeviceTypeMobile
	case botKeywords.contains(lowerUA):
		return DeviceTypeBot
	case tvKeywords.contains(lowerUA):
		return DeviceTypeTV
	case strings.Contains(lowerUA, "android"):
		if strings.Contains(lowerUA, "mobile") {
			return DeviceTypeMobile
		}
		return DeviceTypeTablet
	case tabletKeywords.contains(lowerUA):
		return DeviceTypeTablet
	case mobileKeywords.contains(lowerUA):
		return DeviceTypeMobile
	case consoleKeywords.contains(lowerUA):
		return DeviceTypeConsole
	case strings.Contains(lowerUA, "windows") &&
		(strings.Contains(lowerUA, "touch") || strings.Contains(lowerUA, "tablet")):
		return DeviceTypeTablet
	case desktopKeywords.contains(lowerUA):
		return DeviceTypeDesktop
	}
	return DeviceTypeUnknown
}

// deviceLabel names the device for a user agent of the given class.
// Desktops and unknown devices are reported as FamilyOther.
func deviceLabel(lowerUA, class string) string {
	switch class {
	case DeviceTypeBot:
		return DeviceSpider
	case DeviceTypeTV:
		return DeviceSmartTV
	case DeviceTypeConsole:
		return DeviceConsole
	case DeviceTypeMobile:
		switch {
		case strings.Contains(lowerUA, "iphone"):
			return DeviceIPhone
		case samsungMobileWords.contains(lowerUA):
			return DeviceSamsung
		case huaweiMobileWords.contains(lowerUA):
			return DeviceHuawei
		case xiaomiMobileWords.contains(lowerUA):
			return DeviceXiaomi
		case oppoMobileWords.contains(lowerUA):
			return DeviceOppo
		case vivoMobileWords.contains(lowerUA):
			return DeviceVivo
		}
		return DeviceGenericPhone
	case DeviceTypeTablet:
		switch {
		case strings.Contains(lowerUA, "ipad"):
			return DeviceIPad
		case strings.Contains(lowerUA, "windows"):
			return DeviceSurface
		case samsungTabletWords.contains(lowerUA):
			return DeviceSamsung
		case huaweiTabletWords.contains(lowerUA):
			return DeviceHuawei
		case kindleWords.contains(lowerUA):
			return DeviceKindle
		}
		return DeviceGenericTablet
	}
	return FamilyOther
}
