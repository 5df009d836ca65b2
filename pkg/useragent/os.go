package useragent

import (
	"regexp"
	"strings"
)

// OS detection keyword sets, checked in order of typical traffic share.
var (
	windowsPhoneKeywords = newKeywordSet("windows phone")
	windowsKeywords      = newKeywordSet("windows")
	iOSKeywords          = newKeywordSet("iphone", "ipad", "ipod")
	macOSKeywords        = newKeywordSet("macintosh", "mac os x")
	harmonyOSKeywords    = newKeywordSet("harmonyos")
	androidKeywords      = newKeywordSet("android")
	fireOSKeywords       = newKeywordSet("kindle", "silk")
	chromeOSKeywords     = newKeywordSet("cros", "chromeos", "chrome os")
	linuxKeywords        = newKeywordSet("linux", "ubuntu", "debian", "fedora", "mint", "x11")
)

var (
	windowsNTVersion    = regexp.MustCompile(`windows nt (\d+\.\d+)`)
	windowsPhoneVersion = regexp.MustCompile(`windows phone(?: os)? (\d+(?:\.\d+)*)`)
	iOSVersion          = regexp.MustCompile(`(?:iphone|cpu) os (\d+(?:_\d+)*)`)
	macOSVersion        = regexp.MustCompile(`mac os x (\d+(?:[_.]\d+)*)`)
	androidVersion      = regexp.MustCompile(`android[ /]?(\d+(?:\.\d+)*)`)
	harmonyOSVersion    = regexp.MustCompile(`harmonyos[ /]?(\d+(?:\.\d+)*)`)
	chromeOSVersion     = regexp.MustCompile(`cros \S+ (\d+(?:\.\d+)*)`)
)

// Windows NT kernel versions to marketing names as major and minor.
var windowsReleases = map[string][2]string{
	"10.0": {"10", ""},
	"6.3":  {"8", "1"},
	"6.2":  {"8", ""},
	"6.1":  {"7", ""},
	"6.0":  {"Vista", ""},
	"5.2":  {"XP", ""},
	"5.1":  {"XP", ""},
	"5.0":  {"2000", ""},
}

// parseOS identifies the operating system and, where the user agent carries
// one, its version. Windows NT versions are translated to release names.
func parseOS(lowerUA string) OS {
	switch {
	case windowsKeywords.contains(lowerUA):
		if windowsPhoneKeywords.contains(lowerUA) {
			return osWithVersion(OSWindowsPhone, windowsPhoneVersion, lowerUA, ".")
		}
		o := OS{Family: Some(OSWindows)}
		if m := windowsNTVersion.FindStringSubmatch(lowerUA); m != nil {
			if rel, ok := windowsReleases[m[1]]; ok {
				o.Major, o.Minor = Some(rel[0]), Optional(rel[1])
			}
		}
		return o
	case iOSKeywords.contains(lowerUA):
		return osWithVersion(OSiOS, iOSVersion, lowerUA, "_")
	case macOSKeywords.contains(lowerUA):
		o := osWithVersion(OSMacOS, macOSVersion, lowerUA, "_")
		if o.Major.IsSet() && !o.Minor.IsSet() {
			// Firefox reports dots instead of underscores.
			return osWithVersion(OSMacOS, macOSVersion, lowerUA, ".")
		}
		return o
	case androidKeywords.contains(lowerUA):
		return osWithVersion(OSAndroid, androidVersion, lowerUA, ".")
	case harmonyOSKeywords.contains(lowerUA):
		return osWithVersion(OSHarmonyOS, harmonyOSVersion, lowerUA, ".")
	case fireOSKeywords.contains(lowerUA):
		return OS{Family: Some(OSFireOS)}
	case chromeOSKeywords.contains(lowerUA):
		return osWithVersion(OSChromeOS, chromeOSVersion, lowerUA, ".")
	case linuxKeywords.contains(lowerUA):
		return OS{Family: Some(OSLinux)}
	}
	return OS{Family: Some(FamilyOther)}
}

func osWithVersion(family string, re *regexp.Regexp, lowerUA, sep string) OS {
	o := OS{Family: Some(family)}
	if m := re.FindStringSubmatch(lowerUA); len(m) > 1 {
		seg := splitVersion(strings.TrimSpace(m[1]), sep)
		o.Major, o.Minor, o.Patch, o.PatchMinor = seg[0], seg[1], seg[2], seg[3]
	}
	return o
}
