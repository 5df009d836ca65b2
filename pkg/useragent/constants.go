package useragent

// FamilyOther is reported when a family cannot be determined.
const FamilyOther = "Other"

// Device classes used to pick the device label.
const (
	DeviceTypeBot     = "bot"
	DeviceTypeMobile  = "mobile"
	DeviceTypeTablet  = "tablet"
	DeviceTypeDesktop = "desktop"
	DeviceTypeTV      = "tv"
	DeviceTypeConsole = "console"
	DeviceTypeUnknown = "unknown"
)

// Device labels reported in Match.Device.
const (
	DeviceSpider        = "Spider"
	DeviceIPhone        = "iPhone"
	DeviceIPad          = "iPad"
	DeviceSamsung       = "Samsung"
	DeviceHuawei        = "Huawei"
	DeviceXiaomi        = "Xiaomi"
	DeviceOppo          = "Oppo"
	DeviceVivo          = "Vivo"
	DeviceKindle        = "Kindle"
	DeviceSurface       = "Surface"
	DeviceSmartTV       = "Smart TV"
	DeviceConsole       = "Game Console"
	DeviceGenericPhone  = "Generic Smartphone"
	DeviceGenericTablet = "Generic Tablet"
)

// Browser families.
const (
	BrowserChrome  = "Chrome"
	BrowserFirefox = "Firefox"
	BrowserSafari  = "Safari"
	BrowserEdge    = "Edge"
	BrowserOpera   = "Opera"
	BrowserIE      = "IE"
	BrowserSamsung = "Samsung Internet"
	BrowserUC      = "UC Browser"
	BrowserQQ      = "QQ Browser"
	BrowserHuawei  = "Huawei Browser"
	BrowserVivo    = "Vivo Browser"
	BrowserMIUI    = "MiuiBrowser"
	BrowserBrave   = "Brave"
	BrowserVivaldi = "Vivaldi"
	BrowserYandex  = "Yandex Browser"
)

// Operating system families.
const (
	OSWindows      = "Windows"
	OSWindowsPhone = "Windows Phone"
	OSMacOS        = "Mac OS X"
	OSiOS          = "iOS"
	OSAndroid      = "Android"
	OSLinux        = "Linux"
	OSChromeOS     = "Chrome OS"
	OSHarmonyOS    = "HarmonyOS"
	OSFireOS       = "Fire OS"
)
