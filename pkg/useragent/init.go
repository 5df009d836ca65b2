package useragent

import "slices"

func init() {
	slices.SortStableFunc(browserPatterns, func(a, b BrowserPattern) int {
		return a.OrderHint - b.OrderHint
	})
}
