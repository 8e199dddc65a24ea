package clients

import (
	"regexp"
)

const downloadPageFormat = "https://www.esoui.com/downloads/download"

// urlRule rewrites an addon page URL into its download page URL
type urlRule struct {
	matcher   *regexp.Regexp
	transform func(match []string) string
}

// downloadPageRules are evaluated top to bottom; the first match wins
var downloadPageRules = []urlRule{
	{
		matcher:   regexp.MustCompile(`^https://.*esoui\.com/downloads/info(\d+)-(.+)$`),
		transform: func(m []string) string { return downloadPageFormat + m[1] },
	},
	{
		matcher:   regexp.MustCompile(`^https://.+esoui\.com/downloads/fileinfo\.php\?id=(\d+)$`),
		transform: func(m []string) string { return downloadPageFormat + m[1] },
	},
}

// DownloadPageURL maps an addon info page URL to the page hosting its CDN
// link. It returns false when no rule matches.
func DownloadPageURL(pageURL string) (string, bool) {
	for _, rule := range downloadPageRules {
		if m := rule.matcher.FindStringSubmatch(pageURL); m != nil {
			return rule.transform(m), true
		}
	}
	return "", false
}
