// Package textutil flattens markdown-flavored agent output into plain bullet
// lists and turns bare URLs into clickable links. All transforms are pure and
// idempotent.
package textutil

import (
	"regexp"
	"strings"
)

const BulletPrefix = "• "

var (
	bulletRe = regexp.MustCompile(`^(?:[-*+\x{2022}]|\d+[.)])\s+(.*)$`)
	fenceRe  = regexp.MustCompile("^```")
	urlRe    = regexp.MustCompile(`https?://[^\s<>"']+`)
)

var emphasisReplacer = strings.NewReplacer("**", "", "__", "", "`", "", "*", "")

// ToPlainList strips markdown structure from s and returns one bullet line per
// content line. Fenced code blocks, headings and table rows are dropped.
// If the input carried no list markers at all, every surviving line is
// bulleted so the result always reads as a list.
func ToPlainList(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	inFence := false
	hasBullet := false
	var bullets []bool
	var out []string

	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		if fenceRe.MatchString(trimmed) {
			inFence = !inFence
			continue
		}
		if inFence || trimmed == "" {
			continue
		}

		// Emphasis can wrap a list marker or heading, so markers are
		// stripped again after the emphasis pass and the structure checks
		// run on the fully reduced line.
		trimmed, isBullet := stripBullets(trimmed, false)
		trimmed = emphasisReplacer.Replace(trimmed)
		trimmed = strings.Join(strings.Fields(trimmed), " ")
		trimmed, isBullet = stripBullets(trimmed, isBullet)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "|") {
			continue
		}
		if isBullet {
			hasBullet = true
		}

		out = append(out, trimmed)
		bullets = append(bullets, isBullet)
	}

	for i := range out {
		if bullets[i] || !hasBullet {
			out[i] = BulletPrefix + out[i]
		}
	}

	return strings.Join(out, "\n")
}

// stripBullets removes leading list markers, including stacked ones, and
// reports whether any marker was present.
func stripBullets(line string, isBullet bool) (string, bool) {
	for {
		m := bulletRe.FindStringSubmatch(line)
		if m == nil {
			return line, isBullet
		}
		line = m[1]
		isBullet = true
	}
}

// Linkify wraps every bare http(s) URL in s as an HTML anchor or, when asHTML
// is false, a bracketed textual link. Trailing sentence punctuation is left
// outside the link.
func Linkify(s string, asHTML bool) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	return urlRe.ReplaceAllStringFunc(s, func(match string) string {
		url, rest := trimTrailingPunct(match)
		if url == "" {
			return match
		}
		if asHTML {
			return `<a href="` + url + `" target="_blank">` + url + `</a>` + rest
		}
		return "[" + url + "]" + rest
	})
}

func trimTrailingPunct(url string) (string, string) {
	cut := len(url)
	for cut > 0 && strings.ContainsRune(`.,;:!?)]}'"`, rune(url[cut-1])) {
		cut--
	}
	return url[:cut], url[cut:]
}
