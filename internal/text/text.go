// Package text provides small string helpers used when templating documents
// and exposing storage paths to clients.
package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ReplaceKeyword replaces keyword with replacement in s, preserving the three
// casings that occur in ordinary text: "keyword", "Keyword" and "KEYWORD".
// Both arguments are lower-cased first, so the casing of the inputs does not matter.
// Mixed-case occurrences are left alone.
func ReplaceKeyword(s, keyword, replacement string) string {
	if keyword == "" {
		return s
	}

	keyword = strings.ToLower(keyword)
	replacement = strings.ToLower(replacement)

	s = strings.ReplaceAll(s, keyword, replacement)
	s = strings.ReplaceAll(s, FirstLetterToUpper(keyword), FirstLetterToUpper(replacement))
	return strings.ReplaceAll(s, strings.ToUpper(keyword), strings.ToUpper(replacement))
}

// FirstLetterToUpper upper-cases the first rune of s.
// Blank input is returned unchanged.
func FirstLetterToUpper(s string) string {
	if strings.TrimSpace(s) == "" {
		return s
	}

	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// ConvertToServerPath rewrites a local file path below rootPath into a URL below
// serverBasePath. Paths outside rootPath are only slash-normalized.
func ConvertToServerPath(localPath, rootPath, serverBasePath string) string {
	if strings.TrimSpace(localPath) == "" {
		return ""
	}

	localPath = toSlash(localPath)
	root := toSlash(rootPath)
	if root != "" && !strings.HasSuffix(root, "/") {
		root += "/"
	}

	if root == "" || !strings.HasPrefix(localPath, root) {
		return localPath
	}

	return strings.TrimSuffix(serverBasePath, "/") + "/" + strings.TrimPrefix(localPath, root)
}

// toSlash converts both separator styles to "/" and collapses doubled slashes.
func toSlash(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}
