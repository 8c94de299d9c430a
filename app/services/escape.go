package services

import "html"

// EscapeDescription is applied to every description before it is written to
// the store.
func EscapeDescription(s string) string {
	return html.EscapeString(s)
}

// UnescapeDescription inverts EscapeDescription for every read path except
// RenderDescriptionHTML.
func UnescapeDescription(s string) string {
	return html.UnescapeString(s)
}
