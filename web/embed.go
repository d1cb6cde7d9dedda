// Package web embeds the single-page dashboard served at "/".
package web

import _ "embed"

//go:embed index.html
var indexHTML []byte

// Index returns the dashboard page.
func Index() []byte {
	return indexHTML
}
