// Package templates embeds the server-rendered dashboard pages.
package templates

import "embed"

//go:embed *.gohtml
var FS embed.FS
