// Package appfs embeds the static files shipped with the binaries: email templates & SQL migrations.
package appfs

import "embed"

//go:embed all:assets migrations
var FS embed.FS
