package web

import (
	"embed"
)

// staticFiles holds the browser plan editor: the page, its script and
// stylesheet.
//
//go:embed static/*
var staticFiles embed.FS
