package web

import "embed"

// StaticFS holds the embedded static assets (stylesheet).
//
//go:embed static/*
var StaticFS embed.FS

// aboutMarkdown is the help text shown at the bottom of the dashboard.
//
//go:embed about.md
var aboutMarkdown string

// AboutMarkdown returns the raw help text for terminal rendering.
func AboutMarkdown() string {
	return aboutMarkdown
}
