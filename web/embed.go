// Package web provides embedded static and template files for the web client.
package web

import "embed"

// TemplatesFS contains embedded HTML templates.
//
//go:embed templates/*
var TemplatesFS embed.FS

// StaticFS contains embedded static assets (CSS).
//
//go:embed static/*
var StaticFS embed.FS
