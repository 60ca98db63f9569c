package studymateui

import "embed"

// TemplateFS holds the HTML templates for the chat and notes pages, split into
// layout, pages, and partial views so fragments can be rendered on their own.
//
//go:embed templates/*
var TemplateFS embed.FS

// StaticFS holds the stylesheet and the browser-side script served under
// /static/.
//
//go:embed static/*
var StaticFS embed.FS
