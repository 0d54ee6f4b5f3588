package main

import (
	"fmt"
	"strings"

	"github.com/example/pdfannotations/internal/platform"
)

type titleOptions struct {
	File   string
	Page   string
	Extras []string
}

func windowTitle(opts titleOptions) string {
	parts := []string{platform.AppName}

	file := strings.TrimSpace(opts.File)
	if file != "" {
		parts = append(parts, file)
	}

	page := strings.TrimSpace(opts.Page)
	if page != "" {
		parts = append(parts, page)
	}

	extras := make([]string, 0, len(opts.Extras)+3)

	if strings.TrimSpace(version) != "" {
		extras = append(extras, fmt.Sprintf("v%s", strings.TrimSpace(version)))
	}

	if strings.TrimSpace(commit) != "" {
		extras = append(extras, fmt.Sprintf("commit %s", strings.TrimSpace(commit)))
	}

	if strings.TrimSpace(date) != "" {
		extras = append(extras, strings.TrimSpace(date))
	}

	if len(opts.Extras) > 0 {
		extras = append(extras, opts.Extras...)
	}

	if len(extras) > 0 {
		parts = append(parts, extras...)
	}

	return strings.Join(parts, " - ")
}
