package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"clipsync/internal/preflight"
	"clipsync/internal/realign"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 22
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// preflightLines renders check results, with advisory failures as warnings.
func preflightLines(results []preflight.Result, colorize bool) []string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		kind := statusOK
		switch {
		case r.Passed:
		case r.Advisory:
			kind = statusWarn
		default:
			kind = statusError
		}
		lines = append(lines, renderStatusLine(r.Name, kind, r.Detail, colorize))
	}
	return lines
}

// summaryLines renders report counts as status lines.
func summaryLines(counts realign.Counts, colorize bool) []string {
	lines := []string{
		renderStatusLine("Clips", statusInfo, fmt.Sprintf("%d", counts.Total), colorize),
		renderStatusLine("Resolved", statusOK, fmt.Sprintf("%d (%d changed; %d matched, %d sentence fallback, %d default fallback)",
			counts.Resolved, counts.Changed, counts.Matched, counts.Sentence, counts.Default), colorize),
	}
	unresolvedKind := statusOK
	if counts.Unresolved > 0 {
		unresolvedKind = statusWarn
	}
	lines = append(lines, renderStatusLine("Unresolved", unresolvedKind, fmt.Sprintf("%d", counts.Unresolved), colorize))
	unavailableKind := statusOK
	if counts.Unavailable > 0 {
		unavailableKind = statusError
	}
	lines = append(lines, renderStatusLine("Transcript unavailable", unavailableKind, fmt.Sprintf("%d", counts.Unavailable), colorize))
	if counts.Invalid > 0 {
		lines = append(lines, renderStatusLine("Invalid", statusWarn, fmt.Sprintf("%d skipped", counts.Invalid), colorize))
	}
	return lines
}
