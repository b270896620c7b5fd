package ui

import (
	"github.com/charmbracelet/lipgloss"

	"agentstow/pkg/types"
)

var (
	styleOK       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleWarn     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleErr      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleMuted    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleEmphasis = lipgloss.NewStyle().Bold(true)
)

func outcomeGlyph(o types.Outcome, styled bool) string {
	var glyph string
	var style lipgloss.Style

	switch o {
	case types.OutcomeLinked, types.OutcomeRelinked, types.OutcomeUnlinked, types.OutcomeCleaned:
		glyph, style = "✓", styleOK
	case types.OutcomeAbsent:
		glyph, style = "-", styleMuted
	case types.OutcomeConflict:
		glyph, style = "✗", styleErr
	default:
		glyph, style = "?", styleMuted
	}

	if !styled {
		return glyph
	}
	return style.Render(glyph)
}

func kindLabel(k types.EntryKind, styled bool) string {
	var label string
	var style lipgloss.Style

	switch k {
	case types.EntryLinked:
		label, style = "linked", styleOK
	case types.EntryBroken:
		label, style = "broken", styleErr
	case types.EntryExtension:
		label, style = "extension", styleOK
	case types.EntryForeign:
		label, style = "foreign", styleWarn
	default:
		label, style = string(k), styleMuted
	}

	if !styled {
		return label
	}
	return style.Render(label)
}
