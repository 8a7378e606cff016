// Package style provides shared styling primitives including brand colors
// and icons for consistent visual presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Teal   = lipgloss.Color("#14B8A6")
	Slate  = lipgloss.Color("#64748B")
	White  = lipgloss.Color("#FFFFFF")
	Ink    = lipgloss.Color("#0F172A")
	Green  = lipgloss.Color("#16A34A")
	Red    = lipgloss.Color("#DC2626")
	Yellow = lipgloss.Color("#EAB308")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Dot     = "●"
)
