package ui

// Campfire glyph dictionary. Hierarchy is expressed through strict
// indentation: action headers at level 0, branch output aligned under them.
const (
	GlyphAction  = "⏺"
	GlyphBranch  = "⎿"
	GlyphLogic   = "∴"
	GlyphWait    = "✻"
	GlyphSuccess = "✔"
	GlyphWarning = "⚠"
	GlyphError   = "✗"
)

// SpinnerFrames is the rotating glyph sequence for the progress indicator.
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
