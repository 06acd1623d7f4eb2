package tui

import "time"

// Message types for the TUI

// TickMsg drives one drain/dispatch cycle of the download pipeline.
type TickMsg time.Time

// FileOpenedMsg signals that a downloaded file was handed to the editor
// shell. Sent from the open callbacks via Program.Send, since downloads
// complete outside the update loop.
type FileOpenedMsg struct {
	Name string
}
