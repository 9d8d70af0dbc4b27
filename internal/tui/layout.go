package tui

// Layout holds calculated dimensions for the picker screen
type Layout struct {
	// Picker box width including padding
	PickerWidth int
	// Number of dropdown rows shown at once
	VisibleRows int

	// Bottom bar
	StatusHeight int // Fixed: 1 line
}

const (
	minPickerWidth = 40
	maxPickerWidth = 72

	minVisibleRows = 3
	maxVisibleRows = 15

	// pickerChrome is the height of everything in the picker view except
	// the dropdown rows: border, padding, title, input, preview, help and
	// up to four error lines
	pickerChrome = 16
)

// CalculateLayout computes the picker dimensions for a terminal size.
// The picker takes half the width within fixed limits; the dropdown uses
// the height left after the picker chrome and the status bar.
func CalculateLayout(termWidth, termHeight int) Layout {
	dims := Layout{
		StatusHeight: 1,
	}

	dims.PickerWidth = termWidth / 2
	if dims.PickerWidth < minPickerWidth {
		dims.PickerWidth = minPickerWidth
	}
	if dims.PickerWidth > maxPickerWidth {
		dims.PickerWidth = maxPickerWidth
	}
	if dims.PickerWidth > termWidth {
		dims.PickerWidth = termWidth
	}

	dims.VisibleRows = termHeight - dims.StatusHeight - pickerChrome
	if dims.VisibleRows < minVisibleRows {
		dims.VisibleRows = minVisibleRows
	}
	if dims.VisibleRows > maxVisibleRows {
		dims.VisibleRows = maxVisibleRows
	}

	return dims
}
