package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the width above which article text stops growing.
	LayoutWideWidth = 120
)

// Chrome sizes.
const (
	// headerHeight is the header plus tab row.
	headerHeight = 2

	// commandBarHeight is the bottom hint bar.
	commandBarHeight = 1

	// helpModalWidth is the width of the help overlay.
	helpModalWidth = 46
)

// Diagnostics shown on Home.
const (
	// DiagTailLines is how many log lines Home reads.
	DiagTailLines = 12
)

// bodyHeight returns the rows left for the active screen.
func (m Model) bodyHeight() int {
	h := m.height - headerHeight - commandBarHeight
	if h < 3 {
		return 3
	}
	return h
}

// contentWidth returns the text width for prose, capped on wide terminals.
func (m Model) contentWidth() int {
	w := m.width - 4
	if w > LayoutWideWidth {
		w = LayoutWideWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}
