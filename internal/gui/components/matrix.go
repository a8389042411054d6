package components

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"bayer-bender/internal/dither"
)

// MatrixEditor shows the threshold matrix as an editable grid: one entry per
// cell with +/- steppers, plus a size selector that regenerates the Bayer
// pattern. Cell edits call the handlers with (row, col); the controller owns
// the store mutation and redraw.
type MatrixEditor struct {
	container *fyne.Container
	grid      *fyne.Container
	entries   []*widget.Entry
	width     int
	height    int

	onCellChange func(row, col int, value float64)
	onCellStep   func(row, col int, up bool)
	onSizeChange func(size int)
}

func NewMatrixEditor() *MatrixEditor {
	me := &MatrixEditor{}

	sizeSelect := widget.NewSelect([]string{"2x2", "4x4", "8x8"}, func(value string) {
		if me.onSizeChange == nil {
			return
		}
		switch value {
		case "2x2":
			me.onSizeChange(2)
		case "4x4":
			me.onSizeChange(4)
		case "8x8":
			me.onSizeChange(8)
		}
	})
	sizeSelect.Selected = "4x4"

	me.grid = container.NewVBox()
	me.container = container.NewVBox(
		widget.NewLabel("Threshold Matrix"),
		sizeSelect,
		me.grid,
	)
	return me
}

func (me *MatrixEditor) GetContainer() *fyne.Container {
	return me.container
}

func (me *MatrixEditor) SetCellChangeHandler(handler func(row, col int, value float64)) {
	me.onCellChange = handler
}

func (me *MatrixEditor) SetCellStepHandler(handler func(row, col int, up bool)) {
	me.onCellStep = handler
}

func (me *MatrixEditor) SetSizeChangeHandler(handler func(size int)) {
	me.onSizeChange = handler
}

// Rebuild repopulates the grid from the matrix. Called after initialization,
// size changes and external cell updates.
func (me *MatrixEditor) Rebuild(m *dither.Matrix) {
	me.width = m.Width()
	me.height = m.Height()
	me.entries = make([]*widget.Entry, me.width*me.height)
	me.grid.RemoveAll()

	cells := container.NewGridWithColumns(me.width)
	for row := 0; row < me.height; row++ {
		for col := 0; col < me.width; col++ {
			r, c := row, col
			value, _ := m.Cell(r, c)

			entry := widget.NewEntry()
			entry.SetText(formatCell(value))
			entry.OnSubmitted = func(text string) {
				parsed, err := strconv.ParseFloat(text, 32)
				if err != nil || parsed < 0 || parsed >= 1 {
					entry.SetText(formatCell(value))
					return
				}
				if me.onCellChange != nil {
					me.onCellChange(r, c, parsed)
				}
			}

			up := widget.NewButton("+", func() {
				if me.onCellStep != nil {
					me.onCellStep(r, c, true)
				}
			})
			down := widget.NewButton("-", func() {
				if me.onCellStep != nil {
					me.onCellStep(r, c, false)
				}
			})

			me.entries[r*me.width+c] = entry
			cells.Add(container.NewVBox(entry, container.NewGridWithColumns(2, down, up)))
		}
	}

	me.grid.Add(cells)
	me.grid.Refresh()
}

// UpdateCell refreshes one entry after a store-side change.
func (me *MatrixEditor) UpdateCell(row, col int, value float32) {
	if row < 0 || row >= me.height || col < 0 || col >= me.width {
		return
	}
	me.entries[row*me.width+col].SetText(formatCell(value))
}

func formatCell(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 4, 32)
}
