package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"bayer-bender/internal/params"
)

var fieldTitles = map[params.FieldName]string{
	params.FieldExposure:   "Exposure",
	params.FieldContrast:   "Contrast",
	params.FieldHighlights: "Highlights",
	params.FieldShadows:    "Shadows",
	params.FieldSaturation: "Saturation",
}

// AdjustmentPanel renders one slider per scalar adjustment plus the stage
// toggles. Every slider edit calls the parameter-change handler with the
// field name; the handler owns validation and the redraw request.
type AdjustmentPanel struct {
	container *fyne.Container
	sliders   map[params.FieldName]*widget.Slider
	labels    map[params.FieldName]*widget.Label

	onParameterChange func(params.FieldName, float64)
	onStagesChange    func(saturation, dither bool)
	onCompareChange   func(bool)

	saturationCheck *widget.Check
	ditherCheck     *widget.Check
}

func NewAdjustmentPanel() *AdjustmentPanel {
	panel := &AdjustmentPanel{
		sliders: make(map[params.FieldName]*widget.Slider),
		labels:  make(map[params.FieldName]*widget.Label),
	}
	panel.setupPanel()
	return panel
}

func (ap *AdjustmentPanel) setupPanel() {
	box := container.NewVBox(widget.NewLabel("Adjustments"))

	for _, name := range params.ScalarFields {
		field := name
		r, _ := params.RangeOf(field)

		label := widget.NewLabel(fmt.Sprintf("%s: %.2f", fieldTitles[field], 0.0))
		slider := widget.NewSlider(r.Min, r.Max)
		slider.Step = r.Step
		slider.OnChanged = func(value float64) {
			label.SetText(fmt.Sprintf("%s: %.2f", fieldTitles[field], value))
			if ap.onParameterChange != nil {
				ap.onParameterChange(field, value)
			}
		}

		ap.sliders[field] = slider
		ap.labels[field] = label
		box.Add(label)
		box.Add(slider)
	}

	ap.saturationCheck = widget.NewCheck("Saturation stage", func(bool) { ap.fireStagesChange() })
	ap.ditherCheck = widget.NewCheck("Dither stage", func(bool) { ap.fireStagesChange() })
	compareCheck := widget.NewCheck("Compare error diffusion", func(enabled bool) {
		if ap.onCompareChange != nil {
			ap.onCompareChange(enabled)
		}
	})

	box.Add(widget.NewSeparator())
	box.Add(ap.saturationCheck)
	box.Add(ap.ditherCheck)
	box.Add(compareCheck)

	resetButton := widget.NewButton("Reset", func() {
		ap.SetValues(params.Defaults(), true)
	})
	box.Add(resetButton)

	ap.container = box
}

func (ap *AdjustmentPanel) fireStagesChange() {
	if ap.onStagesChange != nil {
		ap.onStagesChange(ap.saturationCheck.Checked, ap.ditherCheck.Checked)
	}
}

func (ap *AdjustmentPanel) GetContainer() *fyne.Container {
	return ap.container
}

func (ap *AdjustmentPanel) SetParameterChangeHandler(handler func(params.FieldName, float64)) {
	ap.onParameterChange = handler
}

func (ap *AdjustmentPanel) SetStagesChangeHandler(handler func(saturation, dither bool)) {
	ap.onStagesChange = handler
}

func (ap *AdjustmentPanel) SetCompareChangeHandler(handler func(bool)) {
	ap.onCompareChange = handler
}

// SetStages reflects the current stage configuration without firing handlers.
func (ap *AdjustmentPanel) SetStages(saturation, dither bool) {
	prev := ap.onStagesChange
	ap.onStagesChange = nil
	ap.saturationCheck.SetChecked(saturation)
	ap.ditherCheck.SetChecked(dither)
	ap.onStagesChange = prev
}

// SetValues moves the sliders to adj. With fire set, slider callbacks run as
// if the user dragged them, pushing each field through the store.
func (ap *AdjustmentPanel) SetValues(adj params.Adjustments, fire bool) {
	for _, name := range params.ScalarFields {
		v, _ := adj.Scalar(name)
		slider := ap.sliders[name]
		if !fire {
			prev := slider.OnChanged
			slider.OnChanged = func(value float64) {
				ap.labels[name].SetText(fmt.Sprintf("%s: %.2f", fieldTitles[name], value))
			}
			slider.SetValue(float64(v))
			slider.OnChanged = prev
			continue
		}
		slider.SetValue(float64(v))
	}
}
