package editor

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Theme colors, indigo on near-black
var (
	colorBgDark    = rl.NewColor(10, 10, 15, 255)
	colorBgPanel   = rl.NewColor(18, 18, 24, 245)
	colorBgElement = rl.NewColor(28, 28, 38, 255)
	colorBgHover   = rl.NewColor(38, 38, 52, 255)

	colorAccent    = rl.NewColor(108, 99, 255, 255)
	colorSelection = rl.NewColor(108, 99, 255, 60)

	colorTextPrimary   = rl.NewColor(255, 255, 255, 255)
	colorTextSecondary = rl.NewColor(200, 200, 208, 255)
	colorTextMuted     = rl.NewColor(119, 119, 119, 255)
)

const (
	panelWidth   = 300
	panelPadding = 10
	buttonHeight = 26
	rowHeight    = 20
)

func initRayguiStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorBgDark))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(colorBgHover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorTextSecondary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(colorTextPrimary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(colorTextPrimary))

	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(50, 50, 65, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 15)
}

func (e *Editor) panelX() int32 {
	return int32(rl.GetScreenWidth()) - panelWidth
}

func (e *Editor) mouseInPanel() bool {
	return rl.GetMousePosition().X >= float32(e.panelX())
}

// drawPanel draws the tool panel on the right edge of the window.
func (e *Editor) drawPanel() {
	x := e.panelX()
	h := int32(rl.GetScreenHeight())
	rl.DrawRectangle(x, 0, panelWidth, h, colorBgPanel)
	rl.DrawLine(x, 0, x, h, colorBgHover)

	if e.mouseInPanel() {
		e.panelScroll += rl.GetMouseWheelMove() * 30
		if e.panelScroll > 0 {
			e.panelScroll = 0
		}
	}

	bx := float32(x + panelPadding)
	bw := float32(panelWidth - 2*panelPadding)
	y := float32(panelPadding) + e.panelScroll

	rl.DrawText("Scene Data", int32(bx), int32(y), 20, colorTextPrimary)
	y += 28
	rl.DrawText(e.session.Store().Path(e.world.Scene.Name), int32(bx), int32(y), 10, colorTextMuted)
	y += 20

	button := func(label string) bool {
		hit := gui.Button(rl.Rectangle{X: bx, Y: y, Width: bw, Height: buttonHeight}, label)
		y += buttonHeight + 6
		return hit
	}

	if button("Scan Scene") {
		e.ScanScene()
	}
	if button("Instantiate From Data") {
		e.InstantiateFromData()
	}
	if button("Update Transform Data") {
		e.UpdateTransformData()
	}
	if button("Save Data") {
		e.SaveData()
	}
	if button("Load Data") {
		e.LoadData()
	}
	if button("Clear All Instances") {
		e.ClearAll()
	}

	y += 8
	e.showAvailable = gui.CheckBox(rl.Rectangle{X: bx, Y: y, Width: 14, Height: 14}, "Available Addressable Assets", e.showAvailable)
	y += rowHeight + 4
	if e.showAvailable {
		for _, entry := range e.Available() {
			label := entry.Address
			if label == "" {
				label = entry.Path
			}
			if e.row(bx, y, bw, label, false) {
				e.SpawnAsset(entry.GUID)
			}
			y += rowHeight
		}
	}

	y += 8
	rows := e.Instantiated()
	title := fmt.Sprintf("Instantiated Assets (%d)", len(rows))
	e.showInstantiated = gui.CheckBox(rl.Rectangle{X: bx, Y: y, Width: 14, Height: 14}, title, e.showInstantiated)
	y += rowHeight + 4
	if e.showInstantiated {
		for _, r := range rows {
			label := fmt.Sprintf("%s  %s", r.Object.Name, shortID(r.ID))
			if e.row(bx, y, bw, label, r.Object == e.Selected) {
				e.Selected = r.Object
			}
			y += rowHeight
		}
		if n := e.session.Pending(); n > 0 {
			rl.DrawText(fmt.Sprintf("%d loading...", n), int32(bx)+4, int32(y)+4, 12, colorTextMuted)
		}
	}
}

// row draws a clickable list row and reports whether it was clicked.
func (e *Editor) row(x, y, w float32, label string, selected bool) bool {
	bounds := rl.Rectangle{X: x, Y: y, Width: w, Height: rowHeight}
	hovered := rl.CheckCollisionPointRec(rl.GetMousePosition(), bounds)
	switch {
	case selected:
		rl.DrawRectangleRec(bounds, colorSelection)
	case hovered:
		rl.DrawRectangleRec(bounds, colorBgHover)
	}
	rl.DrawText(label, int32(x)+4, int32(y)+4, 12, colorTextSecondary)
	return hovered && rl.IsMouseButtonPressed(rl.MouseLeftButton)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (e *Editor) drawStatus() {
	h := int32(rl.GetScreenHeight())
	rl.DrawText(fmt.Sprintf("%s  |  %d objects", e.world.Scene.Name, len(e.world.Scene.GameObjects)), 10, 10, 16, colorTextSecondary)
	if e.Selected != nil {
		p := e.Selected.Transform.Position
		rl.DrawText(fmt.Sprintf("%s  (%.2f, %.2f, %.2f)", e.Selected.Name, p.X, p.Y, p.Z), 10, 30, 14, colorAccent)
	}
	if msg := e.Message(); msg != "" {
		rl.DrawText(msg, 10, h-26, 16, colorTextPrimary)
	}
}
