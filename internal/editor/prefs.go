package editor

import (
	"encoding/json"
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"addrscene/internal/engine"
)

// EditorPrefs holds persistent editor preferences saved between sessions
type EditorPrefs struct {
	WindowWidth      int        `json:"windowWidth"`
	WindowHeight     int        `json:"windowHeight"`
	CameraTarget     rl.Vector3 `json:"cameraTarget"`
	CameraDistance   float32    `json:"cameraDistance"`
	CameraYaw        float32    `json:"cameraYaw"`
	CameraPitch      float32    `json:"cameraPitch"`
	ScenePath        string     `json:"scenePath"`
	ShowAvailable    bool       `json:"showAvailable"`
	ShowInstantiated bool       `json:"showInstantiated"`
	SelectedName     string     `json:"selectedName,omitempty"`
}

const editorPrefsFile = ".editor_prefs.json"

// LoadEditorPrefs loads editor preferences from disk. A missing or
// unreadable file yields nil.
func LoadEditorPrefs(path string) *EditorPrefs {
	if path == "" {
		path = editorPrefsFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var prefs EditorPrefs
	if err := json.Unmarshal(data, &prefs); err != nil {
		fmt.Printf("Failed to parse editor prefs: %v\n", err)
		return nil
	}
	return &prefs
}

func SavePrefs(path string, prefs EditorPrefs) error {
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal editor prefs: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("save editor prefs: %w", err)
	}
	return nil
}

func (e *Editor) snapshotPrefs(width, height int) EditorPrefs {
	return EditorPrefs{
		WindowWidth:      width,
		WindowHeight:     height,
		CameraTarget:     e.camera.Target,
		CameraDistance:   e.camera.Distance,
		CameraYaw:        e.camera.Yaw,
		CameraPitch:      e.camera.Pitch,
		ScenePath:        e.scenePath,
		ShowAvailable:    e.showAvailable,
		ShowInstantiated: e.showInstantiated,
		SelectedName:     e.selectedName(),
	}
}

func (e *Editor) selectedName() string {
	if !engine.Alive(e.Selected) {
		return ""
	}
	return e.Selected.Name
}

// ApplyPrefs applies loaded preferences to the editor
func (e *Editor) ApplyPrefs(prefs *EditorPrefs) {
	if prefs == nil {
		return
	}

	e.camera.Target = prefs.CameraTarget
	e.camera.Yaw = prefs.CameraYaw
	e.camera.Pitch = prefs.CameraPitch
	if prefs.CameraDistance > 0 {
		e.camera.Distance = prefs.CameraDistance
	}
	e.showAvailable = prefs.ShowAvailable
	e.showInstantiated = prefs.ShowInstantiated
	if prefs.SelectedName != "" {
		e.Selected = e.world.Scene.FindByName(prefs.SelectedName)
	}
}
