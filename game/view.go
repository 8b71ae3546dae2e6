package game

import "fmt"

// ViewMode selects which projections are drawn
type ViewMode uint8

const (
	View3D ViewMode = iota
	View2D
	ViewBoth
)

// ParseViewMode accepts "3d", "2d" or "both"
func ParseViewMode(s string) (ViewMode, error) {
	switch s {
	case "3d":
		return View3D, nil
	case "2d":
		return View2D, nil
	case "both":
		return ViewBoth, nil
	}
	return View3D, fmt.Errorf("unknown view mode %q", s)
}

// Next cycles 3D -> 2D -> both -> 3D
func (v ViewMode) Next() ViewMode {
	return (v + 1) % 3
}

func (v ViewMode) String() string {
	switch v {
	case View2D:
		return "2d"
	case ViewBoth:
		return "both"
	default:
		return "3d"
	}
}

// Label is the HUD form
func (v ViewMode) Label() string {
	switch v {
	case View2D:
		return "2D"
	case ViewBoth:
		return "2D+3D"
	default:
		return "3D"
	}
}

// Shows3D reports whether the first-person scene is drawn
func (v ViewMode) Shows3D() bool { return v != View2D }
