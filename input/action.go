// Package input maps terminal key events to camera actions
package input

import "fmt"

// Action is a semantic command produced by a key press
type Action uint8

const (
	ActionNone Action = iota
	ActionForward
	ActionBackward
	ActionStrafeLeft
	ActionStrafeRight
	ActionTurnLeft
	ActionTurnRight
	ActionCycleView
	ActionToggleDebug
	ActionToggleMap
	ActionQuit

	actionCount
)

var actionNames = [actionCount]string{
	ActionNone:        "none",
	ActionForward:     "forward",
	ActionBackward:    "backward",
	ActionStrafeLeft:  "strafe_left",
	ActionStrafeRight: "strafe_right",
	ActionTurnLeft:    "turn_left",
	ActionTurnRight:   "turn_right",
	ActionCycleView:   "cycle_view",
	ActionToggleDebug: "toggle_debug",
	ActionToggleMap:   "toggle_map",
	ActionQuit:        "quit",
}

var actionByName map[string]Action

func init() {
	actionByName = make(map[string]Action, actionCount)
	for a, name := range actionNames {
		actionByName[name] = Action(a)
	}
}

func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// ActionByName resolves a snake_case action name
func ActionByName(name string) (Action, bool) {
	a, ok := actionByName[name]
	return a, ok
}

// IsMovement reports whether the action changes the camera pose
func (a Action) IsMovement() bool {
	return a >= ActionForward && a <= ActionTurnRight
}
