package model

// Action is the operating mode for one trading interval.
// Keep these values stable; they are written to CSV and API payloads.
type Action string

const (
	ActionCharge    Action = "CHARGE"
	ActionDischarge Action = "DISCHARGE"
	ActionIdle      Action = "IDLE"
)

// Decision is one optimizer output interval: an action plus a requested
// power magnitude. The magnitude is measured where the power limit applies,
// grid draw when charging and storage draw when discharging.
type Decision struct {
	Action  Action
	PowerMW float64
}

// Idle is the zero-power decision.
func Idle() Decision { return Decision{Action: ActionIdle} }
