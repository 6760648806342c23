package train

// State is a lifecycle state of a Driver run.
type State int

const (
	Initializing State = iota
	Fitting
	Validating
	Checkpointing
	Done
	Failed
)

// String returns the lower-case state name.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

var stateNames = map[State]string{
	Initializing:  "initializing",
	Fitting:       "fitting",
	Validating:    "validating",
	Checkpointing: "checkpointing",
	Done:          "done",
	Failed:        "failed",
}

// IsTerminal reports whether no further transition is possible.
func (s State) IsTerminal() bool {
	return s == Done || s == Failed
}

// CanTransitionTo reports whether target may follow s.
func (s State) CanTransitionTo(target State) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

var transitions = map[State][]State{
	Initializing:  {Fitting, Failed},
	Fitting:       {Validating, Failed},
	Validating:    {Checkpointing, Fitting, Done, Failed},
	Checkpointing: {Fitting, Done, Failed},
	Done:          {},
	Failed:        {},
}
