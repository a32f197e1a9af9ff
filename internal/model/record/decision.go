package record

// Action is one structured move in a tactical decision.
type Action struct {
	Type      string `json:"type"`
	Direction string `json:"direction,omitempty"`
	Target    string `json:"target,omitempty"`
}

// Decision is the structured payload the model is trained to emit: free-text
// reasoning plus up to two actions.
type Decision struct {
	Thinking     string  `json:"thinking"`
	FirstAction  *Action `json:"firstAction,omitempty"`
	SecondAction *Action `json:"secondAction,omitempty"`
}
