package flow

// InputKind distinguishes how an inbound event should be interpreted.
type InputKind int

const (
	// InputOpen starts or restarts a form (a command).
	InputOpen InputKind = iota
	// InputSelect is a button press carrying a token from a closed set.
	InputSelect
	// InputText is free text interpreted by the current step.
	InputText
	// InputCancel abandons the form from any state.
	InputCancel
)

// Input is one inbound conversation event.
type Input struct {
	Kind  InputKind
	Token string // for InputSelect
	Text  string // for InputText
}

// Option is one button the user can press next.
type Option struct {
	Label string
	Token string
}

// Reply is one outbound message: text plus zero or more rows of options.
type Reply struct {
	Text    string
	Options [][]Option
}

func text(s string) Reply { return Reply{Text: s} }

func row(opts ...Option) []Option { return opts }
