package zonewidget

// Mode controls whether the widget accepts mutations.
type Mode string

const (
	ModeEdit Mode = "edit"
	ModeView Mode = "view"
)

// ParseMode normalizes arbitrary input: anything other than the view token
// means edit.
func ParseMode(s string) Mode {
	if s == string(ModeView) {
		return ModeView
	}
	return ModeEdit
}

// Op names a store operation for authorization purposes.
type Op string

const (
	OpCreate  Op = "create"
	OpDelete  Op = "delete"
	OpImport  Op = "import"
	OpClear   Op = "clear"
	OpReplace Op = "replace"
	OpRead    Op = "read"
	OpExport  Op = "export"
	OpFocus   Op = "focus"
)

// Mutates reports whether the operation changes the zone set.
func (o Op) Mutates() bool {
	switch o {
	case OpCreate, OpDelete, OpImport, OpClear, OpReplace:
		return true
	}
	return false
}

// Gate is the single authorization choke-point for store mutations. Every
// mutating entry point in the widgets consults it; read-only operations pass
// in any mode.
type Gate struct {
	mode Mode
}

func NewGate(m Mode) *Gate {
	return &Gate{mode: ParseMode(string(m))}
}

func (g *Gate) Current() Mode {
	return g.mode
}

// Set always succeeds; unknown tokens normalize to edit.
func (g *Gate) Set(m Mode) {
	g.mode = ParseMode(string(m))
}

func (g *Gate) Authorize(op Op) bool {
	if !op.Mutates() {
		return true
	}
	return g.mode == ModeEdit
}
