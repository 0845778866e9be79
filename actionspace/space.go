package actionspace

// Describe renders id as UCI text, or "-" when the target is off the board
// or the id is out of range.
func Describe(id ActionID) string {
	d, err := Decode(id)
	if err != nil {
		return "-"
	}
	s, err := d.UCI()
	if err != nil {
		return "-"
	}
	return s
}

// Table decodes the whole action space. Entry i describes ActionID(i).
func Table() []Decoded {
	table := make([]Decoded, ActionSpaceLen)
	for i := range table {
		// Decode cannot fail below ActionSpaceLen.
		table[i], _ = Decode(ActionID(i))
	}
	return table
}
