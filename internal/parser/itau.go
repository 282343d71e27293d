package parser

// ItauParser parses Itaú current-account statements. The layout shares the
// Sicoob table grammar; the registration exists so callers can request the
// institution by name.
type ItauParser struct{}

// Parse implements Parser.
func (ItauParser) Parse(text string) (*Result, error) {
	return parseTable(text)
}

func init() {
	Register("itau", ItauParser{})
}
