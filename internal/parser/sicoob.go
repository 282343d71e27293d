package parser

// SicoobParser parses Sicoob current-account statements.
type SicoobParser struct{}

// Parse implements Parser.
func (SicoobParser) Parse(text string) (*Result, error) {
	return parseTable(text)
}

func init() {
	Register("sicoob", SicoobParser{})
}
