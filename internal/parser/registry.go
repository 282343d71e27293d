// Package parser turns acquired statement text into structured transaction
// records. Parsers are registered by bank name at process start; lookup is
// name-indexed so new institutions can be added without touching callers.
package parser

import (
	"fmt"
	"sort"
	"sync"
)

// Transaction is one parsed statement line. Dates keep the source
// dd/mm/yyyy form; amounts are nil where the statement prints the "-"
// sentinel. Debit and credit are stored as printed, without reconciliation.
type Transaction struct {
	RefDate     string
	PostingDate string
	Description string
	Debit       *float64
	Credit      *float64
	Balance     *float64
}

// Result is the output of a successful parse: the free-text lines above the
// table header, and the transactions in document order.
type Result struct {
	Header       []string
	Transactions []Transaction
}

// Parser parses the full text of one statement document.
type Parser interface {
	Parse(text string) (*Result, error)
}

var (
	mu      sync.RWMutex
	parsers = make(map[string]Parser)
)

// Register makes a parser available under the given name. Registering the
// same name twice panics; it is a programming error.
func Register(name string, p Parser) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := parsers[name]; dup {
		panic(fmt.Sprintf("parser: duplicate registration for %q", name))
	}
	parsers[name] = p
}

// Get returns the parser registered under name.
func Get(name string) (Parser, error) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := parsers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrParserNotFound, name)
	}
	return p, nil
}

// Parse runs the named parser over text.
func Parse(name, text string) (*Result, error) {
	p, err := Get(name)
	if err != nil {
		return nil, err
	}
	return p.Parse(text)
}

// Names returns the registered parser names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(parsers))
	for name := range parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
