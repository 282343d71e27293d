package parser

import (
	"regexp"
	"strings"

	"github.com/OdivalPereira/loan-parser/internal/normalizer"
)

var (
	// dateTokenRe decides whether a line is a candidate data line at all.
	dateTokenRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)

	// dataLineRe is the positional table grammar:
	// reference date, posting date, description, debit, credit, balance.
	// Debit and credit are either a monetary token or the "-" sentinel;
	// balance is always monetary.
	dataLineRe = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+(\d{2}/\d{2}/\d{4})\s+(.+?)\s+(-|[\d.,]+)\s+(-|[\d.,]+)\s+([\d.,]+)$`)
)

// headerTokens identify the transaction table header line. Both must appear,
// case-insensitively, in any order.
var headerTokens = []string{"data ref", "data lanc"}

// parseTable implements the statement table layout shared by the Brazilian
// bank statements: free-text header lines, one labelled header row, then one
// positional data line per transaction. Lines after the header that do not
// start with a date token (continuation text, footers) are skipped; a
// date-led line that does not match the grammar aborts the parse.
func parseTable(text string) (*Result, error) {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}

	headerIdx := -1
	for i, line := range lines {
		if isTableHeader(line) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrHeaderNotFound
	}

	result := &Result{Header: lines[:headerIdx]}
	for _, line := range lines[headerIdx+1:] {
		if !dateTokenRe.MatchString(line) {
			continue
		}

		m := dataLineRe.FindStringSubmatch(line)
		if m == nil {
			return nil, &MalformedLineError{Line: line}
		}

		debit, err := normalizer.ParseAmount(m[4])
		if err != nil {
			return nil, err
		}
		credit, err := normalizer.ParseAmount(m[5])
		if err != nil {
			return nil, err
		}
		balance, err := normalizer.ParseAmount(m[6])
		if err != nil {
			return nil, err
		}

		result.Transactions = append(result.Transactions, Transaction{
			RefDate:     m[1],
			PostingDate: m[2],
			Description: m[3],
			Debit:       debit,
			Credit:      credit,
			Balance:     balance,
		})
	}

	if len(result.Transactions) == 0 {
		return nil, ErrEmptyStatement
	}
	return result, nil
}

func isTableHeader(line string) bool {
	lower := strings.ToLower(line)
	for _, token := range headerTokens {
		if !strings.Contains(lower, token) {
			return false
		}
	}
	return true
}
