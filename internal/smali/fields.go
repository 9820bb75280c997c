package smali

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// FieldDecl is one transaction constant recovered from a Stub class:
// the method name after the TRANSACTION_ prefix and the assigned code.
type FieldDecl struct {
	Name   string
	Number int64
}

// Matches e.g.
//
//	.field static final TRANSACTION_startActivity:I = 0x3
//
// The access-modifier prefix varies across baksmali versions, so only
// the "static final" core is required.
var fieldDeclRe = regexp.MustCompile(`^\s*\.field\s+(?:[a-z]+\s+)*static\s+final\s+TRANSACTION_(\w+):I\s*=\s*(-?0x[0-9a-fA-F]+)\s*$`)

// ScanTransactionFields scans a Stub class line-by-line for
// TRANSACTION_* integer constant declarations. Results preserve file
// order, which need not be numeric order; duplicate numbers are kept.
func ScanTransactionFields(r io.Reader) ([]FieldDecl, error) {
	var decls []FieldDecl

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m := fieldDeclRe.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}

		number, err := parseHexLiteral(m[2])
		if err != nil {
			return nil, fmt.Errorf("transaction field %s: %w", m[1], err)
		}

		decls = append(decls, FieldDecl{Name: m[1], Number: number})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan stub: %w", err)
	}

	return decls, nil
}

// parseHexLiteral parses a smali hex literal such as 0x1f or -0x1.
// No magnitude validation: transaction codes are whatever the image says.
func parseHexLiteral(lit string) (int64, error) {
	neg := strings.HasPrefix(lit, "-")
	digits := strings.TrimPrefix(strings.TrimPrefix(lit, "-"), "0x")

	n, err := strconv.ParseInt(digits, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse hex literal %q: %w", lit, err)
	}
	if neg {
		n = -n
	}
	return n, nil
}
