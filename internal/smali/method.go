package smali

import (
	"fmt"
	"regexp"
	"strings"
)

// MethodBlock is the span of a proxy method from its declaration line
// through the .prologue marker, split into the signature line and the
// body lines between it and the marker.
type MethodBlock struct {
	Signature string
	Body      []string
}

// FindMethodBlock locates the public method with the given name in a
// Stub$Proxy class. The match spans from the .method line to the first
// .prologue line after it, newlines included. Returns false when the
// proxy declares no such method.
func FindMethodBlock(text, name string) (MethodBlock, bool) {
	// (?m) anchors ^ at line starts; (?s) lets .*? cross newlines up to
	// the prologue marker.
	re := regexp.MustCompile(`(?ms)^\s*\.method public (?:final )?` + regexp.QuoteMeta(name) + `\(.*?^\s*\.prologue\s*$`)
	block := re.FindString(text)
	if block == "" {
		return MethodBlock{}, false
	}

	lines := strings.Split(block, "\n")
	body := make([]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		body = append(body, strings.TrimRight(line, "\r"))
	}

	return MethodBlock{
		Signature: strings.TrimSpace(strings.TrimRight(lines[0], "\r")),
		Body:      body,
	}, true
}

// ParseSignature splits a proxy method declaration line into its raw
// parameter and return-type portions, e.g.
//
//	.method public startActivity(Landroid/content/Intent;I)I
//
// yields ("Landroid/content/Intent;I", "I"). Both portions are kept as
// opaque descriptor strings; two catalogs must format them identically
// for an equality comparison to hold.
func ParseSignature(signature, name string) (arguments, returns string, err error) {
	idx := strings.Index(signature, name+"(")
	if idx < 0 {
		return "", "", fmt.Errorf("signature %q: method %s not found", signature, name)
	}

	raw := signature[idx+len(name):] // "(params)returnType"
	closing := strings.Index(raw, ")")
	if closing < 0 {
		return "", "", fmt.Errorf("signature %q: unterminated parameter list", signature)
	}

	arguments = strings.TrimPrefix(raw[:closing], "(")
	returns = raw[closing+1:]
	return arguments, returns, nil
}
