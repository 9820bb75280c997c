package smali

import "regexp"

// Matches e.g.
//
//	.param p1, "intent"    # Landroid/content/Intent;
var paramNameRe = regexp.MustCompile(`^\s*\.param\s+p\d+,\s*"([^"]*)"`)

// ScanParamNames collects the quoted parameter names annotated in a
// method block, in declaration order. The list is informational: the
// raw descriptor string from the signature is what gets persisted, and
// the two need not align one-to-one.
func ScanParamNames(body []string) []string {
	var names []string
	for _, line := range body {
		if m := paramNameRe.FindStringSubmatch(line); m != nil {
			names = append(names, m[1])
		}
	}
	return names
}
