package smali

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanParamNames_DeclarationOrder(t *testing.T) {
	body := []string{
		"    .registers 9",
		`    .param p1, "intent"    # Landroid/content/Intent;`,
		`    .param p2, "flags"    # I`,
		"",
		"    .prologue",
	}
	require.Equal(t, []string{"intent", "flags"}, ScanParamNames(body))
}

func TestScanParamNames_NoAnnotations(t *testing.T) {
	body := []string{
		"    .registers 5",
		"    .prologue",
	}
	require.Nil(t, ScanParamNames(body))
}

func TestScanParamNames_IgnoresUnquotedParams(t *testing.T) {
	// Registers-only .param lines (no debug info) carry no name
	body := []string{
		"    .param p1    # I",
		`    .param p2, "named"    # J`,
	}
	require.Equal(t, []string{"named"}, ScanParamNames(body))
}
