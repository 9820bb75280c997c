package cli

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"binderscope/internal/catalog"
	"binderscope/internal/diff"
	"binderscope/internal/secontext"
)

func sampleReports() []*diff.ServiceReport {
	return []*diff.ServiceReport{
		{
			Service: "activity",
			Project: "android.app.IActivityManager",
			Changes: []diff.TransactionChange{
				{
					Kind:         diff.ChangeModified,
					Number:       3,
					MethodName:   "startActivity",
					Arguments:    "Landroid/content/Intent;I",
					Returns:      "I",
					OldArguments: "Landroid/content/Intent;",
					OldReturns:   "I",
				},
				{
					Kind:       diff.ChangeNew,
					Number:     47,
					MethodName: "isUserRunning",
					Arguments:  "I",
					Returns:    "Z",
				},
			},
		},
		{
			Service:    "mount",
			Project:    "android.os.storage.IMountService",
			NewService: true,
			Changes: []diff.TransactionChange{
				{
					Kind:       diff.ChangeNew,
					Number:     1,
					MethodName: "mount",
					Arguments:  "Ljava/lang/String;",
					Returns:    "I",
				},
			},
		},
		{
			Service: "power",
			Project: "android.os.IPowerManager",
			Changes: []diff.TransactionChange{},
		},
	}
}

func TestRenderReport_Golden(t *testing.T) {
	var buf bytes.Buffer
	contexts := secontext.Map{"activity": "u:object_r:activity_service:s0"}

	for _, r := range sampleReports() {
		renderReport(&buf, r, false, contexts, true)
	}

	g := goldie.New(t)
	g.Assert(t, "diff_report", buf.Bytes())
}

func TestRenderReport_Brief(t *testing.T) {
	var buf bytes.Buffer

	for _, r := range sampleReports() {
		renderReport(&buf, r, true, nil, false)
	}

	want := `service activity
  [MOD] startActivity
  [NEW] isUserRunning
[NEW] service mount
  [NEW] mount
`
	require.Equal(t, want, buf.String())
}

func TestRenderReport_UnchangedServiceSilent(t *testing.T) {
	var buf bytes.Buffer
	renderReport(&buf, &diff.ServiceReport{Service: "power"}, false, nil, false)
	require.Empty(t, buf.String())
}

func TestRenderReport_NewServiceWithoutTransactions(t *testing.T) {
	var buf bytes.Buffer
	renderReport(&buf, &diff.ServiceReport{Service: "stub", NewService: true}, false, nil, false)
	require.Equal(t, "[NEW] service stub\n", buf.String())
}

func TestRenderServiceList_Golden(t *testing.T) {
	var buf bytes.Buffer
	services := []catalog.Service{
		{ID: 2, Name: "SurfaceFlinger"},
		{ID: 1, Name: "activity", Project: "android.app.IActivityManager"},
		{ID: 3, Name: "mount", Project: "android.os.storage.IMountService"},
	}
	contexts := secontext.Map{
		"activity": "u:object_r:activity_service:s0",
		"mount":    "u:object_r:mount_service:s0",
	}

	renderServiceList(&buf, services, contexts, true)

	g := goldie.New(t)
	g.Assert(t, "service_list", buf.Bytes())
}

func TestRenderServiceList_UnknownContextExplicit(t *testing.T) {
	var buf bytes.Buffer
	renderServiceList(&buf, []catalog.Service{{Name: "mystery"}}, nil, true)

	// The marker must be rendered, never an empty column
	require.Equal(t, "mystery\t-\tunknown\n", buf.String())
}

func TestRenderDump(t *testing.T) {
	var buf bytes.Buffer
	svc := catalog.Service{Name: "activity", Project: "android.app.IActivityManager"}
	txns := []catalog.Transaction{
		{Number: 1, MethodName: "unhandledBack", Arguments: "", Returns: "V"},
		{Number: 3, MethodName: "startActivity", Arguments: "Landroid/content/Intent;", Returns: "I"},
	}

	renderDump(&buf, svc, txns)

	want := `service activity (android.app.IActivityManager)
  0x1 unhandledBack()V
  0x3 startActivity(Landroid/content/Intent;)I
`
	require.Equal(t, want, buf.String())
}
