package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"listing-manager/core/backpack"
	"listing-manager/feature/listings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		in      string
		want    backpack.Intent
		wantErr bool
	}{
		{"buy", backpack.IntentBuy, false},
		{" SELL ", backpack.IntentSell, false},
		{"0", backpack.IntentBuy, false},
		{"1", backpack.IntentSell, false},
		{"trade", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseIntent(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadDesired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desired.json")
	body := `[{"intent": 0, "sku": "5021;6", "currencies": {"metal": 51.77}},
	          {"intent": 1, "id": "9001", "currencies": {"keys": 1}, "force": true}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	desired, err := readDesired(path)
	require.NoError(t, err)
	require.Len(t, desired, 2)
	assert.Equal(t, "5021;6", desired[0].SKU)
	assert.Equal(t, 51.77, desired[0].Currencies.Metal)
	assert.Equal(t, backpack.IntentSell, desired[1].Intent)
	assert.Equal(t, "9001", desired[1].AssetID)
	assert.True(t, desired[1].Force)

	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = readDesired(path)
	assert.ErrorContains(t, err, "failed to parse desired listings")

	_, err = readDesired(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read desired listings")
}

func TestConfirmDestructiveAction_Yes(t *testing.T) {
	yesConfirm = true
	t.Cleanup(func() { yesConfirm = false })
	assert.True(t, confirmDestructiveAction())
}

func TestPrintReconcileReport(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := zap.New(core)

	plan := &listings.Plan{Summary: listings.PlanSummary{Create: 7}}
	for i := 0; i < 7; i++ {
		plan.Actions = append(plan.Actions, listings.PlanAction{Type: listings.ActionCreate})
	}

	printReconcileReport(l, plan)

	assert.Equal(t, 1, logs.FilterMessage("Reconciliation report").Len())
	assert.Equal(t, 5, logs.FilterMessage("Sample action").Len())
	hidden := logs.FilterMessage("Additional actions not shown").All()
	require.Len(t, hidden, 1)
	assert.Equal(t, int64(2), hidden[0].ContextMap()["count"])
}
