package listings

import (
	"testing"
	"time"

	"listing-manager/core/backpack"
	"listing-manager/core/currency"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reconcileFixture(t *testing.T) *Manager {
	t.Helper()
	old := time.Now().Add(-2 * time.Hour)
	remote := newFakeRemote()
	remote.setCurrent(
		buyKeyListing("440_k", old),
		sellListing("440_1", "1", old),
		sellListing("440_2", "2", old),
	)
	return newTestManager(t, remote)
}

func desiredSet() []CreateRequest {
	details := "buying keys"
	return []CreateRequest{
		// Unchanged against the cached buy order.
		{Intent: backpack.IntentBuy, SKU: "5021;6", Currencies: currency.New(0, 51.77), Details: details},
		// Price change.
		{Intent: backpack.IntentSell, AssetID: "1", Currencies: currency.New(2, 0), Details: "selling"},
		// Not listed yet.
		{Intent: backpack.IntentSell, AssetID: "3", Currencies: currency.New(1, 5)},
	}
}

func TestPlanReconcile(t *testing.T) {
	m := reconcileFixture(t)

	plan, err := m.PlanReconcile(desiredSet(), ReconcileOptions{})
	require.NoError(t, err)

	assert.Equal(t, PlanSummary{Create: 1, Update: 1, Remove: 0, Unchanged: 1}, plan.Summary)
	require.Len(t, plan.Actions, 2)

	update := plan.Actions[0]
	assert.Equal(t, ActionUpdate, update.Type)
	assert.Equal(t, "440_1", update.ListingID)
	assert.True(t, update.Request.Force)
	assert.Equal(t, []string{"price: 1 key -> 2 keys"}, update.Changes)

	create := plan.Actions[1]
	assert.Equal(t, ActionCreate, create.Type)
	assert.Equal(t, "1;3", string(create.Identity))
	assert.False(t, create.Request.Force)
}

func TestPlanReconcile_Prune(t *testing.T) {
	m := reconcileFixture(t)

	plan, err := m.PlanReconcile(desiredSet(), ReconcileOptions{Prune: true})
	require.NoError(t, err)

	assert.Equal(t, 1, plan.Summary.Remove)
	last := plan.Actions[len(plan.Actions)-1]
	assert.Equal(t, ActionRemove, last.Type)
	assert.Equal(t, "440_2", last.ListingID)
}

func TestPlanReconcile_InvalidEntry(t *testing.T) {
	m := reconcileFixture(t)

	_, err := m.PlanReconcile([]CreateRequest{{Intent: backpack.IntentBuy, SKU: "nope", Currencies: currency.New(1, 0)}}, ReconcileOptions{})
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestApplyPlan(t *testing.T) {
	m := reconcileFixture(t)

	opts := ReconcileOptions{Prune: true}
	plan, err := m.PlanReconcile(desiredSet(), opts)
	require.NoError(t, err)

	n, err := m.ApplyPlan(plan, opts)
	require.NoError(t, err)
	assert.Zero(t, n, "unconfirmed plans are not applied")

	opts.DryRun = true
	opts.Confirmed = true
	n, err = m.ApplyPlan(plan, opts)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, m.Queue().Creates)

	opts.DryRun = false
	n, err = m.ApplyPlan(plan, opts)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	q := m.Queue()
	assert.Len(t, q.Creates, 2)
	require.Len(t, q.Removes, 1)
	assert.Equal(t, "440_2", q.Removes[0].ListingID)
}
