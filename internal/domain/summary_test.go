package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeParticipants(t *testing.T) {
	txs := []*Transaction{
		lentTx(t, "a", "2024-01-01", "Sam", "10", "0"),
		lentTx(t, "b", "2024-01-02", "Alex", "20", "25"),
		lentTx(t, "c", "2024-01-03", "Alex", "15", "5"),
		{ID: "plain", Date: mustDate(t, "2024-01-04"), Amount: dec("3")},
	}

	balances := SummarizeParticipants(txs)
	require.Len(t, balances, 2)

	alex := balances[0]
	assert.Equal(t, "Alex", alex.Name)
	assert.True(t, alex.TotalLent.Equal(dec("35")))
	assert.True(t, alex.TotalPaid.Equal(dec("30")))
	assert.True(t, alex.Outstanding.Equal(dec("10")))
	assert.True(t, alex.Credit.Equal(dec("5")))
	assert.True(t, alex.Net().Equal(dec("5")))
	assert.Equal(t, 1, alex.OpenItems)

	assert.Equal(t, "Sam", balances[1].Name)
	assert.Equal(t, 1, balances[1].OpenItems)
}

func TestCheckSplitConsistency(t *testing.T) {
	good := lentTx(t, "good", "2024-01-01", "Alex", "10", "4")
	assert.Empty(t, CheckSplitConsistency([]*Transaction{good}))

	bad := lentTx(t, "bad", "2024-01-01", "Alex", "10", "4")
	bad.SplitDetails.TotalLent = dec("11")
	item := bad.ItemFor("Alex")
	item.PaidAmount = dec("10")

	problems := CheckSplitConsistency([]*Transaction{bad})
	assert.Len(t, problems, 3)
	for _, p := range problems {
		assert.Equal(t, "bad", p.TransactionID)
	}
}
