package dataset

import (
	"testing"

	"github.com/fraudsight/fraudsight/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTransactions(t *testing.T) {
	path := writeFile(t, "step,customer,age,gender,zipcodeOri,merchant,zipMerchant,category,amount,fraud\n"+
		"0,'C123','4','M','28007','M456','28007','es_transportation',26.89,0\n"+
		"12,'C777','2','F','28007','M888','28007','es_travel',4500.10,1\n")

	transactions, err := LoadTransactions(path)
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	first := transactions[0]
	assert.Equal(t, 0, first.Step)
	assert.Equal(t, "C123", first.Customer)
	assert.Equal(t, "4", first.Age)
	assert.Equal(t, "es_transportation", first.Category)
	assert.InDelta(t, 26.89, first.Amount, 1e-9)
	assert.False(t, first.Fraud)
	assert.Equal(t, 0.0, first.Label())

	second := transactions[1]
	assert.True(t, second.Fraud)
	assert.Equal(t, 1.0, second.Label())
	assert.Equal(t, "es_travel", second.Category)
}

func TestLoadTransactions_MissingColumn(t *testing.T) {
	path := writeFile(t, "step,customer,age,gender,merchant,category,amount\n"+
		"0,'C123','4','M','M456','es_transportation',26.89\n")

	_, err := LoadTransactions(path)
	require.ErrorIs(t, err, common.ErrSchema)
	assert.Contains(t, err.Error(), "fraud")
}

func TestLoadTransactions_BadCell(t *testing.T) {
	path := writeFile(t, "step,customer,age,gender,zipcodeOri,merchant,zipMerchant,category,amount,fraud\n"+
		"0,'C123','4','M','28007','M456','28007','es_transportation',not-a-number,0\n")

	_, err := LoadTransactions(path)
	require.ErrorIs(t, err, common.ErrDataLoad)
}
