package purchase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda/internal/core/apperror"
	"tienda/internal/core/id"
	"tienda/internal/core/types"
)

func TestAddLine_NumbersAndTotal(t *testing.T) {
	doc := NewPurchase("Distribuidora Sur", "user-1")

	p1 := id.New()
	p2 := id.New()
	doc.AddLine(p1, 5, types.MustMoney("10.00"))
	doc.AddLine(p2, 2, types.MustMoney("4.75"))

	require.Len(t, doc.Lines, 2)
	assert.Equal(t, 1, doc.Lines[0].LineNo)
	assert.Equal(t, 2, doc.Lines[1].LineNo)
	assert.False(t, id.IsNil(doc.Lines[0].LineID))

	// 5*10.00 + 2*4.75
	assert.True(t, doc.Total.Equal(types.MustMoney("59.50")), "total = %s", doc.Total)
}

func TestPostingLines_PreservesOrder(t *testing.T) {
	doc := NewPurchase("Distribuidora Sur", "")

	p1 := id.New()
	doc.AddLine(p1, 3, types.MustMoney("1.10"))
	doc.AddLine(p1, 1, types.MustMoney("1.20"))

	lines := doc.PostingLines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(3), lines[0].Quantity)
	assert.Equal(t, int64(1), lines[1].Quantity)
	assert.Equal(t, p1, lines[0].ProductID)
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	doc := NewPurchase("", "")
	doc.AddLine(id.New(), 1, types.MustMoney("1.00"))
	err := doc.Validate(ctx)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	empty := NewPurchase("Distribuidora Sur", "")
	err = empty.Validate(ctx)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeEmptyDocument))

	ok := NewPurchase("Distribuidora Sur", "")
	ok.AddLine(id.New(), 1, types.MustMoney("1.00"))
	assert.NoError(t, ok.Validate(ctx))
}
