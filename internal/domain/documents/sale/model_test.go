package sale

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda/internal/core/apperror"
	"tienda/internal/core/id"
	"tienda/internal/core/types"
)

func TestAddLine_TotalTracksLines(t *testing.T) {
	doc := NewSale("user-1")

	doc.AddLine(id.New(), 4, types.MustMoney("10.00"))
	assert.True(t, doc.Total.Equal(types.MustMoney("40.00")))

	doc.AddLine(id.New(), 1, types.MustMoney("0.99"))
	assert.True(t, doc.Total.Equal(types.MustMoney("40.99")), "total = %s", doc.Total)
	assert.Equal(t, 2, doc.Lines[1].LineNo)
}

func TestValidate_RequiresLines(t *testing.T) {
	ctx := context.Background()

	doc := NewSale("")
	err := doc.Validate(ctx)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeEmptyDocument))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 406, appErr.HTTPStatus)

	doc.AddLine(id.New(), 1, types.MustMoney("2.50"))
	assert.NoError(t, doc.Validate(ctx))
}
