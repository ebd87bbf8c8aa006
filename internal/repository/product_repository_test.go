package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_DeleteCascadesPurchases(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM purchases WHERE product_id = \\$1").
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("DELETE FROM products WHERE id = \\$1").
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepository_SumAmount(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPurchaseRepository(db)

	mock.ExpectQuery("COALESCE\\(SUM\\(amount_spent\\), 0\\) FROM purchases").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("0"))

	total, err := repo.SumAmount(context.Background())
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestInternalMetricsRepository_GetFirstMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewInternalMetricsRepository(db)

	mock.ExpectQuery("FROM internal_metrics ORDER BY id LIMIT 1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetFirst(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}
