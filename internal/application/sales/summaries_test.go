package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/sales"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

func TestGetDailySummary_ExcluyeAnuladas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Refresco", "3.00", 50)

	f.sell(t, entity.PaymentCash, item(p, 1))
	f.sell(t, entity.PaymentCard, item(p, 2))
	anulada := f.sell(t, entity.PaymentCash, item(p, 10))
	_, err := f.sales.VoidSale(ctx, anulada.SaleID, "error")
	require.NoError(t, err)

	// otro día: no cuenta
	f.clock.Set(f.clock.Now().AddDate(0, 0, 1))
	f.sell(t, entity.PaymentCash, item(p, 5))

	sum, err := f.sales.GetDailySummary(ctx, time.Date(2026, time.October, 17, 23, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, "2026-10-17", sum.Date)
	assert.Equal(t, 2, sum.Summary.TotalSales)
	assert.True(t, decimal.RequireFromString("9.00").Equal(sum.Summary.TotalRevenue))
	assert.True(t, decimal.RequireFromString("4.50").Equal(sum.Summary.AverageSale))
	assert.Equal(t, map[string]int{
		entity.PaymentCash:        1,
		entity.PaymentCard:        1,
		entity.PaymentMobileMoney: 0,
		entity.PaymentOther:       0,
	}, sum.Summary.ByPaymentMethod)
}

func TestGetDailySummary_DiaSinVentas(t *testing.T) {
	f := newFixture(t)
	sum, err := f.sales.GetDailySummary(context.Background(), time.Date(2026, time.March, 1, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Summary.TotalSales)
	assert.True(t, sum.Summary.TotalRevenue.IsZero())
	assert.True(t, sum.Summary.AverageSale.IsZero())
	assert.Len(t, sum.Summary.ByPaymentMethod, 4)
}

func TestGetWeeklySummary_DesgloseDeSieteDias(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Pilas", "7.00", 50)

	start := time.Date(2026, time.October, 12, 9, 0, 0, 0, time.Local)
	f.clock.Set(start)
	f.sell(t, "", item(p, 1))
	f.clock.Set(start.AddDate(0, 0, 3))
	f.sell(t, "", item(p, 2))
	f.sell(t, "", item(p, 1))
	f.clock.Set(start.AddDate(0, 0, 7)) // fuera de la semana
	f.sell(t, "", item(p, 1))

	week, err := f.sales.GetWeeklySummary(ctx, start)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-12", week.StartDate)
	assert.Equal(t, "2026-10-18", week.EndDate)
	assert.Equal(t, 3, week.Summary.TotalSales)
	require.Len(t, week.Daily, 7)
	assert.Equal(t, 1, week.Daily[0].Count)
	assert.Equal(t, 0, week.Daily[1].Count)
	assert.Equal(t, 2, week.Daily[3].Count)
	assert.True(t, decimal.RequireFromString("21.00").Equal(week.Daily[3].Revenue))
	assert.Empty(t, week.TopProducts)
}

func TestGetMonthlySummary_ConTopProductos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "Arroz", "10.00", 100)
	b := f.product(t, "Frijol", "8.00", 100)

	f.sell(t, "", item(a, 1), item(b, 5))
	f.sell(t, "", item(a, 2))

	month, err := f.sales.GetMonthlySummary(ctx, 2026, time.October)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-01", month.StartDate)
	assert.Equal(t, "2026-10-31", month.EndDate)
	assert.Len(t, month.Daily, 31)
	assert.Equal(t, 2, month.Summary.TotalSales)
	require.Len(t, month.TopProducts, 2)
	assert.Equal(t, b.ID, month.TopProducts[0].ProductID)
	assert.Equal(t, 5, month.TopProducts[0].UnitsSold)
	assert.Equal(t, 2, month.TopProducts[1].SalesCount)

	_, err = f.sales.GetMonthlySummary(ctx, 2026, 13)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetTopSellingProducts_Periodos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	viejo := f.product(t, "Viejo", "1.00", 100)
	nuevo := f.product(t, "Nuevo", "1.00", 100)

	f.clock.Set(time.Date(2026, time.August, 1, 12, 0, 0, 0, time.Local))
	f.sell(t, "", item(viejo, 50))
	f.clock.Set(time.Date(2026, time.October, 17, 12, 0, 0, 0, time.Local))
	f.sell(t, "", item(nuevo, 3))

	top, err := f.sales.GetTopSellingProducts(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, sales.PeriodMonth, top.Period)
	require.Len(t, top.Products, 1)
	assert.Equal(t, nuevo.ID, top.Products[0].ProductID)

	top, err = f.sales.GetTopSellingProducts(ctx, sales.PeriodAll)
	require.NoError(t, err)
	require.Len(t, top.Products, 2)
	assert.Equal(t, viejo.ID, top.Products[0].ProductID)
	assert.True(t, decimal.RequireFromString("1.00").Equal(top.Products[0].AveragePrice))

	top, err = f.sales.GetTopSellingProducts(ctx, sales.PeriodToday)
	require.NoError(t, err)
	assert.Len(t, top.Products, 1)

	_, err = f.sales.GetTopSellingProducts(ctx, "year")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetTopSellingProducts_IgnoraAnuladas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Anulado", "1.00", 10)
	res := f.sell(t, "", item(p, 4))
	_, err := f.sales.VoidSale(ctx, res.SaleID, "x")
	require.NoError(t, err)

	top, err := f.sales.GetTopSellingProducts(ctx, sales.PeriodAll)
	require.NoError(t, err)
	assert.Empty(t, top.Products)
}

func TestGetSalesByUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Lápiz", "0.80", 40)

	f.sell(t, "", item(p, 5))
	_, err := f.sales.CreateSale(ctx, 99, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{item(p, 1)}})
	require.NoError(t, err)

	day := f.clock.Now()
	out, err := f.sales.GetSalesByUser(ctx, cashierID, &day, &day)
	require.NoError(t, err)
	assert.Equal(t, cashierID, out.CashierID)
	assert.Equal(t, 1, out.Summary.TotalSales)
	require.Len(t, out.Sales, 1)
	assert.True(t, decimal.RequireFromString("4.00").Equal(out.Sales[0].TotalAmount))

	_, err = f.sales.GetSalesByUser(ctx, 0, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
