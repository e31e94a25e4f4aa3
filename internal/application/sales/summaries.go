package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// Períodos aceptados por GetTopSellingProducts.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodAll   = "all"
)

const (
	topSellingLimit = 20
	monthlyTopLimit = 10
	dateLayout      = "2006-01-02"
)

// GetDailySummary totales de ventas confirmadas del día calendario de date.
func (uc *SalesUseCase) GetDailySummary(ctx context.Context, date time.Time) (*dto.DailySummaryResponse, error) {
	from := startOfDay(date)
	to := from.AddDate(0, 0, 1)
	totals, err := uc.reports.SalesTotals(ctx, repository.SaleFilter{From: &from, To: &to})
	if err != nil {
		return nil, domain.Storage("daily summary", err)
	}
	return &dto.DailySummaryResponse{
		Date:    from.Format(dateLayout),
		Summary: dto.SummaryFromTotals(totals),
	}, nil
}

// GetWeeklySummary siete días a partir de weekStart con desglose diario.
func (uc *SalesUseCase) GetWeeklySummary(ctx context.Context, weekStart time.Time) (*dto.PeriodSummaryResponse, error) {
	from := startOfDay(weekStart)
	return uc.periodSummary(ctx, from, from.AddDate(0, 0, 7), 0)
}

// GetMonthlySummary mes calendario con desglose diario y los productos más vendidos.
func (uc *SalesUseCase) GetMonthlySummary(ctx context.Context, year int, month time.Month) (*dto.PeriodSummaryResponse, error) {
	if month < time.January || month > time.December {
		return nil, domain.Invalid("month", "debe estar entre 1 y 12")
	}
	if year < 2000 || year > 9999 {
		return nil, domain.Invalid("year", "fuera de rango")
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	return uc.periodSummary(ctx, from, from.AddDate(0, 1, 0), monthlyTopLimit)
}

func (uc *SalesUseCase) periodSummary(ctx context.Context, from, to time.Time, topLimit int) (*dto.PeriodSummaryResponse, error) {
	filter := repository.SaleFilter{From: &from, To: &to}
	totals, err := uc.reports.SalesTotals(ctx, filter)
	if err != nil {
		return nil, domain.Storage("period summary", err)
	}
	filter.Status = entity.SaleStatusCommitted
	rows, err := uc.sales.List(ctx, filter)
	if err != nil {
		return nil, domain.Storage("period sales", err)
	}
	out := &dto.PeriodSummaryResponse{
		StartDate: from.Format(dateLayout),
		EndDate:   to.AddDate(0, 0, -1).Format(dateLayout),
		Summary:   dto.SummaryFromTotals(totals),
		Daily:     dailyBreakdown(rows, from, to),
	}
	if topLimit > 0 {
		top, err := uc.reports.TopProducts(ctx, &from, &to, topLimit)
		if err != nil {
			return nil, domain.Storage("top products", err)
		}
		out.TopProducts = dto.TopProductsFromResults(top)
	}
	return out, nil
}

// dailyBreakdown agrupa por día local; incluye los días sin ventas.
func dailyBreakdown(rows []repository.SaleRow, from, to time.Time) []dto.DailySales {
	index := make(map[string]int)
	out := make([]dto.DailySales, 0, 31)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		index[key] = len(out)
		out = append(out, dto.DailySales{Date: key, Revenue: decimal.Zero})
	}
	for _, row := range rows {
		key := row.Sale.CreatedAt.In(from.Location()).Format(dateLayout)
		i, ok := index[key]
		if !ok {
			continue
		}
		out[i].Count++
		out[i].Revenue = out[i].Revenue.Add(row.Sale.TotalAmount)
	}
	return out
}

// GetSalesByUser ventas de un cajero en el rango (fechas inclusivas, opcionales).
func (uc *SalesUseCase) GetSalesByUser(ctx context.Context, cashierID int64, start, end *time.Time) (*dto.CashierSalesResponse, error) {
	if cashierID <= 0 {
		return nil, domain.Invalid("cashier_id", "es obligatorio")
	}
	f := toSaleFilter(start, end)
	f.CashierID = &cashierID
	totals, err := uc.reports.SalesTotals(ctx, f)
	if err != nil {
		return nil, domain.Storage("cashier summary", err)
	}
	rows, err := uc.sales.List(ctx, f)
	if err != nil {
		return nil, domain.Storage("cashier sales", err)
	}
	return &dto.CashierSalesResponse{
		CashierID: cashierID,
		Summary:   dto.SummaryFromTotals(totals),
		Sales:     dto.SalesFromRows(rows),
	}, nil
}

// GetTopSellingProducts los 20 productos con más unidades vendidas en el período
// (today, week = últimos 7 días, month = últimos 30 días, all). Vacío equivale a month.
func (uc *SalesUseCase) GetTopSellingProducts(ctx context.Context, period string) (*dto.TopProductsResponse, error) {
	if period == "" {
		period = PeriodMonth
	}
	now := uc.now()
	var from *time.Time
	switch period {
	case PeriodToday:
		t := startOfDay(now)
		from = &t
	case PeriodWeek:
		t := now.AddDate(0, 0, -7)
		from = &t
	case PeriodMonth:
		t := now.AddDate(0, 0, -30)
		from = &t
	case PeriodAll:
	default:
		return nil, domain.Invalid("period", "debe ser today, week, month o all")
	}
	top, err := uc.reports.TopProducts(ctx, from, nil, topSellingLimit)
	if err != nil {
		return nil, domain.Storage("top products", err)
	}
	return &dto.TopProductsResponse{Period: period, Products: dto.TopProductsFromResults(top)}, nil
}
