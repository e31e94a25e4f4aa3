package sales

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// SalesUseCase orquesta ventas: cabecera, líneas, descuento de inventario y número de
// recibo en una única transacción. Anular y eliminar devuelven el stock en la misma forma.
type SalesUseCase struct {
	txRunner TxRunner
	ledger   StockLedger
	sales    repository.SaleRepository
	reports  repository.ReportRepository
	settings repository.SettingsRepository
	receipts *ReceiptNumberer
	log      zerolog.Logger
	now      func() time.Time
}

// Option configura SalesUseCase.
type Option func(*SalesUseCase)

// WithClock reemplaza el reloj (pruebas de cambio de día).
func WithClock(now func() time.Time) Option {
	return func(uc *SalesUseCase) { uc.now = now }
}

// NewSalesUseCase construye el caso de uso. sales, reports y settings se usan para lecturas
// fuera de transacción.
func NewSalesUseCase(
	txRunner TxRunner,
	ledger StockLedger,
	sales repository.SaleRepository,
	reports repository.ReportRepository,
	settings repository.SettingsRepository,
	receipts *ReceiptNumberer,
	log zerolog.Logger,
	opts ...Option,
) *SalesUseCase {
	if receipts == nil {
		receipts = NewReceiptNumberer(DefaultReceiptPrefix)
	}
	uc := &SalesUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		sales:    sales,
		reports:  reports,
		settings: settings,
		receipts: receipts,
		log:      log.With().Str("component", "sales").Logger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// CreateSale registra la venta completa o nada. El contexto del caller se desacopla de
// la cancelación: una vez iniciada, la transacción termina en commit o rollback.
func (uc *SalesUseCase) CreateSale(ctx context.Context, cashierID int64, in dto.CreateSaleRequest) (*dto.CreateSaleResponse, error) {
	if cashierID <= 0 {
		return nil, domain.Invalid("cashier_id", "es obligatorio")
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("items", "la venta debe tener al menos una línea")
	}
	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		method = entity.PaymentCash
	}
	if !entity.IsValidPaymentMethod(method) {
		return nil, domain.Invalid("payment_method", "medio de pago no soportado")
	}

	lines := make([]*entity.SaleLine, 0, len(in.Items))
	total := decimal.Zero
	for _, item := range in.Items {
		if item.ProductID <= 0 {
			return nil, domain.Invalid("product_id", "es obligatorio")
		}
		if item.Quantity <= 0 {
			return nil, domain.Invalid("quantity", "debe ser mayor que cero")
		}
		if item.UnitPrice.IsNegative() {
			return nil, domain.Invalid("unit_price", "no puede ser negativo")
		}
		if !item.UnitPrice.Equal(item.UnitPrice.Round(2)) {
			return nil, domain.Invalid("unit_price", "admite máximo 2 decimales")
		}
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)
		lines = append(lines, &entity.SaleLine{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: lineTotal,
		})
	}

	txCtx := context.WithoutCancel(ctx)
	now := uc.now()
	var sale *entity.Sale
	err := uc.txRunner.RunSale(txCtx, func(r TxRepos) error {
		number, err := uc.receipts.Next(txCtx, r.Sales, r.Sequences, now)
		if err != nil {
			return err
		}
		sale = &entity.Sale{
			CashierID:     cashierID,
			TotalAmount:   total,
			PaymentMethod: method,
			ReceiptNumber: number,
			Notes:         strings.TrimSpace(in.Notes),
			Status:        entity.SaleStatusCommitted,
			CreatedAt:     now,
		}
		if err := r.Sales.Create(txCtx, sale); err != nil {
			return err
		}
		for _, line := range lines {
			if err := uc.ledger.ReduceStockInTx(txCtx, r.Inventory, line.ProductID, line.Quantity, sale.ID); err != nil {
				return err
			}
			line.SaleID = sale.ID
			if err := r.Sales.CreateLine(txCtx, line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Int64("cashier_id", cashierID).Int("lines", len(lines)).Msg("venta revertida")
		return nil, err
	}

	uc.log.Info().
		Int64("sale_id", sale.ID).
		Str("receipt_number", sale.ReceiptNumber).
		Str("total", sale.TotalAmount.StringFixed(2)).
		Str("payment_method", method).
		Msg("venta registrada")
	return &dto.CreateSaleResponse{
		SaleID:        sale.ID,
		ReceiptNumber: sale.ReceiptNumber,
		TotalAmount:   sale.TotalAmount,
	}, nil
}

// VoidSale anula la venta: devuelve el stock con movimientos "return" y marca la venta.
// La venta y sus líneas se conservan para auditoría.
func (uc *SalesUseCase) VoidSale(ctx context.Context, saleID int64, reason string) (*dto.VoidSaleResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.Invalid("reason", "es obligatorio")
	}
	txCtx := context.WithoutCancel(ctx)
	var sale *entity.Sale
	err := uc.txRunner.RunSale(txCtx, func(r TxRepos) error {
		var err error
		sale, err = uc.lockCommitted(txCtx, r, saleID, "anular")
		if err != nil {
			return err
		}
		lines, err := r.Sales.GetLines(txCtx, saleID)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if err := uc.ledger.RestoreStockInTx(txCtx, r.Inventory, line.ProductID, line.Quantity, saleID, inventory.RestoreAsReturn); err != nil {
				return err
			}
		}
		return r.Sales.MarkVoided(txCtx, saleID, entity.VoidNotePrefix+reason)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("sale_id", saleID).Str("reason", reason).Msg("venta anulada")
	return &dto.VoidSaleResponse{SaleID: saleID, VoidedAmount: sale.TotalAmount}, nil
}

// DeleteSale elimina la venta como si nunca hubiera existido: borra sus movimientos de
// venta, devuelve el stock y elimina líneas y cabecera.
func (uc *SalesUseCase) DeleteSale(ctx context.Context, saleID int64) (*dto.DeleteSaleResponse, error) {
	txCtx := context.WithoutCancel(ctx)
	var sale *entity.Sale
	err := uc.txRunner.RunSale(txCtx, func(r TxRepos) error {
		var err error
		sale, err = uc.lockCommitted(txCtx, r, saleID, "eliminar")
		if err != nil {
			return err
		}
		lines, err := r.Sales.GetLines(txCtx, saleID)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if err := uc.ledger.RestoreStockInTx(txCtx, r.Inventory, line.ProductID, line.Quantity, saleID, inventory.RestoreByRemoval); err != nil {
				return err
			}
		}
		if err := r.Sales.DeleteLines(txCtx, saleID); err != nil {
			return err
		}
		return r.Sales.Delete(txCtx, saleID)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("sale_id", saleID).Str("receipt_number", sale.ReceiptNumber).Msg("venta eliminada")
	return &dto.DeleteSaleResponse{DeletedSaleID: saleID, RestoredAmount: sale.TotalAmount}, nil
}

// lockCommitted bloquea la venta y exige que no esté anulada.
func (uc *SalesUseCase) lockCommitted(ctx context.Context, r TxRepos, saleID int64, action string) (*entity.Sale, error) {
	sale, err := r.Sales.GetByIDForUpdate(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NotFound("sale", saleID)
	}
	if sale.IsVoided() {
		return nil, domain.Conflict("sale", "la venta ya fue anulada; no se puede "+action)
	}
	return sale, nil
}

// GetSale venta con sus líneas.
func (uc *SalesUseCase) GetSale(ctx context.Context, saleID int64) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, domain.Storage("get sale", err)
	}
	if sale == nil {
		return nil, domain.NotFound("sale", saleID)
	}
	lines, err := uc.sales.GetLines(ctx, saleID)
	if err != nil {
		return nil, domain.Storage("get sale lines", err)
	}
	out := dto.SaleFromEntity(sale, lines)
	return &out, nil
}

// ListSales ventas más recientes primero.
func (uc *SalesUseCase) ListSales(ctx context.Context, in dto.SaleListFilter) ([]dto.SaleResponse, error) {
	in.DefaultPage()
	f := toSaleFilter(in.StartDate, in.EndDate)
	f.CashierID = in.CashierID
	f.PaymentMethod = in.PaymentMethod
	f.Status = in.Status
	f.Limit = in.Limit
	f.Offset = in.Offset
	rows, err := uc.sales.List(ctx, f)
	if err != nil {
		return nil, domain.Storage("list sales", err)
	}
	return dto.SalesFromRows(rows), nil
}

// GetReceiptData venta con líneas más los datos del negocio.
func (uc *SalesUseCase) GetReceiptData(ctx context.Context, saleID int64) (*dto.ReceiptData, error) {
	sale, err := uc.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	values, err := uc.settings.GetAll(ctx)
	if err != nil {
		return nil, domain.Storage("get settings", err)
	}
	info := entity.BusinessInfoFrom(values)
	return &dto.ReceiptData{
		Sale: *sale,
		Business: dto.BusinessInfo{
			Name:          info.Name,
			Phone:         info.Phone,
			Address:       info.Address,
			Currency:      info.Currency,
			ReceiptFooter: info.ReceiptFooter,
		},
	}, nil
}

// toSaleFilter convierte fechas de calendario (inclusivas) en el rango [from, to).
func toSaleFilter(start, end *time.Time) repository.SaleFilter {
	var f repository.SaleFilter
	if start != nil {
		from := startOfDay(*start)
		f.From = &from
	}
	if end != nil {
		to := startOfDay(*end).AddDate(0, 0, 1)
		f.To = &to
	}
	return f
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
