package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/orangetec/calzapos/internal/application/dto"
	"github.com/orangetec/calzapos/internal/application/rates"
	"github.com/orangetec/calzapos/internal/domain"
	"github.com/orangetec/calzapos/internal/domain/entity"
	"github.com/orangetec/calzapos/internal/domain/money"
	"github.com/orangetec/calzapos/internal/domain/repository"
)

// CommitSaleUseCase compromete una venta de forma atómica: verifica existencia
// por línea bajo bloqueo de fila, calcula totales en ambas monedas, asigna el
// consecutivo de la bodega, persiste factura, líneas y pagos y emite los
// movimientos de salida en el libro de existencias.
type CommitSaleUseCase struct {
	txRunner      TxRunner
	rateSvc       *rates.Service
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	customerRepo  repository.CustomerRepository
	invoiceRepo   repository.InvoiceRepository
	methodRepo    repository.PaymentMethodRepository
}

// NewCommitSaleUseCase construye el caso de uso.
func NewCommitSaleUseCase(
	txRunner TxRunner,
	rateSvc *rates.Service,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	methodRepo repository.PaymentMethodRepository,
) *CommitSaleUseCase {
	return &CommitSaleUseCase{
		txRunner:      txRunner,
		rateSvc:       rateSvc,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		customerRepo:  customerRepo,
		invoiceRepo:   invoiceRepo,
		methodRepo:    methodRepo,
	}
}

// CommitSale valida y compromete la venta. Sin pagos la factura nace a crédito
// (cobranza PENDIENTE); con pagos, la suma en la moneda de la factura debe
// cubrir el total o la operación completa se descarta (ErrPaymentIncomplete).
func (uc *CommitSaleUseCase) CommitSale(ctx context.Context, actor string, in dto.CommitSaleRequest) (*dto.SaleResponse, error) {
	if in.WarehouseID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !money.Valid(in.Currency) {
		return nil, domain.ErrInvalidInput
	}

	wh, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil || !wh.Active {
		return nil, domain.ErrNotFound
	}
	branch, err := uc.warehouseRepo.GetBranch(wh.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}

	if in.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrNotFound
		}
	}

	// Validar productos y precios fuera de la transacción (solo lectura).
	productsByID := make(map[string]*entity.Product, len(in.Lines))
	for i := range in.Lines {
		line := &in.Lines[i]
		if line.ProductID == "" || !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if line.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.Active {
			return nil, domain.ErrNotFound
		}
		if line.UnitPrice.IsZero() && line.ComboRole != entity.ComboRoleGift {
			// Precio de lista según la moneda de la factura.
			if in.Currency == money.CurrencyUSD {
				line.UnitPrice = product.Price1USD
			} else {
				line.UnitPrice = product.Price1CS
			}
		}
		productsByID[line.ProductID] = product
	}
	for _, p := range in.Payments {
		if p.PaymentMethodID == "" || !p.Amount.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		method, err := uc.methodRepo.GetByID(p.PaymentMethodID)
		if err != nil {
			return nil, err
		}
		if method == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	rate, err := uc.rateSvc.RateFor(now)
	if err != nil {
		return nil, err
	}

	invoiceID := uuid.New().String()
	var inv *entity.Invoice
	var items []*entity.InvoiceItem

	err = uc.txRunner.RunSale(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		invoiceRepo repository.InvoiceRepository,
		seqRepo repository.SequenceRepository,
		productRepo repository.ProductRepository,
	) error {
		// 1) Verificación de existencia por línea, bajo bloqueo de la fila de
		// saldo. El saldo que manda es la suma del libro, releída dentro de la
		// transacción: protege contra ventas concurrentes de la última unidad.
		var totalUSD, totalCS, totalItems decimal.Decimal
		for _, line := range in.Lines {
			product := productsByID[line.ProductID]
			if !product.IsService {
				if _, err := stockRepo.GetForUpdate(line.ProductID, in.WarehouseID); err != nil {
					return err
				}
				balance, err := movRepo.Balance(line.ProductID, in.WarehouseID)
				if err != nil {
					return err
				}
				if balance.LessThan(line.Quantity) {
					return &domain.InsufficientStockError{
						ProductID: line.ProductID,
						Available: balance.String(),
						Requested: line.Quantity.String(),
					}
				}
			}

			// 2) Subtotales por línea en ambas monedas, redondeados a 2 decimales.
			priceUSD, priceCS := uc.rateSvc.BothCurrencies(line.UnitPrice, in.Currency, rate)
			subUSD, subCS := uc.rateSvc.BothCurrencies(line.Quantity.Mul(line.UnitPrice), in.Currency, rate)
			totalUSD = totalUSD.Add(subUSD)
			totalCS = totalCS.Add(subCS)
			totalItems = totalItems.Add(line.Quantity)

			items = append(items, &entity.InvoiceItem{
				ID:           uuid.New().String(),
				InvoiceID:    invoiceID,
				ProductID:    line.ProductID,
				Quantity:     line.Quantity,
				UnitPriceUSD: priceUSD,
				UnitPriceCS:  priceCS,
				SubtotalUSD:  subUSD,
				SubtotalCS:   subCS,
				ComboRole:    line.ComboRole,
				ComboGroup:   line.ComboGroup,
			})
		}

		// 3) Consecutivo por bodega dentro de la transacción: si algo falla
		// después, el rollback lo descarta (hueco aceptable, duplicado no).
		seq, err := seqRepo.Next(in.WarehouseID, repository.SeqInvoice)
		if err != nil {
			return err
		}
		number := FormatDocumentNumber(branch.Prefix, seq)

		inv = &entity.Invoice{
			ID:               invoiceID,
			Sequence:         seq,
			Number:           number,
			BranchID:         branch.ID,
			WarehouseID:      in.WarehouseID,
			CustomerID:       in.CustomerID,
			SalespersonID:    in.SalespersonID,
			Date:             now,
			Currency:         in.Currency,
			ExchangeRate:     rate,
			TotalUSD:         totalUSD,
			TotalCS:          totalCS,
			TotalItems:       totalItems,
			Status:           entity.InvoiceStatusActive,
			CollectionStatus: entity.CollectionStatusPaid,
			CreatedBy:        actor,
			CreatedAt:        now,
		}

		// 4) Verificación de pagos en la moneda nativa de la factura.
		nativeTotal := totalCS
		if in.Currency == money.CurrencyUSD {
			nativeTotal = totalUSD
		}
		var paid decimal.Decimal
		var payments []*entity.Payment
		for _, p := range in.Payments {
			payUSD, payCS := uc.rateSvc.BothCurrencies(p.Amount, in.Currency, rate)
			paid = paid.Add(money.Round2(p.Amount))
			payments = append(payments, &entity.Payment{
				ID:              uuid.New().String(),
				InvoiceID:       invoiceID,
				PaymentMethodID: p.PaymentMethodID,
				BankID:          p.BankID,
				BankAccountID:   p.BankAccountID,
				AmountUSD:       payUSD,
				AmountCS:        payCS,
			})
		}
		switch {
		case len(payments) == 0:
			// Venta de crédito: nace PENDIENTE y se cobra por abonos.
			inv.CollectionStatus = entity.CollectionStatusPending
		case paid.LessThan(nativeTotal):
			return domain.ErrPaymentIncomplete
		}

		// 5) Persistencia de factura, líneas y pagos.
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for _, item := range items {
			if err := invoiceRepo.CreateItem(item); err != nil {
				return err
			}
		}
		for _, p := range payments {
			if err := invoiceRepo.CreatePayment(p); err != nil {
				return err
			}
		}

		// 6) Movimiento de salida por línea en el libro, al costo del producto,
		// y saldo materializado puesto al día desde la suma del libro.
		for _, line := range in.Lines {
			product := productsByID[line.ProductID]
			if product.IsService {
				continue
			}
			mov := &entity.Movement{
				ID:            uuid.New().String(),
				TransactionID: invoiceID,
				ProductID:     line.ProductID,
				WarehouseID:   in.WarehouseID,
				Type:          entity.MovementTypeSALE,
				Quantity:      line.Quantity.Neg(),
				UnitCostCS:    product.CostCS,
				UnitCostUSD:   money.ToUSD(product.CostCS, rate),
				Date:          now,
				CreatedAt:     now,
				CreatedBy:     actor,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
			balance, err := movRepo.Balance(line.ProductID, in.WarehouseID)
			if err != nil {
				return err
			}
			if err := stockRepo.Upsert(&entity.Stock{
				ProductID:   line.ProductID,
				WarehouseID: in.WarehouseID,
				Quantity:    balance,
				UpdatedAt:   now,
			}); err != nil {
				return err
			}
			if err := productRepo.UpdateLastRate(line.ProductID, rate); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toSaleResponse(inv, items), nil
}

// GetSale obtiene una factura con sus líneas.
func (uc *CommitSaleUseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(inv, items), nil
}

// FormatDocumentNumber arma el número visible: prefijo de sucursal + consecutivo
// con relleno de ceros.
func FormatDocumentNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%06d", prefix, seq)
}

func toSaleResponse(inv *entity.Invoice, items []*entity.InvoiceItem) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:               inv.ID,
		Number:           inv.Number,
		BranchID:         inv.BranchID,
		WarehouseID:      inv.WarehouseID,
		CustomerID:       inv.CustomerID,
		SalespersonID:    inv.SalespersonID,
		Date:             inv.Date.Format("2006-01-02"),
		Currency:         inv.Currency,
		ExchangeRate:     inv.ExchangeRate,
		TotalUSD:         inv.TotalUSD,
		TotalCS:          inv.TotalCS,
		Status:           inv.Status,
		CollectionStatus: inv.CollectionStatus,
		Lines:            make([]dto.SaleLineResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Lines = append(resp.Lines, dto.SaleLineResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			UnitPriceUSD: it.UnitPriceUSD,
			UnitPriceCS:  it.UnitPriceCS,
			SubtotalUSD:  it.SubtotalUSD,
			SubtotalCS:   it.SubtotalCS,
			ComboRole:    it.ComboRole,
			ComboGroup:   it.ComboGroup,
		})
	}
	return resp
}
