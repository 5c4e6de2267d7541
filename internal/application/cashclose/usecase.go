package cashclose

import (
	"context"
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

// TxRunner ejecuta el cierre dentro de una transacción: los cinco componentes
// esperados se leen y el arqueo se escribe en un mismo snapshot.
type TxRunner interface {
	RunClosing(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		receiptRepo repository.CashReceiptRepository,
		depositRepo repository.DepositRepository,
		closingRepo repository.CashClosingRepository,
	) error) error
}

// UseCase concilia la caja física de una sucursal/bodega/fecha contra la
// posición esperada calculada desde todos los eventos de dinero del día.
// Un cierre escrito nunca se recalcula en sitio.
type UseCase struct {
	txRunner    TxRunner
	rateSvc     *rates.Service
	closingRepo repository.CashClosingRepository
}

// NewUseCase construye el caso de uso de arqueo.
func NewUseCase(txRunner TxRunner, rateSvc *rates.Service, closingRepo repository.CashClosingRepository) *UseCase {
	return &UseCase{txRunner: txRunner, rateSvc: rateSvc, closingRepo: closingRepo}
}

// Close calcula y persiste el arqueo. Clave duplicada devuelve
// ErrDuplicateClosing; el caller jamás debe sobreescribir en silencio.
func (uc *UseCase) Close(ctx context.Context, actor string, in dto.CloseCashRequest) (*dto.CashClosingResponse, error) {
	if in.BranchID == "" || in.WarehouseID == "" || in.Date == "" {
		return nil, domain.ErrInvalidInput
	}
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	rate, err := uc.rateSvc.RateFor(date)
	if err != nil {
		return nil, err
	}

	// 1) Conteo físico por moneda.
	var countedCS, countedUSD decimal.Decimal
	detailCS := make([]entity.Denomination, 0)
	detailUSD := make([]entity.Denomination, 0)
	for _, d := range in.Denominations {
		if !money.Valid(d.Currency) || d.FaceValue.LessThan(decimal.Zero) || d.Count < 0 {
			return nil, domain.ErrInvalidInput
		}
		den := entity.Denomination{Currency: d.Currency, FaceValue: d.FaceValue, Count: d.Count}
		if d.Currency == money.CurrencyUSD {
			countedUSD = countedUSD.Add(den.Total())
			detailUSD = append(detailUSD, den)
		} else {
			countedCS = countedCS.Add(den.Total())
			detailCS = append(detailCS, den)
		}
	}
	countedTotalUSD := countedUSD.Add(money.ToUSD(countedCS, rate))

	var closing *entity.CashClosing
	err = uc.txRunner.RunClosing(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		receiptRepo repository.CashReceiptRepository,
		depositRepo repository.DepositRepository,
		closingRepo repository.CashClosingRepository,
	) error {
		// 2) Componentes esperados, todos en USD. Cada asiento aporta su monto
		// USD registrado con su propia tasa; la tasa del día solo es respaldo
		// para asientos sin monto USD.
		salesUSD, err := invoiceRepo.SalesUSDForDay(in.BranchID, in.WarehouseID, date)
		if err != nil {
			return err
		}
		receiptsUSD, err := receiptRepo.SumUSDForDay(in.BranchID, in.WarehouseID, entity.CashReceiptIngreso, date, rate)
		if err != nil {
			return err
		}
		issuesUSD, err := receiptRepo.SumUSDForDay(in.BranchID, in.WarehouseID, entity.CashReceiptEgreso, date, rate)
		if err != nil {
			return err
		}
		depositsUSD, err := depositRepo.SumUSDForDay(in.BranchID, in.WarehouseID, date, rate)
		if err != nil {
			return err
		}

		// 3) Crédito pendiente: facturas PENDIENTES del día, cada una aporta
		// max(total − abonos, 0).
		pending, err := invoiceRepo.PendingCreditForDay(in.BranchID, in.WarehouseID, date)
		if err != nil {
			return err
		}
		var creditsUSD decimal.Decimal
		for _, p := range pending {
			outstanding := p.TotalUSD.Sub(p.AbonosUSD)
			if outstanding.GreaterThan(decimal.Zero) {
				creditsUSD = creditsUSD.Add(outstanding)
			}
		}

		expectedUSD := salesUSD.Sub(issuesUSD).Add(receiptsUSD).Sub(depositsUSD).Sub(creditsUSD)
		variance := countedTotalUSD.Sub(expectedUSD)

		closing = &entity.CashClosing{
			ID:              uuid.New().String(),
			BranchID:        in.BranchID,
			WarehouseID:     in.WarehouseID,
			Date:            date,
			DetailCS:        detailCS,
			DetailUSD:       detailUSD,
			CountedCS:       countedCS,
			CountedUSD:      countedUSD,
			CountedTotalUSD: countedTotalUSD,
			SalesUSD:        salesUSD,
			ReceiptsUSD:     receiptsUSD,
			IssuesUSD:       issuesUSD,
			DepositsUSD:     depositsUSD,
			CreditsUSD:      creditsUSD,
			ExpectedUSD:     expectedUSD,
			VarianceUSD:     variance,
			CreatedBy:       actor,
			CreatedAt:       time.Now(),
		}
		// El constraint único (sucursal, bodega, fecha) convierte el duplicado
		// en ErrDuplicateClosing incluso bajo concurrencia.
		return closingRepo.Create(closing)
	})
	if err != nil {
		return nil, err
	}
	return toClosingResponse(closing), nil
}

// GetClosing devuelve el desglose persistido de un arqueo (auditable sin recomputar).
func (uc *UseCase) GetClosing(ctx context.Context, id string) (*dto.CashClosingResponse, error) {
	closing, err := uc.closingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if closing == nil {
		return nil, domain.ErrNotFound
	}
	return toClosingResponse(closing), nil
}

func toClosingResponse(c *entity.CashClosing) *dto.CashClosingResponse {
	return &dto.CashClosingResponse{
		ID:              c.ID,
		BranchID:        c.BranchID,
		WarehouseID:     c.WarehouseID,
		Date:            c.Date.Format("2006-01-02"),
		CountedCS:       c.CountedCS,
		CountedUSD:      c.CountedUSD,
		CountedTotalUSD: c.CountedTotalUSD,
		SalesUSD:        c.SalesUSD,
		ReceiptsUSD:     c.ReceiptsUSD,
		IssuesUSD:       c.IssuesUSD,
		DepositsUSD:     c.DepositsUSD,
		CreditsUSD:      c.CreditsUSD,
		ExpectedUSD:     c.ExpectedUSD,
		VarianceUSD:     c.VarianceUSD,
	}
}
