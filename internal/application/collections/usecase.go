package collections

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

// TxRunner ejecuta mutaciones de cobranza dentro de una transacción.
type TxRunner interface {
	RunCollections(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		abonoRepo repository.AbonoRepository,
		seqRepo repository.SequenceRepository,
	) error) error
}

// UseCase registra, edita y elimina abonos contra facturas de crédito. Cada
// mutación recalcula el estado de cobranza desde la suma completa de abonos en
// la moneda nativa de la factura: el estado nunca puede derivar de la suma real.
type UseCase struct {
	txRunner      TxRunner
	rateSvc       *rates.Service
	warehouseRepo repository.WarehouseRepository
	invoiceRepo   repository.InvoiceRepository
	abonoRepo     repository.AbonoRepository
}

// NewUseCase construye el caso de uso de cobranza.
func NewUseCase(
	txRunner TxRunner,
	rateSvc *rates.Service,
	warehouseRepo repository.WarehouseRepository,
	invoiceRepo repository.InvoiceRepository,
	abonoRepo repository.AbonoRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		rateSvc:       rateSvc,
		warehouseRepo: warehouseRepo,
		invoiceRepo:   invoiceRepo,
		abonoRepo:     abonoRepo,
	}
}

// RecordAbono registra un pago parcial contra una factura. Rechaza facturas
// anuladas o ya pagadas y montos no positivos.
func (uc *UseCase) RecordAbono(ctx context.Context, actor string, in dto.RecordAbonoRequest) (*dto.AbonoResponse, error) {
	if in.InvoiceID == "" || !money.Valid(in.Currency) || !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	date, err := parseDateOrToday(in.Date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	rate, err := uc.rateSvc.RateFor(date)
	if err != nil {
		return nil, err
	}

	var abono *entity.Abono
	var status string
	err = uc.txRunner.RunCollections(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		abonoRepo repository.AbonoRepository,
		seqRepo repository.SequenceRepository,
	) error {
		inv, err := invoiceRepo.GetForUpdate(in.InvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Status != entity.InvoiceStatusActive {
			return domain.ErrInvoiceVoided
		}
		if inv.CollectionStatus == entity.CollectionStatusPaid {
			return domain.ErrInvoiceAlreadyPaid
		}

		wh, err := uc.warehouseRepo.GetByID(inv.WarehouseID)
		if err != nil {
			return err
		}
		branch, err := uc.warehouseRepo.GetBranch(inv.BranchID)
		if err != nil {
			return err
		}
		if wh == nil || branch == nil {
			return domain.ErrNotFound
		}

		seq, err := seqRepo.Next(inv.WarehouseID, repository.SeqAbono)
		if err != nil {
			return err
		}

		usd, cs := uc.rateSvc.BothCurrencies(in.Amount, in.Currency, rate)
		now := time.Now()
		abono = &entity.Abono{
			ID:           uuid.New().String(),
			InvoiceID:    inv.ID,
			BranchID:     inv.BranchID,
			WarehouseID:  inv.WarehouseID,
			Sequence:     seq,
			Number:       fmt.Sprintf("%s-AB-%06d", branch.Prefix, seq),
			Date:         date,
			Currency:     in.Currency,
			ExchangeRate: rate,
			AmountUSD:    usd,
			AmountCS:     cs,
			Note:         in.Note,
			CreatedBy:    actor,
			CreatedAt:    now,
		}
		if err := abonoRepo.Create(abono); err != nil {
			return err
		}
		status, err = uc.recomputeCollectionStatus(invoiceRepo, abonoRepo, inv)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toAbonoResponse(abono, status), nil
}

// UpdateAbono edita un abono existente y recalcula el estado de cobranza de su
// factura desde cero (puede regresarla de PAGADA a PENDIENTE).
func (uc *UseCase) UpdateAbono(ctx context.Context, actor, abonoID string, in dto.UpdateAbonoRequest) (*dto.AbonoResponse, error) {
	if abonoID == "" || !money.Valid(in.Currency) || !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	date, err := parseDateOrToday(in.Date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	rate, err := uc.rateSvc.RateFor(date)
	if err != nil {
		return nil, err
	}

	var abono *entity.Abono
	var status string
	err = uc.txRunner.RunCollections(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		abonoRepo repository.AbonoRepository,
		_ repository.SequenceRepository,
	) error {
		var err error
		abono, err = abonoRepo.GetByID(abonoID)
		if err != nil {
			return err
		}
		if abono == nil {
			return domain.ErrNotFound
		}
		inv, err := invoiceRepo.GetForUpdate(abono.InvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Status != entity.InvoiceStatusActive {
			return domain.ErrInvoiceVoided
		}

		usd, cs := uc.rateSvc.BothCurrencies(in.Amount, in.Currency, rate)
		abono.Date = date
		abono.Currency = in.Currency
		abono.ExchangeRate = rate
		abono.AmountUSD = usd
		abono.AmountCS = cs
		if in.Note != "" {
			abono.Note = in.Note
		}
		if err := abonoRepo.Update(abono); err != nil {
			return err
		}
		status, err = uc.recomputeCollectionStatus(invoiceRepo, abonoRepo, inv)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toAbonoResponse(abono, status), nil
}

// DeleteAbono elimina un abono y recalcula el estado de cobranza de la factura.
func (uc *UseCase) DeleteAbono(ctx context.Context, abonoID string) error {
	if abonoID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunCollections(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		abonoRepo repository.AbonoRepository,
		_ repository.SequenceRepository,
	) error {
		abono, err := abonoRepo.GetByID(abonoID)
		if err != nil {
			return err
		}
		if abono == nil {
			return domain.ErrNotFound
		}
		inv, err := invoiceRepo.GetForUpdate(abono.InvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if err := abonoRepo.Delete(abonoID); err != nil {
			return err
		}
		_, err = uc.recomputeCollectionStatus(invoiceRepo, abonoRepo, inv)
		return err
	})
}

// recomputeCollectionStatus fija PAGADA/PENDIENTE comparando la suma completa
// de abonos contra el total de la factura, ambos en su moneda nativa.
func (uc *UseCase) recomputeCollectionStatus(
	invoiceRepo repository.InvoiceRepository,
	abonoRepo repository.AbonoRepository,
	inv *entity.Invoice,
) (string, error) {
	sumUSD, sumCS, err := abonoRepo.SumByInvoice(inv.ID)
	if err != nil {
		return "", err
	}
	paid, total := sumCS, inv.TotalCS
	if inv.Currency == money.CurrencyUSD {
		paid, total = sumUSD, inv.TotalUSD
	}
	status := entity.CollectionStatusPending
	if paid.GreaterThanOrEqual(total) {
		status = entity.CollectionStatusPaid
	}
	if status != inv.CollectionStatus {
		if err := invoiceRepo.SetCollectionStatus(inv.ID, status); err != nil {
			return "", err
		}
	}
	return status, nil
}

func parseDateOrToday(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	return time.Parse("2006-01-02", s)
}

func toAbonoResponse(a *entity.Abono, status string) *dto.AbonoResponse {
	return &dto.AbonoResponse{
		ID:               a.ID,
		InvoiceID:        a.InvoiceID,
		Number:           a.Number,
		Date:             a.Date.Format("2006-01-02"),
		Currency:         a.Currency,
		AmountUSD:        a.AmountUSD,
		AmountCS:         a.AmountCS,
		Note:             a.Note,
		CollectionStatus: status,
	}
}
