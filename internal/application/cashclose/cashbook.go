package cashclose

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

// CashbookTxRunner ejecuta escrituras de recibos de caja con su consecutivo.
type CashbookTxRunner interface {
	RunCashbook(ctx context.Context, fn func(
		receiptRepo repository.CashReceiptRepository,
		depositRepo repository.DepositRepository,
		seqRepo repository.SequenceRepository,
	) error) error
}

// CashbookUseCase registra los libros hermanos del cierre: recibos de caja
// (INGRESO/EGRESO) y depósitos bancarios. Ambos son append-only y cada asiento
// guarda su propia tasa con montos en ambas monedas.
type CashbookUseCase struct {
	txRunner      CashbookTxRunner
	rateSvc       *rates.Service
	warehouseRepo repository.WarehouseRepository
}

// NewCashbookUseCase construye el caso de uso.
func NewCashbookUseCase(txRunner CashbookTxRunner, rateSvc *rates.Service, warehouseRepo repository.WarehouseRepository) *CashbookUseCase {
	return &CashbookUseCase{txRunner: txRunner, rateSvc: rateSvc, warehouseRepo: warehouseRepo}
}

// RecordCashReceipt registra un recibo de caja con consecutivo por bodega.
func (uc *CashbookUseCase) RecordCashReceipt(ctx context.Context, actor string, in dto.RecordCashReceiptRequest) (*dto.CashReceiptResponse, error) {
	if in.BranchID == "" || in.WarehouseID == "" || !money.Valid(in.Currency) {
		return nil, domain.ErrInvalidInput
	}
	if in.Type != entity.CashReceiptIngreso && in.Type != entity.CashReceiptEgreso {
		return nil, domain.ErrInvalidInput
	}
	if !in.Amount.GreaterThan(decimal.Zero) {
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
	branch, err := uc.warehouseRepo.GetBranch(in.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}

	affects := true
	if in.AffectsCash != nil {
		affects = *in.AffectsCash
	}
	usd, cs := uc.rateSvc.BothCurrencies(in.Amount, in.Currency, rate)

	var receipt *entity.CashReceipt
	err = uc.txRunner.RunCashbook(ctx, func(
		receiptRepo repository.CashReceiptRepository,
		_ repository.DepositRepository,
		seqRepo repository.SequenceRepository,
	) error {
		seq, err := seqRepo.Next(in.WarehouseID, repository.SeqCashReceipt)
		if err != nil {
			return err
		}
		receipt = &entity.CashReceipt{
			ID:           uuid.New().String(),
			Sequence:     seq,
			Number:       fmt.Sprintf("%s-ROC-%06d", branch.Prefix, seq),
			BranchID:     in.BranchID,
			WarehouseID:  in.WarehouseID,
			Type:         in.Type,
			Description:  in.Description,
			Date:         date,
			Currency:     in.Currency,
			ExchangeRate: rate,
			AmountUSD:    usd,
			AmountCS:     cs,
			AffectsCash:  affects,
			CreatedBy:    actor,
			CreatedAt:    time.Now(),
		}
		return receiptRepo.Create(receipt)
	})
	if err != nil {
		return nil, err
	}
	return &dto.CashReceiptResponse{
		ID:        receipt.ID,
		Number:    receipt.Number,
		Type:      receipt.Type,
		Date:      receipt.Date.Format("2006-01-02"),
		Currency:  receipt.Currency,
		AmountUSD: receipt.AmountUSD,
		AmountCS:  receipt.AmountCS,
	}, nil
}

// RecordDeposit registra un depósito bancario de la caja.
func (uc *CashbookUseCase) RecordDeposit(ctx context.Context, actor string, in dto.RecordDepositRequest) (*dto.DepositResponse, error) {
	if in.BranchID == "" || in.WarehouseID == "" || in.BankID == "" || !money.Valid(in.Currency) {
		return nil, domain.ErrInvalidInput
	}
	if !in.Amount.GreaterThan(decimal.Zero) {
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
	usd, cs := uc.rateSvc.BothCurrencies(in.Amount, in.Currency, rate)

	var deposit *entity.Deposit
	err = uc.txRunner.RunCashbook(ctx, func(
		_ repository.CashReceiptRepository,
		depositRepo repository.DepositRepository,
		_ repository.SequenceRepository,
	) error {
		deposit = &entity.Deposit{
			ID:            uuid.New().String(),
			BranchID:      in.BranchID,
			WarehouseID:   in.WarehouseID,
			SalespersonID: in.SalespersonID,
			BankID:        in.BankID,
			BankAccountID: in.BankAccountID,
			Date:          date,
			Currency:      in.Currency,
			ExchangeRate:  rate,
			AmountUSD:     usd,
			AmountCS:      cs,
			Note:          in.Note,
			CreatedBy:     actor,
			CreatedAt:     time.Now(),
		}
		return depositRepo.Create(deposit)
	})
	if err != nil {
		return nil, err
	}
	return &dto.DepositResponse{
		ID:        deposit.ID,
		Date:      deposit.Date.Format("2006-01-02"),
		Currency:  deposit.Currency,
		AmountUSD: deposit.AmountUSD,
		AmountCS:  deposit.AmountCS,
	}, nil
}

func parseDateOrToday(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	return time.Parse("2006-01-02", s)
}
