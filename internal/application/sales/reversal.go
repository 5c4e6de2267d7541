package sales

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/orangetec/calzapos/internal/application/dto"
	"github.com/orangetec/calzapos/internal/domain"
	"github.com/orangetec/calzapos/internal/domain/entity"
	"github.com/orangetec/calzapos/internal/domain/repository"
)

// ReversalConfig parámetros del flujo de reversión.
type ReversalConfig struct {
	TokenTTL time.Duration // ventana de validez del token (10 minutos por defecto)
}

// ReversalUseCase implementa la anulación de facturas con control dual:
// solicitar genera un token corto que viaja por el canal de notificación;
// confirmar exige ese token dentro de su ventana de validez. Una factura nunca
// se anula por decisión de un solo actor.
type ReversalUseCase struct {
	txRunner    TxRunner
	invoiceRepo repository.InvoiceRepository
	abonoRepo   repository.AbonoRepository
	tokenRepo   repository.ReversalTokenRepository
	notifier    Notifier
	cfg         ReversalConfig
}

// NewReversalUseCase construye el caso de uso.
func NewReversalUseCase(
	txRunner TxRunner,
	invoiceRepo repository.InvoiceRepository,
	abonoRepo repository.AbonoRepository,
	tokenRepo repository.ReversalTokenRepository,
	notifier Notifier,
	cfg ReversalConfig,
) *ReversalUseCase {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 10 * time.Minute
	}
	return &ReversalUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		abonoRepo:   abonoRepo,
		tokenRepo:   tokenRepo,
		notifier:    notifier,
		cfg:         cfg,
	}
}

// RequestReversal valida las precondiciones, persiste un token con expiración y
// despacha la notificación. Si el despacho falla la solicitud falla completa;
// el token huérfano expira solo, sin tocar la factura.
func (uc *ReversalUseCase) RequestReversal(ctx context.Context, actor, invoiceID, reason string) (*dto.RequestReversalResponse, error) {
	if invoiceID == "" || reason == "" {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.Status != entity.InvoiceStatusActive {
		return nil, domain.ErrInvoiceVoided
	}
	count, err := uc.abonoRepo.CountByInvoice(invoiceID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrHasCollections
	}

	code, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}
	now := time.Now()
	token := &entity.ReversalToken{
		ID:          uuid.New().String(),
		InvoiceID:   invoiceID,
		Token:       code,
		Reason:      reason,
		RequestedBy: actor,
		CreatedAt:   now,
		ExpiresAt:   now.Add(uc.cfg.TokenTTL),
	}
	if err := uc.tokenRepo.Create(token); err != nil {
		return nil, err
	}

	notice := ReversalNotice{
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.Number,
		Token:         code,
		Reason:        reason,
		RequestedBy:   actor,
		TotalCS:       inv.TotalCS.StringFixed(2),
		TotalUSD:      inv.TotalUSD.StringFixed(2),
		ExpiresAt:     token.ExpiresAt,
	}
	if err := uc.notifier.SendReversalRequest(ctx, notice); err != nil {
		return nil, fmt.Errorf("despachar notificación de reversión: %w", err)
	}

	return &dto.RequestReversalResponse{
		InvoiceID: inv.ID,
		ExpiresAt: token.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// ConfirmReversal confirma la anulación con el token recibido. El token se
// sella como usado con una actualización condicional, de modo que confirmarlo
// dos veces funciona una sola vez. La reposición de existencia se hace con
// movimientos compensatorios; el historial nunca se muta.
func (uc *ReversalUseCase) ConfirmReversal(ctx context.Context, actor, invoiceID, tokenStr string) (*dto.ConfirmReversalResponse, error) {
	if invoiceID == "" || tokenStr == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	err := uc.txRunner.RunReversal(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		invoiceRepo repository.InvoiceRepository,
		abonoRepo repository.AbonoRepository,
		tokenRepo repository.ReversalTokenRepository,
	) error {
		inv, err := invoiceRepo.GetForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Status != entity.InvoiceStatusActive {
			// La factura solo llega a ANULADA quemando un token: confirmar de
			// nuevo es siempre un token ya usado.
			return domain.ErrInvalidToken
		}
		// Releer bajo la transacción: un abono pudo entrar después del request.
		count, err := abonoRepo.CountByInvoice(invoiceID)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrHasCollections
		}

		// Solo el token sin usar más reciente es elegible.
		token, err := tokenRepo.LatestUnused(invoiceID)
		if err != nil {
			return err
		}
		if token == nil || token.Token != tokenStr {
			return domain.ErrInvalidToken
		}
		if now.After(token.ExpiresAt) {
			return domain.ErrTokenExpired
		}
		ok, err := tokenRepo.MarkUsed(token.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvalidToken
		}

		if err := invoiceRepo.MarkVoided(invoiceID, token.Reason, actor, now); err != nil {
			return err
		}

		// Movimiento compensatorio por cada salida original de la venta.
		saleMovs, err := movRepo.ListByTransaction(invoiceID)
		if err != nil {
			return err
		}
		for _, m := range saleMovs {
			if m.Type != entity.MovementTypeSALE {
				continue
			}
			if _, err := stockRepo.GetForUpdate(m.ProductID, m.WarehouseID); err != nil {
				return err
			}
			comp := &entity.Movement{
				ID:            uuid.New().String(),
				TransactionID: invoiceID,
				ProductID:     m.ProductID,
				WarehouseID:   m.WarehouseID,
				Type:          entity.MovementTypeREVERSAL,
				Quantity:      m.Quantity.Neg(), // la venta es negativa; la compensación repone
				UnitCostCS:    m.UnitCostCS,
				UnitCostUSD:   m.UnitCostUSD,
				Date:          now,
				CreatedAt:     now,
				CreatedBy:     actor,
			}
			if err := movRepo.Create(comp); err != nil {
				return err
			}
			balance, err := movRepo.Balance(m.ProductID, m.WarehouseID)
			if err != nil {
				return err
			}
			if err := stockRepo.Upsert(&entity.Stock{
				ProductID:   m.ProductID,
				WarehouseID: m.WarehouseID,
				Quantity:    balance,
				UpdatedAt:   now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.ConfirmReversalResponse{
		InvoiceID:  invoiceID,
		Status:     entity.InvoiceStatusVoid,
		ReversedAt: now.Format(time.RFC3339),
	}, nil
}

// generateToken produce un código numérico de 6 dígitos con crypto/rand.
func generateToken() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
