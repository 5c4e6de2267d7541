package sales

import (
	"context"

	"github.com/orangetec/calzapos/internal/domain"
	"github.com/orangetec/calzapos/internal/domain/entity"
	"github.com/orangetec/calzapos/internal/domain/repository"
)

// TicketData todo lo que necesita el generador para imprimir el ticket de una
// factura: cabecera, líneas y los nombres resueltos de sus referencias.
type TicketData struct {
	Invoice      *entity.Invoice
	Items        []*entity.InvoiceItem
	Descriptions map[string]string // product_id -> descripción
	CustomerName string
	BranchName   string
}

// TicketGenerator produce los bytes del ticket (PDF en producción).
type TicketGenerator interface {
	GenerateTicket(ctx context.Context, data TicketData) ([]byte, error)
}

// TicketUseCase arma los datos y genera el ticket de una factura, incluida la
// reimpresión de facturas anuladas (salen marcadas como ANULADA).
type TicketUseCase struct {
	invoiceRepo   repository.InvoiceRepository
	productRepo   repository.ProductRepository
	customerRepo  repository.CustomerRepository
	warehouseRepo repository.WarehouseRepository
	generator     TicketGenerator
}

// NewTicketUseCase construye el caso de uso.
func NewTicketUseCase(
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	warehouseRepo repository.WarehouseRepository,
	generator TicketGenerator,
) *TicketUseCase {
	return &TicketUseCase{
		invoiceRepo:   invoiceRepo,
		productRepo:   productRepo,
		customerRepo:  customerRepo,
		warehouseRepo: warehouseRepo,
		generator:     generator,
	}
}

// Ticket genera el PDF del ticket de la factura.
func (uc *TicketUseCase) Ticket(ctx context.Context, invoiceID string) ([]byte, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItems(invoiceID)
	if err != nil {
		return nil, err
	}

	data := TicketData{
		Invoice:      inv,
		Items:        items,
		Descriptions: make(map[string]string, len(items)),
	}
	for _, it := range items {
		if _, ok := data.Descriptions[it.ProductID]; ok {
			continue
		}
		product, err := uc.productRepo.GetByID(it.ProductID)
		if err != nil {
			return nil, err
		}
		if product != nil {
			data.Descriptions[it.ProductID] = product.Description
		}
	}
	if inv.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(inv.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer != nil {
			data.CustomerName = customer.Name
		}
	}
	branch, err := uc.warehouseRepo.GetBranch(inv.BranchID)
	if err != nil {
		return nil, err
	}
	if branch != nil {
		data.BranchName = branch.Name
	}

	return uc.generator.GenerateTicket(ctx, data)
}
