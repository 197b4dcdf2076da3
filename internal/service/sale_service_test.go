package service

import (
	"context"
	"encoding/json"
	"testing"

	"ledgercore/internal/apierror"
	"ledgercore/internal/dto"
	"ledgercore/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureEnqueuer records enqueued invoice payloads instead of dispatching.
type captureEnqueuer struct {
	payloads []json.RawMessage
}

func (c *captureEnqueuer) EnqueueInvoice(_ context.Context, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	c.payloads = append(c.payloads, data)
	return nil
}

type saleFixture struct {
	sales     SaleService
	stock     StockService
	cash      CashService
	enqueuer  *captureEnqueuer
	sessionID string
	productID string
	mainID    string
}

// newSaleFixture opens a session with 100 in the till and stocks one product
// with 10 units at 12.50 in the main warehouse.
func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	ctx := context.Background()
	stockRepo := repository.NewStockRepository(uuid.New, testClock())
	cashRepo := repository.NewCashRepository(uuid.New, testClock())
	saleRepo := repository.NewSaleRepository(uuid.New, testClock())

	stockSvc := NewStockService(stockRepo)
	cashSvc := NewCashService(cashRepo, testConfig())
	enqueuer := &captureEnqueuer{}
	saleSvc := NewSaleService(saleRepo, stockRepo, cashRepo, enqueuer)

	opened, err := cashSvc.OpenSession(ctx, dto.OpenSessionRequest{Operator: "ana", OpeningBalance: dec("100")})
	require.NoError(t, err)

	main, err := stockSvc.CreateWarehouse(ctx, dto.CreateWarehouseRequest{Name: "Main"})
	require.NoError(t, err)
	product, err := stockSvc.CreateProduct(ctx, dto.CreateProductRequest{
		Name: "Espresso beans", SKU: "ESP-01", Price: dec("12.50"), MinStock: 2,
	})
	require.NoError(t, err)
	_, err = stockSvc.Adjust(ctx, dto.AdjustStockRequest{
		ProductID: product.ID, WarehouseID: main.ID, Delta: 10, Reason: "initial intake",
	})
	require.NoError(t, err)

	return &saleFixture{
		sales:     saleSvc,
		stock:     stockSvc,
		cash:      cashSvc,
		enqueuer:  enqueuer,
		sessionID: opened.SessionID,
		productID: product.ID,
		mainID:    main.ID,
	}
}

func (f *saleFixture) register(t *testing.T, qty int) *dto.SaleResponse {
	t.Helper()
	sale, err := f.sales.RegisterSale(context.Background(), dto.RegisterSaleRequest{
		Operator:     "ana",
		CustomerName: "Walk-in",
		Items: []dto.SaleItemRequest{
			{ProductID: f.productID, WarehouseID: f.mainID, Quantity: qty},
		},
	})
	require.NoError(t, err)
	return sale
}

func TestRegisterSaleDebitsStockAndCreditsTill(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale := f.register(t, 2)

	assert.Equal(t, "completed", sale.Status)
	assert.Equal(t, int64(1), sale.TicketNumber)
	assert.Equal(t, f.sessionID, sale.SessionID)
	assert.True(t, dec("25").Equal(sale.Total), "total: %s", sale.Total)

	p, err := f.stock.GetProduct(ctx, uuid.MustParse(f.productID))
	require.NoError(t, err)
	assert.Equal(t, 8, p.Stock[f.mainID])

	report, err := f.cash.Report(ctx, uuid.MustParse(f.sessionID))
	require.NoError(t, err)
	assert.True(t, dec("125").Equal(report.ExpectedBalance))
	require.Len(t, report.Transactions, 1)
	assert.Equal(t, "sale", report.Transactions[0].Kind)

	// The invoice job carries the sale id.
	require.Len(t, f.enqueuer.payloads, 1)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(f.enqueuer.payloads[0], &payload))
	assert.Equal(t, sale.ID, payload["sale_id"])
}

func TestRegisterSaleWithoutOpenSession(t *testing.T) {
	stockRepo := repository.NewStockRepository(uuid.New, testClock())
	cashRepo := repository.NewCashRepository(uuid.New, testClock())
	saleRepo := repository.NewSaleRepository(uuid.New, testClock())
	svc := NewSaleService(saleRepo, stockRepo, cashRepo, &captureEnqueuer{})

	_, err := svc.RegisterSale(context.Background(), dto.RegisterSaleRequest{
		Operator: "ana",
		Items:    []dto.SaleItemRequest{{ProductID: uuid.NewString(), WarehouseID: uuid.NewString(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, apierror.ErrInvalidState)
}

func TestRegisterSaleInsufficientStockRejectsWholeSale(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	_, err := f.sales.RegisterSale(ctx, dto.RegisterSaleRequest{
		Operator: "ana",
		Items: []dto.SaleItemRequest{
			{ProductID: f.productID, WarehouseID: f.mainID, Quantity: 11},
		},
	})
	assert.ErrorIs(t, err, apierror.ErrInsufficientStock)

	// Nothing moved.
	p, err := f.stock.GetProduct(ctx, uuid.MustParse(f.productID))
	require.NoError(t, err)
	assert.Equal(t, 10, p.Stock[f.mainID])

	report, err := f.cash.Report(ctx, uuid.MustParse(f.sessionID))
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(report.ExpectedBalance))
	assert.Empty(t, f.enqueuer.payloads)
}

func TestRegisterSaleUnknownProduct(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.sales.RegisterSale(context.Background(), dto.RegisterSaleRequest{
		Operator: "ana",
		Items:    []dto.SaleItemRequest{{ProductID: uuid.NewString(), WarehouseID: f.mainID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestVoidSaleRestoresStockAndRefunds(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale := f.register(t, 3)
	require.NoError(t, f.sales.VoidSale(ctx, uuid.MustParse(sale.ID), "customer returned"))

	got, err := f.sales.Get(ctx, uuid.MustParse(sale.ID))
	require.NoError(t, err)
	assert.Equal(t, "voided", got.Status)

	// Stock back where it was.
	p, err := f.stock.GetProduct(ctx, uuid.MustParse(f.productID))
	require.NoError(t, err)
	assert.Equal(t, 10, p.Stock[f.mainID])

	// The till saw the sale in and the refund out, netting to the float.
	report, err := f.cash.Report(ctx, uuid.MustParse(f.sessionID))
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(report.ExpectedBalance), "expected balance: %s", report.ExpectedBalance)
	require.Len(t, report.Transactions, 2)
	assert.Equal(t, "expense", report.Transactions[1].Kind)
	assert.True(t, dec("-37.5").Equal(report.Transactions[1].Amount))
}

func TestVoidSaleTwiceRejected(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale := f.register(t, 1)
	require.NoError(t, f.sales.VoidSale(ctx, uuid.MustParse(sale.ID), "mistake"))

	err := f.sales.VoidSale(ctx, uuid.MustParse(sale.ID), "again")
	assert.ErrorIs(t, err, apierror.ErrInvalidState)

	// The second void posted nothing.
	report, err := f.cash.Report(ctx, uuid.MustParse(f.sessionID))
	require.NoError(t, err)
	assert.Len(t, report.Transactions, 2)
}

func TestVoidSaleWithoutOpenSession(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale := f.register(t, 1)
	_, err := f.cash.CloseSession(ctx, uuid.MustParse(f.sessionID), dto.CloseSessionRequest{CountedAmount: dec("112.50")})
	require.NoError(t, err)

	err = f.sales.VoidSale(ctx, uuid.MustParse(sale.ID), "too late")
	assert.ErrorIs(t, err, apierror.ErrInvalidState)
}

func TestVoidUnknownSale(t *testing.T) {
	f := newSaleFixture(t)

	err := f.sales.VoidSale(context.Background(), uuid.New(), "ghost")
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}
