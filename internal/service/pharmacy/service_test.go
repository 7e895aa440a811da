package pharmacy

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"healthchain/internal/domain"
	"healthchain/internal/domain/models"
	"healthchain/internal/domain/repositories"
)

type fakePatientRepo struct {
	patient       *models.Patient
	summary       *models.HealthSummary
	prescriptions map[string]bool // medicineID -> on file
}

func (f *fakePatientRepo) GetProfile(ctx context.Context, patientID string) (*models.Patient, error) {
	if f.patient != nil {
		return f.patient, nil
	}
	return &models.Patient{ID: patientID}, nil
}

func (f *fakePatientRepo) GetHealthSummary(ctx context.Context, patientID string) (*models.HealthSummary, error) {
	if f.summary != nil {
		return f.summary, nil
	}
	return &models.HealthSummary{PatientID: patientID}, nil
}

func (f *fakePatientRepo) HasPrescription(ctx context.Context, patientID, medicineID string) (bool, error) {
	return f.prescriptions[medicineID], nil
}

type fakeMedicineRepo struct {
	medicines  map[string]*models.Medicine
	decrements map[string]int
}

func (f *fakeMedicineRepo) SearchByName(ctx context.Context, query string, limit int) ([]models.Medicine, error) {
	var out []models.Medicine
	for _, m := range f.medicines {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMedicineRepo) GetByID(ctx context.Context, medicineID string) (*models.Medicine, error) {
	m, ok := f.medicines[medicineID]
	if !ok {
		return nil, domain.NewNotFoundError("medicine", medicineID)
	}
	return m, nil
}

func (f *fakeMedicineRepo) DecrementStock(ctx context.Context, medicineID string, qty int) error {
	m, ok := f.medicines[medicineID]
	if !ok || m.Stock < qty {
		return domain.NewNotFoundError("medicine with sufficient stock", medicineID)
	}
	m.Stock -= qty
	if f.decrements == nil {
		f.decrements = make(map[string]int)
	}
	f.decrements[medicineID] += qty
	return nil
}

type fakeOrderRepo struct {
	orders  map[string]*models.Order
	created []*models.Order
}

func (f *fakeOrderRepo) CreateDraft(ctx context.Context, order *models.Order) error {
	if f.orders == nil {
		f.orders = make(map[string]*models.Order)
	}
	f.orders[order.ID] = order
	f.created = append(f.created, order)
	return nil
}

func (f *fakeOrderRepo) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, domain.NewNotFoundError("order", orderID)
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderRepo) ListByPatient(ctx context.Context, patientID string, limit int) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.PatientID == patientID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, orderID, status string) error {
	order, ok := f.orders[orderID]
	if !ok {
		return domain.NewNotFoundError("order", orderID)
	}
	order.Status = status
	return nil
}

type fakeRefillRepo struct {
	alerts []models.RefillAlert
}

func (f *fakeRefillRepo) Create(ctx context.Context, alert *models.RefillAlert) error {
	f.alerts = append(f.alerts, *alert)
	return nil
}

func (f *fakeRefillRepo) ListByPatient(ctx context.Context, patientID string) ([]models.RefillAlert, error) {
	return f.alerts, nil
}

type fakeNotificationRepo struct {
	notifications []models.Notification
}

func (f *fakeNotificationRepo) Insert(ctx context.Context, n *models.Notification) error {
	f.notifications = append(f.notifications, *n)
	return nil
}

// passthroughTx runs the function without a real transaction.
type passthroughTx struct{}

func (passthroughTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

type testFixture struct {
	svc       *Service
	patients  *fakePatientRepo
	medicines *fakeMedicineRepo
	orders    *fakeOrderRepo
	refills   *fakeRefillRepo
}

func newFixture() *testFixture {
	patients := &fakePatientRepo{prescriptions: map[string]bool{}}
	medicines := &fakeMedicineRepo{medicines: map[string]*models.Medicine{
		"med-otc": {ID: "med-otc", Name: "Paracetamol", Price: 2.5, Stock: 100},
		"med-rx":  {ID: "med-rx", Name: "Metformin", Price: 8.0, Stock: 50, PrescriptionRequired: true},
		"med-low": {ID: "med-low", Name: "Insulin", Price: 30.0, Stock: 1, PrescriptionRequired: true},
	}}
	orders := &fakeOrderRepo{orders: map[string]*models.Order{}}
	refills := &fakeRefillRepo{}

	svc := NewService(patients, medicines, orders, refills,
		&fakeNotificationRepo{}, passthroughTx{}, slog.Default())

	return &testFixture{svc: svc, patients: patients, medicines: medicines, orders: orders, refills: refills}
}

func draftRequest(items ...DraftItem) CreateOrderDraftRequest {
	return CreateOrderDraftRequest{
		PatientID: "p1",
		Channel:   "chat",
		Items:     items,
	}
}

func TestCreateOrderDraft(t *testing.T) {
	fx := newFixture()

	order, err := fx.svc.CreateOrderDraft(context.Background(),
		draftRequest(DraftItem{MedicineID: "med-otc", Qty: 4}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.Status != models.OrderStatusDraft {
		t.Errorf("expected draft status, got %s", order.Status)
	}
	if order.Total != 10.0 {
		t.Errorf("expected total 10.0, got %v", order.Total)
	}
	if len(fx.orders.created) != 1 {
		t.Errorf("expected 1 persisted order, got %d", len(fx.orders.created))
	}
	// Draft creation must not touch stock.
	if fx.medicines.medicines["med-otc"].Stock != 100 {
		t.Error("draft creation changed stock")
	}
}

func TestCreateOrderDraft_Validation(t *testing.T) {
	fx := newFixture()

	tests := []struct {
		name string
		req  CreateOrderDraftRequest
	}{
		{"missing patient", CreateOrderDraftRequest{Channel: "chat", Items: []DraftItem{{MedicineID: "med-otc", Qty: 1}}}},
		{"bad channel", CreateOrderDraftRequest{PatientID: "p1", Channel: "carrier-pigeon", Items: []DraftItem{{MedicineID: "med-otc", Qty: 1}}}},
		{"no items", draftRequest()},
		{"zero qty", draftRequest(DraftItem{MedicineID: "med-otc", Qty: 0})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.svc.CreateOrderDraft(context.Background(), tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateOrderDraft_UnknownMedicine(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.CreateOrderDraft(context.Background(),
		draftRequest(DraftItem{MedicineID: "med-missing", Qty: 1}))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestFinalizeOrder_Commits(t *testing.T) {
	fx := newFixture()
	fx.patients.prescriptions["med-rx"] = true

	order, err := fx.svc.CreateOrderDraft(context.Background(),
		draftRequest(DraftItem{MedicineID: "med-rx", Qty: 2}))
	if err != nil {
		t.Fatalf("draft: %v", err)
	}

	result, err := fx.svc.FinalizeOrder(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if !result.Committed || result.Status != models.OrderStatusConfirmed {
		t.Fatalf("expected committed confirmation, got %+v", result)
	}
	if fx.medicines.medicines["med-rx"].Stock != 48 {
		t.Errorf("stock not decremented: %d", fx.medicines.medicines["med-rx"].Stock)
	}
	if fx.orders.orders[order.ID].Status != models.OrderStatusConfirmed {
		t.Error("stored order not confirmed")
	}
}

func TestFinalizeOrder_MissingPrescriptionKeepsDraft(t *testing.T) {
	fx := newFixture()
	// No prescription on file for med-rx.

	order, err := fx.svc.CreateOrderDraft(context.Background(),
		draftRequest(DraftItem{MedicineID: "med-rx", Qty: 1}))
	if err != nil {
		t.Fatalf("draft: %v", err)
	}

	result, err := fx.svc.FinalizeOrder(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("a blocked finalize is not an error: %v", err)
	}
	if result.Committed {
		t.Fatal("order committed without prescription")
	}
	if len(result.Reasons) == 0 {
		t.Fatal("blocked finalize must carry reasons")
	}
	if fx.orders.orders[order.ID].Status != models.OrderStatusDraft {
		t.Error("order left draft state")
	}
	if fx.medicines.decrements["med-rx"] != 0 {
		t.Error("stock touched despite blocked finalize")
	}
}

func TestFinalizeOrder_InsufficientStockKeepsDraft(t *testing.T) {
	fx := newFixture()
	fx.patients.prescriptions["med-low"] = true

	order, err := fx.svc.CreateOrderDraft(context.Background(),
		draftRequest(DraftItem{MedicineID: "med-low", Qty: 5}))
	if err != nil {
		t.Fatalf("draft: %v", err)
	}

	result, err := fx.svc.FinalizeOrder(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if result.Committed {
		t.Fatal("order committed beyond available stock")
	}
	if fx.orders.orders[order.ID].Status != models.OrderStatusDraft {
		t.Error("order left draft state")
	}
}

func TestFinalizeOrder_RejectsNonDraft(t *testing.T) {
	fx := newFixture()
	fx.patients.prescriptions["med-rx"] = true

	order, _ := fx.svc.CreateOrderDraft(context.Background(),
		draftRequest(DraftItem{MedicineID: "med-rx", Qty: 1}))
	if _, err := fx.svc.FinalizeOrder(context.Background(), order.ID); err != nil {
		t.Fatalf("first finalize: %v", err)
	}

	_, err := fx.svc.FinalizeOrder(context.Background(), order.ID)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for confirmed order, got %v", err)
	}
}

func TestCreateRefillAlert(t *testing.T) {
	fx := newFixture()

	alert, err := fx.svc.CreateRefillAlert(context.Background(), CreateRefillAlertRequest{
		PatientID:           "p1",
		MedicineID:          "med-otc",
		PredictedRunoutDate: "2026-09-05",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	if !alert.PredictedRunoutDate.Equal(want) {
		t.Errorf("runout date off: %v", alert.PredictedRunoutDate)
	}
	if alert.Status != "pending" {
		t.Errorf("expected pending alert, got %s", alert.Status)
	}
	if len(fx.refills.alerts) != 1 {
		t.Errorf("alert not persisted")
	}
}

func TestCreateRefillAlert_Validation(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.CreateRefillAlert(context.Background(), CreateRefillAlertRequest{
		MedicineID:          "med-otc",
		PredictedRunoutDate: "2026-09-05",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}

	_, err = fx.svc.CreateRefillAlert(context.Background(), CreateRefillAlertRequest{
		PatientID:           "p1",
		MedicineID:          "med-otc",
		PredictedRunoutDate: "next tuesday",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for bad date, got %v", err)
	}
}

func TestLogNotification_Validation(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.LogNotification(context.Background(), LogNotificationRequest{
		PatientID: "p1",
		Channel:   "fax",
		Type:      "order_confirmation",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for bad channel, got %v", err)
	}
}
