package pharmacy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"healthchain/internal/domain"
	"healthchain/internal/domain/models"
	"healthchain/internal/domain/repositories"
)

// Service implements the pharmacy operations exposed to the agent's
// tools and to the REST endpoints. Patient reads degrade to empty
// defaults for unknown IDs; mutations validate their input and fail
// loudly.
type Service struct {
	patientRepo      repositories.PatientRepository
	medicineRepo     repositories.MedicineRepository
	orderRepo        repositories.OrderRepository
	refillRepo       repositories.RefillAlertRepository
	notificationRepo repositories.NotificationRepository
	txManager        repositories.TransactionManager
	logger           *slog.Logger
}

func NewService(
	patientRepo repositories.PatientRepository,
	medicineRepo repositories.MedicineRepository,
	orderRepo repositories.OrderRepository,
	refillRepo repositories.RefillAlertRepository,
	notificationRepo repositories.NotificationRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) *Service {
	return &Service{
		patientRepo:      patientRepo,
		medicineRepo:     medicineRepo,
		orderRepo:        orderRepo,
		refillRepo:       refillRepo,
		notificationRepo: notificationRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// GetPatientProfile returns the patient profile together with the health
// summary. Unknown patients get empty defaults so the agent can keep the
// conversation going.
func (s *Service) GetPatientProfile(ctx context.Context, patientID string) (*models.Patient, *models.HealthSummary, error) {
	patient, err := s.patientRepo.GetProfile(ctx, patientID)
	if err != nil {
		return nil, nil, err
	}
	summary, err := s.patientRepo.GetHealthSummary(ctx, patientID)
	if err != nil {
		return nil, nil, err
	}
	return patient, summary, nil
}

// GetPatientHealthSummary returns just the health summary, empty for
// unknown patients.
func (s *Service) GetPatientHealthSummary(ctx context.Context, patientID string) (*models.HealthSummary, error) {
	return s.patientRepo.GetHealthSummary(ctx, patientID)
}

// SearchMedicines performs a partial-name registry lookup.
func (s *Service) SearchMedicines(ctx context.Context, query string, limit int) ([]models.Medicine, error) {
	if limit <= 0 || limit > 25 {
		limit = 10
	}
	return s.medicineRepo.SearchByName(ctx, query, limit)
}

// GetPatientOrders lists the patient's recent orders, newest first.
func (s *Service) GetPatientOrders(ctx context.Context, patientID string, limit int) ([]models.Order, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.orderRepo.ListByPatient(ctx, patientID, limit)
}

// DraftItem is one requested medicine line for a draft order.
type DraftItem struct {
	MedicineID      string `json:"medicine_id"`
	Qty             int    `json:"qty"`
	DosageText      string `json:"dosage_text,omitempty"`
	FrequencyPerDay int    `json:"frequency_per_day,omitempty"`
	DaysSupply      int    `json:"days_supply,omitempty"`
}

// CreateOrderDraftRequest is the input for CreateOrderDraft.
type CreateOrderDraftRequest struct {
	PatientID string      `json:"patient_id"`
	Channel   string      `json:"channel"`
	Items     []DraftItem `json:"items"`
}

// Validate implements input validation for draft creation.
func (r CreateOrderDraftRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PatientID, validation.Required),
		validation.Field(&r.Channel, validation.In("chat", "voice", "whatsapp", "kiosk")),
		validation.Field(&r.Items, validation.Required, validation.Length(1, 20)),
	)
}

// Validate checks a single draft item.
func (i DraftItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.MedicineID, validation.Required),
		validation.Field(&i.Qty, validation.Required, validation.Min(1), validation.Max(100)),
	)
}

// CreateOrderDraft prices the requested items against the registry and
// inserts a draft order atomically. Stock and prescriptions are NOT
// enforced here; the draft records intent and FinalizeOrder does the
// safety re-check.
func (s *Service) CreateOrderDraft(ctx context.Context, req CreateOrderDraftRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	for _, item := range req.Items {
		if err := item.Validate(); err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
	}

	channel := req.Channel
	if channel == "" {
		channel = "chat"
	}

	order := &models.Order{
		ID:        uuid.New().String(),
		PatientID: req.PatientID,
		Channel:   channel,
		Status:    models.OrderStatusDraft,
	}

	for _, item := range req.Items {
		medicine, err := s.medicineRepo.GetByID(ctx, item.MedicineID)
		if err != nil {
			return nil, err
		}
		order.Total += medicine.Price * float64(item.Qty)
		order.Items = append(order.Items, models.OrderItem{
			ID:              uuid.New().String(),
			OrderID:         order.ID,
			MedicineID:      item.MedicineID,
			Qty:             item.Qty,
			DosageText:      item.DosageText,
			FrequencyPerDay: item.FrequencyPerDay,
			DaysSupply:      item.DaysSupply,
		})
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.orderRepo.CreateDraft(txCtx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order draft created",
		"order_id", order.ID, "patient_id", order.PatientID,
		"items", len(order.Items), "total", order.Total)

	return order, nil
}

// FinalizeResult reports the outcome of a finalize attempt. A failed
// safety check is a normal result, not an error: the order simply stays
// a draft and Reasons explains why.
type FinalizeResult struct {
	Committed bool     `json:"committed"`
	Status    string   `json:"status"`
	Reasons   []string `json:"reasons,omitempty"`
}

// FinalizeOrder re-checks stock and prescription requirements for every
// item and, only if all checks pass, decrements stock and confirms the
// order in a single transaction. Any check failure leaves the order a
// draft.
func (s *Service) FinalizeOrder(ctx context.Context, orderID string) (*FinalizeResult, error) {
	order, err := s.orderRepo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusDraft {
		return nil, domain.NewValidationError(
			fmt.Sprintf("order %s is %s, only drafts can be finalized", orderID, order.Status))
	}

	var reasons []string
	for _, item := range order.Items {
		medicine, err := s.medicineRepo.GetByID(ctx, item.MedicineID)
		if err != nil {
			return nil, err
		}
		if medicine.Stock < item.Qty {
			reasons = append(reasons, fmt.Sprintf(
				"%s: insufficient stock (have %d, need %d)", medicine.Name, medicine.Stock, item.Qty))
		}
		if medicine.PrescriptionRequired {
			has, err := s.patientRepo.HasPrescription(ctx, order.PatientID, item.MedicineID)
			if err != nil {
				return nil, err
			}
			if !has {
				reasons = append(reasons, fmt.Sprintf(
					"%s: prescription required but none on file", medicine.Name))
			}
		}
	}

	if len(reasons) > 0 {
		s.logger.Info("order finalize blocked",
			"order_id", orderID, "reasons", reasons)
		return &FinalizeResult{
			Committed: false,
			Status:    models.OrderStatusDraft,
			Reasons:   reasons,
		}, nil
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		for _, item := range order.Items {
			if err := s.medicineRepo.DecrementStock(txCtx, item.MedicineID, item.Qty); err != nil {
				return err
			}
		}
		return s.orderRepo.UpdateStatus(txCtx, orderID, models.OrderStatusConfirmed)
	})
	if err != nil {
		// A concurrent order may have taken the stock between the check
		// and the transaction. The tx rolled back, so the draft stands.
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info("order finalize lost stock race", "order_id", orderID)
			return &FinalizeResult{
				Committed: false,
				Status:    models.OrderStatusDraft,
				Reasons:   []string{"stock changed while finalizing, please retry"},
			}, nil
		}
		return nil, err
	}

	s.logger.Info("order confirmed", "order_id", orderID, "patient_id", order.PatientID)

	return &FinalizeResult{
		Committed: true,
		Status:    models.OrderStatusConfirmed,
	}, nil
}

// CreateRefillAlertRequest is the input for CreateRefillAlert. The
// run-out date is a YYYY-MM-DD string, matching the tool schema.
type CreateRefillAlertRequest struct {
	PatientID           string `json:"patient_id"`
	MedicineID          string `json:"medicine_id"`
	PredictedRunoutDate string `json:"predicted_runout_date"`
}

// Validate implements input validation for refill alert creation.
func (r CreateRefillAlertRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PatientID, validation.Required),
		validation.Field(&r.MedicineID, validation.Required),
		validation.Field(&r.PredictedRunoutDate, validation.Required, validation.Date("2006-01-02")),
	)
}

// CreateRefillAlert records a predicted run-out for proactive outreach.
func (s *Service) CreateRefillAlert(ctx context.Context, req CreateRefillAlertRequest) (*models.RefillAlert, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	runout, err := time.Parse("2006-01-02", req.PredictedRunoutDate)
	if err != nil {
		return nil, domain.NewValidationError("predicted_runout_date must be YYYY-MM-DD")
	}

	alert := &models.RefillAlert{
		ID:                  uuid.New().String(),
		PatientID:           req.PatientID,
		MedicineID:          req.MedicineID,
		PredictedRunoutDate: runout,
		Status:              "pending",
	}

	if err := s.refillRepo.Create(ctx, alert); err != nil {
		return nil, err
	}

	s.logger.Info("refill alert created",
		"patient_id", alert.PatientID, "medicine_id", alert.MedicineID,
		"runout", alert.PredictedRunoutDate.Format("2006-01-02"))

	return alert, nil
}

// GetRefillAlerts lists pending refill alerts for a patient.
func (s *Service) GetRefillAlerts(ctx context.Context, patientID string) ([]models.RefillAlert, error) {
	return s.refillRepo.ListByPatient(ctx, patientID)
}

// LogNotificationRequest is the input for LogNotification.
type LogNotificationRequest struct {
	PatientID string         `json:"patient_id"`
	Channel   string         `json:"channel"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// Validate implements input validation for notification logging.
func (r LogNotificationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PatientID, validation.Required),
		validation.Field(&r.Channel, validation.Required, validation.In("sms", "whatsapp", "voice", "app")),
		validation.Field(&r.Type, validation.Required),
	)
}

// LogNotification records an outbound notification. Delivery is handled
// by a separate worker reading this table.
func (s *Service) LogNotification(ctx context.Context, req LogNotificationRequest) (*models.Notification, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	notification := &models.Notification{
		ID:        uuid.New().String(),
		PatientID: req.PatientID,
		Channel:   req.Channel,
		Type:      req.Type,
		Payload:   req.Payload,
		Status:    "queued",
	}

	if err := s.notificationRepo.Insert(ctx, notification); err != nil {
		return nil, err
	}

	return notification, nil
}
