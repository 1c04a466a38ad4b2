package inspections

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"inspection-backend/internal/notify"
	"inspection-backend/internal/scoring"
	"inspection-backend/internal/scoring/recommendations"
	"inspection-backend/internal/scoring/urgency"
	"inspection-backend/internal/shared/metrics"
	"inspection-backend/internal/shared/telemetry"
	"inspection-backend/internal/shops"
	"inspection-backend/internal/shortlinks"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	maxPriority      = 10
	maxNotesLen      = 2000
	minVehicleYear   = 1900
)

// ShopProvider resolves shop details and the recommendation policy.
type ShopProvider interface {
	Get(ctx context.Context, shopID string) (shops.Shop, error)
	Config(ctx context.Context, shopID string) (recommendations.ShopConfig, error)
}

// LinkCreator issues short links for report URLs.
type LinkCreator interface {
	Create(ctx context.Context, target string) (shortlinks.Link, error)
	URL(code string) string
}

// Notifier delivers customer SMS.
type Notifier interface {
	Dispatch(ctx context.Context, req notify.Request) (notify.Notification, error)
}

// Service implements the inspection workflow.
type Service struct {
	Repo          Repo
	Shops         ShopProvider
	Links         LinkCreator
	Notifier      Notifier
	PublicBaseURL string

	now func() time.Time
}

func NewService(repo Repo, shopProvider ShopProvider, links LinkCreator, notifier Notifier, publicBaseURL string) *Service {
	return &Service{
		Repo:          repo,
		Shops:         shopProvider,
		Links:         links,
		Notifier:      notifier,
		PublicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Create starts a draft inspection.
func (s *Service) Create(ctx context.Context, shopID, technicianID string, in CreateInput) (Inspection, error) {
	if strings.TrimSpace(shopID) == "" {
		return Inspection{}, fmt.Errorf("%w: shop id is required", ErrInvalidInput)
	}
	now := s.now()
	vehicle, err := s.validateVehicle(in.Vehicle, now)
	if err != nil {
		return Inspection{}, err
	}
	customer := Customer{Name: strings.TrimSpace(in.Customer.Name)}
	if phone := strings.TrimSpace(in.Customer.Phone); phone != "" {
		normalized, err := notify.NormalizePhone(phone)
		if err != nil {
			return Inspection{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		customer.Phone = normalized
	}

	insp := Inspection{
		ID:           uuid.NewString(),
		ShopID:       shopID,
		TechnicianID: technicianID,
		Vehicle:      vehicle,
		Customer:     customer,
		Status:       StatusDraft,
		Items:        []Item{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	insp.applySummary()

	if err := s.Repo.Create(ctx, insp); err != nil {
		return Inspection{}, fmt.Errorf("create inspection: %w", err)
	}
	telemetry.Info("inspection.created", map[string]any{
		"inspection_id": insp.ID,
		"shop_id":       shopID,
	})
	return insp, nil
}

func (s *Service) Get(ctx context.Context, shopID, id string) (Inspection, error) {
	if strings.TrimSpace(id) == "" {
		return Inspection{}, fmt.Errorf("%w: inspection id is required", ErrInvalidInput)
	}
	if !validID(id) {
		return Inspection{}, ErrNotFound
	}
	return s.Repo.Get(ctx, shopID, id)
}

// List returns a page of inspections. Limit defaults to 20 and is capped at 100.
func (s *Service) List(ctx context.Context, shopID string, limit, offset int) ([]Inspection, int, int, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	items, err := s.Repo.List(ctx, shopID, limit, offset)
	if err != nil {
		return nil, 0, 0, err
	}
	return items, limit, offset, nil
}

// AddItem scores a new item, stores it with its recommendation and
// recomputes the inspection aggregate in the same transaction.
func (s *Service) AddItem(ctx context.Context, shopID, inspectionID string, in ItemInput) (ItemResult, error) {
	return s.writeItem(ctx, shopID, inspectionID, "", in)
}

// UpdateItem rescores an existing item and recomputes the aggregate.
func (s *Service) UpdateItem(ctx context.Context, shopID, inspectionID, itemID string, in ItemInput) (ItemResult, error) {
	if strings.TrimSpace(itemID) == "" {
		return ItemResult{}, fmt.Errorf("%w: item id is required", ErrInvalidInput)
	}
	return s.writeItem(ctx, shopID, inspectionID, itemID, in)
}

func (s *Service) writeItem(ctx context.Context, shopID, inspectionID, itemID string, in ItemInput) (ItemResult, error) {
	if !validID(inspectionID) {
		return ItemResult{}, ErrNotFound
	}
	if itemID != "" && !validID(itemID) {
		return ItemResult{}, ErrItemNotFound
	}
	itemType, condition, err := validateItem(in)
	if err != nil {
		return ItemResult{}, err
	}
	cfg, err := s.shopConfig(ctx, shopID)
	if err != nil {
		return ItemResult{}, err
	}

	var result ItemResult
	err = s.Repo.InTx(ctx, func(tx Tx) error {
		insp, err := tx.GetForUpdate(ctx, shopID, inspectionID)
		if err != nil {
			return err
		}
		if !insp.Status.Editable() {
			return fmt.Errorf("%w: inspection is %s", ErrInvalidState, insp.Status)
		}

		now := s.now()
		item := Item{
			ID:           uuid.NewString(),
			InspectionID: insp.ID,
			CreatedAt:    now,
		}
		idx := -1
		if itemID != "" {
			idx = insp.itemIndex(itemID)
			if idx < 0 {
				return ErrItemNotFound
			}
			item.ID = insp.Items[idx].ID
			item.CreatedAt = insp.Items[idx].CreatedAt
		}
		item.ItemType = itemType
		item.Condition = condition
		item.Measurements = in.Measurements
		item.Notes = strings.TrimSpace(in.Notes)
		item.Priority = in.Priority
		item.UpdatedAt = now
		scoreItem(&item, insp.Vehicle, cfg, now)

		if idx >= 0 {
			insp.Items[idx] = item
		} else {
			insp.Items = append(insp.Items, item)
		}
		if insp.Status == StatusDraft {
			insp.Status = StatusInProgress
		}
		insp.applySummary()
		insp.UpdatedAt = now

		if err := tx.UpsertItem(ctx, item); err != nil {
			return fmt.Errorf("save item: %w", err)
		}
		if err := tx.UpdateSummary(ctx, insp); err != nil {
			return fmt.Errorf("save summary: %w", err)
		}
		result = ItemResult{Item: item, Inspection: insp}
		return nil
	})
	if err != nil {
		return ItemResult{}, err
	}

	metrics.IncItemScored(string(result.Item.UrgencyLevel))
	telemetry.Info("inspection.item_scored", map[string]any{
		"inspection_id":   inspectionID,
		"item_id":         result.Item.ID,
		"item_type":       result.Item.ItemType,
		"urgency_level":   string(result.Item.UrgencyLevel),
		"urgency_score":   result.Item.UrgencyScore,
		"aggregate_level": string(result.Inspection.UrgencyLevel),
	})
	return result, nil
}

// Complete finalizes an inspection. It must have at least one item.
func (s *Service) Complete(ctx context.Context, shopID, id string) (Inspection, error) {
	if !validID(id) {
		return Inspection{}, ErrNotFound
	}
	var out Inspection
	err := s.Repo.InTx(ctx, func(tx Tx) error {
		insp, err := tx.GetForUpdate(ctx, shopID, id)
		if err != nil {
			return err
		}
		if !insp.Status.Editable() {
			return fmt.Errorf("%w: inspection is already %s", ErrInvalidState, insp.Status)
		}
		if len(insp.Items) == 0 {
			return fmt.Errorf("%w: inspection has no items", ErrInvalidState)
		}
		now := s.now()
		insp.Status = StatusCompleted
		insp.CompletedAt = &now
		insp.UpdatedAt = now
		insp.applySummary()
		if err := tx.UpdateSummary(ctx, insp); err != nil {
			return err
		}
		out = insp
		return nil
	})
	if err != nil {
		return Inspection{}, err
	}
	metrics.IncInspectionCompleted(string(out.UrgencyLevel))
	return out, nil
}

// Send texts the customer a short link to the report and marks the
// inspection sent. Completed inspections may be re-sent.
func (s *Service) Send(ctx context.Context, shopID, id, requestID string) (SendResult, error) {
	if !validID(id) {
		return SendResult{}, ErrNotFound
	}
	insp, err := s.Repo.Get(ctx, shopID, id)
	if err != nil {
		return SendResult{}, err
	}
	if insp.Status != StatusCompleted && insp.Status != StatusSent {
		return SendResult{}, fmt.Errorf("%w: inspection must be completed before sending", ErrInvalidState)
	}
	if insp.Customer.Phone == "" {
		return SendResult{}, fmt.Errorf("%w: customer phone is required", ErrInvalidInput)
	}

	link, err := s.Links.Create(ctx, s.reportURL(insp.ID))
	if err != nil {
		return SendResult{}, fmt.Errorf("create short link: %w", err)
	}
	shortURL := s.Links.URL(link.Code)

	body := notify.BuildMessage(notify.MessageParams{
		ShopName:     s.shopName(ctx, shopID),
		CustomerName: insp.Customer.Name,
		VehicleYear:  insp.Vehicle.Year,
		VehicleMake:  insp.Vehicle.Make,
		VehicleModel: insp.Vehicle.Model,
		UrgencyLevel: string(insp.UrgencyLevel),
		Link:         shortURL,
	})

	n, err := s.Notifier.Dispatch(ctx, notify.Request{
		InspectionID: insp.ID,
		RequestID:    requestID,
		To:           insp.Customer.Phone,
		Body:         body,
		ShortCode:    link.Code,
	})
	if err != nil {
		if errors.Is(err, notify.ErrInvalidPhone) || errors.Is(err, notify.ErrInvalidInput) {
			return SendResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return SendResult{}, fmt.Errorf("send notification: %w", err)
	}

	var out Inspection
	err = s.Repo.InTx(ctx, func(tx Tx) error {
		current, err := tx.GetForUpdate(ctx, shopID, id)
		if err != nil {
			return err
		}
		now := s.now()
		current.Status = StatusSent
		current.SentAt = &now
		current.UpdatedAt = now
		if err := tx.UpdateSummary(ctx, current); err != nil {
			return err
		}
		out = current
		return nil
	})
	if err != nil {
		return SendResult{}, err
	}

	return SendResult{
		Inspection:         out,
		ShortURL:           shortURL,
		NotificationID:     n.ID,
		NotificationStatus: n.Status,
	}, nil
}

// PublicReport returns the customer view of a completed or sent inspection.
func (s *Service) PublicReport(ctx context.Context, id string) (PublicReport, error) {
	if !validID(id) {
		return PublicReport{}, ErrNotFound
	}
	insp, err := s.Repo.GetUnscoped(ctx, id)
	if err != nil {
		return PublicReport{}, err
	}
	if insp.Status != StatusCompleted && insp.Status != StatusSent {
		return PublicReport{}, ErrNotFound
	}

	report := PublicReport{
		ID:           insp.ID,
		ShopName:     s.shopName(ctx, insp.ShopID),
		UrgencyLevel: insp.UrgencyLevel,
		UrgencyScore: insp.UrgencyScore,
		Actions:      insp.Actions,
		Items:        make([]PublicItem, 0, len(insp.Items)),
		CompletedAt:  insp.CompletedAt,
		Vehicle: PublicVehicle{
			Year:    insp.Vehicle.Year,
			Make:    insp.Vehicle.Make,
			Model:   insp.Vehicle.Model,
			VINTail: vinTail(insp.Vehicle.VIN),
			Mileage: insp.Vehicle.Mileage,
		},
	}

	var total float64
	hasCost := false
	for _, it := range insp.Items {
		report.Items = append(report.Items, PublicItem{
			ItemType:       it.ItemType,
			Condition:      it.Condition,
			UrgencyLevel:   it.UrgencyLevel,
			Notes:          it.Notes,
			EstimatedCost:  it.EstimatedCost,
			Recommendation: it.Recommendation,
		})
		if it.EstimatedCost != nil {
			total += *it.EstimatedCost
			hasCost = true
		}
	}
	if hasCost {
		rounded := float64(int64(total*100+0.5)) / 100
		report.EstimatedTotal = &rounded
	}
	return report, nil
}

// validID reports whether id can name a stored row. Ids are UUIDs, and
// anything else would reach the database as a type error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *Service) reportURL(id string) string {
	return s.PublicBaseURL + "/r/" + id
}

func (s *Service) shopConfig(ctx context.Context, shopID string) (recommendations.ShopConfig, error) {
	if s.Shops == nil {
		return recommendations.DefaultShopConfig(), nil
	}
	cfg, err := s.Shops.Config(ctx, shopID)
	if errors.Is(err, shops.ErrNotFound) {
		telemetry.Warn("inspection.shop_config_missing", map[string]any{"shop_id": shopID})
		return recommendations.DefaultShopConfig(), nil
	}
	if err != nil {
		return recommendations.ShopConfig{}, fmt.Errorf("load shop config: %w", err)
	}
	return cfg, nil
}

func (s *Service) shopName(ctx context.Context, shopID string) string {
	if s.Shops == nil {
		return ""
	}
	shop, err := s.Shops.Get(ctx, shopID)
	if err != nil {
		return ""
	}
	return shop.Name
}

func (s *Service) validateVehicle(v Vehicle, now time.Time) (Vehicle, error) {
	v.VIN = strings.ToUpper(strings.TrimSpace(v.VIN))
	v.Make = strings.TrimSpace(v.Make)
	v.Model = strings.TrimSpace(v.Model)
	if v.Year != 0 && (v.Year < minVehicleYear || v.Year > now.Year()+1) {
		return Vehicle{}, fmt.Errorf("%w: vehicle year %d is out of range", ErrInvalidInput, v.Year)
	}
	if v.Mileage != nil && *v.Mileage < 0 {
		return Vehicle{}, fmt.Errorf("%w: mileage must be >= 0", ErrInvalidInput)
	}
	return v, nil
}

func validateItem(in ItemInput) (string, scoring.Condition, error) {
	itemType := scoring.NormalizeItemType(in.ItemType)
	if itemType == "" {
		return "", "", fmt.Errorf("%w: itemType is required", ErrInvalidInput)
	}
	condition, ok := scoring.ParseCondition(in.Condition)
	if !ok {
		return "", "", fmt.Errorf("%w: condition must be one of good, fair, poor, needs_immediate", ErrInvalidInput)
	}
	if in.Priority < 0 || in.Priority > maxPriority {
		return "", "", fmt.Errorf("%w: priority must be between 0 and %d", ErrInvalidInput, maxPriority)
	}
	if len(in.Notes) > maxNotesLen {
		return "", "", fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, maxNotesLen)
	}
	return itemType, condition, nil
}

// scoreItem fills urgency, recommendation and estimated cost on item.
func scoreItem(item *Item, vehicle Vehicle, cfg recommendations.ShopConfig, now time.Time) {
	u := urgency.Calculate(item.urgencyInput())
	item.UrgencyLevel = u.Level
	item.UrgencyScore = u.Score
	item.Factors = u.Factors
	item.Actions = u.Recommendations

	rec := recommendations.Generate(recommendations.Input{
		ItemType:     item.ItemType,
		Condition:    item.Condition,
		Measurements: item.Measurements,
		Vehicle: &recommendations.VehicleInfo{
			Year:    vehicle.Year,
			Make:    vehicle.Make,
			Model:   vehicle.Model,
			Mileage: vehicle.Mileage,
		},
		Shop: &cfg,
		AsOf: now,
	})
	item.Recommendation = &rec
	item.EstimatedCost = nil
	if rec.Primary.EstimatedCost != nil {
		total := rec.Primary.EstimatedCost.Total
		item.EstimatedCost = &total
	}
}

func vinTail(vin string) string {
	if len(vin) <= 6 {
		return vin
	}
	return vin[len(vin)-6:]
}
