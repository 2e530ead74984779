package settings

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/talenthub/hrm-backend-go/internal/domain/settings"
)

// SettingsService owns the organization-wide policy singleton. It
// never creates settings implicitly; computations that need them fail
// loudly when the row is absent.
type SettingsService struct {
	settingsRepo settings.SettingsRepository
}

func NewSettingsService(settingsRepo settings.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

func (s *SettingsService) Get(ctx context.Context) (settings.SettingsResponse, error) {
	current, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}
	return mapToResponse(current), nil
}

// Create installs the singleton. A second create is rejected by the
// storage layer with ErrSettingsAlreadyExists.
func (s *SettingsService) Create(ctx context.Context, req settings.CreateSettingsRequest) (settings.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.SettingsResponse{}, err
	}

	taxRate, _ := decimal.NewFromString(req.TaxRatePercent)
	overtimeMultiplier, _ := decimal.NewFromString(req.OvertimeMultiplier)

	created, err := s.settingsRepo.Create(ctx, settings.Settings{
		ID:                  uuid.Must(uuid.NewV7()).String(),
		AnnualLeaveQuota:    req.AnnualLeaveQuota,
		SickLeaveQuota:      req.SickLeaveQuota,
		PersonalLeaveQuota:  req.PersonalLeaveQuota,
		MaternityLeaveQuota: req.MaternityLeaveQuota,
		PaternityLeaveQuota: req.PaternityLeaveQuota,
		UnpaidLeaveQuota:    req.UnpaidLeaveQuota,
		CarryForwardLimit:   req.CarryForwardLimit,
		TaxRatePercent:      taxRate,
		OvertimeMultiplier:  overtimeMultiplier,
		PayDay:              req.PayDay,
		Cycle:               settings.PayrollCycle(req.Cycle),
	})
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	return mapToResponse(created), nil
}

// Update applies only the fields present in the patch.
func (s *SettingsService) Update(ctx context.Context, req settings.UpdateSettingsRequest) (settings.SettingsResponse, error) {
	current, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	if req.AnnualLeaveQuota != nil {
		current.AnnualLeaveQuota = *req.AnnualLeaveQuota
	}
	if req.SickLeaveQuota != nil {
		current.SickLeaveQuota = *req.SickLeaveQuota
	}
	if req.PersonalLeaveQuota != nil {
		current.PersonalLeaveQuota = *req.PersonalLeaveQuota
	}
	if req.MaternityLeaveQuota != nil {
		current.MaternityLeaveQuota = *req.MaternityLeaveQuota
	}
	if req.PaternityLeaveQuota != nil {
		current.PaternityLeaveQuota = *req.PaternityLeaveQuota
	}
	if req.UnpaidLeaveQuota != nil {
		current.UnpaidLeaveQuota = *req.UnpaidLeaveQuota
	}
	if req.CarryForwardLimit != nil {
		current.CarryForwardLimit = *req.CarryForwardLimit
	}
	if req.TaxRatePercent != nil {
		taxRate, err := decimal.NewFromString(*req.TaxRatePercent)
		if err != nil {
			return settings.SettingsResponse{}, fmt.Errorf("invalid tax rate: %w", err)
		}
		current.TaxRatePercent = taxRate
	}
	if req.OvertimeMultiplier != nil {
		multiplier, err := decimal.NewFromString(*req.OvertimeMultiplier)
		if err != nil {
			return settings.SettingsResponse{}, fmt.Errorf("invalid overtime multiplier: %w", err)
		}
		current.OvertimeMultiplier = multiplier
	}
	if req.PayDay != nil {
		current.PayDay = *req.PayDay
	}
	if req.Cycle != nil {
		cycle := settings.PayrollCycle(*req.Cycle)
		if !cycle.Valid() {
			return settings.SettingsResponse{}, settings.ErrInvalidCycle
		}
		current.Cycle = cycle
	}

	updated, err := s.settingsRepo.Update(ctx, current)
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	return mapToResponse(updated), nil
}

func mapToResponse(s settings.Settings) settings.SettingsResponse {
	return settings.SettingsResponse{
		ID:                  s.ID,
		AnnualLeaveQuota:    s.AnnualLeaveQuota,
		SickLeaveQuota:      s.SickLeaveQuota,
		PersonalLeaveQuota:  s.PersonalLeaveQuota,
		MaternityLeaveQuota: s.MaternityLeaveQuota,
		PaternityLeaveQuota: s.PaternityLeaveQuota,
		UnpaidLeaveQuota:    s.UnpaidLeaveQuota,
		CarryForwardLimit:   s.CarryForwardLimit,
		TaxRatePercent:      s.TaxRatePercent.String(),
		OvertimeMultiplier:  s.OvertimeMultiplier.String(),
		PayDay:              s.PayDay,
		Cycle:               string(s.Cycle),
	}
}
