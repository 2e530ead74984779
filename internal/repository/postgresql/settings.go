package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/talenthub/hrm-backend-go/internal/domain/settings"
	"github.com/talenthub/hrm-backend-go/internal/pkg/database"
)

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context) (settings.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, annual_leave_quota, sick_leave_quota, personal_leave_quota,
			   maternity_leave_quota, paternity_leave_quota, unpaid_leave_quota,
			   carry_forward_limit, tax_rate_percent, overtime_multiplier,
			   pay_day, cycle, created_at, updated_at
		FROM organization_settings
		LIMIT 1
	`

	var s settings.Settings
	err := q.QueryRow(ctx, query).Scan(
		&s.ID, &s.AnnualLeaveQuota, &s.SickLeaveQuota, &s.PersonalLeaveQuota,
		&s.MaternityLeaveQuota, &s.PaternityLeaveQuota, &s.UnpaidLeaveQuota,
		&s.CarryForwardLimit, &s.TaxRatePercent, &s.OvertimeMultiplier,
		&s.PayDay, &s.Cycle, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.Settings{}, settings.ErrSettingsNotConfigured
		}
		return settings.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	return s, nil
}

func (r *settingsRepository) Create(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	q := GetQuerier(ctx, r.db)

	// The singleton column is always true and uniquely indexed, so a
	// second insert violates uk_settings_singleton.
	query := `
		INSERT INTO organization_settings (
			id, singleton, annual_leave_quota, sick_leave_quota, personal_leave_quota,
			maternity_leave_quota, paternity_leave_quota, unpaid_leave_quota,
			carry_forward_limit, tax_rate_percent, overtime_multiplier, pay_day, cycle
		) VALUES ($1, true, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, annual_leave_quota, sick_leave_quota, personal_leave_quota,
			maternity_leave_quota, paternity_leave_quota, unpaid_leave_quota,
			carry_forward_limit, tax_rate_percent, overtime_multiplier,
			pay_day, cycle, created_at, updated_at
	`

	var created settings.Settings
	err := q.QueryRow(ctx, query,
		s.ID, s.AnnualLeaveQuota, s.SickLeaveQuota, s.PersonalLeaveQuota,
		s.MaternityLeaveQuota, s.PaternityLeaveQuota, s.UnpaidLeaveQuota,
		s.CarryForwardLimit, s.TaxRatePercent, s.OvertimeMultiplier, s.PayDay, s.Cycle,
	).Scan(
		&created.ID, &created.AnnualLeaveQuota, &created.SickLeaveQuota, &created.PersonalLeaveQuota,
		&created.MaternityLeaveQuota, &created.PaternityLeaveQuota, &created.UnpaidLeaveQuota,
		&created.CarryForwardLimit, &created.TaxRatePercent, &created.OvertimeMultiplier,
		&created.PayDay, &created.Cycle, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_settings_singleton") {
			return settings.Settings{}, settings.ErrSettingsAlreadyExists
		}
		return settings.Settings{}, fmt.Errorf("failed to create settings: %w", err)
	}

	return created, nil
}

func (r *settingsRepository) Update(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE organization_settings SET
			annual_leave_quota = $2, sick_leave_quota = $3, personal_leave_quota = $4,
			maternity_leave_quota = $5, paternity_leave_quota = $6, unpaid_leave_quota = $7,
			carry_forward_limit = $8, tax_rate_percent = $9, overtime_multiplier = $10,
			pay_day = $11, cycle = $12, updated_at = NOW()
		WHERE id = $1
		RETURNING id, annual_leave_quota, sick_leave_quota, personal_leave_quota,
			maternity_leave_quota, paternity_leave_quota, unpaid_leave_quota,
			carry_forward_limit, tax_rate_percent, overtime_multiplier,
			pay_day, cycle, created_at, updated_at
	`

	var updated settings.Settings
	err := q.QueryRow(ctx, query,
		s.ID, s.AnnualLeaveQuota, s.SickLeaveQuota, s.PersonalLeaveQuota,
		s.MaternityLeaveQuota, s.PaternityLeaveQuota, s.UnpaidLeaveQuota,
		s.CarryForwardLimit, s.TaxRatePercent, s.OvertimeMultiplier, s.PayDay, s.Cycle,
	).Scan(
		&updated.ID, &updated.AnnualLeaveQuota, &updated.SickLeaveQuota, &updated.PersonalLeaveQuota,
		&updated.MaternityLeaveQuota, &updated.PaternityLeaveQuota, &updated.UnpaidLeaveQuota,
		&updated.CarryForwardLimit, &updated.TaxRatePercent, &updated.OvertimeMultiplier,
		&updated.PayDay, &updated.Cycle, &updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.Settings{}, settings.ErrSettingsNotConfigured
		}
		return settings.Settings{}, fmt.Errorf("failed to update settings: %w", err)
	}

	return updated, nil
}
