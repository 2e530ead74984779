package payroll

import (
	"context"
)

type PayrollService interface {
	GenerateForPeriod(ctx context.Context, req GenerateRequest) (GenerationResult, error)
	GetRecord(ctx context.Context, id string) (RecordResponse, error)
	ListRecords(ctx context.Context, filter Filter) (ListRecordsResponse, error)
	UpdateRecord(ctx context.Context, req UpdateRecordRequest) (UpdateRecordResponse, error)
	DeleteRecord(ctx context.Context, id string) error

	// Aggregations
	MonthlyTotals(ctx context.Context, limit int) ([]MonthlyTotal, error)
	CurrentMonthTotals(ctx context.Context) (CompanyTotals, error)
	EmployeeHistory(ctx context.Context, employeeID string) ([]RecordResponse, error)
}
