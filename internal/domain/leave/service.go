package leave

import (
	"context"
)

type LedgerService interface {
	BalanceSnapshot(ctx context.Context, employeeID string, year int) (BalanceSnapshotResponse, error)
	// CarryForward rolls fromYear's unused annual days into the next
	// year, capped at the settings limit, and returns the next year's
	// snapshot.
	CarryForward(ctx context.Context, employeeID string, fromYear int) (BalanceSnapshotResponse, error)
}

type RequestService interface {
	CreateRequest(ctx context.Context, req CreateRequestRequest) (RequestResponse, error)
	GetRequest(ctx context.Context, id string) (RequestResponse, error)
	ListRequests(ctx context.Context, filter RequestFilter) (ListRequestsResponse, error)
	UpdateRequest(ctx context.Context, req UpdateRequestRequest) (RequestResponse, error)
	SetStatus(ctx context.Context, req SetStatusRequest) (RequestResponse, error)
	DeleteRequest(ctx context.Context, id string, employeeID string) error
}
