package leave

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talenthub/hrm-backend-go/internal/domain/leave"
)

// RequestService gates creation of leave requests against remaining
// balance and owns the request lifecycle (pending → approved/rejected,
// owner edit and delete while pending).
type RequestService struct {
	ledger      *Ledger
	requestRepo leave.RequestRepository

	// Admission is serialized per (employee, year) so two concurrent
	// requests cannot both pass the same remaining-balance check.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRequestService(ledger *Ledger, requestRepo leave.RequestRepository) *RequestService {
	return &RequestService{
		ledger:      ledger,
		requestRepo: requestRepo,
		locks:       make(map[string]*sync.Mutex),
	}
}

func (s *RequestService) admissionLock(employeeID string, year int) *sync.Mutex {
	key := fmt.Sprintf("%s:%d", employeeID, year)
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// CreateRequest computes the business-day duration, checks it against
// the employee's remaining balance for the request's year, and
// persists a pending request. Validation failures never persist a row.
func (s *RequestService) CreateRequest(ctx context.Context, req leave.CreateRequestRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	leaveType, err := leave.ParseType(req.LeaveType)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	if endDate.Before(startDate) {
		return leave.RequestResponse{}, leave.ErrInvalidDateRange
	}
	duration := BusinessDays(startDate, endDate)
	if duration <= 0 {
		return leave.RequestResponse{}, leave.ErrInvalidDateRange
	}

	year := startDate.Year()
	lock := s.admissionLock(req.EmployeeID, year)
	lock.Lock()
	defer lock.Unlock()

	if err := s.checkBalance(ctx, req.EmployeeID, year, leaveType, duration, 0); err != nil {
		return leave.RequestResponse{}, err
	}

	request := leave.Request{
		ID:         uuid.Must(uuid.NewV7()).String(),
		EmployeeID: req.EmployeeID,
		Type:       leaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		Duration:   duration,
		Reason:     req.Reason,
		Status:     leave.RequestStatusPending,
	}

	created, err := s.requestRepo.Create(ctx, request)
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return mapToRequestResponse(created), nil
}

// checkBalance compares the requested duration against the snapshot's
// remaining days. reclaimed is the duration of a pending request being
// edited, which the snapshot already counts against the balance.
func (s *RequestService) checkBalance(ctx context.Context, employeeID string, year int, leaveType leave.Type, requested, reclaimed int) error {
	snapshot, err := s.ledger.BalanceSnapshot(ctx, employeeID, year)
	if err != nil {
		return err
	}

	for _, entry := range snapshot.Balances {
		if entry.Type != leaveType {
			continue
		}
		if requested > entry.Remaining+reclaimed {
			return &leave.InsufficientBalanceError{
				Type:      leaveType,
				Remaining: entry.Remaining + reclaimed,
				Pending:   entry.Pending,
				Requested: requested,
			}
		}
		return nil
	}

	return leave.ErrUnknownLeaveType
}

func (s *RequestService) GetRequest(ctx context.Context, id string) (leave.RequestResponse, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	return mapToRequestResponse(request), nil
}

func (s *RequestService) ListRequests(ctx context.Context, filter leave.RequestFilter) (leave.ListRequestsResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	requests, totalCount, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return leave.ListRequestsResponse{}, err
	}

	data := make([]leave.RequestResponse, 0, len(requests))
	for _, r := range requests {
		data = append(data, mapToRequestResponse(r))
	}

	return leave.ListRequestsResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// UpdateRequest applies an owner's patch to a pending request. The
// duration is recomputed from the effective date range and re-admitted
// against the balance, crediting back the request's own pending days.
func (s *RequestService) UpdateRequest(ctx context.Context, req leave.UpdateRequestRequest) (leave.RequestResponse, error) {
	request, err := s.requestRepo.GetByID(ctx, req.ID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if request.EmployeeID != req.EmployeeID {
		return leave.RequestResponse{}, leave.ErrNotRequestOwner
	}
	if request.Status != leave.RequestStatusPending {
		return leave.RequestResponse{}, leave.ErrRequestAlreadyProcessed
	}

	oldDuration := request.Duration
	oldYear := request.StartDate.Year()

	if req.LeaveType != nil {
		leaveType, err := leave.ParseType(*req.LeaveType)
		if err != nil {
			return leave.RequestResponse{}, err
		}
		request.Type = leaveType
	}
	if req.StartDate != nil {
		startDate, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return leave.RequestResponse{}, leave.ErrInvalidDateRange
		}
		request.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return leave.RequestResponse{}, leave.ErrInvalidDateRange
		}
		request.EndDate = endDate
	}
	if req.Reason != nil {
		request.Reason = *req.Reason
	}

	if request.EndDate.Before(request.StartDate) {
		return leave.RequestResponse{}, leave.ErrInvalidDateRange
	}
	request.Duration = BusinessDays(request.StartDate, request.EndDate)
	if request.Duration <= 0 {
		return leave.RequestResponse{}, leave.ErrInvalidDateRange
	}

	year := request.StartDate.Year()
	lock := s.admissionLock(request.EmployeeID, year)
	lock.Lock()
	defer lock.Unlock()

	// The snapshot still counts the stored pending row; credit it back
	// only when the edit stays within the same year.
	reclaimed := 0
	if year == oldYear {
		reclaimed = oldDuration
	}
	if err := s.checkBalance(ctx, request.EmployeeID, year, request.Type, request.Duration, reclaimed); err != nil {
		return leave.RequestResponse{}, err
	}

	updated, err := s.requestRepo.Update(ctx, request)
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	return mapToRequestResponse(updated), nil
}

// SetStatus transitions a pending request to approved or rejected.
// No balance mutation happens here; balances are always derived live
// from the request set, so approval changes what future admission
// checks see without any cache invalidation.
func (s *RequestService) SetStatus(ctx context.Context, req leave.SetStatusRequest) (leave.RequestResponse, error) {
	status := leave.RequestStatus(req.Status)
	if !status.Terminal() {
		return leave.RequestResponse{}, leave.ErrInvalidStatus
	}

	request, err := s.requestRepo.GetByID(ctx, req.ID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if request.Status != leave.RequestStatusPending {
		return leave.RequestResponse{}, leave.ErrRequestAlreadyProcessed
	}

	actionAt := time.Now()
	if err := s.requestRepo.UpdateStatus(ctx, req.ID, status, req.ActorID, actionAt); err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to update leave request status: %w", err)
	}

	request.Status = status
	request.ActionBy = &req.ActorID
	request.ActionAt = &actionAt

	return mapToRequestResponse(request), nil
}

// DeleteRequest removes an owner's request, allowed only while
// pending.
func (s *RequestService) DeleteRequest(ctx context.Context, id string, employeeID string) error {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if request.EmployeeID != employeeID {
		return leave.ErrNotRequestOwner
	}
	if request.Status != leave.RequestStatusPending {
		return leave.ErrRequestAlreadyProcessed
	}

	return s.requestRepo.Delete(ctx, id)
}

func mapToRequestResponse(r leave.Request) leave.RequestResponse {
	return leave.RequestResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		LeaveType:    string(r.Type),
		StartDate:    r.StartDate.Format("2006-01-02"),
		EndDate:      r.EndDate.Format("2006-01-02"),
		Duration:     r.Duration,
		Reason:       r.Reason,
		Status:       string(r.Status),
		ActionBy:     r.ActionBy,
		ActionAt:     r.ActionAt,
		CreatedAt:    r.CreatedAt,
	}
}
