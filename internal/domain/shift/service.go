package shift

import "context"

type Service interface {
	// CreateShift expands one worker's request. PolicyNotFound and invalid
	// input are returned as errors; conflicts become failure entries.
	CreateShift(ctx context.Context, req CreateShiftRequest) (BatchResult, error)
	// CreateShiftsForWorkers expands the same request for several workers
	// independently. Missing policies become per-worker failures.
	CreateShiftsForWorkers(ctx context.Context, req BatchCreateShiftRequest) (BatchResult, error)

	GetShift(ctx context.Context, id string) (ShiftResponse, error)
	ListShifts(ctx context.Context, req ListShiftsRequest) ([]ShiftResponse, error)
	UpdateShift(ctx context.Context, req UpdateShiftRequest) (ShiftResponse, error)
	DeleteShift(ctx context.Context, id string) error
}
