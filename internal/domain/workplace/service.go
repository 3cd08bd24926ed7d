package workplace

import (
	"context"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
)

// Service answers who may act on which workplace.
type Service interface {
	ListForViewer(ctx context.Context, viewer user.Viewer) ([]WorkplaceResponse, error)
	// Authorize checks that viewer owns the workplace or, when allowWorker
	// is set, is a member of it.
	Authorize(ctx context.Context, viewer user.Viewer, workplaceID string, allowWorker bool) (Workplace, error)
}
