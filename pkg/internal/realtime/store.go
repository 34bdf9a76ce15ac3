package realtime

import (
	"context"

	"github.com/livepoll-dev/server/pkg/internal/models"
	"github.com/livepoll-dev/server/pkg/internal/services"
)

// Store is the durable record contract the coordinator writes through. All
// calls are awaited and may fail with a generic persistence error; the
// coordinator maps those to scoped error events. CreateSession fails when an
// active session already holds the code; callers resolve the conflict by
// re-reading.
type Store interface {
	CreateSession(ctx context.Context, code string) (models.Session, error)
	FindActiveSession(ctx context.Context, code string) (*models.Session, error)
	FindSessionByID(ctx context.Context, id uint) (*models.Session, error)
	EndSession(ctx context.Context, code string) (*models.Session, error)

	CreatePoll(ctx context.Context, session models.Session, question string, options []string, duration *int) (models.Poll, error)
	AppendPollToSession(ctx context.Context, session models.Session, pollId uint) error
	SetPollActive(ctx context.Context, pollId uint, active bool) error
	FindPoll(ctx context.Context, pollId uint) (*models.Poll, error)

	CreateResponse(ctx context.Context, poll models.Poll, userId string, selectedOption int) (models.Response, error)
	FindResponsesForPoll(ctx context.Context, pollId uint) ([]models.Response, error)
}

// serviceStore backs the contract with the gorm-based services layer.
type serviceStore struct{}

func NewServiceStore() Store {
	return serviceStore{}
}

func (serviceStore) CreateSession(ctx context.Context, code string) (models.Session, error) {
	return services.NewSession(code, nil)
}

func (serviceStore) FindActiveSession(ctx context.Context, code string) (*models.Session, error) {
	return services.FindActiveSession(ctx, code)
}

func (serviceStore) FindSessionByID(ctx context.Context, id uint) (*models.Session, error) {
	return services.FindSessionByID(ctx, id)
}

func (serviceStore) EndSession(ctx context.Context, code string) (*models.Session, error) {
	return services.EndSession(ctx, code)
}

func (serviceStore) CreatePoll(ctx context.Context, session models.Session, question string, options []string, duration *int) (models.Poll, error) {
	return services.NewPoll(ctx, session, question, options, duration)
}

func (serviceStore) AppendPollToSession(ctx context.Context, session models.Session, pollId uint) error {
	return services.AppendPollToSession(ctx, session, pollId)
}

func (serviceStore) SetPollActive(ctx context.Context, pollId uint, active bool) error {
	return services.SetPollActive(ctx, pollId, active)
}

func (serviceStore) FindPoll(ctx context.Context, pollId uint) (*models.Poll, error) {
	return services.FindPoll(ctx, pollId)
}

func (serviceStore) CreateResponse(ctx context.Context, poll models.Poll, userId string, selectedOption int) (models.Response, error) {
	return services.NewResponse(ctx, poll, userId, selectedOption)
}

func (serviceStore) FindResponsesForPoll(ctx context.Context, pollId uint) ([]models.Response, error) {
	return services.ListResponsesForPoll(ctx, pollId)
}
