package trip

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrTripNotFound      = errors.New("trip not found")
	ErrParticipantExists = errors.New("participant already added to trip")
)

// Service handles trip business logic
type Service struct {
	repo Repository
}

// NewService creates a new trip service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new trip
func (s *Service) Create(ctx context.Context, req *CreateTripRequest) (*Trip, error) {
	return s.repo.CreateTrip(ctx, req)
}

// GetByID retrieves a trip with its participants
func (s *Service) GetByID(ctx context.Context, id int64) (*Trip, []*Participant, error) {
	trip, err := s.repo.GetTripByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if trip == nil {
		return nil, nil, ErrTripNotFound
	}

	participants, err := s.repo.ListParticipants(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return trip, participants, nil
}

// AddParticipant adds a participant to a trip
func (s *Service) AddParticipant(ctx context.Context, tripID int64, req *AddParticipantRequest) (*Participant, error) {
	trip, err := s.repo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, ErrTripNotFound
	}

	return s.repo.AddParticipant(ctx, tripID, req)
}

// ListParticipants retrieves the participants of a trip
func (s *Service) ListParticipants(ctx context.Context, tripID int64) ([]*Participant, error) {
	trip, err := s.repo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, ErrTripNotFound
	}

	return s.repo.ListParticipants(ctx, tripID)
}
