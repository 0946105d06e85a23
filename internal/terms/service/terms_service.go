// Package service implements terms-of-service lookup and acceptance.
package service

import (
	"context"
	"time"

	apperrors "user-auth-service/internal/errors"
	"user-auth-service/internal/terms/domain"
	termsrepo "user-auth-service/internal/terms/repository"
)

// UserTermsRepo is the slice of the user repository the terms service needs.
type UserTermsRepo interface {
	SetTermsAccepted(ctx context.Context, userID, version string, at time.Time) error
}

// TermsService serves the latest terms version and records user acceptance.
type TermsService struct {
	terms termsrepo.Repository
	users UserTermsRepo
}

// NewTermsService returns a TermsService with the given dependencies.
func NewTermsService(terms termsrepo.Repository, users UserTermsRepo) *TermsService {
	return &TermsService{terms: terms, users: users}
}

// Latest returns the currently-published terms version.
func (s *TermsService) Latest(ctx context.Context) (*domain.Terms, error) {
	t, err := s.terms.GetLatest(ctx)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperrors.NotFound("no terms published")
	}
	return t, nil
}

// Agree stamps the user's acceptance of the submitted terms version. The
// version must be the currently-published latest; a stale submission is
// rejected so a user cannot accept terms they have not seen.
func (s *TermsService) Agree(ctx context.Context, userID, version string) (*domain.Terms, error) {
	t, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if version != t.Version {
		return nil, apperrors.ValidationField("version", "not the latest terms version")
	}
	if err := s.users.SetTermsAccepted(ctx, userID, t.Version, time.Now().UTC()); err != nil {
		return nil, err
	}
	return t, nil
}
