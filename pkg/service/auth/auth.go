// Package auth implements tester registration and credential checks.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/testdeck/testdeck/pkg/constants"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/guregu/null.v4/zero"
)

type authService struct {
	testerStore     core.TesterStore
	testerTypeStore core.TesterTypeStore
	logger          lumber.Logger
}

// New returns a new AuthService.
func New(testerStore core.TesterStore, testerTypeStore core.TesterTypeStore, logger lumber.Logger) core.AuthService {
	return &authService{
		testerStore:     testerStore,
		testerTypeStore: testerTypeStore,
		logger:          logger,
	}
}

// Register creates an active tester account with the regular tester type
// and a bcrypt password hash.
func (s *authService) Register(ctx context.Context, req *core.RegisterRequest) (*core.Tester, error) {
	testerType, err := s.testerTypeStore.FindByName(ctx, constants.TesterTypeRegular)
	if err != nil {
		s.logger.Errorf("failed to find tester type %s, error: %v", constants.TesterTypeRegular, err)
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	tester := &core.Tester{
		TesterTypeID: testerType.ID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     string(hash),
		Active:       true,
		Created:      time.Now(),
	}
	id, err := s.testerStore.Create(ctx, tester)
	if err != nil {
		return nil, err
	}
	tester.ID = id
	return tester, nil
}

// Login verifies the credentials and stamps the last login time.
func (s *authService) Login(ctx context.Context, email, password string) (*core.Tester, error) {
	tester, err := s.testerStore.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrRowsNotFound) {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}
	if !tester.Active {
		return nil, errs.ErrInactiveTester
	}
	if err := bcrypt.CompareHashAndPassword([]byte(tester.Password), []byte(password)); err != nil {
		return nil, errs.ErrInvalidCredentials
	}
	now := time.Now()
	if err := s.testerStore.UpdateLastLogin(ctx, tester.ID, now); err != nil {
		// the login itself succeeded, only the stamp failed
		s.logger.Errorf("failed to update last login for tester %d, error: %v", tester.ID, err)
	} else {
		tester.LastLogin = zero.TimeFrom(now)
	}
	return tester, nil
}
