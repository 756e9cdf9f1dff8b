// Package startup seeds the records the application cannot run without.
package startup

import (
	"context"
	"errors"

	"github.com/testdeck/testdeck/pkg/constants"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

type seeder struct {
	testerTypeStore core.TesterTypeStore
	statusSetStore  core.StatusSetStore
	statusStore     core.StatusStore
	logger          lumber.Logger
}

// NewSeeder returns a seeder that creates the built-in tester types and
// the default status set. Seeding is idempotent.
func NewSeeder(
	testerTypeStore core.TesterTypeStore,
	statusSetStore core.StatusSetStore,
	statusStore core.StatusStore,
	logger lumber.Logger) core.Seeder {
	return &seeder{
		testerTypeStore: testerTypeStore,
		statusSetStore:  statusSetStore,
		statusStore:     statusStore,
		logger:          logger,
	}
}

func (s *seeder) Seed(ctx context.Context) error {
	if err := s.seedTesterTypes(ctx); err != nil {
		return err
	}
	return s.seedDefaultStatusSet(ctx)
}

func (s *seeder) seedTesterTypes(ctx context.Context) error {
	names := []string{constants.TesterTypeSuper, constants.TesterTypeAdmin, constants.TesterTypeRegular}
	for _, name := range names {
		if _, err := s.testerTypeStore.FindByName(ctx, name); err == nil {
			continue
		} else if !errors.Is(err, errs.ErrRowsNotFound) {
			return err
		}
		if _, err := s.testerTypeStore.Create(ctx, &core.TesterType{Name: name}); err != nil {
			// a concurrent instance may have created the row already
			if errors.Is(err, errs.ErrDupeKey) {
				continue
			}
			return err
		}
		s.logger.Infof("seeded tester type %s", name)
	}
	return nil
}

func (s *seeder) seedDefaultStatusSet(ctx context.Context) error {
	if _, err := s.statusSetStore.FindByName(ctx, constants.DefaultStatusSetName); err == nil {
		return nil
	} else if !errors.Is(err, errs.ErrRowsNotFound) {
		return err
	}

	setID, err := s.statusSetStore.Create(ctx, &core.StatusSet{Name: constants.DefaultStatusSetName})
	if err != nil {
		if errors.Is(err, errs.ErrDupeKey) {
			return nil
		}
		return err
	}

	statuses := []core.Status{
		{Name: "Not Run", Role: core.StatusRoleNotRun},
		{Name: "In Progress", Role: core.StatusRoleInProgress},
		{Name: "Passed", Role: core.StatusRolePassed},
		{Name: "Failed", Role: core.StatusRoleFailed},
		{Name: "Blocked", Role: core.StatusRoleBlocked},
	}
	for i := range statuses {
		statuses[i].StatusSetID = setID
		if _, err := s.statusStore.Create(ctx, &statuses[i]); err != nil {
			return err
		}
	}
	s.logger.Infof("seeded status set %s with %d statuses", constants.DefaultStatusSetName, len(statuses))
	return nil
}
