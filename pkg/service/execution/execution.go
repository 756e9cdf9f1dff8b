// Package execution fills runs with executions and applies status
// transitions to them.
package execution

import (
	"context"
	"errors"
	"time"

	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

type executionService struct {
	testSuiteStore  core.TestSuiteStore
	suitcaseStore   core.SuitcaseStore
	testCaseStore   core.TestCaseStore
	versionStore    core.TestCaseVersionStore
	statusStore     core.StatusStore
	runStore        core.RunStore
	deviceStore     core.DeviceStore
	testerStore     core.TesterStore
	executionStore  core.ExecutionStore
	attachmentStore core.AttachmentStore
	logger          lumber.Logger
}

// New returns a new ExecutionService.
func New(testSuiteStore core.TestSuiteStore,
	suitcaseStore core.SuitcaseStore,
	testCaseStore core.TestCaseStore,
	versionStore core.TestCaseVersionStore,
	statusStore core.StatusStore,
	runStore core.RunStore,
	deviceStore core.DeviceStore,
	testerStore core.TesterStore,
	executionStore core.ExecutionStore,
	attachmentStore core.AttachmentStore,
	logger lumber.Logger) core.ExecutionService {
	return &executionService{
		testSuiteStore:  testSuiteStore,
		suitcaseStore:   suitcaseStore,
		testCaseStore:   testCaseStore,
		versionStore:    versionStore,
		statusStore:     statusStore,
		runStore:        runStore,
		deviceStore:     deviceStore,
		testerStore:     testerStore,
		executionStore:  executionStore,
		attachmentStore: attachmentStore,
		logger:          logger,
	}
}

// ResolveSuiteVersions walks the suite memberships in insertion order and
// picks one version per test case. An override selects an explicit
// version of that test case, otherwise the most recent version wins.
// Test cases without any version are skipped.
func (s *executionService) ResolveSuiteVersions(ctx context.Context, testSuiteID int64, overrides map[int64]int64) ([]*core.ResolvedCase, error) {
	if _, err := s.testSuiteStore.Find(ctx, testSuiteID); err != nil {
		return nil, err
	}
	suitcases, err := s.suitcaseStore.FindBySuite(ctx, testSuiteID)
	if err != nil {
		return nil, err
	}
	if len(suitcases) == 0 {
		return nil, errs.ErrEmptySuite
	}

	resolved := make([]*core.ResolvedCase, 0, len(suitcases))
	for _, sc := range suitcases {
		versions, err := s.versionStore.FindByTestCase(ctx, sc.TestCaseID)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				// a test case without versions has nothing to execute
				continue
			}
			return nil, err
		}
		picked := versions[0]
		if overrideID, ok := overrides[sc.TestCaseID]; ok {
			for _, v := range versions {
				if v.ID == overrideID {
					picked = v
					break
				}
			}
		}
		resolved = append(resolved, &core.ResolvedCase{
			TestCaseID:        sc.TestCaseID,
			TestCaseVersionID: picked.ID,
		})
	}
	return resolved, nil
}

// MaterializeRun ensures the run has one execution per resolved suite
// member, numbered from 1 in suite order. Existing executions for a
// version keep their row but are re-ordered when their position moved.
// A pair that fails to persist is logged and skipped, the order counter
// still advances so the remaining pairs keep their positions.
func (s *executionService) MaterializeRun(ctx context.Context, req *core.MaterializeRequest) ([]*core.Execution, error) {
	if _, err := s.runStore.Find(ctx, req.RunID); err != nil {
		return nil, err
	}
	if _, err := s.deviceStore.Find(ctx, req.DeviceID); err != nil {
		return nil, err
	}
	if _, err := s.testerStore.Find(ctx, req.TesterID); err != nil {
		return nil, err
	}

	resolved, err := s.ResolveSuiteVersions(ctx, req.TestSuiteID, req.Overrides)
	if err != nil {
		return nil, err
	}

	// one default status lookup per status set
	defaultStatuses := map[int64]*core.Status{}
	executions := make([]*core.Execution, 0, len(resolved))
	order := 0
	for _, rc := range resolved {
		order++
		existing, err := s.executionStore.FindByRunAndVersion(ctx, req.RunID, rc.TestCaseVersionID)
		if err == nil {
			if existing.ExecutionOrder != order {
				if uerr := s.executionStore.UpdateOrder(ctx, existing.ID, order); uerr != nil {
					s.logger.Errorf("failed to reorder execution %d in run %d, error: %v", existing.ID, req.RunID, uerr)
					continue
				}
				existing.ExecutionOrder = order
			}
			executions = append(executions, existing)
			continue
		}
		if !errors.Is(err, errs.ErrRowsNotFound) {
			s.logger.Errorf("failed to look up execution for run %d version %d, error: %v", req.RunID, rc.TestCaseVersionID, err)
			continue
		}

		status, serr := s.defaultStatus(ctx, defaultStatuses, rc.TestCaseID)
		if serr != nil {
			return nil, serr
		}
		execution := &core.Execution{
			DeviceID:          req.DeviceID,
			RunID:             req.RunID,
			TestCaseVersionID: rc.TestCaseVersionID,
			ExecutedBy:        req.TesterID,
			StatusID:          status.ID,
			ExecutionOrder:    order,
		}
		id, cerr := s.executionStore.Create(ctx, execution)
		if cerr != nil {
			s.logger.Errorf("failed to create execution for run %d version %d, error: %v", req.RunID, rc.TestCaseVersionID, cerr)
			continue
		}
		execution.ID = id
		executions = append(executions, execution)
	}
	return executions, nil
}

// defaultStatus returns the not-run status of the test case's status set.
func (s *executionService) defaultStatus(ctx context.Context, cache map[int64]*core.Status, testCaseID int64) (*core.Status, error) {
	testCase, err := s.testCaseStore.Find(ctx, testCaseID)
	if err != nil {
		return nil, err
	}
	if status, ok := cache[testCase.StatusSetID]; ok {
		return status, nil
	}
	status, err := s.statusStore.FindByRole(ctx, testCase.StatusSetID, core.StatusRoleNotRun)
	if err != nil {
		if errors.Is(err, errs.ErrRowsNotFound) {
			return nil, errs.ErrNoNotRunStatus
		}
		return nil, err
	}
	cache[testCase.StatusSetID] = status
	return status, nil
}

// TransitionStatus moves an execution to the given status. The first
// transition stamps executed_at, later ones keep the original timestamp.
// Result and attachment references only change when the transition
// carries them.
func (s *executionService) TransitionStatus(ctx context.Context, executionID int64, transition *core.StatusTransition) (*core.Execution, error) {
	if _, err := s.executionStore.Find(ctx, executionID); err != nil {
		return nil, err
	}
	if _, err := s.statusStore.Find(ctx, transition.StatusID); err != nil {
		if errors.Is(err, errs.ErrRowsNotFound) {
			return nil, errs.ErrUnknownStatus
		}
		return nil, err
	}
	if transition.AttachmentID.Valid {
		if _, err := s.attachmentStore.Find(ctx, transition.AttachmentID.Int64); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				return nil, errs.ErrUnknownAttachment
			}
			return nil, err
		}
	}
	if err := s.executionStore.UpdateStatus(ctx, executionID, transition, time.Now()); err != nil {
		return nil, err
	}
	return s.executionStore.Find(ctx, executionID)
}

// ReassignDevice moves the execution to another device.
func (s *executionService) ReassignDevice(ctx context.Context, executionID, deviceID int64) (*core.Execution, error) {
	if _, err := s.deviceStore.Find(ctx, deviceID); err != nil {
		return nil, err
	}
	if err := s.executionStore.UpdateDevice(ctx, executionID, deviceID); err != nil {
		return nil, err
	}
	return s.executionStore.Find(ctx, executionID)
}

// ReassignTester moves the execution to another tester.
func (s *executionService) ReassignTester(ctx context.Context, executionID, testerID int64) (*core.Execution, error) {
	if _, err := s.testerStore.Find(ctx, testerID); err != nil {
		return nil, err
	}
	if err := s.executionStore.UpdateTester(ctx, executionID, testerID); err != nil {
		return nil, err
	}
	return s.executionStore.Find(ctx, executionID)
}
