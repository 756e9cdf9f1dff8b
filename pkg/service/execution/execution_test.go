package execution

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
	"gopkg.in/guregu/null.v4/zero"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{})          {}
func (nopLogger) Infof(string, ...interface{})           {}
func (nopLogger) Warnf(string, ...interface{})           {}
func (nopLogger) Errorf(string, ...interface{})          {}
func (nopLogger) Fatalf(string, ...interface{})          {}
func (nopLogger) Panicf(string, ...interface{})          {}
func (nopLogger) WithFields(lumber.Fields) lumber.Logger { return nopLogger{} }

type fakeSuiteStore struct {
	suites map[int64]*core.TestSuite
}

func (f *fakeSuiteStore) Create(context.Context, *core.TestSuite) (int64, error) { return 0, nil }
func (f *fakeSuiteStore) Find(_ context.Context, id int64) (*core.TestSuite, error) {
	if s, ok := f.suites[id]; ok {
		return s, nil
	}
	return nil, errs.ErrRowsNotFound
}
func (f *fakeSuiteStore) List(context.Context, int, int) ([]*core.TestSuite, error) {
	return nil, nil
}
func (f *fakeSuiteStore) Update(context.Context, *core.TestSuite) error { return nil }
func (f *fakeSuiteStore) Delete(context.Context, int64) error           { return nil }

type fakeSuitcaseStore struct {
	bySuite map[int64][]*core.Suitcase
}

func (f *fakeSuitcaseStore) Create(context.Context, *core.Suitcase) (int64, error) { return 0, nil }
func (f *fakeSuitcaseStore) Find(context.Context, int64) (*core.Suitcase, error) {
	return nil, errs.ErrRowsNotFound
}
func (f *fakeSuitcaseStore) CreateBulk(context.Context, int64, []int64) (int64, error) {
	return 0, nil
}
func (f *fakeSuitcaseStore) FindBySuite(_ context.Context, suiteID int64) ([]*core.Suitcase, error) {
	return f.bySuite[suiteID], nil
}
func (f *fakeSuitcaseStore) Delete(context.Context, int64) error { return nil }

type fakeCaseStore struct {
	cases map[int64]*core.TestCase
}

func (f *fakeCaseStore) Create(context.Context, *core.TestCase) (int64, error) { return 0, nil }
func (f *fakeCaseStore) Find(_ context.Context, id int64) (*core.TestCase, error) {
	if tc, ok := f.cases[id]; ok {
		return tc, nil
	}
	return nil, errs.ErrRowsNotFound
}
func (f *fakeCaseStore) List(context.Context, int64, int, int) ([]*core.TestCase, error) {
	return nil, nil
}
func (f *fakeCaseStore) Update(context.Context, *core.TestCase) error { return nil }
func (f *fakeCaseStore) Delete(context.Context, int64) error          { return nil }

type fakeVersionStore struct {
	byCase map[int64][]*core.TestCaseVersion
}

func (f *fakeVersionStore) Create(context.Context, *core.TestCaseVersion) (int64, error) {
	return 0, nil
}
func (f *fakeVersionStore) Find(context.Context, int64) (*core.TestCaseVersion, error) {
	return nil, errs.ErrRowsNotFound
}
func (f *fakeVersionStore) FindByTestCase(_ context.Context, caseID int64) ([]*core.TestCaseVersion, error) {
	versions := f.byCase[caseID]
	if len(versions) == 0 {
		return nil, errs.ErrRowsNotFound
	}
	return versions, nil
}
func (f *fakeVersionStore) FindLatest(_ context.Context, caseID int64) (*core.TestCaseVersion, error) {
	versions := f.byCase[caseID]
	if len(versions) == 0 {
		return nil, errs.ErrRowsNotFound
	}
	return versions[0], nil
}
func (f *fakeVersionStore) Update(context.Context, *core.TestCaseVersion) error { return nil }
func (f *fakeVersionStore) Delete(context.Context, int64) error                 { return nil }

type fakeStatusStore struct {
	statuses map[int64]*core.Status
	byRole   map[int64]map[core.StatusRole]*core.Status
}

func (f *fakeStatusStore) Create(context.Context, *core.Status) (int64, error) { return 0, nil }
func (f *fakeStatusStore) Find(_ context.Context, id int64) (*core.Status, error) {
	if st, ok := f.statuses[id]; ok {
		return st, nil
	}
	return nil, errs.ErrRowsNotFound
}
func (f *fakeStatusStore) FindByRole(_ context.Context, setID int64, role core.StatusRole) (*core.Status, error) {
	if st, ok := f.byRole[setID][role]; ok {
		return st, nil
	}
	return nil, errs.ErrRowsNotFound
}
func (f *fakeStatusStore) ListBySet(context.Context, int64) ([]*core.Status, error) {
	return nil, nil
}
func (f *fakeStatusStore) Update(context.Context, *core.Status) error { return nil }
func (f *fakeStatusStore) Delete(context.Context, int64) error        { return nil }

type fakeRunStore struct {
	runs map[int64]*core.Run
}

func (f *fakeRunStore) Create(context.Context, *core.Run) (int64, error) { return 0, nil }
func (f *fakeRunStore) Find(_ context.Context, id int64) (*core.Run, error) {
	if r, ok := f.runs[id]; ok {
		return r, nil
	}
	return nil, errs.ErrRowsNotFound
}
func (f *fakeRunStore) List(context.Context, int64, bool, int, int) ([]*core.Run, error) {
	return nil, nil
}
func (f *fakeRunStore) Update(context.Context, *core.Run) error              { return nil }
func (f *fakeRunStore) Start(context.Context, int64, time.Time) error        { return nil }
func (f *fakeRunStore) Complete(context.Context, int64, time.Time) error     { return nil }
func (f *fakeRunStore) Stats(context.Context, int64) (*core.RunStats, error) { return nil, nil }
func (f *fakeRunStore) Delete(context.Context, int64) error                  { return nil }

type fakeDeviceStore struct {
	devices map[int64]*core.Device
}

func (f *fakeDeviceStore) Create(context.Context, *core.Device) (int64, error) { return 0, nil }
func (f *fakeDeviceStore) Find(_ context.Context, id int64) (*core.Device, error) {
	if d, ok := f.devices[id]; ok {
		return d, nil
	}
	return nil, errs.ErrRowsNotFound
}
func (f *fakeDeviceStore) List(context.Context, int64, int, int) ([]*core.Device, error) {
	return nil, nil
}
func (f *fakeDeviceStore) Update(context.Context, *core.Device) error { return nil }
func (f *fakeDeviceStore) Delete(context.Context, int64) error        { return nil }

type fakeTesterStore struct {
	testers map[int64]*core.Tester
}

func (f *fakeTesterStore) Create(context.Context, *core.Tester) (int64, error) { return 0, nil }
func (f *fakeTesterStore) Find(_ context.Context, id int64) (*core.Tester, error) {
	if t, ok := f.testers[id]; ok {
		return t, nil
	}
	return nil, errs.ErrRowsNotFound
}
func (f *fakeTesterStore) FindByEmail(context.Context, string) (*core.Tester, error) {
	return nil, errs.ErrRowsNotFound
}
func (f *fakeTesterStore) List(context.Context, int, int) ([]*core.Tester, error) { return nil, nil }
func (f *fakeTesterStore) Update(context.Context, *core.Tester) error             { return nil }
func (f *fakeTesterStore) UpdateLastLogin(context.Context, int64, time.Time) error {
	return nil
}
func (f *fakeTesterStore) Delete(context.Context, int64) error { return nil }

type fakeExecutionStore struct {
	nextID     int64
	executions map[int64]*core.Execution
	createErr  map[int64]error // keyed by test case version id
}

func (f *fakeExecutionStore) Create(_ context.Context, e *core.Execution) (int64, error) {
	if err, ok := f.createErr[e.TestCaseVersionID]; ok {
		return 0, err
	}
	f.nextID++
	copied := *e
	copied.ID = f.nextID
	f.executions[f.nextID] = &copied
	return f.nextID, nil
}
func (f *fakeExecutionStore) Find(_ context.Context, id int64) (*core.Execution, error) {
	if e, ok := f.executions[id]; ok {
		return e, nil
	}
	return nil, errs.ErrRowsNotFound
}
func (f *fakeExecutionStore) FindByRunAndVersion(_ context.Context, runID, versionID int64) (*core.Execution, error) {
	for _, e := range f.executions {
		if e.RunID == runID && e.TestCaseVersionID == versionID {
			return e, nil
		}
	}
	return nil, errs.ErrRowsNotFound
}
func (f *fakeExecutionStore) List(context.Context, *core.ExecutionFilters, int, int) ([]*core.Execution, error) {
	return nil, nil
}
func (f *fakeExecutionStore) ListByRun(context.Context, int64) ([]*core.Execution, error) {
	return nil, nil
}
func (f *fakeExecutionStore) UpdateOrder(_ context.Context, id int64, order int) error {
	e, ok := f.executions[id]
	if !ok {
		return errs.ErrRowsNotFound
	}
	e.ExecutionOrder = order
	return nil
}
func (f *fakeExecutionStore) UpdateStatus(_ context.Context, id int64, transition *core.StatusTransition, at time.Time) error {
	e, ok := f.executions[id]
	if !ok {
		return errs.ErrRowsNotFound
	}
	e.StatusID = transition.StatusID
	if transition.ActualResult.Valid {
		e.ActualResult = transition.ActualResult
	}
	if transition.AttachmentID.Valid {
		e.AttachmentID = transition.AttachmentID
	}
	if !e.ExecutedAt.Valid {
		e.ExecutedAt.SetValid(at)
	}
	return nil
}
func (f *fakeExecutionStore) UpdateDevice(_ context.Context, id, deviceID int64) error {
	e, ok := f.executions[id]
	if !ok {
		return errs.ErrRowsNotFound
	}
	e.DeviceID = deviceID
	return nil
}
func (f *fakeExecutionStore) UpdateTester(_ context.Context, id, testerID int64) error {
	e, ok := f.executions[id]
	if !ok {
		return errs.ErrRowsNotFound
	}
	e.ExecutedBy = testerID
	return nil
}
func (f *fakeExecutionStore) Stats(context.Context, *core.ExecutionFilters) (*core.ExecutionStats, error) {
	return nil, nil
}
func (f *fakeExecutionStore) Delete(context.Context, int64) error { return nil }

type fakeAttachmentStore struct {
	attachments map[int64]*core.Attachment
}

func (f *fakeAttachmentStore) Create(context.Context, *core.Attachment) (int64, error) {
	return 0, nil
}
func (f *fakeAttachmentStore) Find(_ context.Context, id int64) (*core.Attachment, error) {
	if a, ok := f.attachments[id]; ok {
		return a, nil
	}
	return nil, errs.ErrRowsNotFound
}
func (f *fakeAttachmentStore) List(context.Context, int64, int, int) ([]*core.Attachment, error) {
	return nil, nil
}
func (f *fakeAttachmentStore) Delete(context.Context, int64) error { return nil }

type fixture struct {
	suiteStore      *fakeSuiteStore
	suitcaseStore   *fakeSuitcaseStore
	caseStore       *fakeCaseStore
	versionStore    *fakeVersionStore
	statusStore     *fakeStatusStore
	runStore        *fakeRunStore
	deviceStore     *fakeDeviceStore
	testerStore     *fakeTesterStore
	executionStore  *fakeExecutionStore
	attachmentStore *fakeAttachmentStore
	service         core.ExecutionService
}

// newFixture builds a suite with two test cases. Case 1 has versions 11
// (older) and 12 (newer), case 2 has version 21. Both cases use status
// set 1 whose not-run status is 100.
func newFixture() *fixture {
	f := &fixture{
		suiteStore: &fakeSuiteStore{suites: map[int64]*core.TestSuite{
			1: {ID: 1, Name: "smoke"},
			2: {ID: 2, Name: "empty"},
		}},
		suitcaseStore: &fakeSuitcaseStore{bySuite: map[int64][]*core.Suitcase{
			1: {
				{ID: 1, TestCaseID: 1, TestSuiteID: 1},
				{ID: 2, TestCaseID: 2, TestSuiteID: 1},
			},
		}},
		caseStore: &fakeCaseStore{cases: map[int64]*core.TestCase{
			1: {ID: 1, ScenarioID: 1, StatusSetID: 1},
			2: {ID: 2, ScenarioID: 1, StatusSetID: 1},
		}},
		versionStore: &fakeVersionStore{byCase: map[int64][]*core.TestCaseVersion{
			1: {
				{ID: 12, TestCaseID: 1, Version: 2},
				{ID: 11, TestCaseID: 1, Version: 1},
			},
			2: {
				{ID: 21, TestCaseID: 2, Version: 1},
			},
		}},
		statusStore: &fakeStatusStore{
			statuses: map[int64]*core.Status{
				100: {ID: 100, StatusSetID: 1, Name: "Not Run", Role: core.StatusRoleNotRun},
				101: {ID: 101, StatusSetID: 1, Name: "Passed", Role: core.StatusRolePassed},
			},
			byRole: map[int64]map[core.StatusRole]*core.Status{
				1: {core.StatusRoleNotRun: {ID: 100, StatusSetID: 1, Name: "Not Run", Role: core.StatusRoleNotRun}},
			},
		},
		runStore:        &fakeRunStore{runs: map[int64]*core.Run{5: {ID: 5, Name: "nightly", ProjectID: 1}}},
		deviceStore:     &fakeDeviceStore{devices: map[int64]*core.Device{7: {ID: 7, ProjectID: 1}}},
		testerStore:     &fakeTesterStore{testers: map[int64]*core.Tester{3: {ID: 3, Email: "qa@example.com"}}},
		executionStore:  &fakeExecutionStore{executions: map[int64]*core.Execution{}, createErr: map[int64]error{}},
		attachmentStore: &fakeAttachmentStore{attachments: map[int64]*core.Attachment{50: {ID: 50, Filename: "trace.log"}}},
	}
	f.service = New(f.suiteStore, f.suitcaseStore, f.caseStore, f.versionStore,
		f.statusStore, f.runStore, f.deviceStore, f.testerStore, f.executionStore,
		f.attachmentStore, nopLogger{})
	return f
}

func TestResolveSuiteVersions(t *testing.T) {
	ctx := context.Background()

	t.Run("picks_most_recent_version", func(t *testing.T) {
		f := newFixture()
		resolved, err := f.service.ResolveSuiteVersions(ctx, 1, nil)
		require.NoError(t, err)
		require.Len(t, resolved, 2)
		assert.Equal(t, int64(12), resolved[0].TestCaseVersionID)
		assert.Equal(t, int64(21), resolved[1].TestCaseVersionID)
	})

	t.Run("override_selects_older_version", func(t *testing.T) {
		f := newFixture()
		resolved, err := f.service.ResolveSuiteVersions(ctx, 1, map[int64]int64{1: 11})
		require.NoError(t, err)
		require.Len(t, resolved, 2)
		assert.Equal(t, int64(11), resolved[0].TestCaseVersionID)
	})

	t.Run("unknown_override_falls_back_to_most_recent", func(t *testing.T) {
		f := newFixture()
		resolved, err := f.service.ResolveSuiteVersions(ctx, 1, map[int64]int64{1: 999})
		require.NoError(t, err)
		assert.Equal(t, int64(12), resolved[0].TestCaseVersionID)
	})

	t.Run("versionless_case_is_skipped", func(t *testing.T) {
		f := newFixture()
		delete(f.versionStore.byCase, 2)
		resolved, err := f.service.ResolveSuiteVersions(ctx, 1, nil)
		require.NoError(t, err)
		require.Len(t, resolved, 1)
		assert.Equal(t, int64(1), resolved[0].TestCaseID)
	})

	t.Run("empty_suite", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.ResolveSuiteVersions(ctx, 2, nil)
		assert.ErrorIs(t, err, errs.ErrEmptySuite)
	})

	t.Run("missing_suite", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.ResolveSuiteVersions(ctx, 99, nil)
		assert.ErrorIs(t, err, errs.ErrRowsNotFound)
	})
}

func TestMaterializeRun(t *testing.T) {
	ctx := context.Background()
	req := func() *core.MaterializeRequest {
		return &core.MaterializeRequest{TestSuiteID: 1, RunID: 5, DeviceID: 7, TesterID: 3}
	}

	t.Run("creates_ordered_executions_with_default_status", func(t *testing.T) {
		f := newFixture()
		executions, err := f.service.MaterializeRun(ctx, req())
		require.NoError(t, err)
		require.Len(t, executions, 2)
		for i, e := range executions {
			assert.Equal(t, i+1, e.ExecutionOrder)
			assert.Equal(t, int64(100), e.StatusID)
			assert.Equal(t, int64(5), e.RunID)
			assert.Equal(t, int64(7), e.DeviceID)
			assert.Equal(t, int64(3), e.ExecutedBy)
		}
	})

	t.Run("is_idempotent_and_reorders_existing_pairs", func(t *testing.T) {
		f := newFixture()
		first, err := f.service.MaterializeRun(ctx, req())
		require.NoError(t, err)

		// drop case 1 from the suite so case 2 moves to position 1
		f.suitcaseStore.bySuite[1] = f.suitcaseStore.bySuite[1][1:]
		second, err := f.service.MaterializeRun(ctx, req())
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, first[1].ID, second[0].ID)
		assert.Equal(t, 1, second[0].ExecutionOrder)
	})

	t.Run("failed_pair_is_skipped_but_order_advances", func(t *testing.T) {
		f := newFixture()
		f.executionStore.createErr[12] = errors.New("insert failed")
		executions, err := f.service.MaterializeRun(ctx, req())
		require.NoError(t, err)
		require.Len(t, executions, 1)
		assert.Equal(t, int64(21), executions[0].TestCaseVersionID)
		assert.Equal(t, 2, executions[0].ExecutionOrder)
	})

	t.Run("missing_not_run_status", func(t *testing.T) {
		f := newFixture()
		delete(f.statusStore.byRole, 1)
		_, err := f.service.MaterializeRun(ctx, req())
		assert.ErrorIs(t, err, errs.ErrNoNotRunStatus)
	})

	t.Run("missing_run", func(t *testing.T) {
		f := newFixture()
		r := req()
		r.RunID = 99
		_, err := f.service.MaterializeRun(ctx, r)
		assert.ErrorIs(t, err, errs.ErrRowsNotFound)
	})
}

func TestTransitionStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps_executed_at_once", func(t *testing.T) {
		f := newFixture()
		executions, err := f.service.MaterializeRun(ctx,
			&core.MaterializeRequest{TestSuiteID: 1, RunID: 5, DeviceID: 7, TesterID: 3})
		require.NoError(t, err)

		updated, err := f.service.TransitionStatus(ctx, executions[0].ID, &core.StatusTransition{StatusID: 101})
		require.NoError(t, err)
		assert.Equal(t, int64(101), updated.StatusID)
		require.True(t, updated.ExecutedAt.Valid)
		firstStamp := updated.ExecutedAt.Time

		updated, err = f.service.TransitionStatus(ctx, executions[0].ID, &core.StatusTransition{StatusID: 100})
		require.NoError(t, err)
		assert.Equal(t, int64(100), updated.StatusID)
		assert.Equal(t, firstStamp, updated.ExecutedAt.Time)
	})

	t.Run("keeps_result_and_attachment_on_status_only_transition", func(t *testing.T) {
		f := newFixture()
		executions, err := f.service.MaterializeRun(ctx,
			&core.MaterializeRequest{TestSuiteID: 1, RunID: 5, DeviceID: 7, TesterID: 3})
		require.NoError(t, err)

		updated, err := f.service.TransitionStatus(ctx, executions[0].ID, &core.StatusTransition{
			StatusID:     101,
			ActualResult: zero.StringFrom("login page rendered"),
			AttachmentID: zero.IntFrom(50),
		})
		require.NoError(t, err)
		assert.Equal(t, "login page rendered", updated.ActualResult.String)
		assert.Equal(t, int64(50), updated.AttachmentID.Int64)

		updated, err = f.service.TransitionStatus(ctx, executions[0].ID, &core.StatusTransition{StatusID: 100})
		require.NoError(t, err)
		assert.Equal(t, int64(100), updated.StatusID)
		assert.Equal(t, "login page rendered", updated.ActualResult.String)
		assert.Equal(t, int64(50), updated.AttachmentID.Int64)
	})

	t.Run("unknown_status", func(t *testing.T) {
		f := newFixture()
		executions, err := f.service.MaterializeRun(ctx,
			&core.MaterializeRequest{TestSuiteID: 1, RunID: 5, DeviceID: 7, TesterID: 3})
		require.NoError(t, err)
		_, err = f.service.TransitionStatus(ctx, executions[0].ID, &core.StatusTransition{StatusID: 999})
		assert.ErrorIs(t, err, errs.ErrUnknownStatus)
	})

	t.Run("unknown_attachment", func(t *testing.T) {
		f := newFixture()
		executions, err := f.service.MaterializeRun(ctx,
			&core.MaterializeRequest{TestSuiteID: 1, RunID: 5, DeviceID: 7, TesterID: 3})
		require.NoError(t, err)
		_, err = f.service.TransitionStatus(ctx, executions[0].ID, &core.StatusTransition{
			StatusID:     101,
			AttachmentID: zero.IntFrom(999),
		})
		assert.ErrorIs(t, err, errs.ErrUnknownAttachment)
	})

	t.Run("missing_execution", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.TransitionStatus(ctx, 999, &core.StatusTransition{StatusID: 101})
		assert.ErrorIs(t, err, errs.ErrRowsNotFound)
	})
}

func TestReassign(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.deviceStore.devices[8] = &core.Device{ID: 8, ProjectID: 1}
	f.testerStore.testers[4] = &core.Tester{ID: 4, Email: "qa2@example.com"}
	executions, err := f.service.MaterializeRun(ctx,
		&core.MaterializeRequest{TestSuiteID: 1, RunID: 5, DeviceID: 7, TesterID: 3})
	require.NoError(t, err)

	updated, err := f.service.ReassignDevice(ctx, executions[0].ID, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(8), updated.DeviceID)

	updated, err = f.service.ReassignTester(ctx, executions[0].ID, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), updated.ExecutedBy)

	_, err = f.service.ReassignDevice(ctx, executions[0].ID, 99)
	assert.ErrorIs(t, err, errs.ErrRowsNotFound)
}
