package repository

import (
	"context"
	"strings"

	"github.com/compozy/gitagent/internal/domain"
	"github.com/compozy/gitagent/internal/service"
	"github.com/stretchr/testify/mock"
)

type mockAgent struct {
	mock.Mock
}

func (m *mockAgent) Binary() service.BinaryLocator {
	return nil
}

func (m *mockAgent) Workdir() string {
	args := m.Called()
	return args.String(0)
}

func (m *mockAgent) SetWorkdir(dir string) {
	m.Called(dir)
}

func (m *mockAgent) Execute(ctx context.Context, args ...string) (*domain.CommandResult, error) {
	return m.ExecuteIn(ctx, "", args)
}

func (m *mockAgent) ExecuteIn(
	ctx context.Context,
	workdir string,
	args []string,
	_ ...service.ExecOption,
) (*domain.CommandResult, error) {
	ret := m.Called(ctx, workdir, args)
	var res *domain.CommandResult
	if r := ret.Get(0); r != nil {
		res = r.(*domain.CommandResult)
	}
	return res, ret.Error(1)
}

func (m *mockAgent) expect(args []string, res *domain.CommandResult) *mock.Call {
	return m.On("ExecuteIn", mock.Anything, "", args).Return(res, nil).Once()
}

func okResult(args []string, lines ...string) *domain.CommandResult {
	stdout := ""
	if len(lines) > 0 {
		stdout = strings.Join(lines, "\n") + "\n"
	}
	return domain.NewCommandResult(args, "/repo", stdout, "", 0)
}

func failResult(args []string, status int, stderr string) *domain.CommandResult {
	return domain.NewCommandResult(args, "/repo", "", stderr, status)
}

type recordingObserver struct {
	planned    []string
	checkedOut []string
}

func (o *recordingObserver) Planned(report *SyncReport) {
	o.planned = append([]string{}, report.Candidates...)
}

func (o *recordingObserver) CheckedOut(branch string) {
	o.checkedOut = append(o.checkedOut, branch)
}
