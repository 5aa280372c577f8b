package provision

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/envup/pkg/errors"
	"github.com/arthur-debert/envup/pkg/pkgmgr"
	"github.com/arthur-debert/envup/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient is a mock implementation of pkgmgr.Client
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Executable() types.ExecutableReference {
	args := m.Called()
	return args.Get(0).(types.ExecutableReference)
}

func (m *MockClient) ListEnvironments(ctx context.Context) (pkgmgr.Result, error) {
	args := m.Called(ctx)
	return args.Get(0).(pkgmgr.Result), args.Error(1)
}

func (m *MockClient) CreateEnvironment(ctx context.Context, manifest types.ManifestHandle, verbosityFlag string) (pkgmgr.Result, error) {
	args := m.Called(ctx, manifest, verbosityFlag)
	return args.Get(0).(pkgmgr.Result), args.Error(1)
}

func (m *MockClient) UpdateEnvironment(ctx context.Context, manifest types.ManifestHandle, verbosityFlag string) (pkgmgr.Result, error) {
	args := m.Called(ctx, manifest, verbosityFlag)
	return args.Get(0).(pkgmgr.Result), args.Error(1)
}

func (m *MockClient) RunInEnvironment(ctx context.Context, name types.EnvironmentName, cmdArgs ...string) (pkgmgr.Result, error) {
	args := m.Called(ctx, name, cmdArgs)
	return args.Get(0).(pkgmgr.Result), args.Error(1)
}

func (m *MockClient) UpdateAll(ctx context.Context) (pkgmgr.Result, error) {
	args := m.Called(ctx)
	return args.Get(0).(pkgmgr.Result), args.Error(1)
}

func (m *MockClient) CleanAll(ctx context.Context) (pkgmgr.Result, error) {
	args := m.Called(ctx)
	return args.Get(0).(pkgmgr.Result), args.Error(1)
}

var (
	testManifest = types.ManifestHandle("/work/environment.yml")
	testName     = types.EnvironmentName("ping")
	testAux      = AuxiliaryPackage{
		Installer: "pip",
		Package:   "ping-extras",
		IndexURL:  "https://pypi.example.org/simple",
	}
	auxArgs = []string{"pip", "install", "--upgrade", "-i", "https://pypi.example.org/simple", "ping-extras"}
	mamba   = types.ExecutableReference{Kind: types.KindFastVariant, ResolvedForm: "mamba"}
	conda   = types.ExecutableReference{Kind: types.KindBaseTool, ResolvedForm: "conda"}
)

func TestInstall(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	client.On("Executable").Return(mamba)
	client.On("CreateEnvironment", ctx, testManifest, "--debug").Return(pkgmgr.Result{}, nil).Once()
	client.On("RunInEnvironment", ctx, testName, auxArgs).Return(pkgmgr.Result{}, nil).Once()
	client.On("ListEnvironments", ctx).Return(pkgmgr.Result{Stdout: "ping  /opt/envs/ping\n"}, nil).Once()

	err := Install(ctx, client, testManifest, testName, "", testAux)

	require.NoError(t, err)
	client.AssertExpectations(t)
	client.AssertNotCalled(t, "UpdateEnvironment", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	client.On("Executable").Return(conda)
	client.On("UpdateEnvironment", ctx, testManifest, "-vv").Return(pkgmgr.Result{}, nil).Once()
	client.On("RunInEnvironment", ctx, testName, auxArgs).Return(pkgmgr.Result{}, nil).Once()
	client.On("ListEnvironments", ctx).Return(pkgmgr.Result{}, nil).Once()

	err := Update(ctx, client, testManifest, testName, types.IntentVerbose2, testAux)

	require.NoError(t, err)
	client.AssertExpectations(t)
	client.AssertNotCalled(t, "CreateEnvironment", mock.Anything, mock.Anything, mock.Anything)
}

func TestInstallQuietPassesNoFlag(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	client.On("Executable").Return(mamba)
	client.On("CreateEnvironment", ctx, testManifest, "").Return(pkgmgr.Result{}, nil).Once()
	client.On("RunInEnvironment", ctx, testName, auxArgs).Return(pkgmgr.Result{}, nil).Once()
	client.On("ListEnvironments", ctx).Return(pkgmgr.Result{}, nil).Once()

	require.NoError(t, Install(ctx, client, testManifest, testName, types.IntentQuiet, testAux))
	client.AssertExpectations(t)
}

func TestInstallCreateFailureStopsRun(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	client.On("Executable").Return(conda)
	client.On("CreateEnvironment", ctx, testManifest, "-v").
		Return(pkgmgr.Result{ExitCode: 1, Stderr: "ResolvePackageNotFound: nump"}, nil).Once()

	err := Install(ctx, client, testManifest, testName, types.IntentNormal, testAux)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProvision))
	details := errors.GetErrorDetails(err)
	assert.Equal(t, pkgmgr.SubcommandCreate, details[errors.DetailSubcommand])
	assert.Equal(t, 1, details[errors.DetailExitCode])
	assert.Contains(t, details[errors.DetailOutput], "ResolvePackageNotFound")

	client.AssertExpectations(t)
	client.AssertNotCalled(t, "RunInEnvironment", mock.Anything, mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "ListEnvironments", mock.Anything)
}

func TestUpdateProcessErrorIsWrapped(t *testing.T) {
	ctx := context.Background()
	cause := stderrors.New("exec: \"conda\": executable file not found in $PATH")
	client := new(MockClient)
	client.On("Executable").Return(conda)
	client.On("UpdateEnvironment", ctx, testManifest, "-vvv").Return(pkgmgr.Result{ExitCode: -1}, cause).Once()

	err := Update(ctx, client, testManifest, testName, "", testAux)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProvision))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, pkgmgr.SubcommandUpdate, errors.GetErrorDetails(err)[errors.DetailSubcommand])
}

func TestAuxiliaryInstallFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	client.On("Executable").Return(mamba)
	client.On("CreateEnvironment", ctx, testManifest, "-v").Return(pkgmgr.Result{}, nil).Once()
	client.On("RunInEnvironment", ctx, testName, auxArgs).
		Return(pkgmgr.Result{ExitCode: 1, Stderr: "403 Forbidden"}, nil).Once()

	err := Install(ctx, client, testManifest, testName, types.IntentVerbose1, testAux)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProvision))
	assert.Equal(t, "run pip install", errors.GetErrorDetails(err)[errors.DetailSubcommand])
	client.AssertNotCalled(t, "ListEnvironments", mock.Anything)
}

func TestConfirmationFailureIsAdvisory(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	client.On("Executable").Return(mamba)
	client.On("UpdateEnvironment", ctx, testManifest, "-v").Return(pkgmgr.Result{}, nil).Once()
	client.On("RunInEnvironment", ctx, testName, auxArgs).Return(pkgmgr.Result{}, nil).Once()
	client.On("ListEnvironments", ctx).Return(pkgmgr.Result{ExitCode: 2}, nil).Once()

	err := Update(ctx, client, testManifest, testName, types.IntentNormalVerbose, testAux)

	assert.NoError(t, err)
	client.AssertExpectations(t)
}

func TestAuxiliaryValidate(t *testing.T) {
	assert.NoError(t, testAux.Validate())

	tests := []struct {
		name string
		aux  AuxiliaryPackage
	}{
		{"missing installer", AuxiliaryPackage{Package: "p", IndexURL: "u"}},
		{"missing package", AuxiliaryPackage{Installer: "pip", IndexURL: "u"}},
		{"missing index", AuxiliaryPackage{Installer: "pip", Package: "p"}},
		{"blank package", AuxiliaryPackage{Installer: "pip", Package: "  ", IndexURL: "u"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.aux.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
		})
	}
}
