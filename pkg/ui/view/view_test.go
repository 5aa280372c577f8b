package view_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/envup/pkg/errors"
	"github.com/arthur-debert/envup/pkg/types"
	"github.com/arthur-debert/envup/pkg/ui/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteKeepsTags(t *testing.T) {
	out, err := view.Execute(types.ExecutableReference{Kind: types.KindBaseTool, ResolvedForm: "/opt/conda/bin/conda"})
	require.NoError(t, err)
	assert.Equal(t, "<Path>/opt/conda/bin/conda</Path> <Muted>(base-tool)</Muted>\n", out)
}

func TestExecuteValueAndPointerAgree(t *testing.T) {
	result := types.ProvisionResult{Operation: types.OperationUpdate, Success: true, EnvironmentName: "ping"}

	byValue, err := view.Execute(result)
	require.NoError(t, err)
	byPointer, err := view.Execute(&result)
	require.NoError(t, err)

	assert.Equal(t, byValue, byPointer)
	assert.Contains(t, byValue, "<Header>Update</Header>")
}

func TestExecuteUnknownTypeFallsBackToMessage(t *testing.T) {
	out, err := view.Execute(map[string]string{"a": "<b>"})
	require.NoError(t, err)
	assert.Equal(t, "map[a:&lt;b&gt;]\n", out)
}

func TestNewErrorView(t *testing.T) {
	t.Run("coded error with details", func(t *testing.T) {
		cause := stderrors.New("exit status 1")
		err := errors.Wrap(cause, errors.ErrProvision, "env update failed").
			WithDetail(errors.DetailSubcommand, "env update").
			WithDetail(errors.DetailExitCode, 1).
			WithDetail(errors.DetailOutput, "solver failed").
			WithDetail(errors.DetailPath, "/work/env.yml")

		v := view.NewErrorView(err)

		assert.Equal(t, &view.ErrorView{
			Code:       errors.ErrProvision,
			Message:    "env update failed",
			Cause:      "exit status 1",
			Subcommand: "env update",
			ExitCode:   1,
			Path:       "/work/env.yml",
			Output:     "solver failed",
		}, v)
	})

	t.Run("plain error", func(t *testing.T) {
		v := view.NewErrorView(stderrors.New("boom"))
		assert.Equal(t, errors.ErrUnknown, v.Code)
		assert.Equal(t, "boom", v.Message)
	})
}
