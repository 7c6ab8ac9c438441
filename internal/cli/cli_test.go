package cli

import (
	"errors"
	"path/filepath"
	"testing"

	"er-editor/internal/model"
	"er-editor/internal/project"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Wiring(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"check", "normalize", "export"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("layout"))

	exp, _, err := root.Find([]string{"export"})
	require.NoError(t, err)
	assert.Equal(t, "json", exp.Flags().Lookup("format").DefValue)
	assert.Equal(t, "er_export", exp.Flags().Lookup("output").DefValue)
	assert.Equal(t, "false", exp.Flags().Lookup("database").DefValue)
}

func TestCheckRoot_MissingProject(t *testing.T) {
	_, err := checkRoot(filepath.Join(t.TempDir(), "absent"), project.DefaultLayout())

	var nf *model.NotFoundError
	assert.True(t, errors.As(err, &nf), "got %v", err)
}

func TestRunCheck_ReportsEveryRoot(t *testing.T) {
	t.Setenv("WORKER_COUNT", "2")
	t.Setenv("LAYOUT_FILE", "")

	err := runCheck([]string{t.TempDir(), t.TempDir()}, "")

	require.Error(t, err)
	var nf *model.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestRunExport_RejectsUnknownFormat(t *testing.T) {
	t.Setenv("LAYOUT_FILE", "")

	err := runExport(t.TempDir(), "", "xml", filepath.Join(t.TempDir(), "out"), false)
	assert.Error(t, err)
}
