package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/pipeline"
)

func TestPrepareNotifyStageFailsOnIncompleteMailConfig(t *testing.T) {
	config, err := defaultConfig()
	require.NoError(t, err)

	stage, err := prepareNotifyStage(runCmd, config.Notify, "", zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, stage)
	assert.Contains(t, err.Error(), "notify.from")
	assert.Contains(t, err.Error(), "--skip-notify")
}

func TestPrepareNotifyStageSkipped(t *testing.T) {
	config, err := defaultConfig()
	require.NoError(t, err)

	for _, reason := range []string{skipNotifyReason, dryRunReason} {
		stage, err := prepareNotifyStage(runCmd, config.Notify, reason, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, []pipeline.Status{{Name: "notify", Enabled: false, Reason: reason}}, pipeline.Describe([]pipeline.Stage{stage}))
	}
}

func TestPrepareNotifyStageEnabled(t *testing.T) {
	config, err := defaultConfig()
	require.NoError(t, err)

	passwordFile := filepath.Join(t.TempDir(), "smtp")
	require.NoError(t, os.WriteFile(passwordFile, []byte("app-password\n"), 0o600))

	config.Notify.From = "hr@example.com"
	config.Notify.PasswordFile = passwordFile

	stage, err := prepareNotifyStage(runCmd, config.Notify, "", zap.NewNop())
	require.NoError(t, err)
	assert.True(t, stage.IsEnabled())
}
