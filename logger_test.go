package mealcompanion

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStepLogger_Flush(t *testing.T) {
	var buf bytes.Buffer
	logger := NewFileStepLogger(&buf)

	require.NoError(t, logger.Flush(), "flushing nothing is a no-op")
	assert.Zero(t, buf.Len())

	require.NoError(t, logger.LogStep(StepLog{SessionID: "s1", Step: "plan", Duration: time.Second}))
	require.NoError(t, logger.LogStep(StepLog{SessionID: "s1", Step: "extract", Error: "boom"}))
	require.NoError(t, logger.Flush())

	var doc struct {
		Run struct {
			Steps []StepLog `json:"steps"`
		} `json:"meal_companion_run"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Run.Steps, 2)
	assert.Equal(t, "plan", doc.Run.Steps[0].Step)
	assert.Equal(t, time.Second, doc.Run.Steps[0].Duration)
	assert.Equal(t, "boom", doc.Run.Steps[1].Error)

	buf.Reset()
	require.NoError(t, logger.Flush(), "steps are cleared after a flush")
	assert.Zero(t, buf.Len())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestFileStepLogger_WriteError(t *testing.T) {
	logger := NewFileStepLogger(failingWriter{})
	require.NoError(t, logger.LogStep(StepLog{Step: "plan"}))
	assert.ErrorContains(t, logger.Flush(), "disk full")
}

func TestJSONLinesStepLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLinesStepLogger(&buf)

	require.NoError(t, logger.LogStep(StepLog{SessionID: "s1", Step: "plan"}))
	require.NoError(t, logger.LogStep(StepLog{SessionID: "s1", Step: "format", ToolOutput: "[ ] eggs"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var step StepLog
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &step))
	assert.Equal(t, "format", step.Step)
	assert.Equal(t, "[ ] eggs", step.ToolOutput)
}

func TestNewStepLogFilePath(t *testing.T) {
	path := NewStepLogFilePath("bedrock.us.anthropic.claude:0/v1")
	assert.True(t, strings.HasPrefix(path, "./logs/"))
	assert.True(t, strings.HasSuffix(path, ".bedrock.us.anthropic.claude_0_v1.json"))

	assert.True(t, strings.HasSuffix(NewStepLogFilePath(""), ".default.json"))
}

func TestProfile_DisplayName(t *testing.T) {
	assert.Equal(t, "Rita", Profile{Name: "Rita"}.DisplayName())
	assert.Equal(t, DefaultProfileName, Profile{}.DisplayName())
}
