package mealcompanion

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// StepLogger records every model interaction of a session.
type StepLogger interface {
	LogStep(step StepLog) error
}

// NewStepLogFilePath returns a file path based on a cleaned up model name or id to make it easier to identify logs produced with various models.
func NewStepLogFilePath(model string) string {
	if model == "" {
		model = "default"
	}
	return fmt.Sprintf(
		"./logs/%d.%s.json",
		time.Now().Unix(),
		strings.NewReplacer(":", "_", "/", "_").Replace(strings.ToLower(model)),
	)
}

// StepLog is one gateway call made by the orchestrator.
type StepLog struct {
	SessionID  string        `json:"session_id"`
	Step       string        `json:"step"`
	Timestamp  time.Time     `json:"timestamp"`
	Prompt     string        `json:"prompt,omitempty"`
	ToolNames  []string      `json:"tool_names,omitempty"`
	Reply      any           `json:"reply,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
	ToolOutput string        `json:"tool_output,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// FileStepLogger accumulates steps and writes them as one JSON document on Flush.
type FileStepLogger struct {
	steps  []StepLog
	writer io.Writer
}

func NewFileStepLogger(writer io.Writer) *FileStepLogger {
	return &FileStepLogger{
		steps:  make([]StepLog, 0),
		writer: writer,
	}
}

func (l *FileStepLogger) LogStep(step StepLog) error {
	l.steps = append(l.steps, step)
	return nil
}

// Flush writes all buffered steps to the writer and clears the buffer.
func (l *FileStepLogger) Flush() error {
	if l.writer == nil || len(l.steps) == 0 {
		return nil
	}

	data, err := json.MarshalIndent(map[string]any{
		"meal_companion_run": map[string]any{
			"timestamp": time.Now(),
			"steps":     l.steps,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal step log: %w", err)
	}

	if _, err := l.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write step log: %w", err)
	}

	l.steps = l.steps[:0]
	return nil
}

type NoOpStepLogger struct{}

func NewNoOpStepLogger() *NoOpStepLogger { return &NoOpStepLogger{} }

func (NoOpStepLogger) LogStep(StepLog) error { return nil }

// JSONLinesStepLogger writes each step as a JSON line (for Lambda/CloudWatch).
type JSONLinesStepLogger struct {
	writer io.Writer
}

func NewStdoutStepLogger() *JSONLinesStepLogger {
	return &JSONLinesStepLogger{writer: os.Stdout}
}

func NewJSONLinesStepLogger(w io.Writer) *JSONLinesStepLogger {
	return &JSONLinesStepLogger{writer: w}
}

func (l *JSONLinesStepLogger) LogStep(step StepLog) error {
	data, err := json.Marshal(step)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(l.writer, string(data))
	return err
}
