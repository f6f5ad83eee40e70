package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/opencurate/traitmap/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	logging.SetDefault(logger)

	logging.Debug().Msg("debug message")
	logging.Info().Msg("info message")
	logging.Warn().Msg("warning message")
	logging.Error().Msg("error message")

	output := buf.String()
	if !strings.Contains(output, "info message") {
		t.Errorf("Expected info message in output, got: %s", output)
	}
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithTrait(ctx, "achromatopsia 3")
	ctx = logging.WithURI(ctx, "http://www.ebi.ac.uk/efo/EFO_0009284")
	ctx = logging.WithStage(ctx, "resolve")

	logger := logging.FromContext(ctx)
	logger.Info().Msg("resolving candidates")

	for _, want := range []string{
		"achromatopsia 3",
		"http://www.ebi.ac.uk/efo/EFO_0009284",
		"resolve",
		"resolving candidates",
	} {
		if !testLogger.Contains(want) {
			t.Errorf("Expected %q in output, got: %s", want, testLogger.Output())
		}
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if logging.FromContext(context.Background()) == nil {
		t.Fatal("Expected the default logger, got nil")
	}
	if logging.FromContext(nil) == nil { //nolint:staticcheck // nil context fallback is the point
		t.Fatal("Expected the default logger for a nil context, got nil")
	}
}

func TestWithRunID(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithRunID(ctx, "run-2026-08")

	if got := logging.RunID(ctx); got != "run-2026-08" {
		t.Errorf("Expected run ID run-2026-08, got %q", got)
	}

	logging.FromContext(ctx).Info().Msg("run started")
	if !testLogger.Contains("run-2026-08") {
		t.Errorf("Expected run ID in output, got: %s", testLogger.Output())
	}
}

func TestCaptureLoggingForTest(t *testing.T) {
	testLogger := logging.CaptureLoggingForTest(t)

	logging.Info().Str("trait", "anemia").Msg("captured")

	if !testLogger.Contains("captured") || !testLogger.Contains("anemia") {
		t.Errorf("Expected captured fields in output, got: %s", testLogger.Output())
	}
	if testLogger.Count() != 1 {
		t.Errorf("Expected 1 log entry, got %d", testLogger.Count())
	}

	testLogger.Clear()
	if testLogger.Output() != "" {
		t.Error("Expected empty output after Clear")
	}
}
