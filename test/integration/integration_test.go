//go:build integration

package integration

import (
	"os"
	"testing"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"

	"github.com/emergency-shield/backend/test/integration/steps"
)

// TestFeatures runs the shield feature files against an in-process API
// backed by sqlite, miniredis and a mocked Resend endpoint. Scenarios share
// one database, so they run one at a time in file order.
func TestFeatures(t *testing.T) {
	opts := godog.Options{
		Format:   "pretty",
		Paths:    []string{"features"},
		Output:   colors.Colored(os.Stdout),
		Strict:   true,
		TestingT: t,
		Tags:     os.Getenv("GODOG_TAGS"),
	}

	status := godog.TestSuite{
		Name:                 "emergency-shield-api",
		ScenarioInitializer:  steps.InitializeScenario,
		TestSuiteInitializer: steps.InitializeTestSuite,
		Options:              &opts,
	}.Run()
	if status != 0 {
		t.Fatalf("feature suite exited with status %d", status)
	}
}
