package engine

import (
	"os"
	"testing"

	"zemeroth-core/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize the global logger before running any tests
	logger.InitForTests()

	// Exit with the result of the tests
	os.Exit(m.Run())
}
