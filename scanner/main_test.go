package scanner

import (
	"os"
	"testing"

	"go.uber.org/zap"

	"pack-mod-manager/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop().Sugar()
	os.Exit(m.Run())
}
