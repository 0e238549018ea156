package logsvc

import (
	"github.com/rollbar/rollbar-go"
	"github.com/sirupsen/logrus/hooks/test"
)

// NewLoggerMock returns a RollbarLogger that reports nothing and keeps its entries in the returned hook, for tests.
func NewLoggerMock() (*RollbarLogger, *test.Hook) {
	rollbar.SetEnabled(false)
	log, hook := test.NewNullLogger()
	return &RollbarLogger{log: log}, hook
}
