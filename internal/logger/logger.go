package logger

import (
	"go.uber.org/zap"
)

// Log starts as a nop so packages can log unconditionally in tests;
// Init swaps in the real production logger at server start.
var Log = zap.NewNop().Sugar()

func Init() {
	l, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = l.Sugar()
}
