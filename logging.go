package main

import (
	"strings"

	"go.uber.org/zap"
)

// zlog is the process-wide logger. It defaults to a no-op so pure code and
// tests never need wiring; main swaps in the real one.
var zlog = zap.NewNop().Sugar()

func initLogger(env string) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	switch strings.ToLower(env) {
	case "prod", "production":
		l, err = zap.NewProduction()
	default:
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	zlog = l.Sugar()
	return l, nil
}
