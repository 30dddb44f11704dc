package main

import (
	"github.com/LdDl/caiosm"
	"go.uber.org/zap"
)

// loadSession reads configured input and assembles it
func loadSession() (*caiosm.Session, error) {
	options, err := cfg.sessionOptions()
	if err != nil {
		return nil, err
	}
	options = append(options, caiosm.WithLogger(logger))
	session := caiosm.NewSession(options...)
	logger.Debug("Session prepared", zap.Stringer("session", session))
	err = session.Load(cfg.Input)
	if err != nil {
		return nil, err
	}
	session.Assemble()
	errs := session.Errors()
	for _, err := range errs {
		logger.Debug("Entity error", zap.Error(err))
	}
	if len(errs) > 0 {
		logger.Warn("Some entities have not been processed completely", zap.Int("errors", len(errs)))
	}
	return session, nil
}
