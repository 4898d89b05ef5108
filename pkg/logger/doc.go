// Package logger provides the structured logging interface used across marsphotos.
//
// It wraps zerolog: colored console lines on stderr (plain with NoColor), an
// optional JSON file sink, and a process-wide instance via Initialize/GetLogger.
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	log := logger.WithRunID(logger.GetLogger(), logger.NewRunID())
//	log.WithField("date", "2015-06-03").Info("Processing date")
//
// Tests use NewTestLogger to capture messages or NewNopLogger to drop them.
package logger
