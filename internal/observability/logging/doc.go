// Package logging builds the service's slog loggers.
//
// Output is JSON on stdout by default. LOG_FILE adds a rotating copy
// through lumberjack. Request-scoped loggers carry request_id and
// trace_id so log lines join up with traces.
//
//	logger, closer := logging.New(logging.OptionsFromEnv())
//	defer closer.Close()
//	logger.Info("server starting", slog.Int("port", 8000))
package logging
