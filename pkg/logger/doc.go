// Package logger builds *slog.Logger instances for uakit services and
// commands, with functional options, attribute helpers and injection of
// values stored in context.Context.
//
// New picks slog.NewJSONHandler or slog.NewTextHandler from the configured
// Format and wraps it with LogHandlerDecorator, which runs every registered
// ContextExtractor before a record is written. Records go to stderr by
// default so that commands can stream results on stdout.
//
// # Usage
//
//	log := logger.New(
//		logger.WithEnvironment(os.Getenv("APP_ENV")),
//		logger.WithService("uakit"),
//		logger.WithContextValue("request_id", requestIDKey{}),
//	)
//
//	log.ErrorContext(ctx, "user agent classification failed",
//		logger.Error(err),
//		logger.UserAgent(ua),
//		logger.SourceField("[agent]"),
//	)
//
// Attribute helpers keep key names consistent across packages. Error and
// Errors return an empty attribute for nil errors, so they can be passed
// without a nil check. UserAgent truncates very long inputs.
//
// Packages that accept a *slog.Logger treat nil as "do not log" by calling
// OrDiscard.
package logger
