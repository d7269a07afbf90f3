// Package errors provides the classified error type used throughout hegelpm:
// every error that crosses a package boundary carries a category, a
// severity, a retry strategy, and structured context, so the CLI and HTTP
// adapters can turn it into the right exit code or status code without the
// caller having to know which.
//
// Key types:
//   - ErrorCategory: broad classification (config, scan, cache, request, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - RetryStrategy: how a caller should treat a failed retryable operation
//   - ClassifiedError: the structured error itself
//   - ErrorBuilder: fluent constructor for ClassifiedError
//   - CLIErrorAdapter / HTTPErrorAdapter: turn a ClassifiedError into an exit
//     code plus stderr message, or a status code plus JSON body
//
// Example usage:
//
//	err := errors.WrapError(readErr, errors.CategoryGit, "read HEAD commit").
//		WithContext("path", projectPath).
//		Build()
package errors
