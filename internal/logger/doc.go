// Package logger wraps zap with a global sugared console logger, level
// helpers and context propagation.
package logger
