package queue

import (
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/gestion-comercial-api/pkg/logger"
)

var _ asynq.Logger = (*asynqLogger)(nil)

// asynqLogger redirige los logs internos de asynq al logger de la aplicación.
type asynqLogger struct {
	log *logger.Logger
}

// NewAsynqLogger adapta logger.Logger a asynq.Logger.
func NewAsynqLogger(log *logger.Logger) asynq.Logger {
	if log == nil {
		log = logger.Nop()
	}
	return &asynqLogger{log: log.Component("asynq")}
}

func (l *asynqLogger) Debug(args ...interface{}) { l.log.Debug().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Info(args ...interface{})  { l.log.Info().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Warn(args ...interface{})  { l.log.Warn().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Error(args ...interface{}) { l.log.Error().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Fatal(args ...interface{}) { l.log.Fatal().Msg(fmt.Sprint(args...)) }
