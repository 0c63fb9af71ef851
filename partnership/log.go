package partnership

import (
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
)

// ProductLog describes product log interface.
type ProductLog interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	Err(error)
	Panicf(format string, args ...interface{})
	Flush()
}

// Log is global product log object.
var Log ProductLog = &productLog{}

// InitProductLog inits global product log. Without Sentry DSN records go to
// the standard log only.
func InitProductLog(project, projectPackage, module, dsn string) {
	if dsn == "" {
		Log = &productLog{}
		return
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:     dsn,
		Release: fmt.Sprintf("%s_%s@%s", project, projectPackage, Version),
	})
	if err != nil {
		log.Panicf(`Failed to init Sentry: "%v".`, err)
	}
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("module", module)
	})
	Log = &sentryLog{}
}

////////////////////////////////////////////////////////////////////////////////

type productLog struct{}

func (*productLog) Flush() {}

func (*productLog) Debug(format string, args ...interface{}) {
	if IsDev() {
		log.Printf("Debug: "+format+"\n", args...)
	}
}

func (*productLog) Info(format string, args ...interface{}) {
	log.Printf(format+"\n", args...)
}

func (*productLog) Warn(format string, args ...interface{}) {
	log.Printf("Warn: "+format+"\n", args...)
}

func (*productLog) Error(format string, args ...interface{}) {
	log.Printf("Error: "+format+"\n", args...)
}

func (productLog *productLog) Err(err error) {
	productLog.Error("%s", CapitalizeString(fmt.Sprintf("%v", err)))
}

func (*productLog) Panicf(format string, args ...interface{}) {
	log.Panicln(fmt.Sprintf(format, args...))
}

////////////////////////////////////////////////////////////////////////////////

type sentryLog struct{ productLog }

func (*sentryLog) Flush() {
	if !sentry.Flush(2 * time.Second) {
		log.Println("Error: failed to flush Sentry.")
	}
}

func (sentryLog *sentryLog) Warn(format string, args ...interface{}) {
	sentryLog.productLog.Warn(format, args...)
	sentry.CaptureMessage(fmt.Sprintf(format, args...))
}

func (sentryLog *sentryLog) Error(format string, args ...interface{}) {
	sentryLog.Err(fmt.Errorf(format, args...))
}

func (sentryLog *sentryLog) Err(err error) {
	sentryLog.productLog.Err(err)
	sentry.CaptureException(err)
}

func (sentryLog *sentryLog) Panicf(format string, args ...interface{}) {
	sentryLog.Error(format, args...)
	sentryLog.Flush()
	sentryLog.productLog.Panicf(format, args...)
}
