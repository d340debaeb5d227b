package database

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// gooseLogger routes goose output through the charm logger at debug level.
type gooseLogger struct {
	log *log.Logger
}

func newGooseLogger() *gooseLogger {
	return &gooseLogger{
		log: log.Default().WithPrefix("goose"),
	}
}

func (l *gooseLogger) Fatal(v ...any) {
	l.log.Fatal(fmt.Sprint(v...))
}

func (l *gooseLogger) Fatalf(format string, v ...any) {
	l.log.Fatalf(format, v...)
}

func (l *gooseLogger) Print(v ...any) {
	l.log.Debug(fmt.Sprint(v...))
}

func (l *gooseLogger) Println(v ...any) {
	l.log.Debug(fmt.Sprint(v...))
}

func (l *gooseLogger) Printf(format string, v ...any) {
	l.log.Debugf(format, v...)
}
