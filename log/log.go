package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

type Level logrus.Level

const (
	FatalLevel = Level(logrus.FatalLevel)
	ErrorLevel = Level(logrus.ErrorLevel)
	WarnLevel  = Level(logrus.WarnLevel)
	InfoLevel  = Level(logrus.InfoLevel)
	DebugLevel = Level(logrus.DebugLevel)
)

type Fields = logrus.Fields

var Logger = logrus.New()

func init() {
	Configure(false, false)
}

// Configure sets the output format and level. JSON output is meant for log
// collectors, text output for terminals.
func Configure(debug, json bool) {
	Logger.Out = os.Stderr
	if json {
		Logger.Formatter = &logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"}
	} else {
		Logger.Formatter = &logrus.TextFormatter{
			DisableLevelTruncation: true,
			PadLevelText:           true,
			TimestampFormat:        "2006/01/02 15:04:05",
			FullTimestamp:          true,
		}
	}
	if debug {
		Logger.SetLevel(logrus.DebugLevel)
	} else {
		Logger.SetLevel(logrus.InfoLevel)
	}
}

func WithFields(fields Fields) *logrus.Entry {
	return Logger.WithFields(fields)
}

// Form returns an entry tagged with a form instance's id and category.
func Form(id string, category any) *logrus.Entry {
	return Logger.WithFields(Fields{"form_id": id, "category": category})
}

func Log(level Level, args ...any) {
	Logger.Logln(logrus.Level(level), args...)
}

func Debugf(fmt string, args ...any) { Logger.Debugf(fmt, args...) }
func Infof(fmt string, args ...any)  { Logger.Infof(fmt, args...) }
func Warnf(fmt string, args ...any)  { Logger.Warnf(fmt, args...) }
func Errorf(fmt string, args ...any) { Logger.Errorf(fmt, args...) }
func Fatalf(fmt string, args ...any) { Logger.Fatalf(fmt, args...) }

func Info(args ...any)  { Logger.Infoln(args...) }
func Warn(args ...any)  { Logger.Warnln(args...) }
func Error(args ...any) { Logger.Errorln(args...) }
func Fatal(args ...any) { Logger.Fatalln(args...) }
