package whatsapp

import (
	"github.com/sirupsen/logrus"
	waLog "go.mau.fi/whatsmeow/util/log"
)

type logger struct {
	entry *logrus.Entry
}

// NewLogger routes whatsmeow logs through logrus under a module field.
func NewLogger(log *logrus.Logger, module string) waLog.Logger {
	return &logger{entry: log.WithField("module", "whatsapp/"+module)}
}

func (l *logger) Errorf(msg string, args ...interface{}) { l.entry.Errorf(msg, args...) }
func (l *logger) Warnf(msg string, args ...interface{})  { l.entry.Warnf(msg, args...) }
func (l *logger) Infof(msg string, args ...interface{})  { l.entry.Infof(msg, args...) }
func (l *logger) Debugf(msg string, args ...interface{}) { l.entry.Debugf(msg, args...) }

func (l *logger) Sub(module string) waLog.Logger {
	parent, _ := l.entry.Data["module"].(string)
	return &logger{entry: l.entry.WithField("module", parent+"/"+module)}
}
