package logging

import (
	"errors"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

var _ logrus.Hook = (*SentryHook)(nil)

// SentryHook forwards logrus entries of the given levels to sentry.
type SentryHook struct {
	levels  []logrus.Level
	capture func(event *sentry.Event)
}

func NewSentryHook(levels []logrus.Level) *SentryHook {
	return &SentryHook{
		levels: levels,
		capture: func(event *sentry.Event) {
			sentry.CaptureEvent(event)
		},
	}
}

func (h *SentryHook) Levels() []logrus.Level {
	return h.levels
}

func (h *SentryHook) Fire(entry *logrus.Entry) error {
	if entry == nil {
		return errors.New("nil log entry")
	}

	event := sentry.NewEvent()
	event.Level = sentryLevel(entry.Level)
	event.Message = entry.Message
	event.Timestamp = entry.Time

	for k, v := range entry.Data {
		if err, ok := v.(error); ok && k == logrus.ErrorKey {
			event.Exception = append(event.Exception, sentry.Exception{
				Type:  "error",
				Value: err.Error(),
			})
			continue
		}
		event.Extra[k] = v
	}

	h.capture(event)
	return nil
}

func sentryLevel(level logrus.Level) sentry.Level {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel:
		return sentry.LevelFatal
	case logrus.ErrorLevel:
		return sentry.LevelError
	case logrus.WarnLevel:
		return sentry.LevelWarning
	case logrus.InfoLevel:
		return sentry.LevelInfo
	default:
		return sentry.LevelDebug
	}
}
