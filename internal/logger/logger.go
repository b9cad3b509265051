package logger

import (
	"fmt"
	"os"
	"runtime"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"

	"mkt-settlement-api/internal/config"
)

// NewLogger builds one rotating file logger for a business topic. Each topic
// writes its own file under ./logs/<topic> so a settlement run can be audited
// without wading through order and webhook traffic. Files rotate daily and
// are kept for seven days.
func NewLogger(topic string) *logrus.Logger {
	log := logrus.New()
	logPath := "./logs/" + topic
	_ = os.MkdirAll(logPath, 0755)

	writer, _ := rotatelogs.New(
		logPath+"/"+topic+".log.%Y-%m-%d",
		rotatelogs.WithLinkName(logPath+"/"+topic+".log"),
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithMaxAge(7*24*time.Hour),
	)

	log.SetOutput(writer)
	log.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			return f.Function, fmt.Sprintf("%s:%d", f.File, f.Line)
		},
	})
	log.SetLevel(logrus.InfoLevel)
	if config.C.Server.Mode == "debug" {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}
