package logger

import "github.com/sirupsen/logrus"

// Topic loggers default to plain stderr loggers so code paths can log before
// Init wires the rotating files (and under test, where Init never runs).
var (
	Order      = logrus.New()
	Payment    = logrus.New()
	Settlement = logrus.New()
	Refund     = logrus.New()
	Reconcile  = logrus.New()
)

// Init builds one rotating logger per business topic.
func Init() {
	Order = NewLogger("order")
	Payment = NewLogger("payment")
	Settlement = NewLogger("settlement")
	Refund = NewLogger("refund")
	Reconcile = NewLogger("reconcile")
}
