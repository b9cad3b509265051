package dal

import (
	"log"

	"mkt-settlement-api/internal/config"

	"github.com/streadway/amqp"
)

const (
	SettlementExchange    = "settlement_events"
	QueuePaymentConfirmed = "payment_confirmed"
	QueueSettlementRun    = "settlement_run"
)

var RabbitConn *amqp.Connection
var RabbitCh *amqp.Channel

func InitRabbitMQ() {
	url := config.C.RabbitMQ.URL
	conn, err := amqp.Dial(url)
	if err != nil {
		log.Fatalf("rabbitmq dial failed: %v", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbitmq channel failed: %v", err)
	}

	// exchange & queues
	if err := ch.ExchangeDeclare(SettlementExchange, "topic", true, false, false, false, nil); err != nil {
		log.Fatalf("exchange declare failed: %v", err)
	}
	if _, err := ch.QueueDeclare(QueuePaymentConfirmed, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare payment_confirmed failed: %v", err)
	}
	if _, err := ch.QueueDeclare(QueueSettlementRun, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare settlement_run failed: %v", err)
	}
	if err := ch.QueueBind(QueuePaymentConfirmed, "payment.confirmed", SettlementExchange, false, nil); err != nil {
		log.Fatalf("queue bind payment_confirmed failed: %v", err)
	}
	if err := ch.QueueBind(QueueSettlementRun, "settlement.run", SettlementExchange, false, nil); err != nil {
		log.Fatalf("queue bind settlement_run failed: %v", err)
	}

	RabbitConn = conn
	RabbitCh = ch
}
