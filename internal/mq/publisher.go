package mq

import (
	"encoding/json"
	"log"

	"github.com/streadway/amqp"

	"mkt-settlement-api/internal/dal"
	"mkt-settlement-api/internal/dto"
)

func publish(routingKey string, payload interface{}) error {
	if dal.RabbitCh == nil {
		return nil
	}
	b, _ := json.Marshal(payload)
	err := dal.RabbitCh.Publish(
		dal.SettlementExchange,
		routingKey,
		false, false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         b,
		},
	)
	if err != nil {
		log.Printf("publish %s failed: %v", routingKey, err)
	}
	return err
}

func PublishOrderCreated(evt dto.OrderCreatedMQ) error {
	return publish("order.created", evt)
}

// PublishPaymentConfirmed hands the gateway callback to the stamping consumer
// for at-least-once processing.
func PublishPaymentConfirmed(msg dto.PaymentConfirmedMQ) error {
	return publish("payment.confirmed", msg)
}

func PublishSettlementRun(msg dto.SettlementRunMQ) error {
	return publish("settlement.run", msg)
}

func PublishSettlementCreated(evt dto.SettlementCreatedMQ) error {
	return publish("settlement.created", evt)
}
