package mq

import (
	"encoding/json"
	"log"

	"github.com/streadway/amqp"

	"mkt-settlement-api/internal/dal"
	"mkt-settlement-api/internal/dto"
)

const maxRetry = 3

// PaymentConfirmer stamps the fee snapshot for one gateway callback.
type PaymentConfirmer interface {
	Confirm(msg dto.PaymentConfirmedMQ) error
}

// SettlementRunner executes one batch for one payout date.
type SettlementRunner interface {
	Run(date string, force bool) error
}

// StartConsumers wires the two at-least-once workers: gateway callbacks get
// their fee snapshot stamped, and settlement triggers run the batch. Both
// handlers are idempotent, so redelivery is safe.
func StartConsumers(payments PaymentConfirmer, settlements SettlementRunner) {
	if dal.RabbitCh == nil {
		log.Println("RabbitMQ channel not initialized")
		return
	}

	go consumePaymentConfirmed(payments)
	go consumeSettlementRun(settlements)
}

func consumePaymentConfirmed(svc PaymentConfirmer) {
	msgs, err := dal.RabbitCh.Consume(dal.QueuePaymentConfirmed, "", false, false, false, false, nil)
	if err != nil {
		log.Printf("consume %s failed: %v", dal.QueuePaymentConfirmed, err)
		return
	}
	for d := range msgs {
		go handlePaymentConfirmed(svc, d)
	}
}

func handlePaymentConfirmed(svc PaymentConfirmer, d amqp.Delivery) {
	var msg dto.PaymentConfirmedMQ
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		log.Printf("payment msg unmarshal err: %v", err)
		d.Nack(false, false)
		return
	}

	if err := svc.Confirm(msg); err != nil {
		log.Printf("stamp fees for order %d failed: %v", msg.OrderID, err)

		if msg.RetryCount < maxRetry {
			msg.RetryCount++
			_ = PublishPaymentConfirmed(msg)
			log.Printf("retrying fee stamp for order %d (attempt %d)", msg.OrderID, msg.RetryCount)
		} else {
			log.Printf("max retry reached for order %d", msg.OrderID)
		}

		d.Nack(false, false)
		return
	}

	d.Ack(false)
}

// settlement runs are handled serially; the redis run key already collapses
// duplicates per date
func consumeSettlementRun(svc SettlementRunner) {
	msgs, err := dal.RabbitCh.Consume(dal.QueueSettlementRun, "", false, false, false, false, nil)
	if err != nil {
		log.Printf("consume %s failed: %v", dal.QueueSettlementRun, err)
		return
	}
	for d := range msgs {
		handleSettlementRun(svc, d)
	}
}

func handleSettlementRun(svc SettlementRunner, d amqp.Delivery) {
	var msg dto.SettlementRunMQ
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		log.Printf("settlement run unmarshal err: %v", err)
		d.Nack(false, false)
		return
	}

	if err := svc.Run(msg.Date, msg.Force); err != nil {
		log.Printf("settlement run %s failed: %v", msg.Date, err)

		if msg.RetryCount < maxRetry {
			msg.RetryCount++
			_ = PublishSettlementRun(msg)
			log.Printf("retrying settlement run %s (attempt %d)", msg.Date, msg.RetryCount)
		}

		d.Nack(false, false)
		return
	}

	d.Ack(false)
}
