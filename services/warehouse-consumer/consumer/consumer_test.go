package consumer

import (
	"bytes"
	"sync"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAcknowledger struct {
	acks    int
	nacks   int
	requeue bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acks++
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacks++
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	f.nacks++
	f.requeue = requeue
	return nil
}

const orderEvent = `{
	"event_id": "evt-1",
	"order": {"id": 3, "customer_name": "Ana", "total": 9.99, "status": "pending"},
	"items": [
		{"id": 1, "order_id": 3, "product_id": 1, "quantity": 1, "price": 2.99},
		{"id": 2, "order_id": 3, "product_id": 4, "quantity": 2, "price": 3.5}
	]
}`

func delivery(ack amqp.Acknowledger, body string) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, Body: []byte(body), DeliveryTag: 1}
}

func TestProcessMessageRecordsAndAcks(t *testing.T) {
	tracker := NewOrderTracker()
	w := &Worker{workerID: 1, orderTracker: tracker}
	ack := &fakeAcknowledger{}

	w.processMessage(delivery(ack, orderEvent))

	assert.Equal(t, 1, ack.acks)
	assert.Equal(t, 1, tracker.TotalOrders())
	assert.Equal(t, int64(1), tracker.ProductQuantity(1))
	assert.Equal(t, int64(2), tracker.ProductQuantity(4))
}

func TestProcessMessageRedeliveryCountedOnce(t *testing.T) {
	tracker := NewOrderTracker()
	w := &Worker{workerID: 1, orderTracker: tracker}
	ack := &fakeAcknowledger{}

	w.processMessage(delivery(ack, orderEvent))
	w.processMessage(delivery(ack, orderEvent))

	assert.Equal(t, 2, ack.acks)
	assert.Equal(t, 1, tracker.TotalOrders())
	assert.Equal(t, int64(2), tracker.ProductQuantity(4))
}

func TestProcessMessageMalformedIsDropped(t *testing.T) {
	tracker := NewOrderTracker()
	w := &Worker{workerID: 1, orderTracker: tracker}

	for _, body := range []string{`not json`, `{"order": {}}`} {
		ack := &fakeAcknowledger{}
		w.processMessage(delivery(ack, body))

		assert.Equal(t, 0, ack.acks)
		assert.Equal(t, 1, ack.nacks)
		assert.False(t, ack.requeue)
	}
	assert.Zero(t, tracker.TotalOrders())
}

func TestOrderTrackerConcurrentRecords(t *testing.T) {
	tracker := NewOrderTracker()

	var wg sync.WaitGroup
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(orderID int) {
			defer wg.Done()
			tracker.RecordOrder(orderID, []OrderItem{{ProductID: 1, Quantity: 2}})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, tracker.TotalOrders())
	assert.Equal(t, int64(200), tracker.ProductQuantity(1))
}

func TestWriteSummary(t *testing.T) {
	tracker := NewOrderTracker()
	require.True(t, tracker.RecordOrder(1, []OrderItem{{ProductID: 4, Quantity: 2}, {ProductID: 1, Quantity: 1}}))
	require.False(t, tracker.RecordOrder(1, nil))

	var buf bytes.Buffer
	tracker.WriteSummary(&buf)

	out := buf.String()
	assert.Contains(t, out, "Total Orders Processed: 1")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Product 1:")), bytes.Index(buf.Bytes(), []byte("Product 4:")))
}

func TestConsumeDrainsUntilClosed(t *testing.T) {
	tracker := NewOrderTracker()
	w := &Worker{workerID: 2, orderTracker: tracker}
	ack := &fakeAcknowledger{}

	msgs := make(chan amqp.Delivery, 3)
	msgs <- delivery(ack, orderEvent)
	msgs <- delivery(ack, `garbage`)
	msgs <- delivery(ack, `{"order": {"id": 4}, "items": [{"product_id": 1, "quantity": 5}]}`)
	close(msgs)

	assert.Equal(t, 3, w.consume(msgs))
	assert.Equal(t, 2, ack.acks)
	assert.Equal(t, 1, ack.nacks)
	assert.Equal(t, 2, tracker.TotalOrders())
	assert.Equal(t, int64(6), tracker.ProductQuantity(1))
}
