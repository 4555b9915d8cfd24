package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cloudkitchen_orders_placed_total",
		Help: "Orders accepted after validation and capacity decrement.",
	})

	ordersRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudkitchen_orders_rejected_total",
		Help: "Order submissions rejected, by reason.",
	}, []string{"reason"})

	messagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudkitchen_chat_messages_total",
		Help: "Chat messages persisted, by sender role.",
	}, []string{"sender"})

	wsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cloudkitchen_ws_active_connections",
		Help: "Currently open chat websocket connections.",
	})
)

func IncOrderPlaced() { ordersPlaced.Inc() }

func IncOrderRejected(reason string) { ordersRejected.WithLabelValues(reason).Inc() }

func IncMessageSent(sender string) { messagesSent.WithLabelValues(sender).Inc() }

func IncWSActive() { wsActive.Inc() }

func DecWSActive() { wsActive.Dec() }
