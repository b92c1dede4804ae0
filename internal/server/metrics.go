package server

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/SergeyKa2021/rtl-433/internal/device"
)

var (
	rowsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rtl433_rows_total",
		Help: "Demodulated rows offered to the decoders.",
	})

	decodesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rtl433_decodes_total",
		Help: "Decode attempts by outcome.",
	}, []string{"status"})

	recordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rtl433_records_total",
		Help: "Successfully decoded records by model and channel.",
	}, []string{"model", "channel"})

	streamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rtl433_stream_clients",
		Help: "Currently connected WebSocket stream clients.",
	})
)

// ObserveRows counts demodulated rows entering the decode pipeline.
func ObserveRows(n int) {
	rowsTotal.Add(float64(n))
}

// ObserveDecode counts one decode attempt by its outcome.
func ObserveDecode(status device.Status) {
	decodesTotal.WithLabelValues(status.String()).Inc()
}

// ObserveRecord counts one successfully decoded record.
func ObserveRecord(rec *device.Record) {
	recordsTotal.WithLabelValues(rec.Model, strconv.Itoa(rec.Channel)).Inc()
}
