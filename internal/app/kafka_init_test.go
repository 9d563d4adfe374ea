package app

import (
	"reflect"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestInitKafkaProducer_EmptyBrokers(t *testing.T) {
	logger := log.WithField("test", "kafka")

	for _, brokers := range [][]string{nil, {}, {" ", ","}} {
		if producer := initKafkaProducer(brokers, logger); producer != nil {
			t.Errorf("brokers %q: expected nil producer, got %v", brokers, producer)
		}
	}
}

func TestInitKafkaProducer_UnreachableBrokers(t *testing.T) {
	logger, hook := test.NewNullLogger()
	producer := initKafkaProducer([]string{"127.0.0.1:1"}, logger.WithField("test", "kafka"))
	if producer != nil {
		t.Fatal("expected nil producer for unreachable broker")
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != log.WarnLevel || entry.Data[log.ErrorKey] == nil {
		t.Fatalf("expected warning with error for unreachable broker, got %+v", entry)
	}
}

func TestNormalizeBrokers(t *testing.T) {
	got := normalizeBrokers([]string{"broker1:9092, broker2:9092", "", " broker3:9092 "})
	want := []string{"broker1:9092", "broker2:9092", "broker3:9092"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("normalizeBrokers = %v, want %v", got, want)
	}
}

func TestCloseKafka_NilProducer(_ *testing.T) {
	closeKafka(nil, log.WithField("test", "kafka"))
}
