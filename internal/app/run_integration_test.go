package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcsvc "github.com/vladislavdragonenkov/ordersvc/internal/service/grpc"
	"github.com/vladislavdragonenkov/ordersvc/internal/service/orders"
	"github.com/vladislavdragonenkov/ordersvc/internal/service/summary"
	"github.com/vladislavdragonenkov/ordersvc/internal/storage/memory"
)

func TestRun_GracefulShutdown(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "memory", mutate: func(c *Config) { c.StorageDriver = StorageDriverMemory }},
		{name: "sqlite", mutate: func(c *Config) {
			c.StorageDriver = StorageDriverSQLite
			c.SQLitePath = filepath.Join(t.TempDir(), "orders.db")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.GRPCAddr = "127.0.0.1:0"
			cfg.HTTPAddr = "127.0.0.1:0"
			cfg.MetricsAddr = "127.0.0.1:0"
			tt.mutate(&cfg)

			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				time.Sleep(150 * time.Millisecond)
				cancel()
			}()

			if err := Run(ctx, cfg); !errors.Is(err, context.Canceled) {
				t.Fatalf("expected context.Canceled, got %v", err)
			}
		})
	}
}

func TestRun_InvalidStorageDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StorageDriver = "invalid-driver"

	err := Run(context.Background(), cfg)
	if err == nil || !strings.Contains(err.Error(), "unsupported storage driver") {
		t.Fatalf("expected unsupported storage driver error, got %v", err)
	}
}

func TestNewGRPCServer_ServesOrdersAndHealth(t *testing.T) {
	service := orders.NewService(memory.NewOrderStore(), summary.NewTransformer())
	server, _ := newGRPCServer(service, log.WithField("test", "grpc"))

	port := findFreePort(t)
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: grpcsvc.ServiceName})
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING, got %s", resp.GetStatus())
	}

	client := grpcsvc.NewOrderServiceClient(conn)
	number, err := client.OpenNewOrder(ctx, "customer-1")
	if err != nil || number == "" {
		t.Fatalf("open new order: %q %v", number, err)
	}
	list, err := client.GetOrderSummaries(ctx, "customer-1")
	if err != nil || len(list.GetValues()) != 1 {
		t.Fatalf("expected one summary, got %v (err=%v)", list, err)
	}
}

func TestStartAPIServer_ServesOrders(t *testing.T) {
	service := orders.NewService(memory.NewOrderStore(), summary.NewTransformer())
	port := findFreePort(t)

	srv, err := startAPIServer(fmt.Sprintf("127.0.0.1:%d", port), service, log.WithField("test", "api"))
	if err != nil {
		t.Fatalf("start api server: %v", err)
	}
	defer shutdownHTTP(srv, time.Second, log.WithField("test", "api"))

	resp, err := http.Post(fmt.Sprintf("http://127.0.0.1:%d/v1/customers/customer-1/orders", port), "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
}

func TestRegisterGRPCMetrics_Reuse(t *testing.T) {
	registry := prometheus.NewRegistry()
	logger := log.WithField("test", "grpc-metrics")

	first := registerGRPCMetrics(registry, logger)
	second := registerGRPCMetrics(registry, logger)
	if first != second {
		t.Fatal("expected already registered metrics to be reused")
	}
}
