package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	grpcsvc "github.com/vladislavdragonenkov/ordersvc/internal/service/grpc"
)

type loadMode string

const (
	modeOpen     loadMode = "open"
	modeOpenList loadMode = "open-list"
	modeList     loadMode = "list"
)

// orderClient — подмножество grpcsvc.OrderServiceClient, нужное сценариям.
type orderClient interface {
	OpenNewOrder(ctx context.Context, customerID string, opts ...grpc.CallOption) (string, error)
	GetOrderSummaries(ctx context.Context, customerID string, opts ...grpc.CallOption) (*structpb.ListValue, error)
}

type config struct {
	addr        string
	total       int
	totalSet    bool
	duration    time.Duration
	concurrency int
	connections int
	timeout     time.Duration
	mode        loadMode
	customers   int
	customerTag string
	outputPath  string
}

func parseConfig(args []string) (config, error) {
	var (
		cfg       config
		modeValue string
	)

	fs := flag.NewFlagSet("loadtest", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.addr, "addr", "localhost:50051", "gRPC target address")
	fs.IntVar(&cfg.total, "total", 400, "total scenarios in count mode; with -duration acts as an upper bound when set")
	fs.DurationVar(&cfg.duration, "duration", 0, "optional time-based run duration (e.g. 10m)")
	fs.IntVar(&cfg.concurrency, "concurrency", 40, "number of concurrent workers")
	fs.IntVar(&cfg.connections, "connections", 20, "number of gRPC client connections")
	fs.DurationVar(&cfg.timeout, "timeout", 5*time.Second, "per-RPC timeout")
	fs.StringVar(&modeValue, "mode", string(modeOpen), "load mode: open | open-list | list")
	fs.IntVar(&cfg.customers, "customers", 0, "spread scenarios over N customers (0 = one customer per scenario)")
	fs.StringVar(&cfg.customerTag, "customer-tag", "load", "customer id prefix")
	fs.StringVar(&cfg.outputPath, "output", "", "optional JSON report output file path")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "total" {
			cfg.totalSet = true
		}
	})

	mode, err := parseMode(modeValue)
	if err != nil {
		return cfg, err
	}
	cfg.mode = mode

	switch {
	case cfg.duration < 0:
		return cfg, errors.New("duration must be >= 0")
	case cfg.duration == 0 && cfg.total <= 0:
		return cfg, errors.New("total must be > 0 when duration is not set")
	case cfg.duration > 0 && cfg.totalSet && cfg.total <= 0:
		return cfg, errors.New("total must be > 0 when explicitly set with duration")
	case cfg.concurrency <= 0:
		return cfg, errors.New("concurrency must be > 0")
	case cfg.connections <= 0:
		return cfg, errors.New("connections must be > 0")
	case cfg.timeout <= 0:
		return cfg, errors.New("timeout must be > 0")
	case cfg.customers < 0:
		return cfg, errors.New("customers must be >= 0")
	case strings.TrimSpace(cfg.customerTag) == "":
		return cfg, errors.New("customer-tag is required")
	}

	return cfg, nil
}

func parseMode(value string) (loadMode, error) {
	switch mode := loadMode(strings.TrimSpace(value)); mode {
	case modeOpen, modeOpenList, modeList:
		return mode, nil
	default:
		return "", fmt.Errorf("unsupported mode: %s", value)
	}
}

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	conns := make([]*grpc.ClientConn, 0, cfg.connections)
	clients := make([]orderClient, 0, cfg.connections)
	for i := 0; i < cfg.connections; i++ {
		conn, dialErr := grpc.NewClient(cfg.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if dialErr != nil {
			_, _ = fmt.Fprintf(os.Stderr, "failed to create grpc client connection: %v\n", dialErr)
			os.Exit(1)
		}
		conns = append(conns, conn)
		clients = append(clients, grpcsvc.NewOrderServiceClient(conn))
	}

	result := runLoad(clients, cfg, fmt.Sprintf("%d-%d", time.Now().UnixNano(), os.Getpid()))
	for _, conn := range conns {
		_ = conn.Close()
	}

	printReport(os.Stdout, result, cfg)
	if cfg.outputPath != "" {
		if err := writeJSONReport(cfg.outputPath, result); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "failed to write report: %v\n", err)
			os.Exit(1)
		}
	}

	if result.FailedScenarios > 0 {
		os.Exit(1)
	}
}

// runLoad раздаёт сценарии воркерам по кругу клиентов и собирает отчёт.
func runLoad(clients []orderClient, cfg config, runID string) report {
	startedAt := time.Now()
	col := newCollector()
	jobs := make(chan int, cfg.concurrency*2)

	var wg sync.WaitGroup
	for workerID := 0; workerID < cfg.concurrency; workerID++ {
		wg.Add(1)
		go func(client orderClient) {
			defer wg.Done()
			for index := range jobs {
				_ = runScenario(client, cfg, index, runID, col)
			}
		}(clients[workerID%len(clients)])
	}

	dispatchJobs(jobs, cfg)
	wg.Wait()

	return col.buildReport(startedAt, time.Since(startedAt))
}

func dispatchJobs(jobs chan<- int, cfg config) {
	defer close(jobs)

	if cfg.duration <= 0 {
		for i := 0; i < cfg.total; i++ {
			jobs <- i
		}
		return
	}

	timer := time.NewTimer(cfg.duration)
	defer timer.Stop()

	for i := 0; !cfg.totalSet || i < cfg.total; i++ {
		select {
		case <-timer.C:
			return
		case jobs <- i:
		}
	}
}

func customerFor(cfg config, runID string, index int) string {
	if cfg.customers > 0 {
		index %= cfg.customers
	}
	return fmt.Sprintf("%s-%s-%d", cfg.customerTag, runID, index)
}

func runScenario(client orderClient, cfg config, index int, runID string, col *collector) (err error) {
	start := time.Now()
	defer func() {
		col.record(scenarioKey, time.Since(start), grpcCode(err))
	}()

	customerID := customerFor(cfg, runID, index)

	if cfg.mode != modeList {
		orderNumber, err := callOpenNewOrder(client, cfg.timeout, customerID, col)
		if err != nil {
			return err
		}
		if orderNumber == "" {
			return status.Error(codes.Internal, "open new order returned empty order number")
		}
	}

	if cfg.mode == modeOpen {
		return nil
	}

	list, err := callGetOrderSummaries(client, cfg.timeout, customerID, col)
	if err != nil {
		return err
	}
	if cfg.mode == modeOpenList && len(list.GetValues()) == 0 {
		return status.Error(codes.Internal, "opened order is missing from summaries")
	}
	return nil
}

func callOpenNewOrder(client orderClient, timeout time.Duration, customerID string, col *collector) (string, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	orderNumber, err := client.OpenNewOrder(ctx, customerID)
	col.record("OpenNewOrder", time.Since(start), grpcCode(err))
	return orderNumber, err
}

func callGetOrderSummaries(client orderClient, timeout time.Duration, customerID string, col *collector) (*structpb.ListValue, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	list, err := client.GetOrderSummaries(ctx, customerID)
	col.record("GetOrderSummaries", time.Since(start), grpcCode(err))
	return list, err
}

func grpcCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	return status.Code(err)
}
