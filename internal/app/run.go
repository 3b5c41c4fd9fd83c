package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"goodfood/internal/bridge"
	"goodfood/internal/cart"
	"goodfood/internal/discount"
	"goodfood/internal/domain"
	"goodfood/internal/notify"
	"goodfood/internal/order"
	"goodfood/pkg/clock"
	"goodfood/pkg/config"
	"goodfood/pkg/logger"
	"goodfood/pkg/postgres"
	"goodfood/pkg/rabbit"
)

// App is the wired ordering core. The web layer that exposes Carts and
// Orders over HTTP lives outside this module and consumes them as-is.
type App struct {
	Carts      *cart.Service
	Orders     *order.Service
	Sweeper    *cart.Sweeper
	Dispatcher *notify.Dispatcher

	cleanups []func()
}

// Execute wires the ordering core and runs its background loops until a
// shutdown signal arrives.
func Execute(ctx context.Context, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fs := flag.NewFlagSet("app", flag.ContinueOnError)
	configPath := fs.String("config-path", "config.yaml", "path for config yaml")
	if err := fs.Parse(args); err != nil {
		return errors.New("cannot parse arguments")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}

	log := logger.New("app")

	a, err := Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	log.Info("app_started", fmt.Sprintf("GoodFood app running, sink=%s, cart ttl=%s",
		cfg.Notifications.Sink, cfg.Cart.TTL()))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Sweeper.Run(ctx)
		return nil
	})
	if a.Dispatcher != nil {
		g.Go(func() error {
			a.Dispatcher.Run(ctx)
			return nil
		})
	}
	return g.Wait()
}

// Build assembles stores, services, the notification sink and the
// background workers from configuration.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{}
	clk := clock.System()

	cartStore, orderStore, err := a.buildStores(ctx, cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Carts = cart.NewService(cartStore, clk, cfg.Cart.TTL(), log)
	a.Sweeper = cart.NewSweeper(a.Carts, cfg.Cart.SweepInterval(), log)

	sink, err := a.buildSink(cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	events := notify.NewEvents(log)
	events.Register(notify.EmailHandler(sink, func(c domain.CustomerInfo) string {
		// Upstream identity stores the email address as the user name.
		return c.UserName
	}))
	events.Register(notify.SMSHandler(log))

	policy := discount.ForName(cfg.Orders.DiscountPolicy)
	a.Orders = order.NewService(orderStore, a.Carts, policy, events, clk, log)
	return a, nil
}

// Close releases store and broker connections.
func (a *App) Close() {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
}

func (a *App) buildStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (cart.Store, order.Store, error) {
	switch cfg.Cart.Storage {
	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot connect to postgres: %w", err)
		}
		a.cleanups = append(a.cleanups, pool.Close)
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			return nil, nil, err
		}
		log.Info("postgres_connected", "Using Postgres cart and order stores")
		return cart.NewPostgresStore(pool), order.NewPostgresStore(pool), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.cleanups = append(a.cleanups, func() { client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("cannot connect to redis: %w", err)
		}
		log.Info("redis_connected", "Using Redis cart store with in-memory orders")
		return cart.NewRedisStore(client), order.NewMemoryStore(), nil
	default:
		return cart.NewMemoryStore(), order.NewMemoryStore(), nil
	}
}

// buildSink selects exactly one notification path for this deployment. The
// dispatcher only exists for the in-process queue sink.
func (a *App) buildSink(cfg *config.Config, log *logger.Logger) (notify.Sink, error) {
	switch cfg.Notifications.Sink {
	case "bridge":
		pusher := bridge.NewPusher(cfg.Bridge.Endpoint, log)
		return bridge.NewSink(pusher), nil
	case "amqp":
		broker, err := rabbit.Connect(cfg.RMQ, log)
		if err != nil {
			return nil, fmt.Errorf("cannot connect to RabbitMQ: %w", err)
		}
		a.cleanups = append(a.cleanups, broker.Close)
		return notify.NewAMQPSink(broker), nil
	default:
		queue := notify.NewQueue()
		mailer := notify.NewLogMailer(log)
		a.Dispatcher = notify.NewDispatcher(queue, mailer,
			cfg.Notifications.DispatchInterval(), cfg.Notifications.DispatchBatchSize, log)
		return notify.NewQueueSink(queue), nil
	}
}
