package emailworker

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"goodfood/internal/bridge"
	"goodfood/internal/notify"
	"goodfood/pkg/config"
	"goodfood/pkg/logger"
	"goodfood/pkg/rabbit"
)

// Execute runs the standalone email delivery worker. It re-drives delivery
// independently of the app process: frames arrive over the pull socket (or
// the AMQP fanout) and are handed to the worker's own mailer.
func Execute(ctx context.Context, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fs := flag.NewFlagSet("email-worker", flag.ContinueOnError)
	configPath := fs.String("config-path", "config.yaml", "path for config yaml")
	transport := fs.String("transport", "pull", "delivery transport: pull or amqp")
	endpoint := fs.String("endpoint", "", "override the pull endpoint")
	if err := fs.Parse(args); err != nil {
		return errors.New("cannot parse arguments")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}
	if *endpoint != "" {
		cfg.Bridge.Endpoint = *endpoint
	}

	log := logger.New("email-worker")
	mailer := notify.NewLogMailer(log)

	deliver := func(job notify.EmailJob) {
		log.Debug("email_job_received", fmt.Sprintf("Email job received: %s", job.JobID))
		if err := mailer.Send(ctx, job.EmailAddress, job.EmailTitle, job.EmailBody); err != nil {
			log.Error("email_send_failed", fmt.Sprintf("Dropping email job %s", job.JobID), err)
		}
	}

	switch *transport {
	case "pull":
		listener := bridge.NewListener(cfg.Bridge.Endpoint, deliver, log)
		return listener.Run(ctx)
	case "amqp":
		return consumeAMQP(ctx, cfg, deliver, log)
	default:
		return fmt.Errorf("unknown transport %q", *transport)
	}
}

func consumeAMQP(ctx context.Context, cfg *config.Config, deliver func(notify.EmailJob), log *logger.Logger) error {
	broker, err := rabbit.Connect(cfg.RMQ, log)
	if err != nil {
		return fmt.Errorf("cannot connect to RabbitMQ: %w", err)
	}
	defer broker.Close()

	deliveries, err := broker.Consume()
	if err != nil {
		return fmt.Errorf("cannot start consuming: %w", err)
	}

	log.Info("worker_started", "Email worker consuming notifications queue")

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			var job notify.EmailJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				log.Warn("message_dropped", fmt.Sprintf("Undecodable message: %v", err))
				continue
			}
			deliver(job)
		}
	}
}
