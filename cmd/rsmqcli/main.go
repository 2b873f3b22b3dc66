// Package main rsmqcli is a small command-line client exercising every
// queue and message operation exposed by the rsmq package: load config,
// build a logger, wire the domain client, and dispatch.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/go-rsmq/rsmq"
	"github.com/go-rsmq/rsmq/internal/config"
	"github.com/go-rsmq/rsmq/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConnections,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	defer client.Close()

	q := rsmq.NewRsmq(client,
		rsmq.WithNamespace(cfg.Namespace),
		rsmq.WithRealtime(cfg.Realtime),
		rsmq.WithLogger(log.Logger),
	)

	ctx := context.Background()
	cmd, args := os.Args[1], os.Args[2:]

	var cmdErr error
	switch cmd {
	case "create-queue":
		cmdErr = runCreateQueue(ctx, q, args)
	case "delete-queue":
		cmdErr = runDeleteQueue(ctx, q, args)
	case "list-queues":
		cmdErr = runListQueues(ctx, q, args)
	case "queue-attributes":
		cmdErr = runQueueAttributes(ctx, q, args)
	case "set-queue-attributes":
		cmdErr = runSetQueueAttributes(ctx, q, args)
	case "send":
		cmdErr = runSend(ctx, q, args)
	case "receive":
		cmdErr = runReceive(ctx, q, args)
	case "pop":
		cmdErr = runPop(ctx, q, args)
	case "change-visibility":
		cmdErr = runChangeVisibility(ctx, q, args)
	case "delete-message":
		cmdErr = runDeleteMessage(ctx, q, args)
	default:
		usage()
		os.Exit(1)
	}

	if cmdErr != nil {
		log.WithOperation(cmd).Error("command failed", "error", cmdErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `rsmqcli <command> [flags]

Commands:
  create-queue -name NAME [-vt N] [-delay N] [-maxsize N]
  delete-queue -name NAME
  list-queues
  queue-attributes -name NAME
  set-queue-attributes -name NAME [-vt N] [-delay N] [-maxsize N]
  send -name NAME -message TEXT [-delay N]
  receive -name NAME [-vt N]
  pop -name NAME
  change-visibility -name NAME -id ID -vt N
  delete-message -name NAME -id ID`)
}

func runCreateQueue(ctx context.Context, q *rsmq.Rsmq, args []string) error {
	fs := flag.NewFlagSet("create-queue", flag.ExitOnError)
	name := fs.String("name", "", "queue name")
	vt := fs.Int64("vt", -1, "default visibility timeout in seconds")
	delay := fs.Int64("delay", -1, "default delay in seconds")
	maxsize := fs.Int64("maxsize", -2, "max payload size in bytes, or -1 for unlimited")
	if err := fs.Parse(args); err != nil {
		return err
	}

	params := rsmq.CreateQueueParams{}
	if *vt >= 0 {
		params.Vt = vt
	}
	if *delay >= 0 {
		params.Delay = delay
	}
	if *maxsize != -2 {
		params.Maxsize = maxsize
	}

	if err := q.CreateQueue(ctx, *name, params); err != nil {
		return err
	}
	fmt.Printf("queue %q created\n", *name)
	return nil
}

func runDeleteQueue(ctx context.Context, q *rsmq.Rsmq, args []string) error {
	fs := flag.NewFlagSet("delete-queue", flag.ExitOnError)
	name := fs.String("name", "", "queue name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := q.DeleteQueue(ctx, *name); err != nil {
		return err
	}
	fmt.Printf("queue %q deleted\n", *name)
	return nil
}

func runListQueues(ctx context.Context, q *rsmq.Rsmq, args []string) error {
	names, err := q.ListQueues(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}

func runQueueAttributes(ctx context.Context, q *rsmq.Rsmq, args []string) error {
	fs := flag.NewFlagSet("queue-attributes", flag.ExitOnError)
	name := fs.String("name", "", "queue name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	attrs, err := q.GetQueueAttributes(ctx, *name)
	if err != nil {
		return err
	}
	printAttributes(attrs)
	return nil
}

func runSetQueueAttributes(ctx context.Context, q *rsmq.Rsmq, args []string) error {
	fs := flag.NewFlagSet("set-queue-attributes", flag.ExitOnError)
	name := fs.String("name", "", "queue name")
	vt := fs.Int64("vt", -2, "new visibility timeout in seconds")
	delay := fs.Int64("delay", -2, "new delay in seconds")
	maxsize := fs.Int64("maxsize", -2, "new max payload size in bytes, or -1 for unlimited")
	if err := fs.Parse(args); err != nil {
		return err
	}

	params := rsmq.SetQueueAttributesParams{}
	if *vt != -2 {
		params.Vt = vt
	}
	if *delay != -2 {
		params.Delay = delay
	}
	if *maxsize != -2 {
		params.Maxsize = maxsize
	}

	attrs, err := q.SetQueueAttributes(ctx, *name, params)
	if err != nil {
		return err
	}
	printAttributes(attrs)
	return nil
}

func runSend(ctx context.Context, q *rsmq.Rsmq, args []string) error {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	name := fs.String("name", "", "queue name")
	message := fs.String("message", "", "message body")
	delay := fs.Int64("delay", -1, "delay override in seconds")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var delayPtr *int64
	if *delay >= 0 {
		delayPtr = delay
	}

	id, err := q.SendMessageBytes(ctx, *name, []byte(*message), delayPtr)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func runReceive(ctx context.Context, q *rsmq.Rsmq, args []string) error {
	fs := flag.NewFlagSet("receive", flag.ExitOnError)
	name := fs.String("name", "", "queue name")
	vt := fs.Int64("vt", -1, "visibility timeout override in seconds")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var vtPtr *int64
	if *vt >= 0 {
		vtPtr = vt
	}

	msg, err := q.ReceiveMessageBytes(ctx, *name, vtPtr)
	if err != nil {
		return err
	}
	printMessage(msg)
	return nil
}

func runPop(ctx context.Context, q *rsmq.Rsmq, args []string) error {
	fs := flag.NewFlagSet("pop", flag.ExitOnError)
	name := fs.String("name", "", "queue name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	msg, err := q.PopMessageBytes(ctx, *name)
	if err != nil {
		return err
	}
	printMessage(msg)
	return nil
}

func runChangeVisibility(ctx context.Context, q *rsmq.Rsmq, args []string) error {
	fs := flag.NewFlagSet("change-visibility", flag.ExitOnError)
	name := fs.String("name", "", "queue name")
	id := fs.String("id", "", "message id")
	vt := fs.Int64("vt", 30, "new hidden duration in seconds")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := q.ChangeMessageVisibility(ctx, *name, *id, *vt); err != nil {
		return err
	}
	fmt.Println("ok")
	return nil
}

func runDeleteMessage(ctx context.Context, q *rsmq.Rsmq, args []string) error {
	fs := flag.NewFlagSet("delete-message", flag.ExitOnError)
	name := fs.String("name", "", "queue name")
	id := fs.String("id", "", "message id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ok, err := q.DeleteMessage(ctx, *name, *id)
	if err != nil {
		return err
	}
	fmt.Println(ok)
	return nil
}

func printAttributes(a *rsmq.QueueAttributes) {
	fmt.Printf("vt=%d delay=%d maxsize=%d totalrecv=%d totalsent=%d created=%d modified=%d msgs=%d hiddenmsgs=%d\n",
		a.Vt, a.Delay, a.Maxsize, a.TotalRecv, a.TotalSent, a.Created, a.Modified, a.Msgs, a.HiddenMsgs)
}

func printMessage(m *rsmq.Message) {
	if m == nil {
		fmt.Println("(no message)")
		return
	}
	fmt.Printf("id=%s rc=%d fr=%d sent=%s\n%s\n", m.ID, m.RC, m.FR, m.Sent, string(m.Message))
}
