// Admin console for the bakery delivery desk: lists today's active orders, searches
// them, and drives the customer OTP handover against the delivery OTP server.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/toshankanwar/bakery-delivery-backend/internal/adminclient"
	"github.com/toshankanwar/bakery-delivery-backend/internal/config"
	"github.com/toshankanwar/bakery-delivery-backend/internal/logger"
	"github.com/toshankanwar/bakery-delivery-backend/internal/models"
	"github.com/toshankanwar/bakery-delivery-backend/internal/storage"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "bakery-admin",
		Usage:   "Toshan Bakery delivery desk",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "Extra .env file to load before the environment",
				EnvVars: []string{"ADMIN_ENV_FILE"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "orders",
				Usage:  "List today's orders that are not delivered yet",
				Action: listOrders,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"s"},
						Usage:   "Match customer name or item name",
					},
				},
			},
			{
				Name:   "watch",
				Usage:  "Interactive search: type to filter, :r to refresh, :c to clear, :q to quit",
				Action: watchOrders,
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "debounce",
						Usage: "Delay after the last keystroke before searching",
						Value: adminclient.DefaultDebounce,
					},
				},
			},
			{
				Name:   "send-otp",
				Usage:  "Email a delivery code to the customer",
				Action: sendOTP,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "order", Usage: "Order ID", Required: true},
					&cli.StringFlag{Name: "email", Usage: "Customer email", Required: true},
					urlFlag(),
				},
			},
			{
				Name:   "verify-otp",
				Usage:  "Check the code the customer read out and confirm delivery",
				Action: verifyOTP,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "order", Usage: "Order ID", Required: true},
					&cli.StringFlag{Name: "otp", Usage: "6-digit code", Required: true},
					urlFlag(),
				},
			},
		},
	}
}

func urlFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "url",
		Usage: "OTP server base URL (defaults to OTP_SERVICE_URL)",
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	var files []string
	if f := c.String("env-file"); f != "" {
		files = append(files, f)
	}
	files = append(files, ".env", "environments/.env.development")
	return config.Load(files...)
}

// openLister loads config, opens the order store and returns a Lister over it.
func openLister(c *cli.Context) (*adminclient.Lister, func(), error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(cfg.IsProduction())

	backend, err := storage.Open(c.Context, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := backend.Close(); err != nil {
			log.Warn("closing storage", zap.Error(err))
		}
		_ = log.Sync()
	}
	return adminclient.NewLister(backend.Orders), cleanup, nil
}

func otpClient(c *cli.Context) (*adminclient.OTPClient, error) {
	base := c.String("url")
	timeout := 30 * time.Second
	if base == "" {
		cfg, err := loadConfig(c)
		if err != nil {
			return nil, err
		}
		base = cfg.OTPServiceURL
		timeout = cfg.RequestTimeout + 10*time.Second
	}
	return adminclient.NewOTPClient(base, timeout), nil
}

func listOrders(c *cli.Context) error {
	lister, cleanup, err := openLister(c)
	if err != nil {
		return err
	}
	defer cleanup()

	orders, err := lister.Fetch(c.Context, c.String("search"))
	if err != nil {
		return fmt.Errorf("failed to fetch orders: %w", err)
	}
	printOrders(os.Stdout, orders)
	return nil
}

func watchOrders(c *cli.Context) error {
	lister, cleanup, err := openLister(c)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := adminclient.NewSearchSession(ctx, lister, c.Duration("debounce"), func(r adminclient.Result) {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "fetch failed (%q): %v\n", r.Search, r.Err)
			return
		}
		fmt.Printf("\n-- search %q: %d order(s) --\n", r.Search, len(r.Orders))
		printOrders(os.Stdout, r.Orders)
	})
	defer session.Close()

	session.Load()

	lines := readLines(ctx, os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			switch line {
			case ":q":
				return nil
			case ":r":
				session.Refresh()
			case ":c":
				session.Clear()
			default:
				session.SetText(line)
			}
		}
	}
}

// readLines streams lines from r until EOF or until ctx is done, then closes the channel.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func sendOTP(c *cli.Context) error {
	client, err := otpClient(c)
	if err != nil {
		return err
	}
	if err := client.SendOTP(c.Context, c.String("order"), c.String("email")); err != nil {
		return err
	}
	fmt.Printf("OTP sent to %s for order #%s\n", c.String("email"), models.ShortID(c.String("order")))
	return nil
}

func verifyOTP(c *cli.Context) error {
	client, err := otpClient(c)
	if err != nil {
		return err
	}
	valid, err := client.VerifyOTP(c.Context, c.String("order"), c.String("otp"))
	if err != nil {
		return err
	}
	if !valid {
		return cli.Exit("Invalid or expired OTP", 2)
	}
	fmt.Printf("✅ Order #%s marked as delivered\n", models.ShortID(c.String("order")))
	return nil
}

func printOrders(w io.Writer, orders []*models.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No active orders for today.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tCUSTOMER\tTOTAL\tFIRST ITEM\tPAYMENT\tSTATUS\tPLACED")
	for _, o := range orders {
		placed := "-"
		if !o.Timestamp.IsZero() {
			placed = o.Timestamp.Local().Format("15:04")
		}
		fmt.Fprintf(tw, "#%s\t%s\t₹%s\t%s\t%s (%s)\t%s\t%s\n",
			o.ShortID(),
			o.CustomerLabel(),
			o.Total.StringFixed(2),
			o.FirstItemName(),
			strings.ToUpper(o.PaymentMethod),
			o.DisplayPaymentStatus(),
			o.OrderStatus,
			placed,
		)
	}
	_ = tw.Flush()
}
