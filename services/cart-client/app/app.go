// Package app implements the cart-client command line: it owns one cart
// session, loading the cart before each command and saving it afterwards.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"storefront/services/cart-client/cart"
	"storefront/services/cart-client/clients"
	"storefront/services/cart-client/config"
)

// API is the part of the storefront API the client calls.
type API interface {
	GetProduct(ctx context.Context, id int) (clients.Product, error)
	ListProducts(ctx context.Context, categoryID int, featured bool) ([]clients.Product, error)
	CreateOrder(ctx context.Context, req clients.OrderRequest) (clients.Order, error)
	ListOrders(ctx context.Context) ([]clients.Order, error)
	GetOrder(ctx context.Context, id int) (clients.Order, error)
}

var errUsage = errors.New("usage")

type App struct {
	api   API
	carts *cart.Store
	out   io.Writer
}

func New(api API, carts *cart.Store, out io.Writer) *App {
	return &App{api: api, carts: carts, out: out}
}

// RunContext parses global flags, builds the storage and API client, runs
// one command and returns the process exit code.
func RunContext(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg := config.LoadConfig()

	fs := flag.NewFlagSet("cart-client", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.APIURL, "api", cfg.APIURL, "storefront API base URL")
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "cart storage: file or redis")
	fs.StringVar(&cfg.CartDir, "cart-dir", cfg.CartDir, "directory for file storage")
	fs.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL for redis storage")
	fs.StringVar(&cfg.CartKey, "cart-key", cfg.CartKey, "storage key of the cart")
	fs.Usage = func() { printUsage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	storage, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer closeStorage()

	a := New(clients.NewStorefrontClient(cfg.APIURL), cart.NewStore(storage, cfg.CartKey), stdout)
	if err := a.Execute(ctx, fs.Args()); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(stderr, fs)
			return 2
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func openStorage(ctx context.Context, cfg *config.Config) (cart.Storage, func(), error) {
	switch cfg.Storage {
	case "file":
		s, err := cart.NewFileStorage(cfg.CartDir)
		return s, func() {}, err
	case "redis":
		client, err := cart.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return cart.NewRedisStorage(client), func() { client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage %q (want file or redis)", cfg.Storage)
	}
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  cart-client [options] <command> [args]")
	fmt.Fprintln(w, "\nCommands:")
	fmt.Fprintln(w, "  products [-category N] [-featured]   list the catalog")
	fmt.Fprintln(w, "  add <product_id> [quantity]          add a product to the cart")
	fmt.Fprintln(w, "  update <product_id> <quantity>       set a quantity (0 removes the line)")
	fmt.Fprintln(w, "  remove <product_id>                  remove a product from the cart")
	fmt.Fprintln(w, "  clear                                empty the cart")
	fmt.Fprintln(w, "  show                                 print the cart and its total")
	fmt.Fprintln(w, "  checkout -name N [-email E] [-phone P] [-location L] [-pickup RFC3339]")
	fmt.Fprintln(w, "  orders                               list orders")
	fmt.Fprintln(w, "  order <id>                           show one order with its items")
	fmt.Fprintln(w, "\nOptions:")
	fs.PrintDefaults()
}

// Execute runs a single command.
func (a *App) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "products":
		return a.products(ctx, rest)
	case "add":
		return a.add(ctx, rest)
	case "update":
		return a.update(ctx, rest)
	case "remove":
		return a.remove(ctx, rest)
	case "clear":
		return a.mutate(ctx, func(c *cart.Cart) error {
			c.Clear()
			return nil
		})
	case "show":
		c, err := a.carts.Load(ctx)
		if err != nil {
			return err
		}
		a.printCart(c)
		return nil
	case "checkout":
		return a.checkout(ctx, rest)
	case "orders":
		return a.orders(ctx)
	case "order":
		return a.order(ctx, rest)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// mutate loads the cart, applies fn and saves the result.
func (a *App) mutate(ctx context.Context, fn func(*cart.Cart) error) error {
	c, err := a.carts.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(c); err != nil {
		return err
	}
	if err := a.carts.Save(ctx, c); err != nil {
		return err
	}
	a.printCart(c)
	return nil
}

func (a *App) products(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	category := fs.Int("category", 0, "category id")
	featured := fs.Bool("featured", false, "featured products only")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	products, err := a.api.ListProducts(ctx, *category, *featured)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tAVAILABLE")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\n", p.ID, p.Name, p.Price.StringFixed(2), p.Available)
	}
	return tw.Flush()
}

func (a *App) add(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: add <product_id> [quantity]", errUsage)
	}
	productID, err := parsePositive(args[0], "product id")
	if err != nil {
		return err
	}
	quantity := 1
	if len(args) == 2 {
		if quantity, err = parsePositive(args[1], "quantity"); err != nil {
			return err
		}
	}

	product, err := a.api.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !product.Available {
		return fmt.Errorf("%s is not available", product.Name)
	}

	return a.mutate(ctx, func(c *cart.Cart) error {
		return c.AddItem(cart.Line{
			ProductID: product.ID,
			Quantity:  quantity,
			Product: cart.Snapshot{
				ID:       product.ID,
				Name:     product.Name,
				Price:    product.Price,
				ImageURL: product.ImageURL,
			},
		})
	})
}

func (a *App) update(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: update <product_id> <quantity>", errUsage)
	}
	productID, err := parsePositive(args[0], "product id")
	if err != nil {
		return err
	}
	quantity, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[1])
	}
	return a.mutate(ctx, func(c *cart.Cart) error {
		c.UpdateQuantity(productID, quantity)
		return nil
	})
}

func (a *App) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: remove <product_id>", errUsage)
	}
	productID, err := parsePositive(args[0], "product id")
	if err != nil {
		return err
	}
	return a.mutate(ctx, func(c *cart.Cart) error {
		c.RemoveItem(productID)
		return nil
	})
}

func (a *App) checkout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "customer name")
	email := fs.String("email", "", "customer email")
	phone := fs.String("phone", "", "customer phone")
	location := fs.Int("location", 0, "pickup location id")
	pickup := fs.String("pickup", "", "pickup time (RFC3339)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	c, err := a.carts.Load(ctx)
	if err != nil {
		return err
	}
	if c.Len() == 0 {
		return errors.New("cart is empty")
	}

	req := clients.OrderRequest{
		CustomerName:  *name,
		CustomerEmail: optional(*email),
		CustomerPhone: optional(*phone),
		Total:         c.Total(),
	}
	if *location > 0 {
		req.PickupLocationID = location
	}
	if *pickup != "" {
		t, err := time.Parse(time.RFC3339, *pickup)
		if err != nil {
			return fmt.Errorf("invalid pickup time %q: %w", *pickup, err)
		}
		req.PickupTime = &t
	}
	for _, l := range c.Lines() {
		req.Items = append(req.Items, clients.OrderItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.Product.Price,
		})
	}

	order, err := a.api.CreateOrder(ctx, req)
	if err != nil {
		// The cart is left as it was so the checkout can be retried.
		return fmt.Errorf("checkout failed: %w", err)
	}

	c.Clear()
	if err := a.carts.Save(ctx, c); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Order #%d placed for %s: %d items, total %s, status %s\n",
		order.ID, order.CustomerName, len(req.Items), order.Total.StringFixed(2), order.Status)
	return nil
}

func (a *App) orders(ctx context.Context) error {
	orders, err := a.api.ListOrders(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tTOTAL\tSTATUS\tCREATED")
	for _, o := range orders {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			o.ID, o.CustomerName, o.Total.StringFixed(2), o.Status, o.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

func (a *App) order(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: order <id>", errUsage)
	}
	id, err := parsePositive(args[0], "order id")
	if err != nil {
		return err
	}
	o, err := a.api.GetOrder(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Order #%d  %s  %s  total %s\n", o.ID, o.CustomerName, o.Status, o.Total.StringFixed(2))
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tQTY\tPRICE")
	for _, item := range o.Items {
		fmt.Fprintf(tw, "%d\t%d\t%s\n", item.ProductID, item.Quantity, item.Price.StringFixed(2))
	}
	return tw.Flush()
}

func (a *App) printCart(c *cart.Cart) {
	lines := c.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(a.out, "Cart is empty")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tNAME\tQTY\tPRICE\tSUBTOTAL")
	for _, l := range lines {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
			l.ProductID, l.Product.Name, l.Quantity, l.Product.Price.StringFixed(2), l.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(tw, "\t\t\tTOTAL\t%s\n", c.Total().StringFixed(2))
	tw.Flush()
}

func parsePositive(s, what string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return n, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
