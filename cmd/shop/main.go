package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	accountsapp "github.com/montluxe/storefront/internal/accounts/app"
	accountsclient "github.com/montluxe/storefront/internal/accounts/client"
	"github.com/montluxe/storefront/internal/cart"
	"github.com/montluxe/storefront/internal/cart/adapters/api"
	"github.com/montluxe/storefront/internal/cart/adapters/file"
	cartdomain "github.com/montluxe/storefront/internal/cart/domain"
	catalogclient "github.com/montluxe/storefront/internal/catalog/client"
)

var cli struct {
	APIURL      string `help:"Storefront API base URL." env:"SHOP_API_URL" default:"http://localhost:8080"`
	CartPath    string `help:"Path of the cart file." env:"SHOP_CART_PATH" type:"path"`
	QuantityCap int    `help:"Maximum quantity per cart line." env:"SHOP_QUANTITY_CAP" default:"99"`
	Verbose     bool   `help:"Enable debug logging." short:"v"`

	Browse browseCmd `cmd:"" help:"List the catalog."`

	Cart struct {
		Add    addCmd    `cmd:"" help:"Add a product to the cart."`
		Show   showCmd   `cmd:"" help:"Show the cart contents."`
		Update updateCmd `cmd:"" help:"Set the quantity of a cart line."`
		Remove removeCmd `cmd:"" help:"Remove a product from the cart."`
		Clear  clearCmd  `cmd:"" help:"Empty the cart."`
	} `cmd:"" help:"Manage the shopping cart."`

	Checkout checkoutCmd `cmd:"" help:"Submit the cart as an order."`

	Signup         signupCmd         `cmd:"" help:"Create an account."`
	Login          loginCmd          `cmd:"" help:"Verify account credentials."`
	UpdatePassword updatePasswordCmd `cmd:"" help:"Change the account password."`
	DeleteAccount  deleteAccountCmd  `cmd:"" help:"Delete an account."`
}

type appContext struct {
	ctx      context.Context
	store    *cart.Store
	catalog  *catalogclient.Client
	accounts *accountsclient.Client
	gateway  *api.Gateway
	out      io.Writer
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("shop"),
		kong.Description("Storefront shopping cart and checkout CLI."),
		kong.UsageOnError(),
	)

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cartPath := cli.CartPath
	if cartPath == "" {
		var err error
		cartPath, err = defaultCartPath()
		kctx.FatalIfErrorf(err, "failed to resolve cart path")
	}

	ctx := context.Background()
	store := cart.NewStore(ctx, file.NewStorage(cartPath),
		cart.WithQuantityCap(cli.QuantityCap),
		cart.WithLogger(logger),
	)

	app := &appContext{
		ctx:      ctx,
		store:    store,
		catalog:  catalogclient.New(cli.APIURL),
		accounts: accountsclient.New(cli.APIURL),
		gateway:  api.NewGateway(cli.APIURL),
		out:      os.Stdout,
	}

	kctx.FatalIfErrorf(kctx.Run(app))
}

func defaultCartPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "storefront", "cart.json"), nil
}

type browseCmd struct{}

func (b *browseCmd) Run(app *appContext) error {
	products, err := app.catalog.ListProducts(app.ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tIN STOCK")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", p.ID, p.Name, formatCents(p.PriceCents), p.ItemQuantity)
	}
	return w.Flush()
}

type addCmd struct {
	ProductID string `arg:"" help:"Product to add."`
	Quantity  int    `help:"Quantity to add." short:"q" default:"1"`
}

func (a *addCmd) Run(app *appContext) error {
	product, err := app.catalog.GetProduct(app.ctx, a.ProductID)
	if err != nil {
		return err
	}

	err = app.store.AddItem(app.ctx, cartdomain.Product{
		ID:         product.ID,
		Name:       product.Name,
		PriceCents: product.PriceCents,
		ImageURL:   product.ImageURL,
	}, a.Quantity)
	if err != nil {
		return err
	}

	fmt.Fprintf(app.out, "added %s x%d\n", product.Name, a.Quantity)
	return nil
}

type showCmd struct{}

func (s *showCmd) Run(app *appContext) error {
	snapshot := app.store.Snapshot()
	if snapshot.Empty() {
		fmt.Fprintln(app.out, "cart is empty")
		return nil
	}

	w := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tQTY\tUNIT\tSUBTOTAL")
	for _, line := range snapshot.Lines {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			line.ProductID, line.Name, line.Quantity,
			formatCents(line.UnitPriceCents), formatCents(line.SubtotalCents()))
	}
	fmt.Fprintf(w, "\t\t\tTOTAL\t%s\n", formatCents(snapshot.SubtotalCents))
	return w.Flush()
}

type updateCmd struct {
	ProductID string `arg:"" help:"Product to update."`
	Quantity  int    `arg:"" help:"New quantity. Zero removes the line."`
}

func (u *updateCmd) Run(app *appContext) error {
	if err := app.store.UpdateQuantity(app.ctx, u.ProductID, u.Quantity); err != nil {
		return err
	}
	fmt.Fprintf(app.out, "updated %s to x%d\n", u.ProductID, u.Quantity)
	return nil
}

type removeCmd struct {
	ProductID string `arg:"" help:"Product to remove."`
}

func (r *removeCmd) Run(app *appContext) error {
	app.store.RemoveItem(app.ctx, r.ProductID)
	fmt.Fprintf(app.out, "removed %s\n", r.ProductID)
	return nil
}

type clearCmd struct{}

func (c *clearCmd) Run(app *appContext) error {
	app.store.Clear(app.ctx)
	fmt.Fprintln(app.out, "cart cleared")
	return nil
}

type checkoutCmd struct{}

func (c *checkoutCmd) Run(app *appContext) error {
	coordinator := cart.NewCoordinator(app.store, app.gateway)

	confirmation, err := coordinator.Submit(app.ctx)
	if err != nil {
		var rejected *cart.RejectedLinesError
		if errors.As(err, &rejected) {
			fmt.Fprintln(app.out, "some items could not be ordered and were removed from the cart:")
			for _, line := range rejected.Lines {
				fmt.Fprintf(app.out, "  %s: %s\n", line.ProductID, line.Reason)
			}
			fmt.Fprintln(app.out, "review the cart and try again")
			return nil
		}
		return err
	}

	fmt.Fprintf(app.out, "order placed: %s\n", confirmation.OrderID)
	return nil
}

type signupCmd struct {
	Username        string `arg:"" help:"Account username."`
	Email           string `arg:"" help:"Account email."`
	Password        string `help:"Account password." required:""`
	FirstName       string `help:"First name."`
	LastName        string `help:"Last name."`
	ShippingAddress string `help:"Shipping street address."`
	ShippingCity    string `help:"Shipping city."`
	ShippingState   string `help:"Shipping state."`
	ShippingZip     string `help:"Shipping zip code."`
}

func (s *signupCmd) Run(app *appContext) error {
	err := app.accounts.Signup(app.ctx, accountsapp.SignupInput{
		Username:        s.Username,
		Email:           s.Email,
		Password:        s.Password,
		FirstName:       s.FirstName,
		LastName:        s.LastName,
		ShippingAddress: s.ShippingAddress,
		ShippingCity:    s.ShippingCity,
		ShippingState:   s.ShippingState,
		ShippingZip:     s.ShippingZip,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(app.out, "account %s created\n", s.Username)
	return nil
}

type loginCmd struct {
	Username string `arg:"" help:"Account username."`
	Password string `help:"Account password." required:""`
}

func (l *loginCmd) Run(app *appContext) error {
	if err := app.accounts.Login(app.ctx, l.Username, l.Password); err != nil {
		return err
	}
	fmt.Fprintln(app.out, "login successful")
	return nil
}

type updatePasswordCmd struct {
	Username    string `arg:"" help:"Account username."`
	Password    string `help:"Current password." required:""`
	NewPassword string `help:"New password." required:""`
}

func (u *updatePasswordCmd) Run(app *appContext) error {
	if err := app.accounts.UpdatePassword(app.ctx, u.Username, u.Password, u.NewPassword); err != nil {
		return err
	}
	fmt.Fprintln(app.out, "password updated")
	return nil
}

type deleteAccountCmd struct {
	Username string `arg:"" help:"Account username."`
	Password string `help:"Account password." required:""`
}

func (d *deleteAccountCmd) Run(app *appContext) error {
	if err := app.accounts.Delete(app.ctx, d.Username, d.Password); err != nil {
		return err
	}
	fmt.Fprintln(app.out, "account deleted")
	return nil
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
