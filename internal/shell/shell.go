// Package shell implements the interactive storefront session: catalog
// browsing, cart mutations, and the checkout flow. It holds no business
// rules; everything it does goes through the cart store, the checkout
// orchestrator, or the catalog lookup.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/bondx/storefront/internal/domain/cart"
	"github.com/bondx/storefront/internal/domain/checkout"
	"github.com/bondx/storefront/internal/domain/product"
	"github.com/bondx/storefront/pkg/money"
)

const usage = `Commands:
  products            list the catalog
  show <id>           product details
  add <id>            add one unit to the cart
  remove <id>         drop a line from the cart
  qty <id> <n>        set a line's quantity (0 removes it)
  cart                show cart contents and total
  toggle              open or close the cart drawer
  clear               empty the cart
  checkout            submit the order
  status              show the checkout state
  help                this text
  quit                leave the shop`

// Shell reads commands from in and writes results to out.
type Shell struct {
	catalog  product.Lookup
	cart     *cart.Store
	checkout *checkout.Orchestrator
	in       *bufio.Scanner
	out      io.Writer
	lg       *zap.Logger
}

// New creates a Shell over the given collaborators.
func New(catalog product.Lookup, cartStore *cart.Store, co *checkout.Orchestrator, in io.Reader, out io.Writer, lg *zap.Logger) *Shell {
	return &Shell{
		catalog:  catalog,
		cart:     cartStore,
		checkout: co,
		in:       bufio.NewScanner(in),
		out:      out,
		lg:       lg,
	}
}

// Run processes commands until EOF, "quit", or context cancellation.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "BondX storefront. Type 'help' for commands.")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprint(s.out, "> ")
		if !s.in.Scan() {
			return s.in.Err()
		}

		fields := strings.Fields(s.in.Text())
		if len(fields) == 0 {
			continue
		}

		switch cmd, args := fields[0], fields[1:]; cmd {
		case "help":
			fmt.Fprintln(s.out, usage)
		case "products":
			s.cmdProducts(ctx)
		case "show":
			s.cmdShow(ctx, args)
		case "add":
			s.cmdAdd(ctx, args)
		case "remove", "rm":
			s.cmdRemove(args)
		case "qty":
			s.cmdQty(args)
		case "cart":
			s.cmdCart()
		case "toggle":
			if s.cart.Toggle() {
				fmt.Fprintln(s.out, "Cart drawer opened.")
			} else {
				fmt.Fprintln(s.out, "Cart drawer closed.")
			}
		case "clear":
			s.cart.Clear()
			fmt.Fprintln(s.out, "Cart emptied.")
		case "checkout":
			s.cmdCheckout(ctx)
		case "status":
			fmt.Fprintf(s.out, "Checkout: %s\n", s.checkout.Status())
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(s.out, "Unknown command %q. Type 'help'.\n", cmd)
		}
	}
}

func (s *Shell) cmdProducts(ctx context.Context) {
	products, err := s.catalog.List(ctx)
	if err != nil {
		s.lg.Warn("List products", zap.Error(err))
		fmt.Fprintln(s.out, "Could not load the catalog. Is the backend reachable?")
		return
	}
	if len(products) == 0 {
		fmt.Fprintln(s.out, "The catalog is empty.")
		return
	}
	for _, p := range products {
		fmt.Fprintf(s.out, "%4d  %-30s %10s  %s\n", p.ID, p.Name, money.Format(p.Price), p.Category)
	}
}

func (s *Shell) cmdShow(ctx context.Context, args []string) {
	id, ok := s.parseID(args)
	if !ok {
		return
	}
	p, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			fmt.Fprintf(s.out, "No product with id %d.\n", id)
			return
		}
		s.lg.Warn("Get product", zap.Int64("id", id), zap.Error(err))
		fmt.Fprintln(s.out, "Could not load the product.")
		return
	}

	fmt.Fprintf(s.out, "%s — %s [%s]\n", p.Name, money.Format(p.Price), p.Category)
	if p.Description != "" {
		fmt.Fprintln(s.out, p.Description)
	}
	for _, f := range p.Features {
		fmt.Fprintf(s.out, "  - %s\n", f)
	}
}

func (s *Shell) cmdAdd(ctx context.Context, args []string) {
	id, ok := s.parseID(args)
	if !ok {
		return
	}
	p, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			fmt.Fprintf(s.out, "No product with id %d.\n", id)
			return
		}
		s.lg.Warn("Get product", zap.Int64("id", id), zap.Error(err))
		fmt.Fprintln(s.out, "Could not load the product.")
		return
	}

	s.cart.AddItem(*p)
	fmt.Fprintf(s.out, "Added %s to the cart.\n", p.Name)
}

func (s *Shell) cmdRemove(args []string) {
	id, ok := s.parseID(args)
	if !ok {
		return
	}
	s.cart.RemoveItem(id)
	fmt.Fprintf(s.out, "Removed product %d.\n", id)
}

func (s *Shell) cmdQty(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "Usage: qty <id> <n>")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(s.out, "Invalid product id %q.\n", args[0])
		return
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid quantity %q.\n", args[1])
		return
	}
	s.cart.UpdateQuantity(id, n)
	fmt.Fprintln(s.out, "Cart updated.")
}

func (s *Shell) cmdCart() {
	snap := s.cart.Snapshot()
	if len(snap.Lines) == 0 {
		fmt.Fprintln(s.out, "Your cart is empty.")
		return
	}
	for _, line := range snap.Lines {
		fmt.Fprintf(s.out, "%4d  %-30s x%-3d %10s\n",
			line.Product.ID, line.Product.Name, line.Quantity, money.Format(line.Subtotal()))
	}
	fmt.Fprintf(s.out, "Total: %s\n", money.Format(s.cart.Total()))
}

func (s *Shell) cmdCheckout(ctx context.Context) {
	if s.cart.Empty() {
		fmt.Fprintln(s.out, "Your cart is empty; nothing to check out.")
		return
	}

	form := checkout.Form{
		Name:    s.prompt("Name: "),
		Email:   s.prompt("Email: "),
		Address: s.prompt("Address: "),
	}

	conf, err := s.checkout.Submit(ctx, form)
	if err != nil {
		var fieldErrs checkout.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			for field, msg := range fieldErrs {
				fmt.Fprintf(s.out, "  %s %s\n", field, msg)
			}
		case errors.Is(err, checkout.ErrEmptyCart):
			fmt.Fprintln(s.out, "Your cart is empty; nothing to check out.")
		case errors.Is(err, checkout.ErrSubmitInFlight):
			fmt.Fprintln(s.out, "A submission is already in flight.")
		default:
			fmt.Fprintf(s.out, "Order failed: %s\n", s.checkout.Failure())
		}
		return
	}

	fmt.Fprintf(s.out, "Order #%d confirmed. Thank you!\n", conf.ID)
	// A new checkout session begins once the previous one succeeded.
	s.checkout.Reset()
}

func (s *Shell) prompt(label string) string {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return ""
	}
	return strings.TrimSpace(s.in.Text())
}

func (s *Shell) parseID(args []string) (int64, bool) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Expected a product id.")
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(s.out, "Invalid product id %q.\n", args[0])
		return 0, false
	}
	return id, true
}
