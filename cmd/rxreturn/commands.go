package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/rxreturn/rxreturn-go/client"
	"github.com/rxreturn/rxreturn-go/internal/cli"
)

func (a *app) cmdDashboard(ctx context.Context) error {
	summary, err := call("Loading dashboard...", func() (*client.DashboardSummary, error) {
		return a.client.Dashboard().Summary(ctx)
	})
	if err != nil {
		return err
	}

	fmt.Printf("Pending earnings:      $%.2f\n", summary.PendingEarnings)
	fmt.Printf("Paid earnings:         $%.2f\n", summary.PaidEarnings)
	fmt.Printf("Credits in processing: $%.2f\n", summary.CreditsInProcessing)
	fmt.Printf("Inventory items:       %d\n", summary.TotalItems)
	fmt.Printf("Active packages:       %d\n", summary.ActivePackages)
	if summary.ExpiringItems > 0 {
		cli.Warning(fmt.Sprintf("%d items expiring soon", summary.ExpiringItems))
	}
	return nil
}

func (a *app) cmdEarnings(ctx context.Context, args []string) error {
	opts := client.EarningsHistoryOptions{Limit: 25}
	if len(args) > 0 {
		opts.Period = args[0]
	}

	history, err := call("Loading earnings...", func() (*client.EarningsHistory, error) {
		return a.client.Dashboard().EarningsHistory(ctx, opts)
	})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(history.Entries))
	for _, e := range history.Entries {
		rows = append(rows, []string{e.Period, fmt.Sprintf("$%.2f", e.Amount), e.Status, e.PaidAt})
	}
	cli.Table(os.Stdout, []string{"PERIOD", "AMOUNT", "STATUS", "PAID"}, rows)
	fmt.Printf("%d of %d entries\n", len(history.Entries), history.Total)
	return nil
}

func (a *app) cmdDocuments(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		list, err := call("Loading documents...", func() (*client.DocumentList, error) {
			return a.client.Documents().List(ctx, client.DocumentListOptions{Limit: 50})
		})
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(list.Documents))
		for _, d := range list.Documents {
			rows = append(rows, []string{d.ID, d.FileName, d.Status, d.ReverseDistributorName, strconv.Itoa(d.ExtractedItems)})
		}
		cli.Table(os.Stdout, []string{"ID", "FILE", "STATUS", "DISTRIBUTOR", "ITEMS"}, rows)
		fmt.Printf("%d of %d documents\n", len(list.Documents), list.Total)
		return nil
	case "get":
		if len(args) == 0 {
			return fmt.Errorf("documents get: id required")
		}
		doc, err := a.client.Documents().Get(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s (%s, %d bytes)\nDistributor: %s\nSource: %s  Status: %s  Extracted items: %d\n",
			doc.ID, doc.FileName, doc.FileType, doc.FileSize,
			doc.ReverseDistributorName, doc.Source, doc.Status, doc.ExtractedItems)
		return nil
	case "delete":
		if len(args) == 0 {
			return fmt.Errorf("documents delete: id required")
		}
		if err := a.client.Documents().Delete(ctx, args[0]); err != nil {
			return err
		}
		cli.Success("Document deleted")
		return nil
	default:
		return fmt.Errorf("documents: unknown subcommand %q", sub)
	}
}

func (a *app) cmdInventory(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		opts := client.InventoryListOptions{Limit: 50}
		if len(args) > 0 {
			opts.Search = args[0]
		}
		page, err := call("Loading inventory...", func() (*client.InventoryPage, error) {
			return a.client.Inventory().List(ctx, opts)
		})
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(page.Items))
		for _, it := range page.Items {
			rows = append(rows, []string{it.ID, it.NDC, it.Description, strconv.Itoa(it.Quantity), it.ExpirationDate, fmt.Sprintf("$%.2f", it.EstimatedValue)})
		}
		cli.Table(os.Stdout, []string{"ID", "NDC", "DESCRIPTION", "QTY", "EXPIRES", "EST VALUE"}, rows)
		fmt.Printf("%d of %d items\n", len(page.Items), page.Total)
		return nil
	case "metrics":
		m, err := a.client.Inventory().Metrics(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Total items:     %d\n", m.TotalItems)
		fmt.Printf("Estimated value: $%.2f\n", m.EstimatedValue)
		fmt.Printf("Expiring soon:   %d\n", m.ExpiringSoon)
		fmt.Printf("Expired:         %d\n", m.Expired)
		return nil
	case "update":
		if len(args) < 2 {
			return fmt.Errorf("inventory update: id and quantity required")
		}
		qty := atoiOr(args[1], -1)
		if qty < 0 {
			return fmt.Errorf("inventory update: quantity must be a non-negative integer")
		}
		item, err := a.client.Inventory().Update(ctx, args[0], client.InventoryItemPatch{Quantity: &qty})
		if err != nil {
			return err
		}
		cli.Success(fmt.Sprintf("Updated %s to quantity %d", item.Description, item.Quantity))
		return nil
	case "delete":
		if len(args) == 0 {
			return fmt.Errorf("inventory delete: id required")
		}
		if err := a.client.Inventory().Delete(ctx, args[0]); err != nil {
			return err
		}
		cli.Success("Inventory item deleted")
		return nil
	default:
		return fmt.Errorf("inventory: unknown subcommand %q", sub)
	}
}

func (a *app) cmdDeals(ctx context.Context, args []string) error {
	opts := client.DealListOptions{Limit: 50}
	if len(args) > 0 {
		opts.Search = args[0]
	}

	page, err := call("Loading deals...", func() (*client.DealPage, error) {
		return a.client.Marketplace().Deals(ctx, opts)
	})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(page.Deals))
	for _, d := range page.Deals {
		rows = append(rows, []string{d.ID, d.NDC, d.Description, fmt.Sprintf("%.0f%%", d.CreditRate*100), d.ReverseDistributorName})
	}
	cli.Table(os.Stdout, []string{"ID", "NDC", "DESCRIPTION", "CREDIT", "DISTRIBUTOR"}, rows)
	fmt.Printf("%d of %d deals\n", len(page.Deals), page.Total)
	return nil
}

func (a *app) cmdCart(ctx context.Context, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	showCart := func(cart *client.Cart) {
		rows := make([][]string, 0, len(cart.Items))
		for _, it := range cart.Items {
			rows = append(rows, []string{it.ID, it.Description, strconv.Itoa(it.Quantity), fmt.Sprintf("$%.2f", it.Subtotal)})
		}
		cli.Table(os.Stdout, []string{"ID", "ITEM", "QTY", "SUBTOTAL"}, rows)
		fmt.Printf("Estimated credit: $%.2f\n", cart.EstimatedCredit)
	}

	switch sub {
	case "show":
		cart, err := a.client.Marketplace().Cart(ctx)
		if err != nil {
			return err
		}
		showCart(cart)
		return nil
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("cart add: deal id and quantity required")
		}
		cart, err := a.client.Marketplace().AddToCart(ctx, args[0], atoiOr(args[1], 1))
		if err != nil {
			return err
		}
		cli.Success("Added to cart")
		showCart(cart)
		return nil
	case "update":
		if len(args) < 2 {
			return fmt.Errorf("cart update: item id and quantity required")
		}
		cart, err := a.client.Marketplace().UpdateCartItem(ctx, args[0], atoiOr(args[1], 1))
		if err != nil {
			return err
		}
		showCart(cart)
		return nil
	case "remove":
		if len(args) == 0 {
			return fmt.Errorf("cart remove: item id required")
		}
		cart, err := a.client.Marketplace().RemoveCartItem(ctx, args[0])
		if err != nil {
			return err
		}
		showCart(cart)
		return nil
	case "clear":
		if err := a.client.Marketplace().ClearCart(ctx); err != nil {
			return err
		}
		cli.Success("Cart cleared")
		return nil
	case "checkout":
		session, err := a.client.Marketplace().Checkout(ctx)
		if err != nil {
			return err
		}
		cli.Success(fmt.Sprintf("Order %s created", session.OrderID))
		cli.Info("Complete payment at: " + session.CheckoutURL)
		return nil
	default:
		return fmt.Errorf("cart: unknown subcommand %q", sub)
	}
}

func (a *app) cmdOrders(ctx context.Context, args []string) error {
	opts := client.OrderListOptions{Limit: 50}
	if len(args) > 0 {
		opts.Status = args[0]
	}

	page, err := call("Loading orders...", func() (*client.OrderPage, error) {
		return a.client.Marketplace().Orders(ctx, opts)
	})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(page.Orders))
	for _, o := range page.Orders {
		rows = append(rows, []string{o.ID, o.Status, strconv.Itoa(o.ItemCount), fmt.Sprintf("$%.2f", o.TotalCredit), o.PlacedAt})
	}
	cli.Table(os.Stdout, []string{"ID", "STATUS", "ITEMS", "CREDIT", "PLACED"}, rows)
	fmt.Printf("%d of %d orders\n", len(page.Orders), page.Total)
	return nil
}

func (a *app) cmdOptimize(ctx context.Context, args []string) error {
	sub := "recommendations"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	opt := a.client.Optimization()

	switch sub {
	case "recommendations":
		recs, err := call("Computing recommendations...", func() ([]client.Recommendation, error) {
			return opt.Recommendations(ctx)
		})
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(recs))
		for _, r := range recs {
			rows = append(rows, []string{r.NDC, r.Description, fmt.Sprintf("$%.2f", r.EstimatedCredit), r.ReverseDistributorName, r.Reason})
		}
		cli.Table(os.Stdout, []string{"NDC", "DESCRIPTION", "EST CREDIT", "DISTRIBUTOR", "REASON"}, rows)
		return nil
	case "suggest":
		s, err := call("Building suggestion...", func() (*client.Suggestion, error) {
			return opt.CreateSuggestion(ctx, client.CreateSuggestionRequest{InventoryItemIDs: args})
		})
		if err != nil {
			return err
		}
		printSuggestion(s)
		fmt.Println("Accept with: rxreturn optimize accept", s.ID)
		return nil
	case "show":
		if len(args) == 0 {
			return fmt.Errorf("optimize show: suggestion id required")
		}
		s, err := opt.Suggestion(ctx, args[0])
		if err != nil {
			return err
		}
		printSuggestion(s)
		return nil
	case "accept":
		if len(args) == 0 {
			return fmt.Errorf("optimize accept: suggestion id required")
		}
		pkg, err := call("Creating package...", func() (*client.Package, error) {
			return opt.AcceptSuggestion(ctx, args[0])
		})
		if err != nil {
			return err
		}
		cli.Success(fmt.Sprintf("Package %s created (%d items, est. $%.2f via %s)",
			pkg.ID, pkg.ItemCount, pkg.EstimatedCredit, pkg.ReverseDistributorName))
		return nil
	case "decline":
		if len(args) == 0 {
			return fmt.Errorf("optimize decline: suggestion id required")
		}
		if err := opt.DeclineSuggestion(ctx, args[0]); err != nil {
			return err
		}
		cli.Success("Suggestion declined")
		return nil
	default:
		return fmt.Errorf("optimize: unknown subcommand %q", sub)
	}
}

func printSuggestion(s *client.Suggestion) {
	fmt.Printf("Suggestion %s (%s) via %s\n", s.ID, s.Status, s.ReverseDistributorName)
	rows := make([][]string, 0, len(s.Items))
	for _, it := range s.Items {
		rows = append(rows, []string{it.NDC, it.Description, strconv.Itoa(it.Quantity), fmt.Sprintf("$%.2f", it.EstimatedCredit)})
	}
	cli.Table(os.Stdout, []string{"NDC", "DESCRIPTION", "QTY", "EST CREDIT"}, rows)
	fmt.Printf("Estimated credit: $%.2f\n", s.EstimatedCredit)
}

func (a *app) cmdPackages(ctx context.Context, args []string) error {
	opts := client.PackageListOptions{Limit: 50}
	if len(args) > 0 {
		opts.Status = args[0]
	}

	page, err := call("Loading packages...", func() (*client.PackagePage, error) {
		return a.client.Packages().List(ctx, opts)
	})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(page.Packages))
	for _, p := range page.Packages {
		rows = append(rows, []string{p.ID, p.Status, strconv.Itoa(p.ItemCount), fmt.Sprintf("$%.2f", p.EstimatedCredit), p.ReverseDistributorName, p.TrackingNumber})
	}
	cli.Table(os.Stdout, []string{"ID", "STATUS", "ITEMS", "EST CREDIT", "DISTRIBUTOR", "TRACKING"}, rows)
	fmt.Printf("%d of %d packages\n", len(page.Packages), page.Total)
	return nil
}

func (a *app) cmdLists(ctx context.Context, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	lists := a.client.ProductLists()

	switch sub {
	case "show":
		all, err := lists.List(ctx)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(all))
		for _, l := range all {
			rows = append(rows, []string{l.ID, l.Name, strconv.Itoa(len(l.Items)), l.UpdatedAt})
		}
		cli.Table(os.Stdout, []string{"ID", "NAME", "ITEMS", "UPDATED"}, rows)
		return nil
	case "create":
		if len(args) == 0 {
			return fmt.Errorf("lists create: name required")
		}
		l, err := lists.Create(ctx, args[0])
		if err != nil {
			return err
		}
		cli.Success(fmt.Sprintf("Created list %s (%s)", l.Name, l.ID))
		return nil
	case "rename":
		if len(args) < 2 {
			return fmt.Errorf("lists rename: id and name required")
		}
		if _, err := lists.Rename(ctx, args[0], args[1]); err != nil {
			return err
		}
		cli.Success("List renamed")
		return nil
	case "delete":
		if len(args) == 0 {
			return fmt.Errorf("lists delete: id required")
		}
		if err := lists.Delete(ctx, args[0]); err != nil {
			return err
		}
		cli.Success("List deleted")
		return nil
	case "add-item":
		if len(args) < 3 {
			return fmt.Errorf("lists add-item: list id, ndc, and quantity required")
		}
		if _, err := lists.AddItem(ctx, args[0], client.AddListItemRequest{NDC: args[1], Quantity: atoiOr(args[2], 1)}); err != nil {
			return err
		}
		cli.Success("Item added")
		return nil
	case "remove-item":
		if len(args) < 2 {
			return fmt.Errorf("lists remove-item: list id and item id required")
		}
		if _, err := lists.RemoveItem(ctx, args[0], args[1]); err != nil {
			return err
		}
		cli.Success("Item removed")
		return nil
	case "to-cart":
		if len(args) == 0 {
			return fmt.Errorf("lists to-cart: list id required")
		}
		cart, err := lists.ConvertToCart(ctx, args[0])
		if err != nil {
			return err
		}
		cli.Success(fmt.Sprintf("List added to cart (%d items, est. $%.2f)", len(cart.Items), cart.EstimatedCredit))
		return nil
	default:
		return fmt.Errorf("lists: unknown subcommand %q", sub)
	}
}

func (a *app) cmdSettings(ctx context.Context) error {
	s, err := a.client.Settings().Get(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Pharmacy: %s\n", s.PharmacyName)
	fmt.Printf("Address:  %s\n", s.PharmacyAddress)
	fmt.Printf("Phone:    %s\n", s.PharmacyPhone)
	fmt.Printf("DEA:      %s\n", s.DEANumber)
	fmt.Printf("Payout:   %s", s.Payout.Method)
	if s.Payout.AccountLast4 != "" {
		fmt.Printf(" (····%s)", s.Payout.AccountLast4)
	}
	fmt.Println()
	fmt.Printf("Notifications: email=%t packages=%t deals=%t earnings=%t\n",
		s.Notifications.EmailEnabled, s.Notifications.PackageUpdates,
		s.Notifications.DealAlerts, s.Notifications.EarningsAlerts)
	return nil
}

func (a *app) cmdSubscription(ctx context.Context, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	subs := a.client.Subscriptions()

	switch sub {
	case "show":
		s, err := subs.Current(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Plan:   %s (%s)\n", s.PlanName, s.Status)
		if s.RenewsAt != "" {
			fmt.Printf("Renews: %s\n", s.RenewsAt)
		}
		if s.CancelAtPeriodEnd {
			cli.Warning("Cancels at period end")
		}
		return nil
	case "plans":
		plans, err := subs.Plans(ctx)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(plans))
		for _, p := range plans {
			rows = append(rows, []string{p.ID, p.Name, fmt.Sprintf("$%.2f/mo", p.PriceMonthly)})
		}
		cli.Table(os.Stdout, []string{"ID", "PLAN", "PRICE"}, rows)
		return nil
	case "checkout":
		if len(args) == 0 {
			return fmt.Errorf("subscription checkout: plan id required")
		}
		session, err := subs.CreateCheckout(ctx, args[0])
		if err != nil {
			return err
		}
		cli.Info("Complete payment at: " + session.CheckoutURL)
		return nil
	case "cancel":
		s, err := subs.Cancel(ctx)
		if err != nil {
			return err
		}
		cli.Success(fmt.Sprintf("Subscription %s will cancel at period end", s.PlanName))
		return nil
	default:
		return fmt.Errorf("subscription: unknown subcommand %q", sub)
	}
}
