package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/cardsvc-io/cardctl/pkg/cardapi"
	"github.com/charmbracelet/huh"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// Static error for err113 compliance.
var ErrInvalidRequestID = errors.New("card request id must be a number")

// NewRequestsCommand creates the admin card-requests command group.
func NewRequestsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "requests",
		Aliases: []string{"request", "reqs"},
		Short:   "Manage card requests",
		Long:    "List, filter, and update card requests (administrators only)",
	}

	cmd.AddCommand(newRequestsListCommand())
	cmd.AddCommand(newRequestsUpdateCommand())

	return cmd
}

// ensureSession establishes the admin session before an admin call: a held
// token is trusted as-is, otherwise one silent refresh is attempted.
func ensureSession(ctx context.Context, client cardapi.Client) error {
	if client.Authenticated() {
		return nil
	}

	if _, err := client.Auth().Refresh(ctx); err != nil {
		return ErrNotLoggedIn
	}

	return nil
}

func newRequestsListCommand() *cobra.Command {
	var (
		page       int
		pageSize   int
		sortBy     string
		sortDir    string
		status     string
		cin        string
		lastName   string
		region     string
		postalCode string
		wait       bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List card requests",
		Long:  "List card requests with pagination, sorting, and filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient()
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()

			if err := ensureSession(ctx, client); err != nil {
				return err
			}

			query := cardapi.NewListQuery()
			query.Page = page
			query.PageSize = pageSize
			query.SortBy = sortBy
			query.SortDir = sortDir
			query.Status = cardapi.Status(status)
			query.CIN = cin
			query.LastName = lastName
			query.Region = region
			query.PostalCode = postalCode

			result, err := client.Requests().List(ctx, query)
			if err != nil {
				return presentError(err, wait)
			}

			return renderRequestsPage(result)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", cardapi.DefaultPageSize, "page size (10, 20, 50, 100)")
	cmd.Flags().StringVar(&sortBy, "sort-by", cardapi.SortByCreatedAt, "sort key (createdAt, updatedAt, status, lastName)")
	cmd.Flags().StringVar(&sortDir, "sort-dir", cardapi.SortDesc, "sort direction (asc, desc)")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&cin, "cin", "", "filter by national identity number")
	cmd.Flags().StringVar(&lastName, "last-name", "", "filter by last name")
	cmd.Flags().StringVar(&region, "region", "", "filter by region")
	cmd.Flags().StringVar(&postalCode, "postal-code", "", "filter by postal code")
	cmd.Flags().BoolVar(&wait, "wait", false, "on rate limiting, count down the suggested wait before exiting")

	return cmd
}

// renderRequestsPage prints one page of card requests.
func renderRequestsPage(page *cardapi.CardRequestPage) error {
	format := outputFormat()
	if format != OutputFormatTable {
		return renderStructured(page, format)
	}

	if page.Total == 0 {
		fmt.Println("No card requests match the given filters.")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "CIN", "Region", "Status", "Pickup", "Created", "Updated")

	for _, request := range page.Items {
		pickup := request.PickupEstablishment
		if pickup == "" {
			pickup = NotAvailable
		}

		_ = table.Append(
			strconv.FormatInt(request.ID, 10),
			request.FirstName+" "+request.LastName,
			request.CIN,
			request.Region,
			statusBadge(request.Status),
			pickup,
			request.CreatedAt.Format("2006-01-02"),
			request.UpdatedAt.Format("2006-01-02"),
		)
	}

	_ = table.Render()

	totalPages := page.TotalPages()
	if totalPages > 1 {
		fmt.Printf("\nShowing page %d of %d (%d requests). Use --page to fetch other pages.\n",
			page.Page, totalPages, page.Total)
	}

	return nil
}

func newRequestsUpdateCommand() *cobra.Command {
	var (
		status      string
		pickupEst   string
		pickupAddr  string
		interactive bool
		wait        bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a card request",
		Long: `Update the status or pickup details of a card request.

At least one of --status, --pickup-establishment, or --pickup-address must be
provided; an update that changes nothing is rejected before any network call.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return ErrInvalidRequestID
			}

			if interactive {
				err := runUpdateForm(&status, &pickupEst, &pickupAddr)
				if err != nil {
					return err
				}
			}

			update := &cardapi.UpdateCardRequest{}

			if status != "" {
				value := cardapi.Status(status)
				update.Status = &value
			}

			if cmd.Flags().Changed("pickup-establishment") || (interactive && pickupEst != "") {
				update.PickupEstablishment = &pickupEst
			}

			if cmd.Flags().Changed("pickup-address") || (interactive && pickupAddr != "") {
				update.PickupAddress = &pickupAddr
			}

			client, err := buildClient()
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()

			if err := ensureSession(ctx, client); err != nil {
				return err
			}

			updated, err := client.Requests().Update(ctx, id, update)
			if err != nil {
				return presentError(err, wait)
			}

			fmt.Printf("Card request %d updated: %s\n", updated.ID, statusBadge(updated.Status))

			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "new status (CREATED, IN_PROGRESS, READY, DELIVERED, CANCELLED)")
	cmd.Flags().StringVar(&pickupEst, "pickup-establishment", "", "pickup establishment name")
	cmd.Flags().StringVar(&pickupAddr, "pickup-address", "", "pickup establishment address")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "fill the update fields interactively")
	cmd.Flags().BoolVar(&wait, "wait", false, "on rate limiting, count down the suggested wait before exiting")

	return cmd
}

// runUpdateForm collects the update fields through an interactive form.
func runUpdateForm(status, pickupEst, pickupAddr *string) error {
	options := make([]huh.Option[string], 0, len(cardapi.Statuses())+1)
	options = append(options, huh.NewOption("(leave unchanged)", ""))

	for _, s := range cardapi.Statuses() {
		options = append(options, huh.NewOption(string(s), string(s)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("New status").Options(options...).Value(status),
			huh.NewInput().Title("Pickup establishment").Value(pickupEst),
			huh.NewInput().Title("Pickup address").Value(pickupAddr),
		),
	).WithTheme(formTheme())

	if err := form.Run(); err != nil {
		return fmt.Errorf("update form: %w", err)
	}

	return nil
}
