package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/infrastructure/apiclient"
)

func addListFlags(cmd *cobra.Command, p *apiclient.ListParams) {
	cmd.Flags().IntVar(&p.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&p.Limit, "limit", 20, "items per page")
	cmd.Flags().StringVar(&p.Search, "search", "", "free text filter")
}

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Manage accounts (admin)"}

	var p apiclient.ListParams
	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireRole(cmd.Context(), adminOnly...); err != nil {
				return err
			}
			page, err := app.API.Users.List(cmd.Context(), p)
			if err != nil {
				return apiError("list users", err)
			}

			out := cmd.OutOrStdout()
			t := newTable(out, "ID", "EMAIL", "NAME", "ROLE", "ACTIVE", "CREATED")
			for _, u := range page.Items {
				t.row(u.ID, u.Email, u.FullName(), u.Role, strconv.FormatBool(u.IsActive), ago(u.CreatedAt))
			}
			if err := t.flush(); err != nil {
				return err
			}
			pageFooter(out, len(page.Items), page.Total)
			return nil
		},
	}
	addListFlags(list, &p)

	cmd.AddCommand(list)
	return cmd
}

func newProductsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "products", Short: "Browse the equipment catalogue"}

	var p apiclient.ListParams
	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireRole(cmd.Context(), staffRoles...); err != nil {
				return err
			}
			page, err := app.API.Products.List(cmd.Context(), p)
			if err != nil {
				return apiError("list products", err)
			}

			out := cmd.OutOrStdout()
			t := newTable(out, "ID", "NAME", "CATEGORY", "INSTANCES")
			for _, pr := range page.Items {
				t.row(pr.ID, pr.Name, orDash(pr.Category), strconv.Itoa(pr.InstancesCount))
			}
			if err := t.flush(); err != nil {
				return err
			}
			pageFooter(out, len(page.Items), page.Total)
			return nil
		},
	}
	addListFlags(list, &p)

	var ip apiclient.ListParams
	instances := &cobra.Command{
		Use:   "instances <product-id>",
		Short: "List the physical units of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireRole(cmd.Context(), staffRoles...); err != nil {
				return err
			}
			page, err := app.API.Products.Instances(cmd.Context(), args[0], ip)
			if err != nil {
				return apiError("list instances", err)
			}

			out := cmd.OutOrStdout()
			t := newTable(out, "ID", "SERIAL", "STATUS", "LOCATION")
			for _, in := range page.Items {
				t.row(in.ID, in.SerialNumber, string(in.Status), orDash(in.Location))
			}
			if err := t.flush(); err != nil {
				return err
			}
			pageFooter(out, len(page.Items), page.Total)
			return nil
		},
	}
	addListFlags(instances, &ip)

	cmd.AddCommand(list, instances)
	return cmd
}

func newLoansCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "loans", Short: "Track lent equipment"}

	var (
		f      apiclient.LoanFilter
		status string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List loans",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch domain.LoanStatus(status) {
			case "", domain.LoanActive, domain.LoanReturned, domain.LoanOverdue:
			default:
				return fmt.Errorf("unknown loan status %q (want active, returned or overdue)", status)
			}
			f.Status = domain.LoanStatus(status)

			if _, err := app.requireRole(cmd.Context(), staffRoles...); err != nil {
				return err
			}
			page, err := app.API.Loans.List(cmd.Context(), f)
			if err != nil {
				return apiError("list loans", err)
			}

			out := cmd.OutOrStdout()
			t := newTable(out, "ID", "PRODUCT", "BORROWER", "STATUS", "LOANED", "DUE")
			for _, l := range page.Items {
				t.row(l.ID, orDash(l.ProductName), l.BorrowerName, string(l.Status), date(l.LoanedAt), ago(l.DueAt))
			}
			if err := t.flush(); err != nil {
				return err
			}
			pageFooter(out, len(page.Items), page.Total)
			return nil
		},
	}
	addListFlags(list, &f.ListParams)
	list.Flags().StringVar(&status, "status", "", "filter by status: active, returned or overdue")

	ret := &cobra.Command{
		Use:   "return <loan-id>",
		Short: "Mark a loan as returned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireRole(cmd.Context(), staffRoles...); err != nil {
				return err
			}
			loan, err := app.API.Loans.Return(cmd.Context(), args[0])
			if err != nil {
				return apiError("return loan", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loan %s returned by %s\n", loan.ID, loan.BorrowerName)
			return nil
		},
	}

	cmd.AddCommand(list, ret)
	return cmd
}

func newVolunteersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "volunteers", Short: "Volunteer activity"}

	var f apiclient.ActivityFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List logged volunteer activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireRole(cmd.Context(), staffRoles...); err != nil {
				return err
			}
			page, err := app.API.Volunteers.Activities(cmd.Context(), f)
			if err != nil {
				return apiError("list volunteer activities", err)
			}

			out := cmd.OutOrStdout()
			t := newTable(out, "DATE", "VOLUNTEER", "ACTIVITY", "HOURS")
			for _, a := range page.Items {
				t.row(date(a.Date), a.VolunteerName, a.Activity, strconv.FormatFloat(a.Hours, 'f', 1, 64))
			}
			if err := t.flush(); err != nil {
				return err
			}
			pageFooter(out, len(page.Items), page.Total)
			return nil
		},
	}
	addListFlags(list, &f.ListParams)
	list.Flags().StringVar(&f.VolunteerID, "volunteer", "", "only this volunteer's activities")

	cmd.AddCommand(list)
	return cmd
}

func newAuditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "audit", Short: "Authentication audit trail (admin)"}

	var (
		f      apiclient.AuditFilter
		action string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List audit entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireRole(cmd.Context(), adminOnly...); err != nil {
				return err
			}
			f.Action = domain.AuditAction(action)
			page, err := app.API.Audit.List(cmd.Context(), f)
			if err != nil {
				return apiError("list audit entries", err)
			}

			out := cmd.OutOrStdout()
			t := newTable(out, "WHEN", "ACTION", "RESULT", "EMAIL", "IP", "DETAIL")
			for _, e := range page.Items {
				result := "ok"
				if !e.Success {
					result = "failed"
				}
				t.row(ago(e.CreatedAt), string(e.Action), result, orDash(e.Email), orDash(e.IP), orDash(e.Detail))
			}
			if err := t.flush(); err != nil {
				return err
			}
			pageFooter(out, len(page.Items), page.Total)
			return nil
		},
	}
	addListFlags(list, &f.ListParams)
	list.Flags().StringVar(&action, "action", "", "filter by action: login, register, refresh or logout")
	list.Flags().StringVar(&f.UserID, "user", "", "filter by user id")

	cmd.AddCommand(list)
	return cmd
}
