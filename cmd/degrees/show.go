package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/six-degrees/internal/common"
	"github.com/Veraticus/six-degrees/internal/service"
)

func peopleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "people",
		Short: "List the people in your graph",
		RunE:  runPeople,
	}

	cmd.Flags().String("account", "", "account holder email (required)")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func runPeople(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	accountEmail, _ := cmd.Flags().GetString("account")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	userID, err := store.CreateOrGetUser(ctx, accountEmail, "")
	if err != nil {
		return fmt.Errorf("failed to resolve account: %w", err)
	}

	people, err := store.GetPeople(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list people: %w", err)
	}
	companies, err := store.GetCompanies(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	companyNames := make(map[int64]string, len(companies))
	for _, c := range companies {
		companyNames[c.ID] = c.Name
	}

	if len(people) == 0 {
		fmt.Println("No people recorded yet. Run 'degrees process --save' first.")
		return nil
	}

	fmt.Printf("%d people in %s's graph:\n\n", len(people), accountEmail)
	for _, p := range people {
		line := p.Name
		if p.Email != "" {
			line += fmt.Sprintf(" <%s>", p.Email)
		}
		var details []string
		if p.Role != "" {
			details = append(details, p.Role)
		}
		if name := companyNames[p.CompanyID]; name != "" {
			details = append(details, name)
		}
		if len(details) > 0 {
			line += fmt.Sprintf(" (%s)", strings.Join(details, ", "))
		}
		fmt.Println("  " + line)
	}

	return nil
}

func interactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactions",
		Short: "List recorded interactions",
		RunE:  runInteractions,
	}

	cmd.Flags().String("account", "", "account holder email (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().String("since", "", "only interactions on or after this date (YYYY-MM-DD)")
	cmd.Flags().String("until", "", "only interactions on or before this date (YYYY-MM-DD)")
	cmd.Flags().String("person", "", "only interactions involving this email address")
	cmd.Flags().Int("limit", 50, "maximum rows to show")
	cmd.Flags().Int("offset", 0, "rows to skip")

	return cmd
}

func runInteractions(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	accountEmail, _ := cmd.Flags().GetString("account")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	userID, err := store.CreateOrGetUser(ctx, accountEmail, "")
	if err != nil {
		return fmt.Errorf("failed to resolve account: %w", err)
	}

	filter, err := interactionFilter(cmd)
	if err != nil {
		return err
	}

	if personEmail, _ := cmd.Flags().GetString("person"); personEmail != "" {
		people, err := store.GetPeople(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list people: %w", err)
		}
		for _, p := range people {
			if strings.EqualFold(p.Email, personEmail) {
				filter.PersonID = p.ID
				break
			}
		}
		if filter.PersonID == 0 {
			return fmt.Errorf("%w: no person with email %q", common.ErrNotFound, personEmail)
		}
	}

	interactions, err := store.GetInteractions(ctx, userID, filter)
	if err != nil {
		return fmt.Errorf("failed to list interactions: %w", err)
	}

	if len(interactions) == 0 {
		fmt.Println("No interactions matched.")
		return nil
	}

	for _, i := range interactions {
		subject := i.Subject
		if subject == "" {
			subject = "(no subject)"
		}
		fmt.Printf("  %s  [%s]  %s\n      %s\n",
			i.Date.Format("2006-01-02"), i.Kind, subject, i.Summary)
	}

	return nil
}

func interactionFilter(cmd *cobra.Command) (service.InteractionFilter, error) {
	var filter service.InteractionFilter

	filter.Limit, _ = cmd.Flags().GetInt("limit")
	filter.Offset, _ = cmd.Flags().GetInt("offset")

	if since, _ := cmd.Flags().GetString("since"); since != "" {
		t, err := time.Parse("2006-01-02", since)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid --since date %q", common.ErrInvalidConfig, since)
		}
		filter.StartDate = &t
	}
	if until, _ := cmd.Flags().GetString("until"); until != "" {
		t, err := time.Parse("2006-01-02", until)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid --until date %q", common.ErrInvalidConfig, until)
		}
		filter.EndDate = &t
	}

	return filter, nil
}
