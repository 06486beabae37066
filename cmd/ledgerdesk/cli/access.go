package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ledgerdesk/ledgerdesk/internal/access"
)

func newAccessCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "access",
		Short: "Inspect and simulate permission decisions",
	}
	cmd.AddCommand(newAccessCheckCommand())
	cmd.AddCommand(newAccessRulesCommand())
	cmd.AddCommand(newAccessFeaturesCommand())
	return cmd
}

func newAccessCheckCommand() *cobra.Command {
	var (
		role       string
		resource   string
		action     string
		userID     string
		ownerID    string
		businessID string
		member     bool
		tier       string
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Simulate one permission decision",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res := access.Resource(resource)
			act := access.Action(action)
			if !res.Valid() || !act.Valid() {
				return fmt.Errorf("unknown resource %q or action %q", resource, action)
			}
			ctx := access.Context{
				UserID: userID,
				Role:   access.Role(role),
				Tier:   access.ParseTier(tier),
			}
			var own *access.Ownership
			if ownerID != "" || businessID != "" {
				own = &access.Ownership{OwnerID: ownerID, BusinessID: businessID}
				if member && businessID != "" {
					ctx.BusinessIDs = map[string]struct{}{businessID: {}}
				}
			}
			decision := access.Check(ctx, res, act, own)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", decision)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "role label (client, accountant, admin)")
	cmd.Flags().StringVar(&resource, "resource", "", "resource name")
	cmd.Flags().StringVar(&action, "action", "", "action name")
	cmd.Flags().StringVar(&userID, "user", "u-cli", "acting user ID")
	cmd.Flags().StringVar(&ownerID, "owner", "", "record owner ID")
	cmd.Flags().StringVar(&businessID, "business", "", "record business ID")
	cmd.Flags().BoolVar(&member, "member", false, "treat the user as a member of the business")
	cmd.Flags().StringVar(&tier, "tier", "free", "subscription tier")
	_ = cmd.MarkFlagRequired("resource")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

func newAccessRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Dump the permission rule table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RESOURCE\tACTION\tROLE\tEFFECT\tNON-OVERRIDABLE")
			for _, rule := range access.Rules() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\n",
					rule.Resource, rule.Action, rule.Role, rule.Effect, rule.NonOverridable)
			}
			return w.Flush()
		},
	}
}

func newAccessFeaturesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "Dump the subscription feature table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FEATURE\tMIN TIER")
			for _, entry := range access.Features() {
				fmt.Fprintf(w, "%s\t%s\n", entry.Feature, entry.MinTier)
			}
			return w.Flush()
		},
	}
}
