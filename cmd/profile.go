package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"smartbudget/internal/api"
	"smartbudget/internal/cli"
	"smartbudget/internal/config"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show account and session details",
	RunE:  runProfile,
}

var profileAvatarCmd = &cobra.Command{
	Use:   "avatar <emoji>",
	Short: "Set the profile avatar",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileAvatar,
}

func init() {
	profileCmd.AddCommand(profileAvatarCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfile(_ *cobra.Command, _ []string) error {
	env, err := requireSession()
	if err != nil {
		return err
	}

	ctx, cancel := cmdCtx()
	defer cancel()

	sess, _ := env.store.Current()

	emoji := "🙂"
	hasPic := false
	if av, avErr := env.client.GetAvatar(ctx); avErr == nil {
		if av.Emoji != "" {
			emoji = av.Emoji
		}
		hasPic = av.ProfilePic != ""
	} else if api.IsUnauthorized(avErr) {
		return friendlyErr(avErr)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s  %s", emoji, sess.Username)))
	fmt.Println()

	rows := [][]string{
		{"Username", sess.Username},
		{"Session valid until", sess.TokenExpiry.Format("Jan 2 15:04")},
		{"Server", config.ServerURL(env.cfg)},
	}
	if hasPic {
		rows = append(rows, []string{"Profile picture", "uploaded"})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title: "Account",
		Rows:  rows,
	}))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Title: "Settings",
		Rows: [][]string{
			{"Theme", env.cfg.Appearance.Theme},
			{"Currency", env.cfg.Appearance.CurrencySymbol},
			{"Trend view", env.cfg.Dashboard.TrendView},
		},
	}))
	fmt.Printf("  %s\n", cli.RenderMuted("Edit "+config.Path()+" to change settings"))

	return nil
}

func runProfileAvatar(_ *cobra.Command, args []string) error {
	env, err := requireSession()
	if err != nil {
		return err
	}

	ctx, cancel := cmdCtx()
	defer cancel()

	if err := env.client.UpdateAvatar(ctx, api.Avatar{Emoji: args[0]}); err != nil {
		return friendlyErr(err)
	}
	fmt.Printf("Avatar set to %s\n", args[0])
	return nil
}
