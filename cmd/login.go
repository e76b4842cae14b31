package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	flagUsername string
	flagPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and save the session token",
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the saved session",
	RunE:  runLogout,
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVarP(&flagUsername, "username", "u", "", "Account username")
		c.Flags().StringVarP(&flagPassword, "password", "p", "", "Account password (prompted if omitted)")
	}
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd)
}

// promptCredentials fills in whichever of username/password wasn't passed
// as a flag.
func promptCredentials() (string, string, error) {
	username := strings.TrimSpace(flagUsername)
	password := flagPassword

	var fields []huh.Field
	if username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			CharLimit(64).
			Value(&username))
	}
	if password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			CharLimit(128).
			Value(&password))
	}
	if len(fields) > 0 {
		if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
			return "", "", err
		}
	}

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", "", errors.New("username and password are required")
	}
	return username, password, nil
}

func runLogin(_ *cobra.Command, _ []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}

	username, password, err := promptCredentials()
	if err != nil {
		return err
	}

	ctx, cancel := cmdCtx()
	defer cancel()

	res := env.store.Login(ctx, username, password)
	if !res.OK {
		return errors.New(res.Err)
	}

	sess, _ := env.store.Current()
	fmt.Printf("  Signed in as %s (session valid until %s)\n",
		sess.Username, sess.TokenExpiry.Format("Jan 2 15:04"))
	return nil
}

func runRegister(_ *cobra.Command, _ []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}

	username, password, err := promptCredentials()
	if err != nil {
		return err
	}

	ctx, cancel := cmdCtx()
	defer cancel()

	if res := env.store.Register(ctx, username, password); !res.OK {
		return errors.New(res.Err)
	}
	fmt.Printf("  Account %s created.\n", username)

	// Sign in right away so the first command after register just works
	if res := env.store.Login(ctx, username, password); !res.OK {
		fmt.Println("  Run `smartbudget login` to sign in.")
		return nil
	}
	fmt.Println("  Signed in.")
	return nil
}

func runLogout(_ *cobra.Command, _ []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	env.store.Logout()
	fmt.Println("  Signed out.")
	return nil
}
