package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Tiliavir/chronos-timereg/internal/chronos"
	"github.com/Tiliavir/chronos-timereg/internal/storage"
)

var loginEmployeeID string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the Chronos backend",
	Long: `Log in with your employee id and password. The password is read
without echo; the resulting token is stored in ~/.chronos/auth/token.json.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored login",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	loginCmd.Flags().StringVar(&loginEmployeeID, "employee-id", "", "Employee id (prompted when omitted)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		fail(err)
	}

	in := bufio.NewReader(os.Stdin)
	employeeID := strings.TrimSpace(loginEmployeeID)
	if employeeID == "" {
		fmt.Print("Employee id: ")
		line, _ := in.ReadString('\n')
		employeeID = strings.TrimSpace(line)
	}
	if employeeID == "" {
		fail(usageErrorf("an employee id is required"))
	}

	password, err := readPassword(in)
	if err != nil {
		fail(fmt.Errorf("reading password: %w", err))
	}

	tok, err := chronos.Login(cmd.Context(), apiConfig(cfg), employeeID, password)
	if err != nil {
		fail(err)
	}

	path, err := chronos.TokenFilePath()
	if err != nil {
		fail(err)
	}
	if err := chronos.SaveToken(path, tok); err != nil {
		fail(err)
	}

	if id, err := chronos.UserIDFromToken(tok.AccessToken); err == nil {
		fmt.Printf("Logged in as user %d.\n", id)
	} else if cfg.UserID != 0 {
		fmt.Printf("Logged in as user %d.\n", cfg.UserID)
	} else {
		fmt.Println("Logged in.")
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return nil
}

func readPassword(in *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Print("Password: ")
		b, err := term.ReadPassword(fd)
		fmt.Println()
		return string(b), err
	}
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	path, err := chronos.TokenFilePath()
	if err != nil {
		fail(err)
	}
	// Cached weeks belong to the user of the token being removed.
	if tok, err := chronos.LoadToken(path); err == nil && tok != nil {
		if id, err := chronos.UserIDFromToken(tok.AccessToken); err == nil {
			if err := storage.Clear(storage.BaseDir(), id); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
		}
	}
	if err := chronos.DeleteToken(path); err != nil {
		fail(err)
	}
	fmt.Println("Logged out.")
	return nil
}
